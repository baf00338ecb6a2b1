package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"maeul/internal/config"
	"maeul/internal/database"
	"maeul/internal/models"
	"maeul/internal/repository"
	"maeul/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires a Server over an in-memory sqlite database without
// the metrics middleware, which registers global Prometheus collectors.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	s := &Server{
		config: &config.Config{JWTSecret: "handler-test-secret-at-least-32-chars"},
		db:     db,
	}
	s.userRepo = repository.NewUserRepository(db)
	s.categoryRepo = repository.NewCategoryRepository(db)
	s.postRepo = repository.NewPostRepository(db)
	s.commentRepo = repository.NewCommentRepository(db)
	s.heartRepo = repository.NewHeartRepository(db)
	s.neighborRepo = repository.NewNeighborRepository(db)
	s.feedRepo = repository.NewFeedRepository(db)

	s.visibilitySvc = service.NewVisibilityService(s.neighborRepo)
	s.postSvc = service.NewPostService(s.postRepo, s.userRepo, s.categoryRepo, s.visibilitySvc, nil)
	s.commentSvc = service.NewCommentService(s.commentRepo, s.postRepo, s.visibilitySvc)
	s.heartSvc = service.NewHeartService(s.heartRepo, s.postRepo, s.commentRepo, s.visibilitySvc)
	s.neighborSvc = service.NewNeighborService(s.neighborRepo, s.userRepo)
	s.categorySvc = service.NewCategoryService(s.categoryRepo, s.userRepo)
	s.profileSvc = service.NewProfileService(s.userRepo)
	s.feedSvc = service.NewFeedService(s.feedRepo)

	return s
}

// createHandlerUser persists a user with profile and board, bypassing HTTP.
func createHandlerUser(t *testing.T, s *Server, username string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	profile := &models.Profile{
		DisplayName: username,
		Urlname:     username,
	}
	require.NoError(t, s.userRepo.CreateWithDefaults(context.Background(), user, profile))
	return user
}

// asUser returns a middleware that stamps the request with the given user.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
