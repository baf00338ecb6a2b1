package repository

import (
	"context"
	"fmt"
	"testing"

	"maeul/internal/database"
	"maeul/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// createTestUser inserts a user with a profile and a board category, the
// same shape signup produces.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed-password",
	}
	profile := &models.Profile{
		DisplayName: username,
		BlogName:    fmt.Sprintf("%s의 블로그", username),
		Urlname:     username,
	}
	repo := NewUserRepository(db)
	require.NoError(t, repo.CreateWithDefaults(context.Background(), user, profile))
	return user
}

func boardOf(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	board, err := NewCategoryRepository(db).GetBoard(context.Background(), userID)
	require.NoError(t, err)
	return board
}

func createTestPost(t *testing.T, db *gorm.DB, user *models.User, title string, status models.PostStatus, visibility models.PostVisibility) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:     user.ID,
		CategoryID: boardOf(t, db, user.ID).ID,
		Title:      title,
		Content:    "본문",
		Subject:    models.DefaultSubject,
		Status:     status,
		Visibility: visibility,
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

// makeNeighbors creates an accepted relation from a to b.
func makeNeighbors(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()
	neighbor := &models.Neighbor{
		FromUserID: a.ID,
		ToUserID:   b.ID,
		Message:    "이웃해요",
		Status:     models.NeighborStatusAccepted,
	}
	require.NoError(t, db.Create(neighbor).Error)
}
