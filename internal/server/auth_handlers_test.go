package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := fiber.New()
	app.Post("/signup", s.Signup)

	t.Run("creates account with profile defaults", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
			"username": "minsu",
			"email":    "minsu@example.com",
			"password": "password123",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
			User  struct {
				ID       uint   `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "minsu", body.User.Username)

		profile, err := s.userRepo.GetProfileByUrlname(req.Context(), "minsu")
		require.NoError(t, err)
		assert.Equal(t, body.User.ID, profile.UserID)

		board, err := s.categoryRepo.GetBoard(req.Context(), body.User.ID)
		require.NoError(t, err)
		assert.True(t, board.IsBoard())
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
			"username": "minsu2",
			"email":    "minsu@example.com",
			"password": "password123",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
			"username": "nopassword",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects invalid urlname", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
			"username": "withbadurl",
			"email":    "withbadurl@example.com",
			"password": "password123",
			"urlname":  "Bad Urlname!!",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := fiber.New()
	app.Post("/login", s.Login)

	createHandlerUser(t, s, "jiwoo")

	t.Run("valid credentials", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/login", map[string]string{
			"email":    "jiwoo@example.com",
			"password": "password123",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/login", map[string]string{
			"email":    "jiwoo@example.com",
			"password": "wrongpassword",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "password123",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := fiber.New()
	app.Post("/refresh", s.Refresh)

	user := createHandlerUser(t, s, "refresher")
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)

	t.Run("issues a new token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": currentUserID(c)})
	})

	user := createHandlerUser(t, s, "authuser")
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			UserID uint `json:"user_id"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, user.ID, body.UserID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
