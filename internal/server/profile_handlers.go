package server

import (
	"maeul/internal/models"
	"maeul/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	profile, err := s.profileSvc.Me(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PATCH /api/profile/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileSvc.UpdateMe(c.Context(), userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// ChangeUrlname handles PATCH /api/profile/me/urlname. The blog address can
// be changed exactly once per account.
func (s *Server) ChangeUrlname(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Urlname string `json:"urlname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileSvc.ChangeUrlname(c.Context(), userID, req.Urlname)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetProfileByUrlname handles GET /api/profiles/:urlname
func (s *Server) GetProfileByUrlname(c *fiber.Ctx) error {
	urlname := c.Params("urlname")
	if urlname == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid urlname"))
	}

	profile, err := s.profileSvc.ByUrlname(c.Context(), urlname)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}
