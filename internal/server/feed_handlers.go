package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetActivity handles GET /api/activity: what my neighbors did lately.
func (s *Server) GetActivity(c *fiber.Ctx) error {
	userID := currentUserID(c)

	events, err := s.feedSvc.LatestActivity(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"events": events})
}

// GetNews handles GET /api/news: what happened on my blog lately.
func (s *Server) GetNews(c *fiber.Ctx) error {
	userID := currentUserID(c)

	events, err := s.feedSvc.LatestNews(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"events": events})
}
