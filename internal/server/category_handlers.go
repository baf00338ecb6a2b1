package server

import (
	"maeul/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetBlogCategories handles GET /api/categories?urlname=...
func (s *Server) GetBlogCategories(c *fiber.Ctx) error {
	urlname := c.Query("urlname")
	if urlname == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("urlname query parameter is required"))
	}

	categories, err := s.categorySvc.ListByUrlname(c.Context(), urlname)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"categories": categories})
}

// GetMyCategories handles GET /api/categories/mine
func (s *Server) GetMyCategories(c *fiber.Ctx) error {
	userID := currentUserID(c)

	categories, err := s.categorySvc.ListMine(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"categories": categories})
}

// GetMyCategory handles GET /api/categories/mine/:id
func (s *Server) GetMyCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	category, err := s.categorySvc.Get(c.Context(), userID, categoryID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(category)
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categorySvc.Create(c.Context(), userID, req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// RenameCategory handles PATCH /api/categories/:id
func (s *Server) RenameCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categorySvc.Rename(c.Context(), userID, categoryID, req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id. Posts filed under the
// category survive; they move to the owner's board.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.categorySvc.Delete(c.Context(), userID, categoryID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Category deleted"})
}
