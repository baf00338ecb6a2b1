package server

import (
	"maeul/internal/models"
	"maeul/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultPostPageSize = 20

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var input service.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc.CreatePost(c.Context(), userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts. Without filters it is the general feed;
// ?urlname= scopes to one blog, ?category= narrows inside that blog, and
// ?keyword= browses by keyword on its own.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)
	pagination := parsePagination(c, defaultPostPageSize)

	filters := service.PostFilters{
		Urlname:    c.Query("urlname"),
		CategoryID: uint(c.QueryInt("category", 0)),
		PostID:     uint(c.QueryInt("pk", 0)),
		Keyword:    c.Query("keyword"),
	}

	posts, err := s.postSvc.ListPosts(c.Context(), viewerID, filters, pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  pagination.Limit,
		"offset": pagination.Offset,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postSvc.GetPost(c.Context(), viewerID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetMyPosts handles GET /api/posts/mine
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pagination := parsePagination(c, defaultPostPageSize)

	posts, err := s.postSvc.MyPosts(c.Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  pagination.Limit,
		"offset": pagination.Offset,
	})
}

// GetMyRecentPosts handles GET /api/posts/mine/recent
func (s *Server) GetMyRecentPosts(c *fiber.Ctx) error {
	userID := currentUserID(c)

	posts, err := s.postSvc.MyRecentPosts(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetMyDrafts handles GET /api/posts/drafts
func (s *Server) GetMyDrafts(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pagination := parsePagination(c, defaultPostPageSize)

	posts, err := s.postSvc.MyDrafts(c.Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  pagination.Limit,
		"offset": pagination.Offset,
	})
}

// GetNeighborFeed handles GET /api/posts/neighbors
func (s *Server) GetNeighborFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pagination := parsePagination(c, defaultPostPageSize)

	posts, err := s.postSvc.NeighborFeed(c.Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  pagination.Limit,
		"offset": pagination.Offset,
	})
}

// UpdatePost handles PATCH /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var input service.UpdatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc.UpdatePost(c.Context(), userID, postID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.postSvc.DeletePost(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}
