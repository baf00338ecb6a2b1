package server

import (
	"maeul/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendNeighborRequest handles POST /api/neighbors/requests/:userId
func (s *Server) SendNeighborRequest(c *fiber.Ctx) error {
	toID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Message string `json:"message"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	neighbor, err := s.neighborSvc.Request(c.Context(), userID, toID, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(neighbor)
}

// GetReceivedNeighborRequests handles GET /api/neighbors/requests
func (s *Server) GetReceivedNeighborRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.neighborSvc.ReceivedRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

// GetSentNeighborRequests handles GET /api/neighbors/requests/sent
func (s *Server) GetSentNeighborRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.neighborSvc.SentRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

// AcceptNeighborRequest handles POST /api/neighbors/requests/:requestId/accept
func (s *Server) AcceptNeighborRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.neighborSvc.Accept(c.Context(), userID, requestID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Neighbor request accepted"})
}

// RejectNeighborRequest handles POST /api/neighbors/requests/:requestId/reject
func (s *Server) RejectNeighborRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.neighborSvc.Reject(c.Context(), userID, requestID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Neighbor request rejected"})
}

// GetNeighbors handles GET /api/neighbors
func (s *Server) GetNeighbors(c *fiber.Ctx) error {
	userID := currentUserID(c)

	neighbors, err := s.neighborSvc.Neighbors(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"neighbors": neighbors})
}

// RemoveNeighbor handles DELETE /api/neighbors/:userId. Either side of an
// accepted pair can sever it.
func (s *Server) RemoveNeighbor(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.neighborSvc.Remove(c.Context(), userID, otherID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Neighbor removed"})
}
