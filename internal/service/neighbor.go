package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"maeul/internal/models"
	"maeul/internal/repository"
)

const maxNeighborMessageLength = 100

// NeighborService implements the neighbor request state machine. A request
// is pending until the receiver accepts or rejects it; both outcomes are
// terminal, a rejected pair starts over with a fresh request.
type NeighborService struct {
	neighbors repository.NeighborRepository
	users     repository.UserRepository
}

// NewNeighborService returns a new NeighborService.
func NewNeighborService(neighbors repository.NeighborRepository, users repository.UserRepository) *NeighborService {
	return &NeighborService{neighbors: neighbors, users: users}
}

// Request sends a neighbor request from fromID to toID.
func (s *NeighborService) Request(ctx context.Context, fromID, toID uint, message string) (*models.Neighbor, error) {
	if fromID == toID {
		return nil, models.NewValidationError("You cannot send a neighbor request to yourself")
	}
	if utf8.RuneCountInString(message) > maxNeighborMessageLength {
		return nil, models.NewValidationError(fmt.Sprintf("Message cannot exceed %d characters", maxNeighborMessageLength))
	}
	if _, err := s.users.GetByID(ctx, toID); err != nil {
		return nil, err
	}

	existing, err := s.neighbors.GetBetween(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.NeighborStatusAccepted:
			return nil, models.NewStateError("You are already neighbors")
		case models.NeighborStatusPending:
			return nil, models.NewStateError("A neighbor request is already pending")
		case models.NeighborStatusRejected:
			// A rejected pair may try again; the old row makes way.
			if err := s.neighbors.DeleteByID(ctx, existing.ID); err != nil {
				return nil, err
			}
		}
	}

	neighbor := &models.Neighbor{
		FromUserID: fromID,
		ToUserID:   toID,
		Message:    message,
		Status:     models.NeighborStatusPending,
	}
	if err := s.neighbors.Create(ctx, neighbor); err != nil {
		return nil, err
	}
	return neighbor, nil
}

// Accept settles a pending request addressed to userID.
func (s *NeighborService) Accept(ctx context.Context, userID, requestID uint) error {
	return s.settle(ctx, userID, requestID, models.NeighborStatusAccepted)
}

// Reject settles a pending request addressed to userID.
func (s *NeighborService) Reject(ctx context.Context, userID, requestID uint) error {
	return s.settle(ctx, userID, requestID, models.NeighborStatusRejected)
}

func (s *NeighborService) settle(ctx context.Context, userID, requestID uint, status models.NeighborStatus) error {
	request, err := s.neighbors.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	// Only the receiver can answer; others cannot tell the request exists.
	if request.ToUserID != userID {
		return models.NewNotFoundError("Neighbor request", requestID)
	}
	if request.IsSettled() {
		return models.NewStateError("This neighbor request has already been answered")
	}
	return s.neighbors.UpdateStatus(ctx, requestID, status)
}

// ReceivedRequests lists pending requests addressed to userID.
func (s *NeighborService) ReceivedRequests(ctx context.Context, userID uint) ([]models.Neighbor, error) {
	return s.neighbors.ListPending(ctx, userID)
}

// SentRequests lists pending requests userID has sent.
func (s *NeighborService) SentRequests(ctx context.Context, userID uint) ([]models.Neighbor, error) {
	return s.neighbors.ListSent(ctx, userID)
}

// Neighbors lists userID's mutual neighbors.
func (s *NeighborService) Neighbors(ctx context.Context, userID uint) ([]models.User, error) {
	return s.neighbors.ListNeighbors(ctx, userID)
}

// Remove severs the relation between userID and otherID, whichever side
// created it.
func (s *NeighborService) Remove(ctx context.Context, userID, otherID uint) error {
	return s.neighbors.RemoveBetween(ctx, userID, otherID)
}
