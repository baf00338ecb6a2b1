// Package service holds the domain rules between the HTTP handlers and the
// repositories: post visibility, the neighbor state machine, comment
// redaction, and the feed aggregators.
package service

import (
	"context"

	"maeul/internal/models"
	"maeul/internal/repository"
)

// VisibilityService decides whether a viewer may read a post. The rules
// apply in order: the author sees everything, "me" admits nobody else,
// "mutual" requires an accepted neighbor relation, "everyone" admits all.
type VisibilityService struct {
	neighbors repository.NeighborRepository
}

// NewVisibilityService returns a new VisibilityService.
func NewVisibilityService(neighbors repository.NeighborRepository) *VisibilityService {
	return &VisibilityService{neighbors: neighbors}
}

// CanViewPost reports whether viewerID may read the post. viewerID 0 is an
// anonymous viewer. Drafts are readable by the author alone.
func (s *VisibilityService) CanViewPost(ctx context.Context, viewerID uint, post *models.Post) (bool, error) {
	if viewerID == post.UserID {
		return true, nil
	}
	if post.Status != models.PostStatusPublished {
		return false, nil
	}
	switch post.Visibility {
	case models.VisibilityMe:
		return false, nil
	case models.VisibilityMutual:
		if viewerID == 0 {
			return false, nil
		}
		return s.neighbors.AreMutual(ctx, viewerID, post.UserID)
	default:
		return true, nil
	}
}

// RequireViewPost is CanViewPost with the uniform detail-endpoint outcome:
// a hidden post and a missing post are indistinguishable to the caller.
func (s *VisibilityService) RequireViewPost(ctx context.Context, viewerID uint, post *models.Post) error {
	ok, err := s.CanViewPost(ctx, viewerID, post)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}
