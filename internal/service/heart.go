package service

import (
	"context"

	"maeul/internal/cache"
	"maeul/internal/models"
	"maeul/internal/repository"
)

// HeartService implements the like toggles on posts and comments.
type HeartService struct {
	hearts     repository.HeartRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	visibility *VisibilityService
}

// NewHeartService returns a new HeartService.
func NewHeartService(
	hearts repository.HeartRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	visibility *VisibilityService,
) *HeartService {
	return &HeartService{hearts: hearts, posts: posts, comments: comments, visibility: visibility}
}

// TogglePostHeart flips the caller's heart on a visible published post and
// returns the resulting state and like count.
func (s *HeartService) TogglePostHeart(ctx context.Context, userID, postID uint) (bool, int, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	if err := s.visibility.RequireViewPost(ctx, userID, post); err != nil {
		return false, 0, err
	}
	if post.Status != models.PostStatusPublished {
		return false, 0, models.NewStateError("Drafts cannot be liked")
	}

	liked, count, err := s.hearts.TogglePostHeart(ctx, userID, postID)
	if err != nil {
		return false, 0, err
	}
	cache.InvalidateFeeds(ctx, post.UserID)
	cache.InvalidateFeeds(ctx, userID)
	return liked, count, nil
}

// loadHeartableComment resolves a comment the caller may interact with.
// Private comments take hearts only from viewers allowed to read them.
func (s *HeartService) loadHeartableComment(ctx context.Context, userID, postID, commentID uint) (*models.Comment, *models.Post, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}
	if comment.PostID != postID {
		return nil, nil, models.NewNotFoundError("Comment", commentID)
	}
	post, err := s.posts.GetByID(ctx, comment.PostID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.visibility.RequireViewPost(ctx, userID, post); err != nil {
		return nil, nil, err
	}
	if comment.IsDeleted() {
		return nil, nil, models.NewStateError("A deleted comment cannot be liked")
	}
	if comment.IsPrivate {
		parentAuthorID := comment.UserID
		if comment.ParentID != nil {
			parent, err := s.comments.GetByID(ctx, *comment.ParentID)
			if err == nil {
				parentAuthorID = parent.UserID
			}
		}
		if !canReadPrivate(userID, comment, post, parentAuthorID) {
			return nil, nil, models.NewNotFoundError("Comment", commentID)
		}
	}
	return comment, post, nil
}

// ToggleCommentHeart flips the caller's heart on a comment and returns the
// resulting state and heart count.
func (s *HeartService) ToggleCommentHeart(ctx context.Context, userID, postID, commentID uint) (bool, int64, error) {
	comment, _, err := s.loadHeartableComment(ctx, userID, postID, commentID)
	if err != nil {
		return false, 0, err
	}

	liked, err := s.hearts.ToggleCommentHeart(ctx, userID, commentID)
	if err != nil {
		return false, 0, err
	}
	cache.InvalidateFeeds(ctx, comment.UserID)
	cache.InvalidateFeeds(ctx, userID)

	count, err := s.hearts.CountCommentHearts(ctx, commentID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// CommentHeartCount returns the heart count of a comment and whether the
// viewer has hearted it.
func (s *HeartService) CommentHeartCount(ctx context.Context, viewerID, postID, commentID uint) (int64, bool, error) {
	_, _, err := s.loadHeartableComment(ctx, viewerID, postID, commentID)
	if err != nil {
		return 0, false, err
	}
	count, err := s.hearts.CountCommentHearts(ctx, commentID)
	if err != nil {
		return 0, false, err
	}
	liked := false
	if viewerID != 0 {
		liked, err = s.hearts.HasCommentHeart(ctx, viewerID, commentID)
		if err != nil {
			return 0, false, err
		}
	}
	return count, liked, nil
}
