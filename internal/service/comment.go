package service

import (
	"context"

	"maeul/internal/models"
	"maeul/internal/repository"
)

// CommentInput carries a new comment or reply.
type CommentInput struct {
	Content   string `json:"content"`
	IsPrivate bool   `json:"is_private"`
	ParentID  *uint  `json:"parent_id"`
}

// CommentService implements the one-level comment thread with private
// redaction and the two-mode delete.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	visibility *VisibilityService
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	visibility *VisibilityService,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, visibility: visibility}
}

// visiblePost loads the post behind a comment operation with the uniform
// not-found outcome for posts the viewer may not read.
func (s *CommentService) visiblePost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.RequireViewPost(ctx, viewerID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// canReadPrivate reports whether the viewer may read a private comment:
// the comment author, the post author, and the parent comment author.
func canReadPrivate(viewerID uint, comment *models.Comment, post *models.Post, parentAuthorID uint) bool {
	if viewerID == 0 {
		return false
	}
	return viewerID == comment.UserID || viewerID == post.UserID || viewerID == parentAuthorID
}

// ListComments returns the post's comment tree, parents with their replies
// nested, private contents redacted for unprivileged viewers.
func (s *CommentService) ListComments(ctx context.Context, viewerID, postID uint) ([]models.Comment, error) {
	post, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	flat, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorByID := make(map[uint]uint, len(flat))
	for _, c := range flat {
		authorByID[c.ID] = c.UserID
	}

	parents := make([]models.Comment, 0, len(flat))
	index := make(map[uint]int, len(flat))
	for _, c := range flat {
		if c.ParentID != nil {
			continue
		}
		if c.IsPrivate && !canReadPrivate(viewerID, &c, post, c.UserID) {
			c.Content = models.PrivateCommentPlaceholder
		}
		parents = append(parents, c)
		index[c.ID] = len(parents) - 1
	}
	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		i, ok := index[*c.ParentID]
		if !ok {
			continue
		}
		if c.IsPrivate && !canReadPrivate(viewerID, &c, post, authorByID[*c.ParentID]) {
			c.Content = models.PrivateCommentPlaceholder
		}
		parents[i].Replies = append(parents[i].Replies, c)
	}
	return parents, nil
}

func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, input CommentInput) (*models.Comment, error) {
	if input.Content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if _, err := s.visiblePost(ctx, userID, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   input.Content,
		IsPrivate: input.IsPrivate,
		IsParent:  input.ParentID == nil,
	}
	if input.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		// Threads are one level deep.
		if parent.ParentID != nil {
			return nil, models.NewValidationError("Replies to replies are not allowed")
		}
		comment.ParentID = &parent.ID
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, userID, postID, commentID uint, content string, isPrivate bool) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID || comment.UserID != userID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if comment.IsDeleted() {
		return nil, models.NewStateError("A deleted comment cannot be edited")
	}

	comment.Content = content
	comment.IsPrivate = isPrivate
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. The comment author and the post owner
// may delete. A parent that still has replies is soft-deleted in place so
// the thread survives; everything else is removed for real.
func (s *CommentService) DeleteComment(ctx context.Context, userID, postID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return models.NewNotFoundError("Comment", commentID)
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if userID != comment.UserID && userID != post.UserID {
		return models.NewNotFoundError("Comment", commentID)
	}

	if comment.ParentID == nil {
		hasReplies, err := s.comments.HasReplies(ctx, comment.ID)
		if err != nil {
			return err
		}
		if hasReplies {
			return s.comments.SoftDelete(ctx, comment)
		}
	}
	return s.comments.HardDelete(ctx, comment)
}
