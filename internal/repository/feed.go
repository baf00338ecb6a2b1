package repository

import (
	"context"

	"maeul/internal/models"

	"gorm.io/gorm"
)

// FeedRepository fetches the unread source rows the feed service merges
// into activity and news events. Each query is capped at limit, the
// service sorts the merged set and cuts it down again.
type FeedRepository interface {
	UnreadPostHeartsBy(ctx context.Context, userID uint, limit int) ([]models.Heart, error)
	UnreadCommentHeartsBy(ctx context.Context, userID uint, limit int) ([]models.CommentHeart, error)
	UnreadCommentsBy(ctx context.Context, userID uint, limit int) ([]models.Comment, error)
	UnreadRepliesBy(ctx context.Context, userID uint, limit int) ([]models.Comment, error)
	UnreadCommentsOnPostsOf(ctx context.Context, ownerID uint, limit int) ([]models.Comment, error)
	UnreadHeartsOnPostsOf(ctx context.Context, ownerID uint, limit int) ([]models.Heart, error)
	UnreadRepliesToCommentsOf(ctx context.Context, authorID uint, limit int) ([]models.Comment, error)
}

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository returns a new FeedRepository implementation.
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) UnreadPostHeartsBy(ctx context.Context, userID uint, limit int) ([]models.Heart, error) {
	var hearts []models.Heart
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.User.Profile").
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&hearts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return hearts, nil
}

func (r *feedRepository) UnreadCommentHeartsBy(ctx context.Context, userID uint, limit int) ([]models.CommentHeart, error) {
	var hearts []models.CommentHeart
	err := r.db.WithContext(ctx).
		Preload("Comment").
		Preload("Comment.Post").
		Preload("Comment.Post.User").
		Preload("Comment.Post.User.Profile").
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&hearts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return hearts, nil
}

func (r *feedRepository) UnreadCommentsBy(ctx context.Context, userID uint, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.User.Profile").
		Where("user_id = ? AND is_parent = ? AND is_read = ?", userID, true, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *feedRepository) UnreadRepliesBy(ctx context.Context, userID uint, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.User.Profile").
		Where("user_id = ? AND is_parent = ? AND is_read = ?", userID, false, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// UnreadCommentsOnPostsOf lists fresh top-level comments other users left
// on the owner's posts. The owner's own comments never show up in news.
func (r *feedRepository) UnreadCommentsOnPostsOf(ctx context.Context, ownerID uint, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.User.Profile").
		Preload("User").
		Where("post_id IN (?) AND user_id != ? AND is_parent = ? AND is_read = ?",
			r.postIDsOf(ownerID), ownerID, true, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *feedRepository) UnreadHeartsOnPostsOf(ctx context.Context, ownerID uint, limit int) ([]models.Heart, error) {
	var hearts []models.Heart
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.User.Profile").
		Preload("User").
		Where("post_id IN (?) AND user_id != ? AND is_read = ?",
			r.postIDsOf(ownerID), ownerID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&hearts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return hearts, nil
}

// UnreadRepliesToCommentsOf lists fresh replies other users left under the
// author's comments, wherever those comments live.
func (r *feedRepository) UnreadRepliesToCommentsOf(ctx context.Context, authorID uint, limit int) ([]models.Comment, error) {
	parentIDs := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Comment{}).
		Select("id").
		Where("user_id = ? AND is_parent = ?", authorID, true)

	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.User.Profile").
		Preload("User").
		Where("parent_id IN (?) AND user_id != ? AND is_read = ?",
			parentIDs, authorID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *feedRepository) postIDsOf(ownerID uint) *gorm.DB {
	return r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Post{}).
		Select("id").
		Where("user_id = ?", ownerID)
}
