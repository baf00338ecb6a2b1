package repository

import (
	"context"
	"time"

	"maeul/internal/cache"
	"maeul/internal/models"
	"maeul/internal/observability"

	"gorm.io/gorm"
)

// HeartRepository defines persistence operations for post and comment hearts.
type HeartRepository interface {
	TogglePostHeart(ctx context.Context, userID, postID uint) (bool, int, error)
	ToggleCommentHeart(ctx context.Context, userID, commentID uint) (bool, error)
	HasPostHeart(ctx context.Context, userID, postID uint) (bool, error)
	HasCommentHeart(ctx context.Context, userID, commentID uint) (bool, error)
	CountCommentHearts(ctx context.Context, commentID uint) (int64, error)
}

type heartRepository struct {
	db *gorm.DB
}

// NewHeartRepository returns a new HeartRepository implementation.
func NewHeartRepository(db *gorm.DB) HeartRepository {
	return &heartRepository{db: db}
}

// TogglePostHeart flips the viewer's heart on a post. The insert races
// through the unique constraint: exactly one of two concurrent toggles
// wins the insert, the other observes the existing row and removes it.
// Returns true when the post ends up hearted, plus the resulting like
// count read back inside the same transaction.
func (r *heartRepository) TogglePostHeart(ctx context.Context, userID, postID uint) (bool, int, error) {
	liked := false
	likeCount := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			"INSERT INTO hearts (user_id, post_id, is_read, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, post_id) DO NOTHING",
			userID, postID, false, time.Now(),
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			liked = true
			if err := tx.Model(&models.Post{}).
				Where("id = ?", postID).
				Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Heart{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).
				Where("id = ? AND like_count > 0", postID).
				Update("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Post{}).
			Select("like_count").
			Where("id = ?", postID).
			Scan(&likeCount).Error
	})
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}
	if liked {
		observability.HeartToggles.WithLabelValues("post", "like").Inc()
	} else {
		observability.HeartToggles.WithLabelValues("post", "unlike").Inc()
	}
	cache.InvalidatePost(ctx, postID)
	return liked, likeCount, nil
}

// ToggleCommentHeart flips the viewer's heart on a comment. Comments carry
// no denormalized counter, hearts are counted on read.
func (r *heartRepository) ToggleCommentHeart(ctx context.Context, userID, commentID uint) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			"INSERT INTO comment_hearts (user_id, comment_id, is_read, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, comment_id) DO NOTHING",
			userID, commentID, false, time.Now(),
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			liked = true
			return nil
		}
		return tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentHeart{}).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if liked {
		observability.HeartToggles.WithLabelValues("comment", "like").Inc()
	} else {
		observability.HeartToggles.WithLabelValues("comment", "unlike").Inc()
	}
	return liked, nil
}

func (r *heartRepository) HasPostHeart(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Heart{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *heartRepository) HasCommentHeart(ctx context.Context, userID, commentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentHeart{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *heartRepository) CountCommentHearts(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentHeart{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
