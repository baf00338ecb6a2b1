package repository

import (
	"context"
	"errors"
	"time"

	"maeul/internal/cache"
	"maeul/internal/models"

	"gorm.io/gorm"
)

// ListScope narrows a visible-posts query. Filter composition rules
// (category requires an owner, keyword stands alone) are enforced by the
// service layer before the scope reaches here.
type ListScope struct {
	OwnerID    uint
	CategoryID uint
	PostID     uint
	Keyword    string
	ExcludeOwn bool
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, viewerID uint, scope ListScope, limit, offset int) ([]models.Post, error)
	ListMine(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	ListDrafts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	RecentMine(ctx context.Context, userID uint, limit int) ([]models.Post, error)
	NeighborFeed(ctx context.Context, viewerID uint, since time.Time, limit, offset int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	ReplaceContent(ctx context.Context, postID uint, texts []models.PostText, images []models.PostImage) error
	Delete(ctx context.Context, id uint) error
	RecountPost(ctx context.Context, postID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	// Texts and Images ride along as associations inside one transaction.
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Profile").
		Preload("Category").
		Preload("Texts").
		Preload("Images").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// visibleScope restricts a query to published posts the viewer may read:
// everyone-posts, the viewer's own, and mutual-posts of accepted neighbors.
func (r *postRepository) visibleScope(db *gorm.DB, viewerID uint) *gorm.DB {
	db = db.Where("posts.status = ?", models.PostStatusPublished)
	if viewerID == 0 {
		return db.Where("posts.visibility = ?", models.VisibilityEveryone)
	}
	return db.Where(
		"posts.visibility = ? OR posts.user_id = ? OR (posts.visibility = ? AND posts.user_id IN (?))",
		models.VisibilityEveryone,
		viewerID,
		models.VisibilityMutual,
		mutualNeighborIDs(r.db, viewerID),
	)
}

func (r *postRepository) List(ctx context.Context, viewerID uint, scope ListScope, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	q := r.visibleScope(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("User").
		Preload("User.Profile").
		Preload("Category").
		Preload("Images")

	if scope.OwnerID != 0 {
		q = q.Where("posts.user_id = ?", scope.OwnerID)
	}
	if scope.CategoryID != 0 {
		q = q.Where("posts.category_id = ?", scope.CategoryID)
	}
	if scope.PostID != 0 {
		q = q.Where("posts.id = ?", scope.PostID)
	}
	if scope.Keyword != "" {
		q = q.Where("posts.keyword = ?", scope.Keyword)
	}
	if scope.ExcludeOwn && viewerID != 0 {
		q = q.Where("posts.user_id != ?", viewerID)
	}

	err := q.Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListMine(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListDrafts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("user_id = ? AND status = ?", userID, models.PostStatusDraft).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) RecentMine(ctx context.Context, userID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("user_id = ? AND status = ?", userID, models.PostStatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// NeighborFeed lists recent posts from the viewer's mutual neighbors.
func (r *postRepository) NeighborFeed(ctx context.Context, viewerID uint, since time.Time, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.visibleScope(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("User").
		Preload("User.Profile").
		Preload("Category").
		Preload("Images").
		Where("posts.user_id IN (?)", mutualNeighborIDs(r.db, viewerID)).
		Where("posts.created_at >= ?", since).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// ReplaceContent swaps a post's text blocks and images in one transaction.
// A concurrent reader never observes the post with its fragments missing.
func (r *postRepository) ReplaceContent(ctx context.Context, postID uint, texts []models.PostText, images []models.PostImage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostText{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		for i := range texts {
			texts[i].ID = 0
			texts[i].PostID = postID
		}
		for i := range images {
			images[i].ID = 0
			images[i].PostID = postID
		}
		if len(texts) > 0 {
			if err := tx.Create(&texts).Error; err != nil {
				return err
			}
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// RecountPost recomputes the denormalized counters from source rows. The
// increments co-located with heart/comment mutations keep them correct in
// the normal path; this is the consistency check for everything else.
func (r *postRepository) RecountPost(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var likeCount int64
		if err := tx.Model(&models.Heart{}).Where("post_id = ?", postID).Count(&likeCount).Error; err != nil {
			return err
		}
		var commentCount int64
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&commentCount).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Updates(map[string]interface{}{
				"like_count":    likeCount,
				"comment_count": commentCount,
			}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}
