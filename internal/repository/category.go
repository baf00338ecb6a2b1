package repository

import (
	"context"
	"errors"

	"maeul/internal/cache"
	"maeul/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for post categories.
type CategoryRepository interface {
	ListByUserID(ctx context.Context, userID uint) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBoard(ctx context.Context, userID uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	DeleteWithFallback(ctx context.Context, category *models.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListByUserID(ctx context.Context, userID uint) ([]models.Category, error) {
	var categories []models.Category
	key := cache.CategoryListKey(userID)

	err := cache.CacheAside(ctx, key, &categories, cache.CategoryListTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(&categories).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBoard(ctx context.Context, userID uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, models.BoardCategoryName).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", models.BoardCategoryName)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Category already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx, category.UserID)
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Category already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx, category.UserID)
	return nil
}

// DeleteWithFallback removes a category and moves its posts to the owner's
// board category in the same transaction. Posts never become categoryless.
func (r *categoryRepository) DeleteWithFallback(ctx context.Context, category *models.Category) error {
	if category.IsBoard() {
		return models.NewStateError("The board category cannot be deleted")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board models.Category
		if err := tx.
			Where("user_id = ? AND name = ?", category.UserID, models.BoardCategoryName).
			First(&board).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", category.ID).
			Update("category_id", board.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, category.ID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx, category.UserID)
	return nil
}
