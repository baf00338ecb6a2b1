package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"maeul/internal/models"
	"maeul/internal/repository"
)

const maxCategoryNameLength = 30

// CategoryService implements category management. Every account owns a
// protected board category that can be neither renamed nor deleted.
type CategoryService struct {
	categories repository.CategoryRepository
	users      repository.UserRepository
}

// NewCategoryService returns a new CategoryService.
func NewCategoryService(categories repository.CategoryRepository, users repository.UserRepository) *CategoryService {
	return &CategoryService{categories: categories, users: users}
}

func validateCategoryName(name string) error {
	if name == "" {
		return models.NewValidationError("Category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return models.NewValidationError(fmt.Sprintf("Category name cannot exceed %d characters", maxCategoryNameLength))
	}
	return nil
}

// ListMine lists the caller's categories.
func (s *CategoryService) ListMine(ctx context.Context, userID uint) ([]models.Category, error) {
	return s.categories.ListByUserID(ctx, userID)
}

// Get returns one of the caller's categories. A foreign category reads
// as missing.
func (s *CategoryService) Get(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, models.NewNotFoundError("Category", categoryID)
	}
	return category, nil
}

// ListByUrlname lists a blog's categories by its public address.
func (s *CategoryService) ListByUrlname(ctx context.Context, urlname string) ([]models.Category, error) {
	profile, err := s.users.GetProfileByUrlname(ctx, urlname)
	if err != nil {
		return nil, err
	}
	return s.categories.ListByUserID(ctx, profile.UserID)
}

func (s *CategoryService) Create(ctx context.Context, userID uint, name string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	category := &models.Category{UserID: userID, Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Rename(ctx context.Context, userID, categoryID uint, name string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, models.NewNotFoundError("Category", categoryID)
	}
	if category.IsBoard() {
		return nil, models.NewStateError("The board category cannot be renamed")
	}
	if name == models.BoardCategoryName {
		return nil, models.NewValidationError("This category name is reserved")
	}

	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category; its posts fall back to the owner's board.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uint) error {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return models.NewNotFoundError("Category", categoryID)
	}
	return s.categories.DeleteWithFallback(ctx, category)
}
