package repository

import (
	"context"
	"errors"

	"maeul/internal/cache"
	"maeul/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users and their profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CreateWithDefaults(ctx context.Context, user *models.User, profile *models.Profile) error
	GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetProfileByUrlname(ctx context.Context, urlname string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	ChangeUrlname(ctx context.Context, userID uint, urlname string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// CreateWithDefaults creates a user, their profile, and the protected board
// category in a single transaction. A partially-created account never exists.
func (r *userRepository) CreateWithDefaults(ctx context.Context, user *models.User, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		board := &models.Category{UserID: user.ID, Name: models.BoardCategoryName}
		return tx.Create(board).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *userRepository) GetProfileByUrlname(ctx context.Context, urlname string) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(urlname)

	err := cache.CacheAside(ctx, key, &profile, cache.ProfileTTL, func() error {
		if err := r.db.WithContext(ctx).Where("urlname = ?", urlname).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Profile", urlname)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.Urlname)
	return nil
}

// ChangeUrlname flips the blog address exactly once. The edit counter gate
// lives in the WHERE clause so two concurrent changes cannot both pass.
func (r *userRepository) ChangeUrlname(ctx context.Context, userID uint, urlname string) error {
	var old models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&old).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Profile", userID)
		}
		return models.NewInternalError(err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ? AND urlname_edit_count = 0", userID).
		Updates(map[string]interface{}{
			"urlname":            urlname,
			"urlname_edit_count": gorm.Expr("urlname_edit_count + 1"),
		})
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return models.NewValidationError("Blog address is already taken")
		}
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewValidationError("Blog address can only be changed once")
	}

	cache.InvalidateProfile(ctx, old.Urlname)
	return nil
}
