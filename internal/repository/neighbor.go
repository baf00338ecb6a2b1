package repository

import (
	"context"
	"errors"

	"maeul/internal/models"

	"gorm.io/gorm"
)

// NeighborRepository defines persistence operations for neighbor relations.
type NeighborRepository interface {
	Create(ctx context.Context, neighbor *models.Neighbor) error
	GetByID(ctx context.Context, id uint) (*models.Neighbor, error)
	GetBetween(ctx context.Context, userA, userB uint) (*models.Neighbor, error)
	ListPending(ctx context.Context, toUserID uint) ([]models.Neighbor, error)
	ListSent(ctx context.Context, fromUserID uint) ([]models.Neighbor, error)
	UpdateStatus(ctx context.Context, id uint, status models.NeighborStatus) error
	DeleteByID(ctx context.Context, id uint) error
	RemoveBetween(ctx context.Context, userA, userB uint) error
	AreMutual(ctx context.Context, userA, userB uint) (bool, error)
	ListNeighbors(ctx context.Context, userID uint) ([]models.User, error)
}

type neighborRepository struct {
	db *gorm.DB
}

// NewNeighborRepository returns a new NeighborRepository implementation.
func NewNeighborRepository(db *gorm.DB) NeighborRepository {
	return &neighborRepository{db: db}
}

// mutualNeighborIDs builds a subquery selecting the IDs of every user in an
// accepted neighbor relation with userID, whichever side sent the request.
func mutualNeighborIDs(db *gorm.DB, userID uint) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Neighbor{}).
		Select("CASE WHEN from_user_id = ? THEN to_user_id ELSE from_user_id END", userID).
		Where("status = ? AND (from_user_id = ? OR to_user_id = ?)",
			models.NeighborStatusAccepted, userID, userID)
}

func (r *neighborRepository) Create(ctx context.Context, neighbor *models.Neighbor) error {
	if err := r.db.WithContext(ctx).Create(neighbor).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewStateError("A neighbor request already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *neighborRepository) GetByID(ctx context.Context, id uint) (*models.Neighbor, error) {
	var neighbor models.Neighbor
	if err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("FromUser.Profile").
		Preload("ToUser").
		Preload("ToUser.Profile").
		First(&neighbor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Neighbor request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &neighbor, nil
}

// GetBetween finds the relation row between two users regardless of which
// side initiated it. Returns (nil, nil) when no row exists.
func (r *neighborRepository) GetBetween(ctx context.Context, userA, userB uint) (*models.Neighbor, error) {
	var neighbor models.Neighbor
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA).
		First(&neighbor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &neighbor, nil
}

func (r *neighborRepository) ListPending(ctx context.Context, toUserID uint) ([]models.Neighbor, error) {
	var neighbors []models.Neighbor
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("FromUser.Profile").
		Where("to_user_id = ? AND status = ?", toUserID, models.NeighborStatusPending).
		Order("created_at DESC").
		Find(&neighbors).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return neighbors, nil
}

func (r *neighborRepository) ListSent(ctx context.Context, fromUserID uint) ([]models.Neighbor, error) {
	var neighbors []models.Neighbor
	err := r.db.WithContext(ctx).
		Preload("ToUser").
		Preload("ToUser.Profile").
		Where("from_user_id = ? AND status = ?", fromUserID, models.NeighborStatusPending).
		Order("created_at DESC").
		Find(&neighbors).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return neighbors, nil
}

func (r *neighborRepository) UpdateStatus(ctx context.Context, id uint, status models.NeighborStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Neighbor{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Neighbor request", id)
	}
	return nil
}

func (r *neighborRepository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Neighbor{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *neighborRepository) RemoveBetween(ctx context.Context, userA, userB uint) error {
	result := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA).
		Delete(&models.Neighbor{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Neighbor", userB)
	}
	return nil
}

func (r *neighborRepository) AreMutual(ctx context.Context, userA, userB uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Neighbor{}).
		Where("status = ? AND ((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))",
			models.NeighborStatusAccepted, userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *neighborRepository) ListNeighbors(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id IN (?)", mutualNeighborIDs(r.db, userID)).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
