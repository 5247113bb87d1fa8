package repository

import (
	"context"

	"github.com/stagebook/stagebook-api/internal/models"
	"gorm.io/gorm"
)

// PerformerRepository defines the interface for performer profile data access
type PerformerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Performer, error)
	Create(ctx context.Context, performer *models.Performer) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateTier(ctx context.Context, id uint, tier string, commissionRate float64) error
}

type performerRepository struct {
	db *gorm.DB
}

// NewPerformerRepository creates a new performer repository
func NewPerformerRepository(db *gorm.DB) PerformerRepository {
	return &performerRepository{db: db}
}

func (r *performerRepository) FindByID(ctx context.Context, id uint) (*models.Performer, error) {
	var performer models.Performer
	if err := r.db.WithContext(ctx).First(&performer, id).Error; err != nil {
		return nil, err
	}
	return &performer, nil
}

func (r *performerRepository) Create(ctx context.Context, performer *models.Performer) error {
	return r.db.WithContext(ctx).Create(performer).Error
}

func (r *performerRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Performer{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateTier flips the subscription tier and the commission rate together
func (r *performerRepository) UpdateTier(ctx context.Context, id uint, tier string, commissionRate float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Performer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"tier": tier, "commission_rate": commissionRate}).Error
}
