package repository

import (
	"context"
	"time"

	"github.com/stagebook/stagebook-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository is the persistence contract for audit records.
// It is append-only: no update or single-row delete methods exist, and none
// should be added. DeleteOlderThan is the retention sweep only.
type AuditRepository interface {
	Create(ctx context.Context, record *models.AuditLog) error
	FindByEntity(ctx context.Context, entityType string, entityID uint, limit int) ([]models.AuditLog, error)
	FindRecent(ctx context.Context, limit int, entityType, action string) ([]models.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, record *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *auditRepository) FindByEntity(ctx context.Context, entityType string, entityID uint, limit int) ([]models.AuditLog, error) {
	var records []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *auditRepository) FindRecent(ctx context.Context, limit int, entityType, action string) ([]models.AuditLog, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var records []models.AuditLog
	err := query.Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *auditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
