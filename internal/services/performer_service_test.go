package services

import (
	"context"
	"testing"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock PerformerRepository
type mockPerformerRepository struct {
	mockFindByID func(ctx context.Context, id uint) (*models.Performer, error)
}

func (m *mockPerformerRepository) FindByID(ctx context.Context, id uint) (*models.Performer, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPerformerRepository) Create(ctx context.Context, performer *models.Performer) error {
	return nil
}

func (m *mockPerformerRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return nil
}

func (m *mockPerformerRepository) UpdateTier(ctx context.Context, id uint, tier string, commissionRate float64) error {
	return nil
}

func TestChangePerformerStatusAudited(t *testing.T) {
	repo := &mockPerformerRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Performer, error) {
			return &models.Performer{ID: id, Status: models.PerformerStatusPending}, nil
		},
	}
	auditRepo := newCapturingAuditRepo()
	svc := NewPerformerService(repo, NewAuditService(auditRepo))

	performer, err := svc.ChangeStatus(context.Background(), 3, models.PerformerStatusApproved, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, models.PerformerStatusApproved, performer.Status)

	require.Len(t, auditRepo.records, 1)
	record := auditRepo.records[0]
	assert.Equal(t, models.EntityPerformer, record.EntityType)
	assert.JSONEq(t, `{"status": "pending"}`, *record.OldValues)
	assert.JSONEq(t, `{"status": "approved"}`, *record.NewValues)
}

func TestChangePerformerStatusInvalid(t *testing.T) {
	svc := NewPerformerService(&mockPerformerRepository{}, NewAuditService(newCapturingAuditRepo()))

	_, err := svc.ChangeStatus(context.Background(), 3, "banned", RequestInfo{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestChangeTierAdjustsCommission(t *testing.T) {
	repo := &mockPerformerRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Performer, error) {
			return &models.Performer{ID: id, Tier: models.TierFree, CommissionRate: commissionRateFree}, nil
		},
	}
	auditRepo := newCapturingAuditRepo()
	svc := NewPerformerService(repo, NewAuditService(auditRepo))

	performer, err := svc.ChangeTier(context.Background(), 3, models.TierPro)
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, performer.Tier)
	assert.Equal(t, commissionRatePro, performer.CommissionRate)

	// Tier is a billing concern, not a compliance event.
	assert.Empty(t, auditRepo.records)
}

func TestChangeTierInvalid(t *testing.T) {
	svc := NewPerformerService(&mockPerformerRepository{}, NewAuditService(newCapturingAuditRepo()))

	_, err := svc.ChangeTier(context.Background(), 3, "platinum")
	assert.ErrorIs(t, err, ErrInvalidTier)
}
