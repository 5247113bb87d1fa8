package services

import (
	"context"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stagebook/stagebook-api/internal/repository"
	"github.com/stagebook/stagebook-api/pkg/logger"
)

// Commission rates by tier
const (
	commissionRateFree = 0.15
	commissionRatePro  = 0.08
)

// PerformerService owns performer approval status and subscription tier
type PerformerService struct {
	repo     repository.PerformerRepository
	auditSvc *AuditService
}

// NewPerformerService creates a new performer service
func NewPerformerService(repo repository.PerformerRepository, auditSvc *AuditService) *PerformerService {
	return &PerformerService{repo: repo, auditSvc: auditSvc}
}

// Get returns a performer by id
func (s *PerformerService) Get(ctx context.Context, id uint) (*models.Performer, error) {
	return s.repo.FindByID(ctx, id)
}

// ChangeStatus moves a performer between pending/approved/suspended and
// audits the transition.
func (s *PerformerService) ChangeStatus(ctx context.Context, performerID uint, newStatus string, req RequestInfo) (*models.Performer, error) {
	switch newStatus {
	case models.PerformerStatusPending, models.PerformerStatusApproved, models.PerformerStatusSuspended:
	default:
		return nil, ErrInvalidState
	}

	performer, err := s.repo.FindByID(ctx, performerID)
	if err != nil {
		return nil, err
	}

	oldStatus := performer.Status
	if err := s.repo.UpdateStatus(ctx, performerID, newStatus); err != nil {
		return nil, err
	}
	performer.Status = newStatus

	if _, err := s.auditSvc.LogPerformerStatusChanged(ctx, performerID, oldStatus, newStatus, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityPerformer, "action", models.ActionStatusChanged, "error", err)
	}
	return performer, nil
}

// ChangeTier flips a performer between the free and pro tiers, adjusting the
// commission rate with it.
func (s *PerformerService) ChangeTier(ctx context.Context, performerID uint, tier string) (*models.Performer, error) {
	var rate float64
	switch tier {
	case models.TierFree:
		rate = commissionRateFree
	case models.TierPro:
		rate = commissionRatePro
	default:
		return nil, ErrInvalidTier
	}

	performer, err := s.repo.FindByID(ctx, performerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTier(ctx, performerID, tier, rate); err != nil {
		return nil, err
	}
	performer.Tier = tier
	performer.CommissionRate = rate
	return performer, nil
}
