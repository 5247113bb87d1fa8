package services

import (
	"context"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stagebook/stagebook-api/internal/repository"
	"github.com/stagebook/stagebook-api/pkg/logger"
)

// UserService owns user profile and role changes
type UserService struct {
	repo     repository.UserRepository
	auditSvc *AuditService
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepository, auditSvc *AuditService) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc}
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new user
func (s *UserService) Create(ctx context.Context, user *models.User) error {
	return s.repo.Create(ctx, user)
}

// ChangeRole assigns a new role to a user and audits the change when the
// new or previous role is one of the tracked marketplace roles.
func (s *UserService) ChangeRole(ctx context.Context, userID uint, newRole string, req RequestInfo) (*models.User, error) {
	switch newRole {
	case models.RoleAdministrator, models.RolePerformer, models.RoleCustomer:
	default:
		return nil, ErrInvalidRole
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldRoles := []string{user.Role}
	if err := s.repo.UpdateRole(ctx, userID, newRole); err != nil {
		return nil, err
	}
	user.Role = newRole

	if _, err := s.auditSvc.LogRoleChanged(ctx, userID, oldRoles, newRole, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityUser, "action", models.ActionRoleChanged, "error", err)
	}
	return user, nil
}
