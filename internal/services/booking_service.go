package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stagebook/stagebook-api/internal/repository"
	"github.com/stagebook/stagebook-api/internal/statemachine"
	"github.com/stagebook/stagebook-api/pkg/logger"
)

// BookingService owns the booking lifecycle. Every sensitive transition is
// reported to the audit recorder; audit failures are logged and swallowed so
// they never abort the booking operation itself.
type BookingService struct {
	repo     repository.BookingRepository
	auditSvc *AuditService
}

// NewBookingService creates a new booking service
func NewBookingService(repo repository.BookingRepository, auditSvc *AuditService) *BookingService {
	return &BookingService{repo: repo, auditSvc: auditSvc}
}

// Create stores a new booking with a generated booking number and funds
// held in escrow, and audits the creation.
func (s *BookingService) Create(ctx context.Context, booking *models.Booking, req RequestInfo) error {
	if booking.TotalAmount <= 0 {
		return ErrInvalidAmount
	}

	booking.BookingNumber = generateBookingNumber()
	booking.BookingStatus = models.BookingStatusPending
	booking.EscrowStatus = models.EscrowStatusHeld

	if err := s.repo.Create(ctx, booking); err != nil {
		return err
	}

	if _, err := s.auditSvc.LogBookingCreated(ctx, booking, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityBooking, "action", models.ActionCreated, "error", err)
	}
	return nil
}

// Update applies a change map to a booking and audits the changed fields
// that pass the audit allowlist.
func (s *BookingService) Update(ctx context.Context, id uint, changes map[string]any, req RequestInfo) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyBookingChanges(booking, changes)
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if _, err := s.auditSvc.LogBookingUpdated(ctx, booking.ID, changes, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityBooking, "action", models.ActionUpdated, "error", err)
	}
	return booking, nil
}

// Confirm transitions a booking from pending to confirmed
func (s *BookingService) Confirm(ctx context.Context, id uint, req RequestInfo) (*models.Booking, error) {
	return s.transition(ctx, id, req, func(ctx context.Context, bfsm *statemachine.BookingFSM) error {
		return bfsm.Confirm(ctx)
	})
}

// Complete transitions a booking from confirmed to completed
func (s *BookingService) Complete(ctx context.Context, id uint, req RequestInfo) (*models.Booking, error) {
	return s.transition(ctx, id, req, func(ctx context.Context, bfsm *statemachine.BookingFSM) error {
		return bfsm.Complete(ctx)
	})
}

// Cancel transitions a booking to cancelled
func (s *BookingService) Cancel(ctx context.Context, id uint, req RequestInfo) (*models.Booking, error) {
	return s.transition(ctx, id, req, func(ctx context.Context, bfsm *statemachine.BookingFSM) error {
		return bfsm.Cancel(ctx)
	})
}

func (s *BookingService) transition(ctx context.Context, id uint, req RequestInfo, event func(context.Context, *statemachine.BookingFSM) error) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := booking.BookingStatus
	bfsm := statemachine.NewBookingFSM(booking)
	if err := event(ctx, bfsm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if _, err := s.auditSvc.LogBookingStatusChanged(ctx, booking.ID, oldStatus, booking.BookingStatus, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityBooking, "action", models.ActionStatusChanged, "error", err)
	}
	return booking, nil
}

// ReleaseEscrow releases the held funds to the performer
func (s *BookingService) ReleaseEscrow(ctx context.Context, id uint, req RequestInfo) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.EscrowHeld() {
		return nil, ErrEscrowState
	}

	booking.EscrowStatus = models.EscrowStatusReleased
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if _, err := s.auditSvc.LogEscrowReleased(ctx, booking.ID, booking.TotalAmount, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityBooking, "action", models.ActionEscrowReleased, "error", err)
	}
	return booking, nil
}

// Refund returns the held funds to the customer
func (s *BookingService) Refund(ctx context.Context, id uint, refundAmount float64, req RequestInfo) (*models.Booking, error) {
	if refundAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.EscrowHeld() {
		return nil, ErrEscrowState
	}

	booking.EscrowStatus = models.EscrowStatusRefunded
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if _, err := s.auditSvc.LogBookingRefunded(ctx, booking.ID, refundAmount, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityBooking, "action", models.ActionRefunded, "error", err)
	}
	return booking, nil
}

// Get returns a booking by id
func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of bookings, newest first
func (s *BookingService) List(ctx context.Context, limit, offset int) ([]models.Booking, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

func generateBookingNumber() string {
	return fmt.Sprintf("BK-%s", uuid.NewString()[:8])
}

// applyBookingChanges maps a change set onto the booking model. Unknown
// keys are ignored; the audit allowlist is applied separately by the
// recorder, so a key can update the row without being audited.
func applyBookingChanges(b *models.Booking, changes map[string]any) {
	if v, ok := changes["event_title"].(string); ok {
		b.EventTitle = v
	}
	if v, ok := changes["event_date"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			b.EventDate = &t
		}
	}
	if v, ok := changes["event_location"].(string); ok {
		b.EventLocation = v
	}
	if v, ok := changes["event_address"].(string); ok {
		b.EventAddress = &v
	}
	if v, ok := changes["event_zip"].(string); ok {
		b.EventZip = &v
	}
	if v, ok := changes["performer_confirmed"].(bool); ok {
		b.PerformerConfirmed = v
	}
	if v, ok := changes["customer_confirmed_completion"].(bool); ok {
		b.CustomerConfirmedCompletion = v
	}
	if v, ok := changes["notes"].(string); ok {
		b.Notes = &v
	}
}
