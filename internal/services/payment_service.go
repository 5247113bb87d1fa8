package services

import (
	"context"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stagebook/stagebook-api/internal/repository"
	"github.com/stagebook/stagebook-api/pkg/logger"
)

// PaymentService records payments reported by the payment processor
type PaymentService struct {
	txRepo      repository.TransactionRepository
	bookingRepo repository.BookingRepository
	auditSvc    *AuditService
}

// NewPaymentService creates a new payment service
func NewPaymentService(txRepo repository.TransactionRepository, bookingRepo repository.BookingRepository, auditSvc *AuditService) *PaymentService {
	return &PaymentService{txRepo: txRepo, bookingRepo: bookingRepo, auditSvc: auditSvc}
}

// RecordPayment stores a deposit or final payment against a booking, flips
// the booking's paid flags and audits the transaction under the processor's
// order id.
func (s *PaymentService) RecordPayment(ctx context.Context, orderID, bookingID uint, amount float64, paymentMethod string, deposit bool, req RequestInfo) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		OrderID:       orderID,
		BookingID:     bookingID,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		IsDeposit:     deposit,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	if deposit {
		booking.DepositPaid = true
	} else {
		booking.FullyPaid = true
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if _, err := s.auditSvc.LogPaymentReceived(ctx, orderID, bookingID, amount, paymentMethod, deposit, req); err != nil {
		logger.Warn("audit write failed", "entity", models.EntityTransaction, "order_id", orderID, "error", err)
	}
	return tx, nil
}

// History returns all transactions recorded for a booking, newest first
func (s *PaymentService) History(ctx context.Context, bookingID uint) ([]models.Transaction, error) {
	return s.txRepo.FindByBooking(ctx, bookingID)
}
