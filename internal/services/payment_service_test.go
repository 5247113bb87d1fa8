package services

import (
	"context"
	"testing"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock TransactionRepository
type mockTransactionRepository struct {
	mockCreate func(ctx context.Context, tx *models.Transaction) error
}

func (m *mockTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error) {
	return nil, nil
}

func TestRecordDepositPayment(t *testing.T) {
	booking := &models.Booking{ID: 9, TotalAmount: 1000, EscrowStatus: models.EscrowStatusHeld}
	bookingRepo := &mockBookingRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Booking, error) {
			return booking, nil
		},
	}
	auditRepo := newCapturingAuditRepo()
	svc := NewPaymentService(&mockTransactionRepository{}, bookingRepo, NewAuditService(auditRepo))

	tx, err := svc.RecordPayment(context.Background(), 501, 9, 300, "card", true, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, uint(501), tx.OrderID)
	assert.True(t, tx.IsDeposit)
	assert.True(t, booking.DepositPaid)
	assert.False(t, booking.FullyPaid)

	require.Len(t, auditRepo.records, 1)
	assert.Equal(t, models.ActionDepositReceived, auditRepo.records[0].Action)
	assert.Equal(t, uint(501), auditRepo.records[0].EntityID)
}

func TestRecordFinalPayment(t *testing.T) {
	booking := &models.Booking{ID: 9, TotalAmount: 1000, DepositPaid: true}
	bookingRepo := &mockBookingRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Booking, error) {
			return booking, nil
		},
	}
	auditRepo := newCapturingAuditRepo()
	svc := NewPaymentService(&mockTransactionRepository{}, bookingRepo, NewAuditService(auditRepo))

	_, err := svc.RecordPayment(context.Background(), 502, 9, 700, "card", false, RequestInfo{})
	require.NoError(t, err)
	assert.True(t, booking.FullyPaid)
	assert.Equal(t, models.ActionPaymentReceived, auditRepo.records[0].Action)
}

func TestRecordPaymentInvalidAmount(t *testing.T) {
	svc := NewPaymentService(&mockTransactionRepository{}, &mockBookingRepository{}, NewAuditService(newCapturingAuditRepo()))

	_, err := svc.RecordPayment(context.Background(), 501, 9, 0, "card", true, RequestInfo{})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordPaymentBookingNotFound(t *testing.T) {
	svc := NewPaymentService(&mockTransactionRepository{}, &mockBookingRepository{}, NewAuditService(newCapturingAuditRepo()))

	_, err := svc.RecordPayment(context.Background(), 501, 404, 300, "card", true, RequestInfo{})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
