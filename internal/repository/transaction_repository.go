package repository

import (
	"context"

	"github.com/stagebook/stagebook-api/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for payment transaction data access
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
