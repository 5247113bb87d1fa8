package models

import (
	"time"
)

// Transaction records a payment received against a booking, keyed by the
// payment processor's order id.
type Transaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	BookingID     uint      `gorm:"not null;index" json:"booking_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	PaymentMethod string    `gorm:"size:50" json:"payment_method"`
	IsDeposit     bool      `gorm:"default:false" json:"is_deposit"`
	CreatedAt     time.Time `json:"created_at"`

	// Associations
	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
