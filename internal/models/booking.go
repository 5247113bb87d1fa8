package models

import (
	"time"
)

// Booking represents a customer booking a performer for an event.
// EventAddress and EventZip are encrypted at rest by the repository layer;
// they hold tagged ciphertext in the database and plaintext in memory.
type Booking struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BookingNumber string     `gorm:"size:40;uniqueIndex;not null" json:"booking_number"`
	PerformerID   uint       `gorm:"not null;index" json:"performer_id"`
	CustomerID    uint       `gorm:"not null;index" json:"customer_id"`
	EventTitle    string     `json:"event_title"`
	EventDate     *time.Time `gorm:"index" json:"event_date"`
	EventLocation string     `json:"event_location"`
	EventAddress  *string    `gorm:"type:text" json:"event_address"`
	EventZip      *string    `gorm:"type:text" json:"event_zip"`
	TotalAmount   float64    `gorm:"not null" json:"total_amount"`
	BookingStatus string     `gorm:"size:20;default:pending;index" json:"booking_status"`
	EscrowStatus  string     `gorm:"size:20;default:held" json:"escrow_status"`
	DepositPaid   bool       `gorm:"default:false" json:"deposit_paid"`
	FullyPaid     bool       `gorm:"default:false" json:"fully_paid"`

	PerformerConfirmed          bool    `gorm:"default:false" json:"performer_confirmed"`
	CustomerConfirmedCompletion bool    `gorm:"default:false" json:"customer_confirmed_completion"`
	Notes                       *string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Performer *Performer `gorm:"foreignKey:PerformerID" json:"performer,omitempty"`
	Customer  *User      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Escrow status constants
const (
	EscrowStatusHeld     = "held"
	EscrowStatusReleased = "released"
	EscrowStatusRefunded = "refunded"
)

// MayConfirm returns true if the booking can be confirmed
func (b *Booking) MayConfirm() bool {
	return b.BookingStatus == BookingStatusPending
}

// MayComplete returns true if the booking can be completed
func (b *Booking) MayComplete() bool {
	return b.BookingStatus == BookingStatusConfirmed
}

// MayCancel returns true if the booking can be cancelled
func (b *Booking) MayCancel() bool {
	return b.BookingStatus == BookingStatusPending || b.BookingStatus == BookingStatusConfirmed
}

// EscrowHeld returns true while funds are still held for the booking
func (b *Booking) EscrowHeld() bool {
	return b.EscrowStatus == EscrowStatusHeld
}
