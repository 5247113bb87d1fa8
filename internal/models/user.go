package models

import (
	"time"
)

// User represents a marketplace user (customer, performer account owner or admin).
// Phone and BillingPhone are encrypted at rest by the repository layer.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string     `json:"full_name"`
	Role         string     `gorm:"size:20;default:customer;index" json:"role"`
	Status       string     `gorm:"size:20;default:active" json:"status"`
	Phone        *string    `gorm:"type:text" json:"phone"`
	BillingPhone *string    `gorm:"type:text" json:"billing_phone"`
	DiscardedAt  *time.Time `gorm:"index" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:CustomerID" json:"bookings,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleAdministrator = "administrator"
	RolePerformer     = "performer"
	RoleCustomer      = "customer"
)

// Status constants
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// IsAdmin returns true if user has the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// IsPerformer returns true if user has the performer role
func (u *User) IsPerformer() bool {
	return u.Role == RolePerformer
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive && u.DiscardedAt == nil
}
