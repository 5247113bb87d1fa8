package models

import (
	"time"
)

// Performer is the marketplace profile of a performing act
type Performer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	StageName      string    `gorm:"not null" json:"stage_name"`
	Status         string    `gorm:"size:20;default:pending;index" json:"status"`
	Tier           string    `gorm:"size:10;default:free" json:"tier"`
	CommissionRate float64   `gorm:"default:0.15" json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Performer
func (Performer) TableName() string {
	return "performers"
}

// Performer status constants
const (
	PerformerStatusPending   = "pending"
	PerformerStatusApproved  = "approved"
	PerformerStatusSuspended = "suspended"
)

// Tier constants
const (
	TierFree = "free"
	TierPro  = "pro"
)

// IsApproved returns true if the performer can accept bookings
func (p *Performer) IsApproved() bool {
	return p.Status == PerformerStatusApproved
}
