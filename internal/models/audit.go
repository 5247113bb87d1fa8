package models

import (
	"time"
)

// AuditLog is a write-once audit record. Rows are only ever inserted or
// purged by the retention sweep; there is no update or single-row delete path.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntityType string    `gorm:"size:50;not null;index:idx_audit_entity" json:"entity_type"` // booking, transaction, user, performer
	EntityID   uint      `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Action     string    `gorm:"size:100;not null;index" json:"action"` // created, status_changed, escrow_released, ...
	OldValues  *string   `gorm:"type:text" json:"old_values"`           // JSON, NULL when nothing changed away from
	NewValues  *string   `gorm:"type:text" json:"new_values"`           // JSON, NULL when nothing changed to
	UserID     *uint     `json:"user_id"`                               // NULL for system-initiated actions
	IPAddress  *string   `gorm:"size:45" json:"ip_address"`
	UserAgent  *string   `gorm:"size:500" json:"user_agent"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Entity type constants
const (
	EntityBooking     = "booking"
	EntityTransaction = "transaction"
	EntityUser        = "user"
	EntityPerformer   = "performer"
)

// Action constants
const (
	ActionCreated          = "created"
	ActionUpdated          = "updated"
	ActionStatusChanged    = "status_changed"
	ActionEscrowReleased   = "escrow_released"
	ActionRefunded         = "refunded"
	ActionDepositReceived  = "deposit_received"
	ActionPaymentReceived  = "payment_received"
	ActionRoleChanged      = "role_changed"
)
