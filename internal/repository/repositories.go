package repository

import (
	"github.com/stagebook/stagebook-api/internal/crypto"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Audit       AuditRepository
	Booking     BookingRepository
	User        UserRepository
	Performer   PerformerRepository
	Transaction TransactionRepository
}

// NewRepositories creates all repository instances. The field cipher is
// injected into the repositories whose rows carry encrypted columns.
func NewRepositories(db *gorm.DB, cipher *crypto.FieldCipher) *Repositories {
	return &Repositories{
		Audit:       NewAuditRepository(db),
		Booking:     NewBookingRepository(db, cipher),
		User:        NewUserRepository(db, cipher),
		Performer:   NewPerformerRepository(db),
		Transaction: NewTransactionRepository(db),
	}
}
