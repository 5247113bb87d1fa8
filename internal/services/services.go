package services

import (
	"github.com/stagebook/stagebook-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Audit     *AuditService
	Booking   *BookingService
	Payment   *PaymentService
	User      *UserService
	Performer *PerformerService
	Export    *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories) *Services {
	auditSvc := NewAuditService(repos.Audit)

	return &Services{
		Audit:     auditSvc,
		Booking:   NewBookingService(repos.Booking, auditSvc),
		Payment:   NewPaymentService(repos.Transaction, repos.Booking, auditSvc),
		User:      NewUserService(repos.User, auditSvc),
		Performer: NewPerformerService(repos.Performer, auditSvc),
		Export:    NewExportService(auditSvc),
	}
}
