package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stagebook/stagebook-api/internal/middleware"
	"github.com/stagebook/stagebook-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Booking   *BookingHandler
	Payment   *PaymentHandler
	User      *UserHandler
	Performer *PerformerHandler
	Audit     *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Booking:   NewBookingHandler(svcs.Booking, svcs.Audit),
		Payment:   NewPaymentHandler(svcs.Payment),
		User:      NewUserHandler(svcs.User),
		Performer: NewPerformerHandler(svcs.Performer),
		Audit:     NewAuditHandler(svcs.Audit, svcs.Export),
	}
}

// requestInfo builds the audit actor/request metadata from the current
// request. This is the only place ambient request state is read; everything
// below the handler layer receives it explicitly.
func requestInfo(c *gin.Context) services.RequestInfo {
	info := services.RequestInfo{
		IPAddress: middleware.ClientIP(c.Request),
		UserAgent: c.Request.UserAgent(),
	}
	if id := middleware.GetUserID(c); id != 0 {
		info.UserID = &id
	}
	return info
}
