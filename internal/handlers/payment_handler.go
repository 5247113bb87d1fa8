package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stagebook/stagebook-api/internal/services"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest is the payload reported by the payment processor
type RecordPaymentRequest struct {
	OrderID       uint    `json:"order_id" binding:"required"`
	BookingID     uint    `json:"booking_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	Deposit       bool    `json:"deposit"`
}

// @Summary Record Payment
// @Description Record a deposit or final payment against a booking
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body RecordPaymentRequest true "Payment"
// @Success 201 {object} models.Transaction
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.paymentService.RecordPayment(c.Request.Context(), req.OrderID, req.BookingID, req.Amount, req.PaymentMethod, req.Deposit, requestInfo(c))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrInvalidAmount):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// @Summary Booking Payment History
// @Tags Payments
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bookings/{booking_id}/payments [get]
func (h *PaymentHandler) IndexByBooking(c *gin.Context) {
	id := paramID(c, "booking_id")
	txs, err := h.paymentService.History(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
