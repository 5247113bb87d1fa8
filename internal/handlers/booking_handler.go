package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stagebook/stagebook-api/internal/services"
	"gorm.io/gorm"
)

type BookingHandler struct {
	bookingService *services.BookingService
	auditService   *services.AuditService
}

func NewBookingHandler(bookingService *services.BookingService, auditService *services.AuditService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, auditService: auditService}
}

// CreateBookingRequest is the payload for creating a booking
type CreateBookingRequest struct {
	PerformerID   uint       `json:"performer_id" binding:"required"`
	CustomerID    uint       `json:"customer_id" binding:"required"`
	EventTitle    string     `json:"event_title"`
	EventDate     *time.Time `json:"event_date"`
	EventLocation string     `json:"event_location"`
	EventAddress  *string    `json:"event_address"`
	EventZip      *string    `json:"event_zip"`
	TotalAmount   float64    `json:"total_amount" binding:"required"`
	Notes         *string    `json:"notes"`
}

// @Summary Create Booking
// @Description Create a booking with funds held in escrow
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking"
// @Success 201 {object} models.Booking
// @Security BearerAuth
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking := &models.Booking{
		PerformerID:   req.PerformerID,
		CustomerID:    req.CustomerID,
		EventTitle:    req.EventTitle,
		EventDate:     req.EventDate,
		EventLocation: req.EventLocation,
		EventAddress:  req.EventAddress,
		EventZip:      req.EventZip,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
	}

	if err := h.bookingService.Create(c.Request.Context(), booking, requestInfo(c)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidAmount) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// @Summary Show Booking
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{booking_id} [get]
func (h *BookingHandler) Show(c *gin.Context) {
	id := paramID(c, "booking_id")
	booking, err := h.bookingService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(bookingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// @Summary List Bookings
// @Tags Bookings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(25)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bookings [get]
func (h *BookingHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	offset := (page - 1) * perPage

	bookings, total, err := h.bookingService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "pagination": gin.H{"total": total, "page": page, "per_page": perPage}})
}

// @Summary Update Booking
// @Description Apply a partial update; audited fields are filtered through the audit allowlist
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Param changes body map[string]interface{} true "Changed fields"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{booking_id} [patch]
func (h *BookingHandler) Update(c *gin.Context) {
	id := paramID(c, "booking_id")

	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Update(c.Request.Context(), id, changes, requestInfo(c))
	if err != nil {
		c.JSON(bookingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// @Summary Confirm Booking
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{booking_id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookingService.Confirm)
}

// @Summary Complete Booking
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{booking_id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.bookingService.Complete)
}

// @Summary Cancel Booking
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{booking_id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.bookingService.Cancel)
}

// @Summary Release Escrow
// @Description Release the held funds to the performer
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{booking_id}/release_escrow [post]
func (h *BookingHandler) ReleaseEscrow(c *gin.Context) {
	id := paramID(c, "booking_id")
	booking, err := h.bookingService.ReleaseEscrow(c.Request.Context(), id, requestInfo(c))
	if err != nil {
		c.JSON(bookingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// RefundRequest is the payload for refunding a booking
type RefundRequest struct {
	RefundAmount float64 `json:"refund_amount" binding:"required"`
}

// @Summary Refund Booking
// @Description Return the held funds to the customer
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Param refund body RefundRequest true "Refund"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{booking_id}/refund [post]
func (h *BookingHandler) Refund(c *gin.Context) {
	id := paramID(c, "booking_id")

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Refund(c.Request.Context(), id, req.RefundAmount, requestInfo(c))
	if err != nil {
		c.JSON(bookingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// @Summary Booking Audit History
// @Description Audit records for one booking, newest first
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Param limit query int false "Max records" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bookings/{booking_id}/history [get]
func (h *BookingHandler) History(c *gin.Context) {
	id := paramID(c, "booking_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.auditService.GetForEntity(c.Request.Context(), models.EntityBooking, id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, id uint, req services.RequestInfo) (*models.Booking, error)) {
	id := paramID(c, "booking_id")
	booking, err := fn(c.Request.Context(), id, requestInfo(c))
	if err != nil {
		c.JSON(bookingErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

func bookingErrStatus(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrEscrowState), errors.Is(err, services.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func paramID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id)
}
