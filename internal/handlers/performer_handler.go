package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stagebook/stagebook-api/internal/services"
	"gorm.io/gorm"
)

type PerformerHandler struct {
	performerService *services.PerformerService
}

func NewPerformerHandler(performerService *services.PerformerService) *PerformerHandler {
	return &PerformerHandler{performerService: performerService}
}

// ChangePerformerStatusRequest is the payload for a performer status change
type ChangePerformerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Change Performer Status
// @Description Move a performer between pending, approved and suspended; audited
// @Tags Performers
// @Accept json
// @Produce json
// @Param performer_id path int true "Performer ID"
// @Param status body ChangePerformerStatusRequest true "New status"
// @Success 200 {object} models.Performer
// @Security BearerAuth
// @Router /performers/{performer_id}/status [put]
func (h *PerformerHandler) ChangeStatus(c *gin.Context) {
	id := paramID(c, "performer_id")

	var req ChangePerformerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	performer, err := h.performerService.ChangeStatus(c.Request.Context(), id, req.Status, requestInfo(c))
	if err != nil {
		c.JSON(performerErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, performer)
}

// ChangeTierRequest is the payload for a tier flip
type ChangeTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// @Summary Change Performer Tier
// @Description Flip a performer between the free and pro tiers
// @Tags Performers
// @Accept json
// @Produce json
// @Param performer_id path int true "Performer ID"
// @Param tier body ChangeTierRequest true "New tier"
// @Success 200 {object} models.Performer
// @Security BearerAuth
// @Router /performers/{performer_id}/tier [put]
func (h *PerformerHandler) ChangeTier(c *gin.Context) {
	id := paramID(c, "performer_id")

	var req ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	performer, err := h.performerService.ChangeTier(c.Request.Context(), id, req.Tier)
	if err != nil {
		c.JSON(performerErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, performer)
}

func performerErrStatus(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrInvalidTier):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
