package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stagebook/stagebook-api/internal/services"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary Show User
// @Tags Users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/{user_id} [get]
func (h *UserHandler) Show(c *gin.Context) {
	id := paramID(c, "user_id")
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangeRoleRequest is the payload for a role change
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// @Summary Change User Role
// @Description Assign a marketplace role; tracked role changes are audited
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param role body ChangeRoleRequest true "New role"
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/{user_id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id := paramID(c, "user_id")

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, req.Role, requestInfo(c))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrInvalidRole):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
