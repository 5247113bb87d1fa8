package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stagebook/stagebook-api/internal/services"
)

type AuditHandler struct {
	auditService  *services.AuditService
	exportService *services.ExportService
}

func NewAuditHandler(auditService *services.AuditService, exportService *services.ExportService) *AuditHandler {
	return &AuditHandler{auditService: auditService, exportService: exportService}
}

// @Summary List Audit Records
// @Description Get the most recent audit records, optionally filtered by entity type and action
// @Tags Audit
// @Produce json
// @Param limit query int false "Max records" default(100)
// @Param entity_type query string false "Entity type filter"
// @Param action query string false "Action filter"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entityType := c.Query("entity_type")
	action := c.Query("action")

	entries, err := h.auditService.GetRecent(c.Request.Context(), limit, entityType, action)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": entries})
}

// @Summary Audit Export
// @Description Download recent audit records as CSV or XLSX
// @Tags Audit
// @Produce application/octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Param limit query int false "Max records" default(1000)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /audits/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))
	entityType := c.Query("entity_type")
	action := c.Query("action")

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), limit, entityType, action)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), limit, entityType, action)
		contentType = "text/csv"
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Entity Audit Trail PDF
// @Description Download the audit trail of one entity as PDF
// @Tags Audit
// @Produce application/pdf
// @Param entity_type query string true "Entity type"
// @Param entity_id query int true "Entity ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /audits/trail_pdf [get]
func (h *AuditHandler) TrailPDF(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID, _ := strconv.ParseUint(c.Query("entity_id"), 10, 32)
	if entityType == "" || entityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_type and entity_id are required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	data, filename, err := h.exportService.ExportEntityPDF(c.Request.Context(), entityType, uint(entityID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Audit Retention Sweep
// @Description Delete audit records older than the given number of days
// @Tags Audit
// @Produce json
// @Param days query int false "Retention window in days" default(90)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits/cleanup [post]
func (h *AuditHandler) Cleanup(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "90"))
	if err != nil || days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
		return
	}

	deleted, err := h.auditService.Cleanup(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
