package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders audit history into compliance report formats
type ExportService struct {
	auditSvc *AuditService
}

// NewExportService creates a new export service
func NewExportService(auditSvc *AuditService) *ExportService {
	return &ExportService{auditSvc: auditSvc}
}

// auditExportHeader is the column layout shared by the CSV and XLSX exports
var auditExportHeader = []string{"ID", "Entity Type", "Entity ID", "Action", "Old Values", "New Values", "User ID", "IP Address", "Created At"}

// ExportCSV renders recent audit records as CSV
func (s *ExportService) ExportCSV(ctx context.Context, limit int, entityType, action string) ([]byte, string, error) {
	entries, err := s.auditSvc.GetRecent(ctx, limit, entityType, action)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write(auditExportHeader)
	for _, e := range entries {
		_ = writer.Write(auditEntryRow(e))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("audit_log_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportXLSX renders recent audit records as an Excel workbook
func (s *ExportService) ExportXLSX(ctx context.Context, limit int, entityType, action string) ([]byte, string, error) {
	entries, err := s.auditSvc.GetRecent(ctx, limit, entityType, action)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audit Log"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for col, title := range auditExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, e := range entries {
		for col, value := range auditEntryRow(e) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("audit_log_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportEntityPDF renders the audit trail of a single entity as a PDF
func (s *ExportService) ExportEntityPDF(ctx context.Context, entityType string, entityID uint, limit int) ([]byte, string, error) {
	entries, err := s.auditSvc.GetForEntity(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Audit Trail: %s #%d", entityType, entityID))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 9)
	if len(entries) == 0 {
		pdf.Cell(0, 8, "No audit records found.")
	}
	for _, e := range entries {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, fmt.Sprintf("%s  %s", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action))
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 9)
		if e.UserID != nil {
			pdf.Cell(0, 5, fmt.Sprintf("Actor: user #%d", *e.UserID))
			pdf.Ln(5)
		}
		if e.OldValues != nil {
			pdf.MultiCell(0, 5, fmt.Sprintf("Before: %v", e.OldValues), "", "", false)
		}
		if e.NewValues != nil {
			pdf.MultiCell(0, 5, fmt.Sprintf("After: %v", e.NewValues), "", "", false)
		}
		pdf.Ln(3)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("audit_trail_%s_%d.pdf", entityType, entityID)
	return buf.Bytes(), filename, nil
}

func auditEntryRow(e AuditEntry) []string {
	userID := ""
	if e.UserID != nil {
		userID = fmt.Sprintf("%d", *e.UserID)
	}
	ip := ""
	if e.IPAddress != nil {
		ip = *e.IPAddress
	}
	oldValues := ""
	if e.OldValues != nil {
		oldValues = fmt.Sprintf("%v", e.OldValues)
	}
	newValues := ""
	if e.NewValues != nil {
		newValues = fmt.Sprintf("%v", e.NewValues)
	}
	return []string{
		fmt.Sprintf("%d", e.ID),
		e.EntityType,
		fmt.Sprintf("%d", e.EntityID),
		e.Action,
		oldValues,
		newValues,
		userID,
		ip,
		e.CreatedAt.Format(time.RFC3339),
	}
}
