package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixtures() []models.AuditLog {
	userID := uint(7)
	ip := "203.0.113.5"
	newValues := `{"booking_status":"confirmed"}`
	return []models.AuditLog{
		{
			ID:         2,
			EntityType: models.EntityBooking,
			EntityID:   42,
			Action:     models.ActionStatusChanged,
			NewValues:  &newValues,
			UserID:     &userID,
			IPAddress:  &ip,
			CreatedAt:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         1,
			EntityType: models.EntityBooking,
			EntityID:   42,
			Action:     models.ActionCreated,
			CreatedAt:  time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		},
	}
}

func newExportService(records []models.AuditLog) *ExportService {
	repo := &mockAuditRepository{
		mockFindRecent: func(ctx context.Context, limit int, entityType, action string) ([]models.AuditLog, error) {
			return records, nil
		},
		mockFindByEntity: func(ctx context.Context, entityType string, entityID uint, limit int) ([]models.AuditLog, error) {
			return records, nil
		},
	}
	return NewExportService(NewAuditService(repo))
}

func TestExportCSV(t *testing.T) {
	svc := newExportService(exportFixtures())

	data, filename, err := svc.ExportCSV(context.Background(), 100, "", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "audit_log_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, auditExportHeader, rows[0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "booking", rows[1][1])
	assert.Equal(t, "status_changed", rows[1][3])
	assert.Equal(t, "7", rows[1][6])
	assert.Equal(t, "203.0.113.5", rows[1][7])
	assert.Equal(t, "2026-08-30T10:00:00Z", rows[1][8])

	// System-initiated record has empty actor and address columns.
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][7])
}

func TestExportCSVEmpty(t *testing.T) {
	svc := newExportService(nil)

	data, _, err := svc.ExportCSV(context.Background(), 100, "", "")
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestExportXLSX(t *testing.T) {
	svc := newExportService(exportFixtures())

	data, filename, err := svc.ExportXLSX(context.Background(), 100, "", "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.NotEmpty(t, data)

	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestExportEntityPDF(t *testing.T) {
	svc := newExportService(exportFixtures())

	data, filename, err := svc.ExportEntityPDF(context.Background(), models.EntityBooking, 42, 50)
	require.NoError(t, err)
	assert.Equal(t, "audit_trail_booking_42.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportEntityPDFNoRecords(t *testing.T) {
	svc := newExportService(nil)

	data, _, err := svc.ExportEntityPDF(context.Background(), models.EntityBooking, 1, 50)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
