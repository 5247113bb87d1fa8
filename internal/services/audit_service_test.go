package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock AuditRepository
type mockAuditRepository struct {
	mockCreate          func(ctx context.Context, record *models.AuditLog) error
	mockFindByEntity    func(ctx context.Context, entityType string, entityID uint, limit int) ([]models.AuditLog, error)
	mockFindRecent      func(ctx context.Context, limit int, entityType, action string) ([]models.AuditLog, error)
	mockDeleteOlderThan func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockAuditRepository) Create(ctx context.Context, record *models.AuditLog) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, record)
	}
	return nil
}

func (m *mockAuditRepository) FindByEntity(ctx context.Context, entityType string, entityID uint, limit int) ([]models.AuditLog, error) {
	if m.mockFindByEntity != nil {
		return m.mockFindByEntity(ctx, entityType, entityID, limit)
	}
	return nil, nil
}

func (m *mockAuditRepository) FindRecent(ctx context.Context, limit int, entityType, action string) ([]models.AuditLog, error) {
	if m.mockFindRecent != nil {
		return m.mockFindRecent(ctx, limit, entityType, action)
	}
	return nil, nil
}

func (m *mockAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.mockDeleteOlderThan != nil {
		return m.mockDeleteOlderThan(ctx, cutoff)
	}
	return 0, nil
}

// capturingAuditRepo records every Create and assigns sequential ids
type capturingAuditRepo struct {
	mockAuditRepository
	records []*models.AuditLog
}

func newCapturingAuditRepo() *capturingAuditRepo {
	repo := &capturingAuditRepo{}
	repo.mockCreate = func(ctx context.Context, record *models.AuditLog) error {
		record.ID = uint(len(repo.records) + 1)
		repo.records = append(repo.records, record)
		return nil
	}
	return repo
}

func TestLogStoresRecord(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	userID := uint(7)
	id, err := svc.Log(context.Background(), models.EntityBooking, 42, models.ActionCreated,
		nil,
		map[string]any{"total_amount": 250.0},
		RequestInfo{UserID: &userID, IPAddress: "203.0.113.5", UserAgent: "Mozilla/5.0"},
	)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	require.Len(t, repo.records, 1)
	record := repo.records[0]
	assert.Equal(t, models.EntityBooking, record.EntityType)
	assert.Equal(t, uint(42), record.EntityID)
	assert.Equal(t, models.ActionCreated, record.Action)
	assert.Nil(t, record.OldValues)
	require.NotNil(t, record.NewValues)
	assert.JSONEq(t, `{"total_amount": 250}`, *record.NewValues)
	assert.Equal(t, &userID, record.UserID)
	require.NotNil(t, record.IPAddress)
	assert.Equal(t, "203.0.113.5", *record.IPAddress)
	require.NotNil(t, record.UserAgent)
	assert.Equal(t, "Mozilla/5.0", *record.UserAgent)
}

func TestLogEmptyValueMapsStoredAsNull(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	_, err := svc.Log(context.Background(), models.EntityUser, 1, models.ActionUpdated,
		map[string]any{}, nil, RequestInfo{})
	require.NoError(t, err)

	record := repo.records[0]
	assert.Nil(t, record.OldValues, "empty map must serialize to NULL, not {}")
	assert.Nil(t, record.NewValues)
	assert.Nil(t, record.UserID)
	assert.Nil(t, record.IPAddress)
	assert.Nil(t, record.UserAgent)
}

func TestLogInvalidIPDropped(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	_, err := svc.Log(context.Background(), models.EntityBooking, 1, models.ActionUpdated,
		nil, nil, RequestInfo{IPAddress: "not-an-ip"})
	require.NoError(t, err)
	assert.Nil(t, repo.records[0].IPAddress)

	_, err = svc.Log(context.Background(), models.EntityBooking, 1, models.ActionUpdated,
		nil, nil, RequestInfo{IPAddress: "2001:db8::1"})
	require.NoError(t, err)
	require.NotNil(t, repo.records[1].IPAddress)
	assert.Equal(t, "2001:db8::1", *repo.records[1].IPAddress)
}

func TestLogUserAgentTruncated(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	long := strings.Repeat("x", 1200)
	_, err := svc.Log(context.Background(), models.EntityBooking, 1, models.ActionUpdated,
		nil, nil, RequestInfo{UserAgent: long})
	require.NoError(t, err)

	require.NotNil(t, repo.records[0].UserAgent)
	assert.Len(t, *repo.records[0].UserAgent, maxUserAgentLength)
}

func TestLogSanitizesLabels(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	_, err := svc.Log(context.Background(), "<script>booking</script>", 1, "status_\x00changed\n",
		nil, nil, RequestInfo{})
	require.NoError(t, err)

	record := repo.records[0]
	assert.Equal(t, "booking", record.EntityType)
	assert.Equal(t, "status_changed", record.Action)
}

func TestLogCreateErrorReturnsZeroID(t *testing.T) {
	repo := &mockAuditRepository{
		mockCreate: func(ctx context.Context, record *models.AuditLog) error {
			return errors.New("connection refused")
		},
	}
	svc := NewAuditService(repo)

	id, err := svc.Log(context.Background(), models.EntityBooking, 1, models.ActionCreated, nil, nil, RequestInfo{})
	assert.Error(t, err)
	assert.Zero(t, id)
}

func TestLogBookingUpdatedAllowlist(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	id, err := svc.LogBookingUpdated(context.Background(), 9, map[string]any{
		"booking_status": "confirmed",
		"notes":          "arrives at 6pm",
		"event_address":  "12 Harbor Lane", // sensitive, never audited
		"internal_flag":  true,             // unknown, dropped
	}, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	require.NotNil(t, repo.records[0].NewValues)
	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(*repo.records[0].NewValues), &stored))
	assert.Equal(t, map[string]any{"booking_status": "confirmed", "notes": "arrives at 6pm"}, stored)
}

func TestLogBookingUpdatedNothingAuditableWritesNothing(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	id, err := svc.LogBookingUpdated(context.Background(), 9, map[string]any{
		"event_address": "12 Harbor Lane",
		"event_zip":     "02134",
	}, RequestInfo{})
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, repo.records)
}

func TestLogBookingCreatedValues(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	eventDate := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		BookingNumber: "BK-1a2b3c4d",
		PerformerID:   3,
		CustomerID:    8,
		TotalAmount:   1200,
		EventDate:     &eventDate,
	}
	booking.ID = 42

	_, err := svc.LogBookingCreated(context.Background(), booking, RequestInfo{})
	require.NoError(t, err)

	record := repo.records[0]
	assert.Equal(t, models.EntityBooking, record.EntityType)
	assert.Equal(t, uint(42), record.EntityID)
	assert.Nil(t, record.OldValues)

	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(*record.NewValues), &stored))
	assert.Equal(t, "BK-1a2b3c4d", stored["booking_number"])
	assert.Equal(t, "2026-10-03T19:00:00Z", stored["event_date"])
}

func TestLogBookingStatusChanged(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	_, err := svc.LogBookingStatusChanged(context.Background(), 9, "pending", "confirmed", RequestInfo{})
	require.NoError(t, err)

	record := repo.records[0]
	assert.Equal(t, models.ActionStatusChanged, record.Action)
	assert.JSONEq(t, `{"booking_status": "pending"}`, *record.OldValues)
	assert.JSONEq(t, `{"booking_status": "confirmed"}`, *record.NewValues)
}

func TestLogEscrowActions(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	_, err := svc.LogEscrowReleased(context.Background(), 9, 1200, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, models.ActionEscrowReleased, repo.records[0].Action)
	assert.JSONEq(t, `{"amount": 1200, "escrow_status": "released"}`, *repo.records[0].NewValues)

	_, err = svc.LogBookingRefunded(context.Background(), 9, 600, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, models.ActionRefunded, repo.records[1].Action)
	assert.JSONEq(t, `{"refund_amount": 600, "escrow_status": "refunded"}`, *repo.records[1].NewValues)
}

func TestLogPaymentReceived(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	_, err := svc.LogPaymentReceived(context.Background(), 501, 9, 300, "card", true, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, models.EntityTransaction, repo.records[0].EntityType)
	assert.Equal(t, uint(501), repo.records[0].EntityID)
	assert.Equal(t, models.ActionDepositReceived, repo.records[0].Action)

	_, err = svc.LogPaymentReceived(context.Background(), 502, 9, 900, "card", false, RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, models.ActionPaymentReceived, repo.records[1].Action)
}

func TestLogRoleChangedTracking(t *testing.T) {
	repo := newCapturingAuditRepo()
	svc := NewAuditService(repo)

	// Untracked on both sides: nothing written.
	id, err := svc.LogRoleChanged(context.Background(), 5, []string{"subscriber"}, "editor", RequestInfo{})
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, repo.records)

	// Tracked new role.
	id, err = svc.LogRoleChanged(context.Background(), 5, []string{"subscriber"}, models.RolePerformer, RequestInfo{})
	require.NoError(t, err)
	assert.NotZero(t, id)

	// Tracked old role being removed.
	id, err = svc.LogRoleChanged(context.Background(), 5, []string{models.RoleAdministrator}, "subscriber", RequestInfo{})
	require.NoError(t, err)
	assert.NotZero(t, id)

	record := repo.records[1]
	assert.Equal(t, models.EntityUser, record.EntityType)
	assert.Equal(t, models.ActionRoleChanged, record.Action)
	assert.JSONEq(t, `{"roles": ["administrator"]}`, *record.OldValues)
	assert.JSONEq(t, `{"role": "subscriber"}`, *record.NewValues)
}

func TestGetForEntityDefaultsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockAuditRepository{
		mockFindByEntity: func(ctx context.Context, entityType string, entityID uint, limit int) ([]models.AuditLog, error) {
			gotLimit = limit
			old := `{"booking_status":"pending"}`
			return []models.AuditLog{{EntityType: entityType, EntityID: entityID, Action: models.ActionStatusChanged, OldValues: &old}}, nil
		},
	}
	svc := NewAuditService(repo)

	entries, err := svc.GetForEntity(context.Background(), models.EntityBooking, 42, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultEntityLimit, gotLimit)

	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{"booking_status": "pending"}, entries[0].OldValues)
	assert.Nil(t, entries[0].NewValues)
}

func TestGetRecentPassesFilters(t *testing.T) {
	var gotEntityType, gotAction string
	repo := &mockAuditRepository{
		mockFindRecent: func(ctx context.Context, limit int, entityType, action string) ([]models.AuditLog, error) {
			gotEntityType = entityType
			gotAction = action
			return nil, nil
		},
	}
	svc := NewAuditService(repo)

	_, err := svc.GetRecent(context.Background(), 10, models.EntityBooking, models.ActionRefunded)
	require.NoError(t, err)
	assert.Equal(t, models.EntityBooking, gotEntityType)
	assert.Equal(t, models.ActionRefunded, gotAction)
}

func TestCleanupCutoff(t *testing.T) {
	fixed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	repo := &mockAuditRepository{
		mockDeleteOlderThan: func(ctx context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 17, nil
		},
	}
	svc := NewAuditService(repo)
	svc.now = func() time.Time { return fixed }

	deleted, err := svc.Cleanup(context.Background(), 90)
	require.NoError(t, err)
	assert.Equal(t, int64(17), deleted)
	assert.Equal(t, fixed.AddDate(0, 0, -90), gotCutoff)
}

func TestCleanupZeroDays(t *testing.T) {
	fixed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	repo := &mockAuditRepository{
		mockDeleteOlderThan: func(ctx context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 0, nil
		},
	}
	svc := NewAuditService(repo)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Cleanup(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, fixed, gotCutoff, "zero days means everything strictly older than now")
}
