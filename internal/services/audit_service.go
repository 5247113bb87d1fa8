package services

import (
	"context"
	"encoding/json"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stagebook/stagebook-api/internal/repository"
)

// RequestInfo carries the actor and request metadata for an audit record.
// It is built by the HTTP layer and passed in explicitly; the recorder never
// reads ambient request state. A zero RequestInfo means a system action.
type RequestInfo struct {
	UserID    *uint
	IPAddress string
	UserAgent string
}

// AuditEntry is an audit record with its value maps deserialized for callers
type AuditEntry struct {
	ID         uint           `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   uint           `json:"entity_id"`
	Action     string         `json:"action"`
	OldValues  map[string]any `json:"old_values,omitempty"`
	NewValues  map[string]any `json:"new_values,omitempty"`
	UserID     *uint          `json:"user_id,omitempty"`
	IPAddress  *string        `json:"ip_address,omitempty"`
	UserAgent  *string        `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

const (
	maxUserAgentLength = 500

	defaultEntityLimit = 50
	defaultRecentLimit = 100
)

// bookingUpdateAllowlist holds the booking fields eligible for the update
// audit record; everything else in a change set is silently dropped.
var bookingUpdateAllowlist = []string{
	"event_title",
	"event_date",
	"event_location",
	"booking_status",
	"escrow_status",
	"deposit_paid",
	"fully_paid",
	"performer_confirmed",
	"customer_confirmed_completion",
	"notes",
}

// trackedRoles are the roles whose assignment or removal is audited
var trackedRoles = []string{
	models.RolePerformer,
	models.RoleCustomer,
	models.RoleAdministrator,
}

// AuditService appends immutable records for sensitive state transitions
// and serves the read/retention side of the audit trail.
//
// Audit writes are best-effort by design: callers log a returned error and
// carry on, so an audit failure never aborts the business operation that
// triggered it.
type AuditService struct {
	repo repository.AuditRepository
	now  func() time.Time
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Log appends one audit record and returns its id. Old and new value maps
// are serialized to JSON only when non-empty; the IP is dropped unless it
// parses as a syntactically valid address; the user agent is truncated to
// 500 bytes. The insert is atomic: the record is fully stored or not at all.
func (s *AuditService) Log(ctx context.Context, entityType string, entityID uint, action string, oldValues, newValues map[string]any, req RequestInfo) (uint, error) {
	record := &models.AuditLog{
		EntityType: sanitizeText(entityType),
		EntityID:   entityID,
		Action:     sanitizeText(action),
		OldValues:  marshalValues(oldValues),
		NewValues:  marshalValues(newValues),
		UserID:     req.UserID,
		IPAddress:  validIPOrNil(req.IPAddress),
		UserAgent:  truncatedOrNil(req.UserAgent, maxUserAgentLength),
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return 0, err
	}
	return record.ID, nil
}

// GetForEntity returns the audit history of one entity, newest first
func (s *AuditService) GetForEntity(ctx context.Context, entityType string, entityID uint, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = defaultEntityLimit
	}
	records, err := s.repo.FindByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	return toEntries(records), nil
}

// GetRecent returns the most recent records, optionally filtered by entity
// type and action (combined with AND), newest first.
func (s *AuditService) GetRecent(ctx context.Context, limit int, entityType, action string) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	records, err := s.repo.FindRecent(ctx, limit, entityType, action)
	if err != nil {
		return nil, err
	}
	return toEntries(records), nil
}

// Cleanup deletes all records strictly older than now minus days and
// returns the number of rows removed. Irreversible.
func (s *AuditService) Cleanup(ctx context.Context, days int) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

// LogBookingCreated records the creation of a booking
func (s *AuditService) LogBookingCreated(ctx context.Context, b *models.Booking, req RequestInfo) (uint, error) {
	newValues := map[string]any{
		"booking_number": b.BookingNumber,
		"performer_id":   b.PerformerID,
		"customer_id":    b.CustomerID,
		"total_amount":   b.TotalAmount,
	}
	if b.EventDate != nil {
		newValues["event_date"] = b.EventDate.Format(time.RFC3339)
	}
	return s.Log(ctx, models.EntityBooking, b.ID, models.ActionCreated, nil, newValues, req)
}

// LogBookingUpdated records a booking update, restricted to the field
// allowlist. When no changed field survives the filter, nothing is written
// and a zero id is returned.
func (s *AuditService) LogBookingUpdated(ctx context.Context, bookingID uint, changes map[string]any, req RequestInfo) (uint, error) {
	filtered := make(map[string]any)
	for _, field := range bookingUpdateAllowlist {
		if v, ok := changes[field]; ok {
			filtered[field] = v
		}
	}
	if len(filtered) == 0 {
		return 0, nil
	}
	return s.Log(ctx, models.EntityBooking, bookingID, models.ActionUpdated, nil, filtered, req)
}

// LogBookingStatusChanged records a booking status transition
func (s *AuditService) LogBookingStatusChanged(ctx context.Context, bookingID uint, oldStatus, newStatus string, req RequestInfo) (uint, error) {
	return s.Log(ctx, models.EntityBooking, bookingID, models.ActionStatusChanged,
		map[string]any{"booking_status": oldStatus},
		map[string]any{"booking_status": newStatus},
		req)
}

// LogEscrowReleased records the release of held funds to the performer
func (s *AuditService) LogEscrowReleased(ctx context.Context, bookingID uint, amount float64, req RequestInfo) (uint, error) {
	return s.Log(ctx, models.EntityBooking, bookingID, models.ActionEscrowReleased, nil,
		map[string]any{"amount": amount, "escrow_status": models.EscrowStatusReleased},
		req)
}

// LogBookingRefunded records a refund of held funds to the customer
func (s *AuditService) LogBookingRefunded(ctx context.Context, bookingID uint, refundAmount float64, req RequestInfo) (uint, error) {
	return s.Log(ctx, models.EntityBooking, bookingID, models.ActionRefunded, nil,
		map[string]any{"refund_amount": refundAmount, "escrow_status": models.EscrowStatusRefunded},
		req)
}

// LogPaymentReceived records a deposit or final payment, keyed by the
// payment processor's order id.
func (s *AuditService) LogPaymentReceived(ctx context.Context, orderID, bookingID uint, amount float64, paymentMethod string, deposit bool, req RequestInfo) (uint, error) {
	action := models.ActionPaymentReceived
	if deposit {
		action = models.ActionDepositReceived
	}
	return s.Log(ctx, models.EntityTransaction, orderID, action, nil,
		map[string]any{"booking_id": bookingID, "amount": amount, "payment_method": paymentMethod},
		req)
}

// LogRoleChanged records a role change when the new role or any old role is
// one of the tracked marketplace roles. Untracked changes write nothing.
func (s *AuditService) LogRoleChanged(ctx context.Context, userID uint, oldRoles []string, newRole string, req RequestInfo) (uint, error) {
	if !roleTracked(newRole) && !anyRoleTracked(oldRoles) {
		return 0, nil
	}
	return s.Log(ctx, models.EntityUser, userID, models.ActionRoleChanged,
		map[string]any{"roles": oldRoles},
		map[string]any{"role": newRole},
		req)
}

// LogPerformerStatusChanged records a performer approval status transition
func (s *AuditService) LogPerformerStatusChanged(ctx context.Context, performerID uint, oldStatus, newStatus string, req RequestInfo) (uint, error) {
	return s.Log(ctx, models.EntityPerformer, performerID, models.ActionStatusChanged,
		map[string]any{"status": oldStatus},
		map[string]any{"status": newStatus},
		req)
}

func roleTracked(role string) bool {
	for _, tracked := range trackedRoles {
		if role == tracked {
			return true
		}
	}
	return false
}

func anyRoleTracked(roles []string) bool {
	for _, role := range roles {
		if roleTracked(role) {
			return true
		}
	}
	return false
}

func toEntries(records []models.AuditLog) []AuditEntry {
	entries := make([]AuditEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, AuditEntry{
			ID:         r.ID,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Action:     r.Action,
			OldValues:  unmarshalValues(r.OldValues),
			NewValues:  unmarshalValues(r.NewValues),
			UserID:     r.UserID,
			IPAddress:  r.IPAddress,
			UserAgent:  r.UserAgent,
			CreatedAt:  r.CreatedAt,
		})
	}
	return entries
}

// marshalValues serializes a non-empty value map; empty maps are stored as
// NULL, never as "{}".
func marshalValues(values map[string]any) *string {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

func unmarshalValues(raw *string) map[string]any {
	if raw == nil || *raw == "" {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(*raw), &values); err != nil {
		return nil
	}
	return values
}

var (
	markupPattern  = regexp.MustCompile(`<[^>]*>`)
	controlPattern = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// sanitizeText strips markup and control characters from a short label
func sanitizeText(s string) string {
	s = markupPattern.ReplaceAllString(s, "")
	s = controlPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func validIPOrNil(ip string) *string {
	if net.ParseIP(ip) == nil {
		return nil
	}
	return &ip
}

func truncatedOrNil(s string, max int) *string {
	if s == "" {
		return nil
	}
	if len(s) > max {
		s = s[:max]
	}
	return &s
}
