package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors shared across go-fieldlog packages.
var (
	ErrRequesterRequired   = errors.New("go-fieldlog: requester required")
	ErrActivityNotFound    = errors.New("go-fieldlog: activity not found")
	ErrNotRecordOwner      = errors.New("go-fieldlog: requester does not own record")
	ErrUnauthorizedRole    = errors.New("go-fieldlog: role not authorized for action")
	ErrInvalidActivity     = errors.New("go-fieldlog: invalid activity payload")
	ErrInvalidDateRange    = errors.New("go-fieldlog: date range requires both start and end")
	ErrUnknownActivityType = errors.New("go-fieldlog: unknown activity type")
	ErrPreferenceNotFound  = errors.New("go-fieldlog: preference not found")
	ErrUserIDRequired      = errors.New("go-fieldlog: user id required")

	// ErrMissingActivityRepository occurs when no activity repository was supplied.
	ErrMissingActivityRepository = errors.New("go-fieldlog: missing activity repository")
	// ErrMissingAuditRepository occurs when audit queries lack a storage backend.
	ErrMissingAuditRepository = errors.New("go-fieldlog: missing audit repository")
	// ErrMissingAuditSink occurs when no audit sink was supplied.
	ErrMissingAuditSink = errors.New("go-fieldlog: missing audit sink")
	// ErrMissingPreferenceRepository occurs when preference operations lack storage.
	ErrMissingPreferenceRepository = errors.New("go-fieldlog: missing preference repository")
	// ErrMissingPreferenceResolver occurs when preference reads lack a resolver.
	ErrMissingPreferenceResolver = errors.New("go-fieldlog: missing preference resolver")
	// ErrServiceNotReady signals that required dependencies were not wired in.
	ErrServiceNotReady = errors.New("go-fieldlog: service not ready")
)

// Requester identifies the authenticated staff member on whose behalf
// an operation runs. The role is validated once at the auth boundary;
// downstream code treats anything outside the closed set as unknown.
type Requester struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// ActivityRecord is a single logged field activity.
type ActivityRecord struct {
	ID             int64        `json:"id"`
	Type           ActivityType `json:"type"`
	Description    string       `json:"description"`
	Date           time.Time    `json:"date"`
	OwnerID        uuid.UUID    `json:"owner_id"`
	Municipalities []string     `json:"municipalities,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// ActivityInput is the payload for creating a new record.
type ActivityInput struct {
	Type           ActivityType `json:"type"`
	Description    string       `json:"description"`
	Date           time.Time    `json:"date"`
	Municipalities []string     `json:"municipalities,omitempty"`
}

// ActivityPatch carries partial updates. Nil fields are left untouched.
type ActivityPatch struct {
	Type           *ActivityType `json:"type,omitempty"`
	Description    *string       `json:"description,omitempty"`
	Date           *time.Time    `json:"date,omitempty"`
	Municipalities []string      `json:"municipalities,omitempty"`
}

// VisibilityScope is the resolved reach of a query: every record, only
// the requester's own records, or nothing at all.
type VisibilityScope string

const (
	VisibilityAll  VisibilityScope = "all"
	VisibilityOwn  VisibilityScope = "own"
	VisibilityNone VisibilityScope = "none"
)

// Pagination bounds list queries. Zero values fall back to repository
// defaults.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ActivityFilter describes which records a query should return. Scope
// is resolved from the requester's role before the filter reaches a
// repository; secondary criteria only ever narrow the result further.
type ActivityFilter struct {
	Requester  Requester       `json:"requester"`
	Scope      VisibilityScope `json:"scope,omitempty"`
	OwnerID    uuid.UUID       `json:"owner_id,omitempty"`
	Types      []ActivityType  `json:"types,omitempty"`
	Since      *time.Time      `json:"since,omitempty"`
	Until      *time.Time      `json:"until,omitempty"`
	Keyword    string          `json:"keyword,omitempty"`
	Pagination Pagination      `json:"pagination"`
}

// Type identifies filter messages routed through command dispatchers.
func (ActivityFilter) Type() string { return "fieldlog.activity.filter" }

func (f ActivityFilter) Validate() error {
	if f.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	return nil
}

// ActivityPage is one page of activity results.
type ActivityPage struct {
	Records    []ActivityRecord `json:"records"`
	Total      int              `json:"total"`
	NextOffset int              `json:"next_offset"`
	HasMore    bool             `json:"has_more"`
}

// StatisticsFilter scopes a statistics query. The aggregation itself
// always runs over the full set of records visible to the requester.
type StatisticsFilter struct {
	Requester Requester       `json:"requester"`
	Scope     VisibilityScope `json:"scope,omitempty"`
	OwnerID   uuid.UUID       `json:"owner_id,omitempty"`
	Types     []ActivityType  `json:"types,omitempty"`
	Since     *time.Time      `json:"since,omitempty"`
	Until     *time.Time      `json:"until,omitempty"`
}

func (StatisticsFilter) Type() string { return "fieldlog.activity.statistics" }

func (f StatisticsFilter) Validate() error {
	if f.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	return nil
}

// Statistics is the aggregate reporting payload. Map fields are always
// non-nil so empty aggregates serialize as {} rather than null.
type Statistics struct {
	TotalActivities int                  `json:"totalActivities"`
	ByType          map[ActivityType]int `json:"byType"`
	ByMonth         map[string]int       `json:"byMonth"`
	ByUser          map[string]int       `json:"byUser"`
	RecentTrend     float64              `json:"recentTrend"`
}

// ActivityRepository persists activity records and answers scoped
// queries. VisibleActivities returns the unpaginated record set that
// feeds the statistics aggregator.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, record ActivityRecord) (*ActivityRecord, error)
	GetActivity(ctx context.Context, id int64) (*ActivityRecord, error)
	UpdateActivity(ctx context.Context, id int64, patch ActivityPatch) (*ActivityRecord, error)
	DeleteActivity(ctx context.Context, id int64) error
	ListActivities(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
	VisibleActivities(ctx context.Context, filter StatisticsFilter) ([]ActivityRecord, error)
}

// AuditRecord is one entry in the audit trail.
type AuditRecord struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditFilter scopes audit trail queries.
type AuditFilter struct {
	Requester  Requester  `json:"requester"`
	UserID     uuid.UUID  `json:"user_id,omitempty"`
	Actions    []string   `json:"actions,omitempty"`
	Since      *time.Time `json:"since,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
	Pagination Pagination `json:"pagination"`
}

func (AuditFilter) Type() string { return "fieldlog.audit.filter" }

func (f AuditFilter) Validate() error {
	if f.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	return nil
}

// AuditPage is one page of audit results.
type AuditPage struct {
	Records    []AuditRecord `json:"records"`
	Total      int           `json:"total"`
	NextOffset int           `json:"next_offset"`
	HasMore    bool          `json:"has_more"`
}

// AuditSink records audit events. Implementations must be safe to call
// on the hot path; failures are logged and never block the operation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditRecord) error
}

// AuditRepository reads back the audit trail.
type AuditRepository interface {
	ListAudit(ctx context.Context, filter AuditFilter) (AuditPage, error)
}

// Clock abstracts time for deterministic aggregation and tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator mints identifiers for audit and preference rows.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// Logger is the minimal logging surface used across the module.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
