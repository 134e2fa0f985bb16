// Package auditlog records who did what: logins, activity mutations,
// report exports. Entries are append-only and admin-readable; detail
// payloads are masked before they touch storage.
package auditlog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Audit actions recorded by go-fieldlog.
const (
	ActionLogin             = "LOGIN"
	ActionLogout            = "LOGOUT"
	ActionCreateActivity    = "CREATE_ACTIVITY"
	ActionUpdateActivity    = "UPDATE_ACTIVITY"
	ActionDeleteActivity    = "DELETE_ACTIVITY"
	ActionUpdatePreferences = "UPDATE_PREFERENCES"
)

// LogEntry models the persisted row in audit_logs.
type LogEntry struct {
	bun.BaseModel `bun:"table:audit_logs"`

	ID        uuid.UUID      `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID      `bun:"user_id,type:uuid"`
	Action    string         `bun:"action,notnull"`
	Details   map[string]any `bun:"details,type:jsonb"`
	CreatedAt time.Time      `bun:"created_at"`
}
