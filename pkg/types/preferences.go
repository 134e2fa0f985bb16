package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PreferenceLevel identifies the precedence layer for a stored report
// preference. User settings override system defaults.
type PreferenceLevel string

const (
	PreferenceLevelSystem PreferenceLevel = "system"
	PreferenceLevelUser   PreferenceLevel = "user"
)

// PreferenceRecord is a stored report preference entry. System level
// rows carry a nil UserID.
type PreferenceRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Level     PreferenceLevel
	Key       string
	Value     map[string]any
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PreferenceFilter narrows preference listing queries.
type PreferenceFilter struct {
	UserID uuid.UUID
	Level  PreferenceLevel
	Keys   []string
}

// PreferenceRepository exposes CRUD helpers for report preferences.
type PreferenceRepository interface {
	ListPreferences(ctx context.Context, filter PreferenceFilter) ([]PreferenceRecord, error)
	UpsertPreference(ctx context.Context, record PreferenceRecord) (*PreferenceRecord, error)
	DeletePreference(ctx context.Context, userID uuid.UUID, level PreferenceLevel, key string) error
}

// PreferenceSnapshot is the effective settings plus provenance per key.
type PreferenceSnapshot struct {
	Effective map[string]any
	Traces    []PreferenceTrace
}

// PreferenceTrace captures how each layer contributed to a key.
type PreferenceTrace struct {
	Key    string
	Layers []PreferenceTraceLayer
}

// PreferenceTraceLayer captures a single layer contribution.
type PreferenceTraceLayer struct {
	Level      PreferenceLevel
	UserID     uuid.UUID
	SnapshotID string
	Value      any
	Found      bool
}
