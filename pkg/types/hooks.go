package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PreferenceEvent signals preference mutations so downstream systems
// can react (cache invalidation, notifications).
type PreferenceEvent struct {
	UserID     uuid.UUID
	Level      PreferenceLevel
	Key        string
	Action     string
	OccurredAt time.Time
}

// Hooks let host applications observe mutations after they commit.
// All fields are optional.
type Hooks struct {
	AfterActivityChange   func(context.Context, ActivityRecord)
	AfterAudit            func(context.Context, AuditRecord)
	AfterPreferenceChange func(context.Context, PreferenceEvent)
}
