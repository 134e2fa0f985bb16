package preferences

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the report_preferences row. System-level rows keep a
// nil user_id so the unique index still applies.
type Record struct {
	bun.BaseModel `bun:"table:report_preferences"`

	ID        uuid.UUID      `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID      `bun:"user_id,type:uuid"`
	Level     string         `bun:"level"`
	Key       string         `bun:"key"`
	Value     map[string]any `bun:"value,type:jsonb"`
	Version   int            `bun:"version"`
	CreatedAt time.Time      `bun:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at"`
}
