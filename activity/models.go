package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry models the persisted row in activities. IDs are assigned by
// the store.
type Entry struct {
	bun.BaseModel `bun:"table:activities"`

	ID             int64     `bun:"id,pk,autoincrement"`
	Type           string    `bun:"type,notnull"`
	Description    string    `bun:"description"`
	Date           time.Time `bun:"date,notnull"`
	OwnerID        uuid.UUID `bun:"owner_id,type:uuid,notnull"`
	Municipalities []string  `bun:"municipalities,type:jsonb"`
	CreatedAt      time.Time `bun:"created_at"`
}
