package auditlog

import (
	"context"
	"errors"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-masker"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed audit repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Clock      types.Clock
	IDGen      types.IDGenerator
	Masker     *masker.Masker
}

type auditStore interface {
	repository.Repository[*LogEntry]
}

// Repository persists audit entries and exposes query helpers. It
// implements both AuditSink and AuditRepository.
type Repository struct {
	auditStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
	mask  *masker.Masker
}

// NewRepository constructs the audit repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("auditlog: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LogEntry]{
			NewRecord: func() *LogEntry { return &LogEntry{} },
			GetID: func(entry *LogEntry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *LogEntry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	mask := cfg.Masker
	if mask == nil {
		mask = DefaultMasker()
	}

	return &Repository{
		auditStore: repo,
		db:         cfg.DB,
		clock:      clock,
		idGen:      idGen,
		mask:       mask,
	}, nil
}

var (
	_ repository.Repository[*LogEntry] = (*Repository)(nil)
	_ types.AuditSink                  = (*Repository)(nil)
	_ types.AuditRepository            = (*Repository)(nil)
)

// Record persists an audit entry, masking its details first.
func (r *Repository) Record(ctx context.Context, record types.AuditRecord) error {
	record = SanitizeRecord(r.mask, record)
	entry := toLogEntry(record)
	if entry.ID == uuid.Nil {
		if id, err := uuid.Parse(r.idGen.NewID()); err == nil {
			entry.ID = id
		} else {
			entry.ID = uuid.New()
		}
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	_, err := r.Create(ctx, entry)
	return err
}

// ListAudit returns a paginated slice of the audit trail. Access
// control happens in the query layer; this method only persists and
// filters.
func (r *Repository) ListAudit(ctx context.Context, filter types.AuditFilter) (types.AuditPage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("created_at DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			return applyAuditFilter(q, filter)
		},
	}

	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.AuditPage{}, err
	}
	records := make([]types.AuditRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toAuditRecord(row))
	}
	return types.AuditPage{
		Records:    records,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

func applyAuditFilter(q *bun.SelectQuery, filter types.AuditFilter) *bun.SelectQuery {
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if len(filter.Actions) > 0 {
		q = q.Where("action IN (?)", bun.In(filter.Actions))
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	return q
}

func toLogEntry(record types.AuditRecord) *LogEntry {
	return &LogEntry{
		ID:        record.ID,
		UserID:    record.UserID,
		Action:    record.Action,
		Details:   cloneStringMap(record.Details),
		CreatedAt: record.CreatedAt,
	}
}

func toAuditRecord(entry *LogEntry) types.AuditRecord {
	if entry == nil {
		return types.AuditRecord{}
	}
	return types.AuditRecord{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Details:   cloneStringMap(entry.Details),
		CreatedAt: entry.CreatedAt,
	}
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
