package activity

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed activity repository.
type RepositoryConfig struct {
	DB    *bun.DB
	Clock types.Clock
}

// Repository persists activity records and answers scoped queries.
// Rows are keyed by a store-assigned integer, so CRUD goes straight
// through Bun rather than the UUID-keyed repository helpers used
// elsewhere in this module.
type Repository struct {
	db    *bun.DB
	clock types.Clock
}

// NewRepository constructs the activity repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("activity: db required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &Repository{
		db:    cfg.DB,
		clock: clock,
	}, nil
}

var _ types.ActivityRepository = (*Repository)(nil)

// CreateActivity persists a new record and returns it with the
// store-assigned identifier.
func (r *Repository) CreateActivity(ctx context.Context, record types.ActivityRecord) (*types.ActivityRecord, error) {
	entry := toEntry(record)
	entry.ID = 0
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	if _, err := r.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return nil, err
	}
	out := toActivityRecord(entry)
	return &out, nil
}

// GetActivity fetches a single record by ID.
func (r *Repository) GetActivity(ctx context.Context, id int64) (*types.ActivityRecord, error) {
	entry := &Entry{}
	err := r.db.NewSelect().Model(entry).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	out := toActivityRecord(entry)
	return &out, nil
}

// UpdateActivity applies a partial update and returns the stored row.
// Nil patch fields leave the column untouched.
func (r *Repository) UpdateActivity(ctx context.Context, id int64, patch types.ActivityPatch) (*types.ActivityRecord, error) {
	entry := &Entry{}
	err := r.db.NewSelect().Model(entry).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		entry.Type = string(*patch.Type)
	}
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
	if patch.Date != nil {
		entry.Date = *patch.Date
	}
	if patch.Municipalities != nil {
		entry.Municipalities = cloneStrings(patch.Municipalities)
	}

	if _, err := r.db.NewUpdate().Model(entry).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	out := toActivityRecord(entry)
	return &out, nil
}

// DeleteActivity removes a record.
func (r *Repository) DeleteActivity(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*Entry)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return types.ErrActivityNotFound
	}
	return nil
}

// ListActivities returns a paginated feed scoped by the supplied
// filter. Callers must pass filters that went through
// BuildFilterFromRequester; an unresolved scope reads as "none".
func (r *Repository) ListActivities(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	if emptyScope(filter.Scope) {
		return types.ActivityPage{
			Records:    []types.ActivityRecord{},
			NextOffset: pagination.Offset,
		}, nil
	}

	var rows []*Entry
	query := r.db.NewSelect().
		Model(&rows).
		OrderExpr("date DESC, id DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset)
	query = applyActivityCriteria(query, filter)

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return types.ActivityPage{}, err
	}

	records := make([]types.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toActivityRecord(row))
	}
	return types.ActivityPage{
		Records:    records,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// VisibleActivities returns every record the filter reaches, without
// pagination. This is the aggregation input; bucketing happens in the
// stats package rather than SQL so the month-key format lives in
// exactly one place.
func (r *Repository) VisibleActivities(ctx context.Context, filter types.StatisticsFilter) ([]types.ActivityRecord, error) {
	if emptyScope(filter.Scope) {
		return []types.ActivityRecord{}, nil
	}

	var rows []*Entry
	query := r.db.NewSelect().Model(&rows).OrderExpr("date ASC, id ASC")
	query = applyStatsCriteria(query, filter)
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}

	records := make([]types.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toActivityRecord(row))
	}
	return records, nil
}

func applyActivityCriteria(q *bun.SelectQuery, filter types.ActivityFilter) *bun.SelectQuery {
	q = applyScopeCriteria(q, filter.Scope, filter.Requester, filter.OwnerID)
	if len(filter.Types) > 0 {
		q = q.Where("type IN (?)", bun.In(typeStrings(filter.Types)))
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("date >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("date <= ?", filter.Until)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	return q
}

func applyStatsCriteria(q *bun.SelectQuery, filter types.StatisticsFilter) *bun.SelectQuery {
	q = applyScopeCriteria(q, filter.Scope, filter.Requester, filter.OwnerID)
	if len(filter.Types) > 0 {
		q = q.Where("type IN (?)", bun.In(typeStrings(filter.Types)))
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("date >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("date <= ?", filter.Until)
	}
	return q
}

func applyScopeCriteria(q *bun.SelectQuery, scope types.VisibilityScope, requester types.Requester, ownerID uuid.UUID) *bun.SelectQuery {
	if scope == types.VisibilityOwn {
		q = q.Where("owner_id = ?", requester.UserID)
	}
	if ownerID != uuid.Nil {
		q = q.Where("owner_id = ?", ownerID)
	}
	return q
}

func emptyScope(scope types.VisibilityScope) bool {
	return scope != types.VisibilityAll && scope != types.VisibilityOwn
}

func typeStrings(values []types.ActivityType) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, string(value))
	}
	return out
}

func toEntry(record types.ActivityRecord) *Entry {
	return &Entry{
		ID:             record.ID,
		Type:           string(record.Type),
		Description:    record.Description,
		Date:           record.Date,
		OwnerID:        record.OwnerID,
		Municipalities: cloneStrings(record.Municipalities),
		CreatedAt:      record.CreatedAt,
	}
}

func toActivityRecord(entry *Entry) types.ActivityRecord {
	if entry == nil {
		return types.ActivityRecord{}
	}
	return types.ActivityRecord{
		ID:             entry.ID,
		Type:           types.ActivityType(entry.Type),
		Description:    entry.Description,
		Date:           entry.Date,
		OwnerID:        entry.OwnerID,
		Municipalities: cloneStrings(entry.Municipalities),
		CreatedAt:      entry.CreatedAt,
	}
}

// FromActivityRecord converts a domain record into the Bun model so
// transports can reuse the conversion.
func FromActivityRecord(record types.ActivityRecord) *Entry {
	return toEntry(record)
}

// ToActivityRecord converts the Bun model into the domain record.
func ToActivityRecord(entry *Entry) types.ActivityRecord {
	return toActivityRecord(entry)
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
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
