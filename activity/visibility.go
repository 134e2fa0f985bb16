package activity

import (
	"strings"
	"time"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/google/uuid"
)

// FilterConfig controls how BuildFilterFromRequester treats malformed
// secondary criteria.
type FilterConfig struct {
	// StrictFilters rejects unknown activity types and half-open date
	// ranges with an error. The default mirrors the permissive
	// behavior this package replaces: malformed criteria are dropped
	// and the query proceeds unfiltered. Whether that permissiveness
	// was a deliberate choice upstream is unclear, so both behaviors
	// stay available.
	StrictFilters bool
}

// FilterOption mutates the filter configuration.
type FilterOption func(*FilterConfig)

// WithStrictFilters makes malformed type or date criteria a hard error
// instead of silently dropping them.
func WithStrictFilters(enabled bool) FilterOption {
	return func(cfg *FilterConfig) {
		cfg.StrictFilters = enabled
	}
}

// BuildFilterFromRequester resolves the requester's role into a
// visibility scope and normalizes the secondary criteria. Scope
// resolution never widens: servers are pinned to their own records, a
// server asking for another owner resolves to an empty scope, and an
// unrecognized role resolves to an empty scope rather than an error.
func BuildFilterFromRequester(requester types.Requester, req types.ActivityFilter, opts ...FilterOption) (types.ActivityFilter, error) {
	cfg := FilterConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if requester.UserID == uuid.Nil {
		return types.ActivityFilter{}, types.ErrRequesterRequired
	}

	filter := req
	filter.Requester = requester
	filter.Scope, filter.OwnerID = resolveScope(requester, req.OwnerID)

	var err error
	filter.Types, err = normalizeTypes(filter.Types, cfg.StrictFilters)
	if err != nil {
		return types.ActivityFilter{}, err
	}
	filter.Since, filter.Until, err = normalizeDateRange(filter.Since, filter.Until, cfg.StrictFilters)
	if err != nil {
		return types.ActivityFilter{}, err
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return filter, nil
}

// BuildStatsFilterFromRequester is the statistics counterpart of
// BuildFilterFromRequester, with identical scope resolution.
func BuildStatsFilterFromRequester(requester types.Requester, req types.StatisticsFilter, opts ...FilterOption) (types.StatisticsFilter, error) {
	cfg := FilterConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if requester.UserID == uuid.Nil {
		return types.StatisticsFilter{}, types.ErrRequesterRequired
	}

	filter := req
	filter.Requester = requester
	filter.Scope, filter.OwnerID = resolveScope(requester, req.OwnerID)

	var err error
	filter.Types, err = normalizeTypes(filter.Types, cfg.StrictFilters)
	if err != nil {
		return types.StatisticsFilter{}, err
	}
	filter.Since, filter.Until, err = normalizeDateRange(filter.Since, filter.Until, cfg.StrictFilters)
	if err != nil {
		return types.StatisticsFilter{}, err
	}
	return filter, nil
}

// resolveScope maps a role onto a visibility scope and reconciles any
// requested owner narrowing against it. Owner criteria intersect with
// the role's reach; they never extend it.
func resolveScope(requester types.Requester, requestedOwner uuid.UUID) (types.VisibilityScope, uuid.UUID) {
	switch requester.Role {
	case types.RoleAdmin, types.RoleManager:
		return types.VisibilityAll, requestedOwner
	case types.RoleServer:
		if requestedOwner != uuid.Nil && requestedOwner != requester.UserID {
			return types.VisibilityNone, uuid.Nil
		}
		return types.VisibilityOwn, requester.UserID
	default:
		return types.VisibilityNone, uuid.Nil
	}
}

// Matches reports whether a record passes the filter: the visibility
// scope first, then each secondary criterion ANDed on top.
func Matches(filter types.ActivityFilter, record types.ActivityRecord) bool {
	switch filter.Scope {
	case types.VisibilityAll:
	case types.VisibilityOwn:
		if record.OwnerID != filter.Requester.UserID {
			return false
		}
	default:
		// Unresolved scopes stay closed, matching the SQL path.
		return false
	}
	if filter.OwnerID != uuid.Nil && record.OwnerID != filter.OwnerID {
		return false
	}
	if len(filter.Types) > 0 && !containsType(filter.Types, record.Type) {
		return false
	}
	if filter.Since != nil && record.Date.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && record.Date.After(*filter.Until) {
		return false
	}
	if filter.Keyword != "" && !strings.Contains(strings.ToLower(record.Description), strings.ToLower(filter.Keyword)) {
		return false
	}
	return true
}

// Apply filters records in memory. Repositories push the same criteria
// into SQL; this path serves in-memory stores and tests.
func Apply(filter types.ActivityFilter, records []types.ActivityRecord) []types.ActivityRecord {
	out := make([]types.ActivityRecord, 0, len(records))
	for _, record := range records {
		if Matches(filter, record) {
			out = append(out, record)
		}
	}
	return out
}

// normalizeTypes drops unknown categories, or rejects them when strict
// mode is on. An empty result means no type criterion.
func normalizeTypes(values []types.ActivityType, strict bool) ([]types.ActivityType, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]types.ActivityType, 0, len(values))
	seen := make(map[types.ActivityType]struct{}, len(values))
	for _, value := range values {
		normalized, ok := types.ParseActivityType(string(value))
		if !ok {
			if strict {
				return nil, types.ErrUnknownActivityType
			}
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// normalizeDateRange enforces the both-or-neither rule. A half-open
// range is dropped, or rejected in strict mode. Bounds are inclusive
// and left untouched; day-granularity widening of the end bound is the
// transport layer's job.
func normalizeDateRange(since, until *time.Time, strict bool) (*time.Time, *time.Time, error) {
	if (since == nil) == (until == nil) {
		return since, until, nil
	}
	if strict {
		return nil, nil, types.ErrInvalidDateRange
	}
	return nil, nil, nil
}

func containsType(values []types.ActivityType, target types.ActivityType) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
