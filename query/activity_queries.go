package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-fieldlog/activity"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/goliatone/go-fieldlog/stats"
	"github.com/google/uuid"
)

// ActivityFeedQuery renders paginated, visibility-scoped activity
// lists.
type ActivityFeedQuery struct {
	repo  types.ActivityRepository
	guard scope.Guard
	opts  []activity.FilterOption
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo types.ActivityRepository, guard scope.Guard, opts ...activity.FilterOption) *ActivityFeedQuery {
	return &ActivityFeedQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
		opts:  opts,
	}
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

// Query resolves the requester's visibility scope, then fetches a page
// via the injected repository.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	if q.repo == nil {
		return types.ActivityPage{}, types.ErrMissingActivityRepository
	}
	if err := q.guard.Enforce(ctx, filter.Requester, types.PolicyActionActivityRead, uuid.Nil); err != nil {
		return types.ActivityPage{}, err
	}
	resolved, err := activity.BuildFilterFromRequester(filter.Requester, filter, q.opts...)
	if err != nil {
		return types.ActivityPage{}, err
	}
	return q.repo.ListActivities(ctx, resolved)
}

// ActivityDetailQuery fetches one record, enforcing visibility against
// the stored owner.
type ActivityDetailQuery struct {
	repo  types.ActivityRepository
	guard scope.Guard
}

// ActivityDetailInput identifies the record to read.
type ActivityDetailInput struct {
	Requester types.Requester
	ID        int64
}

// Type implements gocommand.Message.
func (ActivityDetailInput) Type() string {
	return "query.activity.detail"
}

// Validate implements gocommand.Message.
func (input ActivityDetailInput) Validate() error {
	if input.Requester.UserID == uuid.Nil {
		return types.ErrRequesterRequired
	}
	return nil
}

// NewActivityDetailQuery constructs the detail query helper.
func NewActivityDetailQuery(repo types.ActivityRepository, guard scope.Guard) *ActivityDetailQuery {
	return &ActivityDetailQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[ActivityDetailInput, *types.ActivityRecord] = (*ActivityDetailQuery)(nil)

// Query returns the record when the requester's scope reaches it. A
// record outside the scope reads as not found rather than forbidden,
// so existence is not leaked.
func (q *ActivityDetailQuery) Query(ctx context.Context, input ActivityDetailInput) (*types.ActivityRecord, error) {
	if q.repo == nil {
		return nil, types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := q.guard.Enforce(ctx, input.Requester, types.PolicyActionActivityRead, uuid.Nil); err != nil {
		return nil, err
	}

	record, err := q.repo.GetActivity(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	filter, err := activity.BuildFilterFromRequester(input.Requester, types.ActivityFilter{})
	if err != nil {
		return nil, err
	}
	if !activity.Matches(filter, *record) {
		return nil, types.ErrActivityNotFound
	}
	return record, nil
}

// ActivityStatsQuery computes the aggregate reporting payload over the
// requester's visible record set.
type ActivityStatsQuery struct {
	repo  types.ActivityRepository
	guard scope.Guard
	clock types.Clock
	opts  []activity.FilterOption
}

// NewActivityStatsQuery constructs the stats helper. The clock anchors
// the month-over-month trend window.
func NewActivityStatsQuery(repo types.ActivityRepository, guard scope.Guard, clock types.Clock, opts ...activity.FilterOption) *ActivityStatsQuery {
	return &ActivityStatsQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
		clock: safeClock(clock),
		opts:  opts,
	}
}

var _ gocommand.Querier[types.StatisticsFilter, types.Statistics] = (*ActivityStatsQuery)(nil)

// Query fetches the visible records and aggregates them in memory.
// Bucketing happens in one place so the month-key format cannot drift
// between assignment and trend lookup.
func (q *ActivityStatsQuery) Query(ctx context.Context, filter types.StatisticsFilter) (types.Statistics, error) {
	if q.repo == nil {
		return types.Statistics{}, types.ErrMissingActivityRepository
	}
	if err := q.guard.Enforce(ctx, filter.Requester, types.PolicyActionActivityRead, uuid.Nil); err != nil {
		return types.Statistics{}, err
	}
	resolved, err := activity.BuildStatsFilterFromRequester(filter.Requester, filter, q.opts...)
	if err != nil {
		return types.Statistics{}, err
	}
	records, err := q.repo.VisibleActivities(ctx, resolved)
	if err != nil {
		return types.Statistics{}, err
	}
	return stats.Aggregate(records, now(q.clock)), nil
}
