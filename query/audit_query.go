package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
)

// AuditTrailQuery lists audit entries. The default policy restricts
// the trail to admins.
type AuditTrailQuery struct {
	repo  types.AuditRepository
	guard scope.Guard
}

// NewAuditTrailQuery constructs the audit query helper.
func NewAuditTrailQuery(repo types.AuditRepository, guard scope.Guard) *AuditTrailQuery {
	return &AuditTrailQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.AuditFilter, types.AuditPage] = (*AuditTrailQuery)(nil)

// Query enforces the audit read policy and fetches a page.
func (q *AuditTrailQuery) Query(ctx context.Context, filter types.AuditFilter) (types.AuditPage, error) {
	if q.repo == nil {
		return types.AuditPage{}, types.ErrMissingAuditRepository
	}
	if err := filter.Validate(); err != nil {
		return types.AuditPage{}, err
	}
	if err := q.guard.Enforce(ctx, filter.Requester, types.PolicyActionAuditRead, uuid.Nil); err != nil {
		return types.AuditPage{}, err
	}
	return q.repo.ListAudit(ctx, filter)
}
