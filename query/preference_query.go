package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/preferences"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
)

// PreferenceQueryInput scopes preference resolution.
type PreferenceQueryInput struct {
	Requester types.Requester
	UserID    uuid.UUID
	Levels    []types.PreferenceLevel
	Keys      []string
	Base      map[string]any
}

// PreferenceQuery resolves effective report preferences via the injected resolver.
type PreferenceQuery struct {
	resolver preferenceResolver
	guard    scope.Guard
}

type preferenceResolver interface {
	Resolve(ctx context.Context, input preferences.ResolveInput) (types.PreferenceSnapshot, error)
}

// NewPreferenceQuery constructs the query helper.
func NewPreferenceQuery(resolver preferenceResolver, guard scope.Guard) *PreferenceQuery {
	return &PreferenceQuery{
		resolver: resolver,
		guard:    safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[PreferenceQueryInput, types.PreferenceSnapshot] = (*PreferenceQuery)(nil)

// Query resolves preferences for the requested user. Callers that omit
// the target user get their own settings.
func (q *PreferenceQuery) Query(ctx context.Context, input PreferenceQueryInput) (types.PreferenceSnapshot, error) {
	if q.resolver == nil {
		return types.PreferenceSnapshot{}, types.ErrMissingPreferenceRepository
	}
	target := input.UserID
	if target == uuid.Nil {
		target = input.Requester.UserID
	}
	if err := q.guard.Enforce(ctx, input.Requester, types.PolicyActionPrefsRead, target); err != nil {
		return types.PreferenceSnapshot{}, err
	}
	return q.resolver.Resolve(ctx, preferences.ResolveInput{
		UserID: target,
		Levels: input.Levels,
		Keys:   input.Keys,
		Base:   input.Base,
	})
}
