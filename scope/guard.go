package scope

import (
	"context"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/google/uuid"
)

// Guard enforces authorization policies for commands and queries. It
// is intentionally small so callers can swap custom guards in tests if
// needed.
type Guard interface {
	Enforce(ctx context.Context, requester types.Requester, action types.PolicyAction, owner uuid.UUID) error
}

type guard struct {
	policy types.AuthorizationPolicy
}

// NewGuard builds a Guard from the supplied policy. A nil policy is
// treated as a no-op.
func NewGuard(policy types.AuthorizationPolicy) Guard {
	return guard{policy: policy}
}

// Default returns a guard backed by the role policy shipped with this
// module.
func Default() Guard {
	return guard{policy: types.RolePolicy{}}
}

// Ensure returns a non-nil guard so command/query constructors can
// accept nil guards when tests instantiate them directly.
func Ensure(g Guard) Guard {
	if g == nil {
		return guard{}
	}
	return g
}

// NopGuard returns a guard that never blocks.
func NopGuard() Guard {
	return guard{}
}

// Enforce authorizes the action against the configured policy. owner
// is the target record's owner, or uuid.Nil for collection-level
// actions.
func (g guard) Enforce(ctx context.Context, requester types.Requester, action types.PolicyAction, owner uuid.UUID) error {
	if g.policy == nil || action == "" {
		return nil
	}
	return g.policy.Authorize(ctx, types.PolicyCheck{
		Requester: requester,
		Action:    action,
		OwnerID:   owner,
	})
}
