package types

import (
	"context"

	"github.com/google/uuid"
)

// PolicyAction names a guarded operation.
type PolicyAction string

const (
	PolicyActionActivityRead   PolicyAction = "activity:read"
	PolicyActionActivityWrite  PolicyAction = "activity:write"
	PolicyActionActivityDelete PolicyAction = "activity:delete"
	PolicyActionAuditRead      PolicyAction = "audit:read"
	PolicyActionPrefsRead      PolicyAction = "preferences:read"
	PolicyActionPrefsWrite     PolicyAction = "preferences:write"
)

// PolicyCheck is the input to an authorization decision. OwnerID is the
// owner of the targeted record, or uuid.Nil when the action has no
// single target.
type PolicyCheck struct {
	Requester Requester
	Action    PolicyAction
	OwnerID   uuid.UUID
}

// AuthorizationPolicy decides whether a requester may perform an
// action. Implementations return nil to allow.
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, check PolicyCheck) error
}

// AuthorizationPolicyFunc adapts a function to AuthorizationPolicy.
type AuthorizationPolicyFunc func(ctx context.Context, check PolicyCheck) error

func (f AuthorizationPolicyFunc) Authorize(ctx context.Context, check PolicyCheck) error {
	if f == nil {
		return nil
	}
	return f(ctx, check)
}

// RolePolicy is the default authorization policy. Admins may do
// anything. Managers read every activity but, like servers, only
// mutate records they own. The audit trail is admin-only. Unknown
// roles may still issue reads; visibility resolution collapses their
// scope to nothing, so they read back empty rather than erroring.
type RolePolicy struct{}

var _ AuthorizationPolicy = (*RolePolicy)(nil)

func (RolePolicy) Authorize(_ context.Context, check PolicyCheck) error {
	role := check.Requester.Role
	if role == RoleAdmin {
		return nil
	}
	switch check.Action {
	case PolicyActionActivityRead:
		return nil
	case PolicyActionActivityWrite, PolicyActionActivityDelete:
		if !role.Valid() {
			return ErrUnauthorizedRole
		}
		if check.OwnerID != uuid.Nil && check.OwnerID != check.Requester.UserID {
			return ErrNotRecordOwner
		}
		return nil
	case PolicyActionPrefsRead, PolicyActionPrefsWrite:
		if !role.Valid() {
			return ErrUnauthorizedRole
		}
		if check.OwnerID != uuid.Nil && check.OwnerID != check.Requester.UserID {
			return ErrNotRecordOwner
		}
		return nil
	case PolicyActionAuditRead:
		return ErrUnauthorizedRole
	default:
		return ErrUnauthorizedRole
	}
}
