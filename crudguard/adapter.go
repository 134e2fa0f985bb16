// Package crudguard bridges go-crud transports and the scope guard:
// each CRUD operation maps to a policy action enforced against the
// authenticated requester before handlers run.
package crudguard

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-fieldlog/pkg/authctx"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
)

const (
	textCodeAccessDenied         = "ACCESS_DENIED"
	textCodeScopeEnforcementFail = "SCOPE_ENFORCEMENT_FAILED"
	textCodeMissingPolicy        = "SCOPE_POLICY_MISSING"
	textCodeMissingContext       = "CONTEXT_MISSING"
)

// Config drives Adapter construction.
type Config struct {
	Guard          scope.Guard
	Logger         types.Logger
	PolicyMap      map[crud.CrudOperation]types.PolicyAction
	FallbackAction types.PolicyAction
}

// Adapter turns go-crud operations into scope guard enforcement calls.
type Adapter struct {
	guard          scope.Guard
	logger         types.Logger
	policyMap      map[crud.CrudOperation]types.PolicyAction
	fallbackAction types.PolicyAction
}

// GuardInput captures per-request parameters supplied by transports.
// TargetOwner identifies the owner of the record under mutation, or
// uuid.Nil for collection-level reads.
type GuardInput struct {
	Context     crud.Context
	Operation   crud.CrudOperation
	TargetOwner uuid.UUID
	Bypass      *BypassConfig
}

// GuardResult reports the resolved requester returned by the adapter.
type GuardResult struct {
	Requester    types.Requester
	Operation    crud.CrudOperation
	Bypassed     bool
	BypassReason string
}

// BypassConfig explicitly allows guard skips for whitelisted routes
// (e.g. schema exports). It must never be enabled by default.
type BypassConfig struct {
	Enabled bool
	Reason  string
}

// NewAdapter constructs a Guard adapter and validates the supplied config.
func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.Guard == nil {
		return nil, goerrors.New("go-fieldlog: scope guard is required", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeScopeEnforcementFail)
	}
	if len(cfg.PolicyMap) == 0 && cfg.FallbackAction == "" {
		return nil, goerrors.New("go-fieldlog: policy map or fallback action must be provided", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingPolicy)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}

	return &Adapter{
		guard:          scope.Ensure(cfg.Guard),
		logger:         logger,
		policyMap:      clonePolicyMap(cfg.PolicyMap),
		fallbackAction: cfg.FallbackAction,
	}, nil
}

// Enforce resolves the requester, optionally bypasses, and finally
// enforces the scope guard with the mapped PolicyAction.
func (a *Adapter) Enforce(in GuardInput) (GuardResult, error) {
	if in.Context == nil {
		return GuardResult{}, goerrors.New("go-fieldlog: crudguard requires a context", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingContext)
	}

	ctx := in.Context.UserContext()
	requester, err := authctx.ResolveRequester(ctx)
	if err != nil {
		return GuardResult{}, err
	}

	if in.Bypass != nil && in.Bypass.Enabled {
		a.logger.Info("crudguard: bypassing guard enforcement", "operation", string(in.Operation), "reason", in.Bypass.Reason)
		return GuardResult{
			Requester:    requester,
			Operation:    in.Operation,
			Bypassed:     true,
			BypassReason: in.Bypass.Reason,
		}, nil
	}

	action, err := a.actionForOperation(in.Operation)
	if err != nil {
		return GuardResult{}, err
	}

	if err := a.guard.Enforce(ctx, requester, action, in.TargetOwner); err != nil {
		return GuardResult{}, wrapGuardError(err, action)
	}

	return GuardResult{
		Requester: requester,
		Operation: in.Operation,
	}, nil
}

func (a *Adapter) actionForOperation(op crud.CrudOperation) (types.PolicyAction, error) {
	if act, ok := a.policyMap[op]; ok && act != "" {
		return act, nil
	}
	if a.fallbackAction != "" {
		return a.fallbackAction, nil
	}
	return "", goerrors.New(fmt.Sprintf("go-fieldlog: no policy action configured for %s", op), goerrors.CategoryInternal).
		WithCode(goerrors.CodeInternal).
		WithTextCode(textCodeMissingPolicy)
}

func wrapGuardError(err error, action types.PolicyAction) error {
	if errors.Is(err, types.ErrUnauthorizedRole) || errors.Is(err, types.ErrNotRecordOwner) {
		return goerrors.Wrap(err, goerrors.CategoryAuthz, "go-fieldlog: scope guard rejected the request").
			WithCode(goerrors.CodeForbidden).
			WithTextCode(textCodeAccessDenied)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("go-fieldlog: scope guard failed for action %s", action)).
		WithCode(goerrors.CodeInternal).
		WithTextCode(textCodeScopeEnforcementFail)
}
