// Package validation wires go-auth token validation callbacks into the
// go-fieldlog audit trail so session events land next to activity
// mutations.
package validation

import (
	"github.com/goliatone/go-auth/middleware/jwtware"
	"github.com/goliatone/go-fieldlog/auditlog"
	"github.com/goliatone/go-fieldlog/pkg/authctx"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-router"
)

// ListenerOptions customize the validation listener behaviour.
type ListenerOptions struct {
	AuditSink types.AuditSink
	Logger    types.Logger
}

// NewListener returns a jwtware.ValidationListener that records a login
// audit entry whenever a token is validated. Failures are logged and
// never block the request.
func NewListener(opts ListenerOptions) jwtware.ValidationListener {
	logger := opts.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return func(ctx router.Context, claims jwtware.AuthClaims) error {
		requester, err := authctx.ResolveRequesterFromRouter(ctx)
		if err != nil {
			logger.Error("validation listener failed to resolve requester", "error", err)
			return nil
		}
		if opts.AuditSink == nil {
			return nil
		}
		record := types.AuditRecord{
			UserID: requester.UserID,
			Action: auditlog.ActionLogin,
			Details: map[string]any{
				"role":    string(requester.Role),
				"subject": claims.Subject(),
			},
		}
		if err := opts.AuditSink.Record(ctx.Context(), record); err != nil {
			logger.Error("validation audit sink failed", "error", err)
		}
		return nil
	}
}
