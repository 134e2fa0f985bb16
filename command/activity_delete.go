package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-fieldlog/auditlog"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
)

// ActivityDeleteInput identifies the record to remove.
type ActivityDeleteInput struct {
	Requester types.Requester
	ID        int64
}

// Type implements gocommand.Message.
func (ActivityDeleteInput) Type() string {
	return "command.activity.delete"
}

// Validate implements gocommand.Message.
func (input ActivityDeleteInput) Validate() error {
	if input.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	if input.ID == 0 {
		return ErrActivityIDRequired
	}
	return nil
}

// ActivityDeleteCommand removes activity records. Deletion can be
// switched off per deployment through the activities.delete gate.
type ActivityDeleteCommand struct {
	repo   types.ActivityRepository
	audit  types.AuditSink
	hooks  types.Hooks
	clock  types.Clock
	logger types.Logger
	guard  scope.Guard
	gate   featuregate.FeatureGate
}

// ActivityDeleteConfig wires dependencies for the delete command.
type ActivityDeleteConfig struct {
	ActivityCommandConfig
	FeatureGate featuregate.FeatureGate
}

// NewActivityDeleteCommand constructs the handler.
func NewActivityDeleteCommand(cfg ActivityDeleteConfig) *ActivityDeleteCommand {
	return &ActivityDeleteCommand{
		repo:   cfg.Repository,
		audit:  cfg.AuditSink,
		hooks:  safeHooks(cfg.Hooks),
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
		gate:   cfg.FeatureGate,
	}
}

var _ gocommand.Commander[ActivityDeleteInput] = (*ActivityDeleteCommand)(nil)

// Execute authorizes against the stored owner, then deletes.
func (c *ActivityDeleteCommand) Execute(ctx context.Context, input ActivityDeleteInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	enabled, err := featureEnabled(ctx, c.gate, featureActivitiesDelete, input.Requester.UserID)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrActivityDeleteDisabled
	}

	existing, err := c.repo.GetActivity(ctx, input.ID)
	if err != nil {
		return err
	}
	if err := c.guard.Enforce(ctx, input.Requester, types.PolicyActionActivityDelete, existing.OwnerID); err != nil {
		return err
	}

	if err := c.repo.DeleteActivity(ctx, input.ID); err != nil {
		return err
	}

	recordAudit(ctx, c.audit, c.logger, types.AuditRecord{
		UserID: input.Requester.UserID,
		Action: auditlog.ActionDeleteActivity,
		Details: map[string]any{
			"activity_id": existing.ID,
			"type":        string(existing.Type),
		},
		CreatedAt: now(c.clock),
	})
	emitActivityHook(ctx, c.hooks, *existing)
	return nil
}
