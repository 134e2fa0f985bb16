package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-fieldlog/auditlog"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
)

// ActivityUpdateInput captures a partial update for an existing
// record.
type ActivityUpdateInput struct {
	Requester types.Requester
	ID        int64
	Patch     types.ActivityPatch
	Result    *types.ActivityRecord
}

// Type implements gocommand.Message.
func (ActivityUpdateInput) Type() string {
	return "command.activity.update"
}

// Validate implements gocommand.Message.
func (input ActivityUpdateInput) Validate() error {
	if input.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	if input.ID == 0 {
		return ErrActivityIDRequired
	}
	if input.Patch.Type != nil && !input.Patch.Type.Valid() {
		return ErrActivityTypeRequired
	}
	if input.Patch.Date != nil && input.Patch.Date.IsZero() {
		return ErrActivityDateRequired
	}
	if input.Patch.Description != nil && !validDescription(*input.Patch.Description) {
		return ErrActivityDescriptionTooShort
	}
	return nil
}

// ActivityUpdateCommand applies partial updates to activity records.
// Non-admins may only touch records they own.
type ActivityUpdateCommand struct {
	repo   types.ActivityRepository
	audit  types.AuditSink
	hooks  types.Hooks
	clock  types.Clock
	logger types.Logger
	guard  scope.Guard
}

// NewActivityUpdateCommand constructs the handler.
func NewActivityUpdateCommand(cfg ActivityCommandConfig) *ActivityUpdateCommand {
	return &ActivityUpdateCommand{
		repo:   cfg.Repository,
		audit:  cfg.AuditSink,
		hooks:  safeHooks(cfg.Hooks),
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[ActivityUpdateInput] = (*ActivityUpdateCommand)(nil)

// Execute authorizes against the stored owner, then applies the patch.
func (c *ActivityUpdateCommand) Execute(ctx context.Context, input ActivityUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	existing, err := c.repo.GetActivity(ctx, input.ID)
	if err != nil {
		return err
	}
	if err := c.guard.Enforce(ctx, input.Requester, types.PolicyActionActivityWrite, existing.OwnerID); err != nil {
		return err
	}

	updated, err := c.repo.UpdateActivity(ctx, input.ID, input.Patch)
	if err != nil {
		return err
	}
	if input.Result != nil && updated != nil {
		*input.Result = *updated
	}

	recordAudit(ctx, c.audit, c.logger, types.AuditRecord{
		UserID: input.Requester.UserID,
		Action: auditlog.ActionUpdateActivity,
		Details: map[string]any{
			"activity_id": updated.ID,
		},
		CreatedAt: now(c.clock),
	})
	emitActivityHook(ctx, c.hooks, *updated)
	return nil
}
