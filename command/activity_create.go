package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-fieldlog/auditlog"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
)

// ActivityCommandConfig wires dependencies shared by the activity
// lifecycle commands.
type ActivityCommandConfig struct {
	Repository types.ActivityRepository
	AuditSink  types.AuditSink
	Hooks      types.Hooks
	Clock      types.Clock
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// ActivityCreateInput captures a new activity payload. The requester
// becomes the record owner.
type ActivityCreateInput struct {
	Requester types.Requester
	Activity  types.ActivityInput
	Result    *types.ActivityRecord
}

// Type implements gocommand.Message.
func (ActivityCreateInput) Type() string {
	return "command.activity.create"
}

// Validate implements gocommand.Message. Malformed payloads are
// rejected here, at the creation boundary, so reads and aggregation
// never see them.
func (input ActivityCreateInput) Validate() error {
	if input.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	if !input.Activity.Type.Valid() {
		return ErrActivityTypeRequired
	}
	if input.Activity.Date.IsZero() {
		return ErrActivityDateRequired
	}
	if !validDescription(input.Activity.Description) {
		return ErrActivityDescriptionTooShort
	}
	return nil
}

// ActivityCreateCommand persists new activity records.
type ActivityCreateCommand struct {
	repo   types.ActivityRepository
	audit  types.AuditSink
	hooks  types.Hooks
	clock  types.Clock
	logger types.Logger
	guard  scope.Guard
}

// NewActivityCreateCommand constructs the handler.
func NewActivityCreateCommand(cfg ActivityCommandConfig) *ActivityCreateCommand {
	return &ActivityCreateCommand{
		repo:   cfg.Repository,
		audit:  cfg.AuditSink,
		hooks:  safeHooks(cfg.Hooks),
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[ActivityCreateInput] = (*ActivityCreateCommand)(nil)

// Execute validates and persists the supplied activity.
func (c *ActivityCreateCommand) Execute(ctx context.Context, input ActivityCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if err := c.guard.Enforce(ctx, input.Requester, types.PolicyActionActivityWrite, input.Requester.UserID); err != nil {
		return err
	}

	record := types.ActivityRecord{
		Type:           input.Activity.Type,
		Description:    strings.TrimSpace(input.Activity.Description),
		Date:           input.Activity.Date,
		OwnerID:        input.Requester.UserID,
		Municipalities: input.Activity.Municipalities,
		CreatedAt:      now(c.clock),
	}
	saved, err := c.repo.CreateActivity(ctx, record)
	if err != nil {
		return err
	}
	if input.Result != nil && saved != nil {
		*input.Result = *saved
	}

	recordAudit(ctx, c.audit, c.logger, types.AuditRecord{
		UserID: input.Requester.UserID,
		Action: auditlog.ActionCreateActivity,
		Details: map[string]any{
			"activity_id": saved.ID,
			"type":        string(saved.Type),
		},
		CreatedAt: now(c.clock),
	})
	emitActivityHook(ctx, c.hooks, *saved)
	return nil
}
