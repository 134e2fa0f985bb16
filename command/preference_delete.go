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

// PreferenceDeleteInput identifies a report preference to remove.
type PreferenceDeleteInput struct {
	Requester types.Requester
	UserID    uuid.UUID
	Level     types.PreferenceLevel
	Key       string
}

// Type implements gocommand.Message.
func (PreferenceDeleteInput) Type() string {
	return "command.preference.delete"
}

// Validate implements gocommand.Message.
func (input PreferenceDeleteInput) Validate() error {
	if input.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	if strings.TrimSpace(input.Key) == "" {
		return ErrPreferenceKeyRequired
	}
	if needsUser(input.Level) && input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	return nil
}

// PreferenceDeleteCommand removes a stored report preference.
type PreferenceDeleteCommand struct {
	repo   types.PreferenceRepository
	audit  types.AuditSink
	hooks  types.Hooks
	clock  types.Clock
	logger types.Logger
	guard  scope.Guard
}

// NewPreferenceDeleteCommand constructs the handler.
func NewPreferenceDeleteCommand(cfg PreferenceCommandConfig) *PreferenceDeleteCommand {
	return &PreferenceDeleteCommand{
		repo:   cfg.Repository,
		audit:  cfg.AuditSink,
		hooks:  safeHooks(cfg.Hooks),
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[PreferenceDeleteInput] = (*PreferenceDeleteCommand)(nil)

// Execute validates and removes the preference record.
func (c *PreferenceDeleteCommand) Execute(ctx context.Context, input PreferenceDeleteInput) error {
	if c.repo == nil {
		return types.ErrMissingPreferenceRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	if err := c.guard.Enforce(ctx, input.Requester, types.PolicyActionPrefsWrite, input.UserID); err != nil {
		return err
	}

	level := input.Level
	if level == "" {
		level = types.PreferenceLevelUser
	}
	key := strings.TrimSpace(input.Key)
	if err := c.repo.DeletePreference(ctx, input.UserID, level, key); err != nil {
		return err
	}

	recordAudit(ctx, c.audit, c.logger, types.AuditRecord{
		UserID: input.Requester.UserID,
		Action: auditlog.ActionUpdatePreferences,
		Details: map[string]any{
			"key":     key,
			"level":   string(level),
			"deleted": true,
		},
		CreatedAt: now(c.clock),
	})
	emitPreferenceHook(ctx, c.hooks, types.PreferenceEvent{
		UserID:     input.UserID,
		Level:      level,
		Key:        key,
		Action:     "preference.delete",
		OccurredAt: now(c.clock),
	})
	return nil
}
