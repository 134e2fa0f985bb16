package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-fieldlog/auditlog"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
	"github.com/google/uuid"
)

// PreferenceCommandConfig wires dependencies for preference commands.
type PreferenceCommandConfig struct {
	Repository  types.PreferenceRepository
	AuditSink   types.AuditSink
	Hooks       types.Hooks
	Clock       types.Clock
	Logger      types.Logger
	ScopeGuard  scope.Guard
	FeatureGate featuregate.FeatureGate
}

// PreferenceUpsertInput captures a report preference mutation.
type PreferenceUpsertInput struct {
	Requester types.Requester
	UserID    uuid.UUID
	Level     types.PreferenceLevel
	Key       string
	Value     map[string]any
	Result    *types.PreferenceRecord
}

// Type implements gocommand.Message.
func (PreferenceUpsertInput) Type() string {
	return "command.preference.upsert"
}

// Validate implements gocommand.Message.
func (input PreferenceUpsertInput) Validate() error {
	if input.Requester.UserID == uuid.Nil {
		return ErrRequesterRequired
	}
	if strings.TrimSpace(input.Key) == "" {
		return ErrPreferenceKeyRequired
	}
	if input.Value == nil {
		return ErrPreferenceValueRequired
	}
	if needsUser(input.Level) && input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	return nil
}

// PreferenceUpsertCommand upserts a report preference record.
type PreferenceUpsertCommand struct {
	repo   types.PreferenceRepository
	audit  types.AuditSink
	hooks  types.Hooks
	clock  types.Clock
	logger types.Logger
	guard  scope.Guard
	gate   featuregate.FeatureGate
}

// NewPreferenceUpsertCommand constructs the handler.
func NewPreferenceUpsertCommand(cfg PreferenceCommandConfig) *PreferenceUpsertCommand {
	return &PreferenceUpsertCommand{
		repo:   cfg.Repository,
		audit:  cfg.AuditSink,
		hooks:  safeHooks(cfg.Hooks),
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
		gate:   cfg.FeatureGate,
	}
}

var _ gocommand.Commander[PreferenceUpsertInput] = (*PreferenceUpsertCommand)(nil)

// Execute validates and persists the preference payload.
func (c *PreferenceUpsertCommand) Execute(ctx context.Context, input PreferenceUpsertInput) error {
	if c.repo == nil {
		return types.ErrMissingPreferenceRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	enabled, err := featureEnabled(ctx, c.gate, featureReportPreferences, input.Requester.UserID)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrPreferencesDisabled
	}

	if err := c.guard.Enforce(ctx, input.Requester, types.PolicyActionPrefsWrite, input.UserID); err != nil {
		return err
	}

	level := input.Level
	if level == "" {
		level = types.PreferenceLevelUser
	}

	record := types.PreferenceRecord{
		UserID: input.UserID,
		Level:  level,
		Key:    strings.TrimSpace(input.Key),
		Value:  cloneMap(input.Value),
	}
	saved, err := c.repo.UpsertPreference(ctx, record)
	if err != nil {
		return err
	}
	if input.Result != nil && saved != nil {
		*input.Result = *saved
	}

	recordAudit(ctx, c.audit, c.logger, types.AuditRecord{
		UserID: input.Requester.UserID,
		Action: auditlog.ActionUpdatePreferences,
		Details: map[string]any{
			"key":   record.Key,
			"level": string(level),
		},
		CreatedAt: now(c.clock),
	})
	emitPreferenceHook(ctx, c.hooks, types.PreferenceEvent{
		UserID:     input.UserID,
		Level:      level,
		Key:        record.Key,
		Action:     "preference.upsert",
		OccurredAt: now(c.clock),
	})
	return nil
}

func needsUser(level types.PreferenceLevel) bool {
	return level == "" || level == types.PreferenceLevelUser
}
