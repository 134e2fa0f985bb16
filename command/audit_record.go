package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/google/uuid"
)

// AuditRecordInput wraps an audit entry to persist through the sink.
type AuditRecordInput struct {
	Record types.AuditRecord
}

// Type implements gocommand.Message.
func (AuditRecordInput) Type() string {
	return "command.audit.record"
}

// Validate implements gocommand.Message.
func (input AuditRecordInput) Validate() error {
	if strings.TrimSpace(input.Record.Action) == "" {
		return ErrAuditActionRequired
	}
	if input.Record.UserID == uuid.Nil {
		return ErrAuditUserRequired
	}
	return nil
}

// AuditRecordCommand appends entries to the audit trail. Transports
// use it for session events (login, logout) that happen outside the
// activity lifecycle commands.
type AuditRecordCommand struct {
	sink  types.AuditSink
	hooks types.Hooks
	clock types.Clock
}

// AuditRecordConfig wires dependencies for the audit command.
type AuditRecordConfig struct {
	Sink  types.AuditSink
	Hooks types.Hooks
	Clock types.Clock
}

// NewAuditRecordCommand constructs the handler.
func NewAuditRecordCommand(cfg AuditRecordConfig) *AuditRecordCommand {
	return &AuditRecordCommand{
		sink:  cfg.Sink,
		hooks: safeHooks(cfg.Hooks),
		clock: safeClock(cfg.Clock),
	}
}

var _ gocommand.Commander[AuditRecordInput] = (*AuditRecordCommand)(nil)

// Execute validates and persists the supplied entry.
func (c *AuditRecordCommand) Execute(ctx context.Context, input AuditRecordInput) error {
	if c.sink == nil {
		return types.ErrMissingAuditSink
	}
	if err := input.Validate(); err != nil {
		return err
	}
	record := input.Record
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now(c.clock)
	}
	if err := c.sink.Record(ctx, record); err != nil {
		return err
	}
	emitAuditHook(ctx, c.hooks, record)
	return nil
}
