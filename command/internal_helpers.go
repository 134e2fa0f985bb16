package command

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/scope"
)

// minDescriptionLength is the shortest description accepted at the
// write boundary. Counted in runes after trimming whitespace.
const minDescriptionLength = 10

func validDescription(description string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(description)) >= minDescriptionLength
}

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeHooks(hooks types.Hooks) types.Hooks {
	return hooks
}

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

// recordAudit writes a trail entry without blocking the operation.
// Failures are surfaced through the logger only.
func recordAudit(ctx context.Context, sink types.AuditSink, logger types.Logger, record types.AuditRecord) {
	if sink == nil {
		return
	}
	if err := sink.Record(ctx, record); err != nil {
		safeLogger(logger).Warn("audit record failed", "action", record.Action, "error", err)
	}
}

func emitActivityHook(ctx context.Context, hooks types.Hooks, record types.ActivityRecord) {
	if hooks.AfterActivityChange == nil {
		return
	}
	hooks.AfterActivityChange(ctx, record)
}

func emitAuditHook(ctx context.Context, hooks types.Hooks, record types.AuditRecord) {
	if hooks.AfterAudit == nil {
		return
	}
	hooks.AfterAudit(ctx, record)
}

func emitPreferenceHook(ctx context.Context, hooks types.Hooks, event types.PreferenceEvent) {
	if hooks.AfterPreferenceChange == nil {
		return
	}
	hooks.AfterPreferenceChange(ctx, event)
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
