// Package service assembles the go-fieldlog command and query
// facades from host-supplied repositories, hooks, and policies.
package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-fieldlog/activity"
	"github.com/goliatone/go-fieldlog/command"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/preferences"
	"github.com/goliatone/go-fieldlog/query"
	"github.com/goliatone/go-fieldlog/scope"
)

// Service is the entry point for go-fieldlog. It wires repositories,
// hooks, and command/query facades supplied by the host application.
type Service struct {
	cfg            Config
	commands       Commands
	queries        Queries
	activityRepo   types.ActivityRepository
	auditRepo      types.AuditRepository
	preferenceRepo types.PreferenceRepository
	prefResolver   PreferenceResolver
	scopeGuard     scope.Guard
}

// Commands exposes the service command handlers.
type Commands struct {
	ActivityCreate   *command.ActivityCreateCommand
	ActivityUpdate   *command.ActivityUpdateCommand
	ActivityDelete   *command.ActivityDeleteCommand
	AuditRecord      *command.AuditRecordCommand
	PreferenceUpsert *command.PreferenceUpsertCommand
	PreferenceDelete *command.PreferenceDeleteCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ActivityFeed   *query.ActivityFeedQuery
	ActivityDetail *query.ActivityDetailQuery
	ActivityStats  *query.ActivityStatsQuery
	AuditTrail     *query.AuditTrailQuery
	Preferences    *query.PreferenceQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB-backed repositories, hooks, feature gates, etc.).
type Config struct {
	ActivityRepository   types.ActivityRepository
	AuditSink            types.AuditSink
	AuditRepository      types.AuditRepository
	PreferenceRepository types.PreferenceRepository
	PreferenceResolver   PreferenceResolver
	Hooks                types.Hooks
	Clock                types.Clock
	Logger               types.Logger
	AuthorizationPolicy  types.AuthorizationPolicy
	FeatureGate          featuregate.FeatureGate
	FilterOptions        []FilterOption
}

// FilterOption forwards filter construction options to the query layer.
type FilterOption = activity.FilterOption

// PreferenceResolver resolves layered preferences for queries.
type PreferenceResolver interface {
	Resolve(ctx context.Context, input preferences.ResolveInput) (types.PreferenceSnapshot, error)
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	auditRepo := norm.AuditRepository
	if auditRepo == nil {
		if cast, ok := norm.AuditSink.(types.AuditRepository); ok {
			auditRepo = cast
		}
	}
	prefResolver := norm.PreferenceResolver
	if prefResolver == nil && norm.PreferenceRepository != nil {
		if resolver, err := preferences.NewResolver(preferences.ResolverConfig{
			Repository: norm.PreferenceRepository,
		}); err == nil {
			prefResolver = resolver
		} else {
			norm.Logger.Error("preference resolver initialization failed", "error", err)
		}
	}

	scopeGuard := scope.Ensure(scope.NewGuard(norm.AuthorizationPolicy))

	s := &Service{
		cfg:            norm,
		activityRepo:   norm.ActivityRepository,
		auditRepo:      auditRepo,
		preferenceRepo: norm.PreferenceRepository,
		prefResolver:   prefResolver,
		scopeGuard:     scopeGuard,
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.AuthorizationPolicy == nil {
		cfg.AuthorizationPolicy = types.RolePolicy{}
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.activityRepo != nil &&
		s.cfg.AuditSink != nil &&
		s.auditRepo != nil &&
		s.preferenceRepo != nil &&
		s.prefResolver != nil
}

// HealthCheck surfaces the first missing dependency so upstream
// transports (REST, jobs) can fail fast at startup.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if s.activityRepo == nil {
		return types.ErrMissingActivityRepository
	}
	if s.cfg.AuditSink == nil {
		return types.ErrMissingAuditSink
	}
	if s.auditRepo == nil {
		return types.ErrMissingAuditRepository
	}
	if s.preferenceRepo == nil {
		return types.ErrMissingPreferenceRepository
	}
	if s.prefResolver == nil {
		return types.ErrMissingPreferenceResolver
	}
	return nil
}

// ScopeGuard exposes the guard instance used internally so transports can reuse
// the same policy for HTTP adapters.
func (s *Service) ScopeGuard() scope.Guard {
	if s == nil {
		return scope.NopGuard()
	}
	return scope.Ensure(s.scopeGuard)
}

// AuditSink returns the configured sink so transports can record
// session events (logins, logouts) through the same pipeline.
func (s *Service) AuditSink() types.AuditSink {
	if s == nil {
		return nil
	}
	return s.cfg.AuditSink
}

func (s *Service) buildCommands() Commands {
	base := command.ActivityCommandConfig{
		Repository: s.activityRepo,
		AuditSink:  s.cfg.AuditSink,
		Hooks:      s.cfg.Hooks,
		Clock:      s.cfg.Clock,
		Logger:     s.cfg.Logger,
		ScopeGuard: s.scopeGuard,
	}
	return Commands{
		ActivityCreate: command.NewActivityCreateCommand(base),
		ActivityUpdate: command.NewActivityUpdateCommand(base),
		ActivityDelete: command.NewActivityDeleteCommand(command.ActivityDeleteConfig{
			ActivityCommandConfig: base,
			FeatureGate:           s.cfg.FeatureGate,
		}),
		AuditRecord: command.NewAuditRecordCommand(command.AuditRecordConfig{
			Sink:  s.cfg.AuditSink,
			Hooks: s.cfg.Hooks,
			Clock: s.cfg.Clock,
		}),
		PreferenceUpsert: command.NewPreferenceUpsertCommand(command.PreferenceCommandConfig{
			Repository:  s.preferenceRepo,
			AuditSink:   s.cfg.AuditSink,
			Hooks:       s.cfg.Hooks,
			Clock:       s.cfg.Clock,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			FeatureGate: s.cfg.FeatureGate,
		}),
		PreferenceDelete: command.NewPreferenceDeleteCommand(command.PreferenceCommandConfig{
			Repository:  s.preferenceRepo,
			AuditSink:   s.cfg.AuditSink,
			Hooks:       s.cfg.Hooks,
			Clock:       s.cfg.Clock,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			FeatureGate: s.cfg.FeatureGate,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		ActivityFeed:   query.NewActivityFeedQuery(s.activityRepo, s.scopeGuard, s.cfg.FilterOptions...),
		ActivityDetail: query.NewActivityDetailQuery(s.activityRepo, s.scopeGuard),
		ActivityStats:  query.NewActivityStatsQuery(s.activityRepo, s.scopeGuard, s.cfg.Clock, s.cfg.FilterOptions...),
		AuditTrail:     query.NewAuditTrailQuery(s.auditRepo, s.scopeGuard),
		Preferences:    query.NewPreferenceQuery(s.prefResolver, s.scopeGuard),
	}
}
