package fieldlog

import "github.com/goliatone/go-fieldlog/service"

// Re-export the service package entry point so consumers can do `fieldlog.New(...)`
// without importing internal wiring helpers.
type (
	Service            = service.Service
	Config             = service.Config
	Commands           = service.Commands
	Queries            = service.Queries
	PreferenceResolver = service.PreferenceResolver
	FilterOption       = service.FilterOption
)

// New constructs the go-fieldlog runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}
