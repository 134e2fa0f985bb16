package preferences

import "github.com/goliatone/go-repository-cache/cache"

// RepositoryOption tunes how the report preference store is built.
type RepositoryOption func(*RepositoryOptions)

// RepositoryOptions holds optional persistence behavior. The zero value
// disables caching.
type RepositoryOptions struct {
	CacheEnabled bool
	CacheConfig  *cache.Config
}

// WithCache enables or disables the cached repository decorator. Resolved
// snapshots are rebuilt per request either way; caching only affects the
// underlying record reads.
func WithCache(enabled bool) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil {
			return
		}
		opts.CacheEnabled = enabled
	}
}

// WithCacheConfig overrides the cache configuration used when caching is on.
func WithCacheConfig(cfg cache.Config) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil {
			return
		}
		opts.CacheConfig = &cfg
	}
}

func applyRepositoryOptions(options []RepositoryOption) RepositoryOptions {
	var opts RepositoryOptions
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	return opts
}
