package profile

import "github.com/goliatone/go-repository-cache/cache"

// RepositoryOption configures profile repository construction.
type RepositoryOption func(*RepositoryOptions)

// RepositoryOptions holds the read cache settings. Directory and owner
// listings are filtered through repository scopes, so their filter values
// reach the cache key through the scope state whatever serializer is used.
type RepositoryOptions struct {
	CacheEnabled  bool
	CacheConfig   *cache.Config
	KeySerializer cache.KeySerializer
}

// WithCache wraps the profile store in the read cache.
func WithCache(enabled bool) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.CacheEnabled = enabled
	}
}

// WithCacheConfig overrides cache.DefaultConfig for the read cache.
func WithCacheConfig(cfg cache.Config) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.CacheConfig = &cfg
	}
}

// WithKeySerializer replaces the cache key serializer, e.g. to prefix keys
// when several deployments share one cache backend.
func WithKeySerializer(serializer cache.KeySerializer) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.KeySerializer = serializer
	}
}

func applyRepositoryOptions(options []RepositoryOption) RepositoryOptions {
	opts := RepositoryOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	if opts.KeySerializer == nil {
		opts.KeySerializer = cache.NewDefaultKeySerializer()
	}
	return opts
}
