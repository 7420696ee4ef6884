package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/SuperCaptions/internal/config"
)

// Supported backends, selected by cache.provider
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// defaultTTL applies when Options.TTL is not positive
const defaultTTL = time.Hour

// Options configures one cache instance.
type Options struct {
	// Size bounds the number of entries. Zero means unbounded.
	Size int
	// TTL is how long an entry lives after it was written. Defaults to one hour.
	TTL time.Duration
	// OnEvict is called for entries pushed out by the size bound.
	OnEvict EvictCallback
	// Group names the cache ("search", "content"). A non-empty group enables the
	// hit/miss/eviction metrics and, on Redis, namespaces the keys.
	Group string
	Redis RedisOptions
}

// RedisOptions locates the Redis/Valkey server of the redis backend.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	// KeyPrefix overrides the default "supercaptions:<group>:" namespace.
	KeyPrefix string
}

func (o Options) logger() zerolog.Logger {
	logger := config.GetLogger()
	return logger.With().Str("component", "cache").Str("cache", o.Group).Logger()
}

// New creates a cache on the named backend. An empty backend means memory.
func New(backend string, opts Options) (Cache, error) {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.Group != "" {
		group, onEvict := opts.Group, opts.OnEvict
		opts.OnEvict = func(key string, value []byte) {
			EvictionsTotal.WithLabelValues(group).Inc()
			if onEvict != nil {
				onEvict(key, value)
			}
		}
	}

	var inner Cache
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		inner = newMemoryCache(opts)
	case BackendRedis:
		rc, err := newRedisCache(opts)
		if err != nil {
			return nil, err
		}
		inner = rc
	default:
		return nil, fmt.Errorf("cache: unknown backend %q (supported: %s, %s)", backend, BackendMemory, BackendRedis)
	}

	if opts.Group == "" {
		return inner, nil
	}
	return newInstrumentedCache(inner, opts.Group), nil
}

// FromConfig creates the cache for group from the cache section of cfg
func FromConfig(cfg *config.Config, group string) (Cache, error) {
	c, err := New(cfg.Cache.Provider, Options{
		Size:  cfg.Cache.Size,
		TTL:   config.ParseDuration(cfg.Cache.TTL, defaultTTL),
		Group: group,
		Redis: RedisOptions{
			Address:  cfg.Cache.RedisAddress,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cache: %w", group, err)
	}
	return c, nil
}
