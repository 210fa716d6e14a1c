package cache

import (
	"log/slog"
	"time"
)

// Options holds configuration for cache creation.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for the memory cache (0 = unlimited).
	MaxSize int
}

// DefaultOptions returns default cache configuration.
func DefaultOptions() Options {
	return Options{
		DefaultTTL: 5 * time.Minute,
		MaxSize:    10000,
	}
}

// New creates a cache based on the provided options. When a Redis URL is
// configured but the server is unreachable, it falls back to the in-memory
// cache rather than failing startup.
func New(opts Options) Cache {
	if opts.RedisURL != "" {
		redisOpts := DefaultRedisCacheOptions()
		redisOpts.URL = opts.RedisURL
		if opts.Prefix != "" {
			redisOpts.Prefix = opts.Prefix
		}
		if opts.DefaultTTL > 0 {
			redisOpts.DefaultTTL = opts.DefaultTTL
		}

		c, err := NewRedisCache(redisOpts)
		if err == nil {
			slog.Info("using Redis cache", "prefix", redisOpts.Prefix)
			return c
		}
		slog.Warn("Redis unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxSize:         opts.MaxSize,
		CleanupInterval: time.Minute,
	})
}
