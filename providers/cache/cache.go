// Package cache provides pluggable caches for geocoding results
package cache

import (
	"context"
	"time"

	"agroclima.app/config"
)

// Cache defines generic byte-oriented cache operations
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// New creates the cache backend selected by configuration.
// Type "none" disables caching and returns a nil Cache.
func New(cfg *config.CacheConfig) (Cache, error) {
	switch cfg.Type {
	case "redis":
		return NewRedisCache(&RedisCacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "none":
		return nil, nil
	default:
		return NewMemoryCache(), nil
	}
}
