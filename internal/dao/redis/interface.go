// Package redis defines the cache service interfaces.
// Services depend on these interfaces rather than the Redis client, so tests
// can substitute an in-memory implementation.
package redis

import (
	"context"
	"time"
)

// CacheService is the synchronous cache surface.
type CacheService interface {
	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get returns the value for key, or "" and nil when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Delete removes a key if present.
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes every key matching the glob pattern.
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AsyncCacheService adds non-blocking task submission for cache maintenance
// that must not sit on the request path (invalidation, write-back).
type AsyncCacheService interface {
	CacheService
	// SubmitTask queues action on the cache worker pool; when the pool is
	// saturated the action runs synchronously instead of being dropped.
	SubmitTask(action func())
}
