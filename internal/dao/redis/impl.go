// Package redis provides the Redis-backed CacheService implementation.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nimbus_chat_server/pkg/errorx"
)

// RedisCache implements both CacheService and AsyncCacheService. Callers
// declare the narrower interface they need; the worker pool is only visible
// through AsyncCacheService.
type RedisCache struct {
	client   *redis.Client
	taskChan chan func()
}

// NewRedisCache creates the cache and starts its worker pool.
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	rc := &RedisCache{
		client:   client,
		taskChan: make(chan func(), taskChanSize),
	}
	for i := 0; i < workerNum; i++ {
		go rc.startWorker()
	}
	zap.L().Info("Redis cache workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

func (r *RedisCache) startWorker() {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis worker panic", zap.Any("recover", rec))
			go r.startWorker() // restart
		}
	}()

	for task := range r.taskChan {
		if task != nil {
			task()
		}
	}
}

// SubmitTask queues action, falling back to synchronous execution when the
// channel is full.
func (r *RedisCache) SubmitTask(action func()) {
	select {
	case r.taskChan <- action:
	default:
		zap.L().Warn("Redis cache task channel full, executing synchronously")
		action()
	}
}

// Set stores a value with a TTL.
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// Get returns the value for key, or "" and nil when the key is absent.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// Delete removes a key if present.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis del key %s", key)
	}
	return nil
}

// DeleteByPattern scans for keys matching pattern and removes them. SCAN is
// used instead of KEYS to avoid blocking the server on large keyspaces.
func (r *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis del key %s", iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis scan pattern %s", pattern)
	}
	return nil
}
