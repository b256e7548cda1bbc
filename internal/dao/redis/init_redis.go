// Package redis holds the Redis connection bootstrap.
package redis

import (
	"strconv"

	"nimbus_chat_server/internal/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

var cacheService AsyncCacheService

// Init connects to Redis and starts the cache worker pool.
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
		// pool sized to match the cache workers
		PoolSize:     50,
		MinIdleConns: 15,
	})

	cacheService = NewRedisCache(redisClient, 15, 3000)
}

// GetCacheService returns the cache service for dependency injection.
func GetCacheService() AsyncCacheService {
	return cacheService
}
