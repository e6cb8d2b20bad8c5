// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"spabook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the push-token registry.
	CacheClient *redis.Client
	// EventsClient is the dedicated client for booking event pub/sub.
	EventsClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func pingRedis(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	pingRedis(CacheClient, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitEventsCache initializes the Redis client used for booking events.
func InitEventsCache() {
	EventsClient = newRedisClient(config.AppConfig.RedisEventsDB)
	pingRedis(EventsClient, "Events")
}

// GetEventsClient returns the Redis client used for booking events.
func GetEventsClient() *redis.Client {
	if EventsClient == nil {
		InitEventsCache()
	}
	return EventsClient
}

// ReminderQueueRedisOpt is the connection used by the asynq reminder queue.
func ReminderQueueRedisOpt() (addr, password string, db int) {
	return config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisReminderQueueDB
}
