package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/excelanalytics/config"
)

var (
	redisClient *redis.Client
	redisMu     sync.RWMutex
	redisInit   bool
)

// GetRedis returns the shared Redis client, or nil when Redis is disabled in configuration.
func GetRedis() *redis.Client {
	redisMu.RLock()
	if redisInit {
		c := redisClient
		redisMu.RUnlock()
		return c
	}
	redisMu.RUnlock()

	redisMu.Lock()
	defer redisMu.Unlock()
	if redisInit {
		return redisClient
	}
	redisInit = true
	cfg := config.Get()
	if !cfg.RedisEnabled {
		return nil
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		Sugar.Warnf("redis ping failed, continuing with fail-open paths: %v", err)
	}
	return redisClient
}

// UseRedis replaces the shared client. Passing nil disables Redis-backed features.
func UseRedis(c *redis.Client) {
	redisMu.Lock()
	redisClient = c
	redisInit = true
	redisMu.Unlock()
}
