package config

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis initializes a singleton Redis client from the loaded
// configuration. The client is optional: the test environment never connects,
// and a failed ping leaves the client nil so session mirroring and rate
// limiting fall back to the database.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		cfg := LoadConfig()
		if cfg.AppEnv == "test" {
			return
		}

		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			redisClient = nil
			err = fmt.Errorf("redis ping failed: %w", err)
			return
		}

		redisClient = rdb
		log.Printf("Connected to Redis at %s", addr)
	})
	return redisClient, err
}

// GetRedisClient returns the initialized Redis client, or nil when Redis is
// unavailable.
func GetRedisClient() *redis.Client {
	return redisClient
}
