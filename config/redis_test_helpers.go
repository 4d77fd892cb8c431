package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest injects a Redis client so tests can substitute a mock.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest clears the singleton so the next ConnectRedis call
// starts from scratch.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
