package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared client, nil when no redis is configured.
var Redis *redis.Client

// InitRedis connects Redis for the rate limiter and job locks.
func InitRedis(s *Settings) {
	Redis = NewRedisClient(s)
}

// NewRedisClient returns nil when REDIS_ADDR is unset or the server does not
// answer; callers fall back to in-process implementations.
func NewRedisClient(s *Settings) *redis.Client {
	if s.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: redis at %s unavailable, using in-memory fallbacks: %v", s.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	log.Printf("Redis connected at %s", s.RedisAddr)
	return client
}
