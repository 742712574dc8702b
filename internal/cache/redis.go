package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache implements Cache on a shared redis instance, for deployments
// running more than one API replica.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

// NewRedisCache connects to redis and verifies connectivity up front.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration, logger *logrus.Logger) (*RedisCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr missing")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	logger.WithField("addr", addr).Info("redis cache connected")
	return &RedisCache{client: client, logger: logger, ttl: ttl}, nil
}

// Get retrieves a cached value by key and unmarshals into target.
func (c *RedisCache) Get(ctx context.Context, key string, target any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), target); err != nil {
		return false, fmt.Errorf("unmarshal cached value %s: %w", key, err)
	}
	return true, nil
}

// Set stores a value with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
