// Package cache keeps rendered zone statuses in Redis so readers do not have to resolve every zone.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"zone_heating/internal/config"

	"github.com/go-redis/redis/v8"
)

const defaultPrefix = "zone_heating:"

// Redis is a JSON value cache with a fixed key prefix and TTL.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewClient builds a go-redis client from configuration.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: defaultPrefix, ttl: ttl}
}

func (c *Redis) key(k string) string { return c.prefix + k }

// Ping checks connectivity.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Set stores v as JSON under key.
func (c *Redis) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Get decodes the value under key into dst. It reports false on a cache miss.
func (c *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Delete drops key. Missing keys are not an error.
func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}
