package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewapi/internal/config"
)

const redisLabel = "redis"

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *Metrics
}

// NewRedis connects to the configured Redis server and verifies it answers PING.
func NewRedis(ctx context.Context, cfg config.RedisConfig, m *Metrics) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client, ttl: cfg.TTL(), metrics: m}, nil
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.metrics.observe(redisLabel, "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	r.metrics.observe(redisLabel, "hit")
	if err := json.Unmarshal(v, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	r.metrics.observe(redisLabel, "set")
	return r.client.Set(ctx, key, b, r.ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	r.metrics.observe(redisLabel, "del")
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	r.metrics.observe(redisLabel, "incr")
	return r.client.Incr(ctx, key).Result()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
