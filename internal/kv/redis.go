package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Zachkp/portfolio/internal/theme"
)

const redisKeyPrefix = "portfolio:pref:"

// defaultRedisTTL matches the retention the SQLite backend cleans up at.
const defaultRedisTTL = 365 * 24 * time.Hour

// Redis keeps each preference as its own key with a sliding TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis accepts a redis:// URL or a bare host:port.
func OpenRedis(ctx context.Context, dsn string) (*Redis, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		opts = &redis.Options{Addr: dsn}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewRedis(client, defaultRedisTTL), nil
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Scope(visitorID string) theme.Store {
	return redisScope{r: r, visitor: visitorID}
}

// Cleanup is a no-op: keys expire on their own.
func (r *Redis) Cleanup(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type redisScope struct {
	r       *Redis
	visitor string
}

func (s redisScope) key(k string) string {
	return redisKeyPrefix + s.visitor + ":" + k
}

func (s redisScope) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.r.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", theme.ErrStorageUnavailable, err)
	}
	return v, true, nil
}

func (s redisScope) Set(ctx context.Context, key, value string) error {
	if err := s.r.client.Set(ctx, s.key(key), value, s.r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", theme.ErrStorageUnavailable, err)
	}
	return nil
}
