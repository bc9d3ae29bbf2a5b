package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

type redisBackend struct {
	client *redis.Client
}

// OpenRedisBackend connects to url (redis://host:port/db or a bare host:port).
func OpenRedisBackend(ctx context.Context, url string) (Backend, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("redis: url required (set redis_url or GTODO_REDIS_URL)")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return &redisBackend{client: client}, nil
}

// NewRedisBackend wraps an existing client; the backend takes ownership of it.
func NewRedisBackend(client *redis.Client) Backend {
	return &redisBackend{client: client}
}

func (b *redisBackend) Name() string { return BackendRedis }

func (b *redisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	v, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (b *redisBackend) Write(ctx context.Context, key string, value []byte) error {
	return b.client.Set(ctx, key, value, 0).Err()
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}
