package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/brewery-backend/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(cacheName, key string) string
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore keeps entries in redis under brew:cache:<name>:<key>. It takes
// ownership of the client.
type RedisStore struct {
	client redisClient
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, name, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.client.CacheKey(name, key))
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}
	return []byte(val), nil
}

func (s *RedisStore) Set(ctx context.Context, name, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.client.CacheKey(name, key), string(value), ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name, key string) error {
	return s.client.Del(ctx, s.client.CacheKey(name, key))
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close closes the underlying redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
