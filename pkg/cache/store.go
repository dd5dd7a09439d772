package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the cache.
var ErrNotFound = errors.New("cache: key not found")

// Store abstracts a name-keyed byte cache. Implementations are safe for concurrent use.
type Store interface {
	// Get returns ErrNotFound when the entry is absent or expired.
	Get(ctx context.Context, name, key string) ([]byte, error)
	// Set stores value; backends without per-entry TTL use their configured default.
	Set(ctx context.Context, name, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, name, key string) error
	Ping(ctx context.Context) error
	Close() error
}
