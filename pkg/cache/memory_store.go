package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig sizes the in-process store.
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

func (c MemoryConfig) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be greater than 0")
	}
	if c.NumShards <= 0 {
		return fmt.Errorf("cache shards must be greater than 0")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache ttl must be greater than 0")
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return fmt.Errorf("cache eviction percentage must be between 1 and 100")
	}
	return nil
}

// MemoryStore is a sharded in-process store backed by sturdyc. Entries share
// the TTL configured at construction; the per-call ttl is ignored.
type MemoryStore struct {
	client *sturdyc.Client[[]byte]
}

func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &MemoryStore{client: client}, nil
}

func (s *MemoryStore) Get(_ context.Context, name, key string) ([]byte, error) {
	val, ok := s.client.Get(entryKey(name, key))
	if !ok {
		return nil, ErrNotFound
	}
	return val, nil
}

func (s *MemoryStore) Set(_ context.Context, name, key string, value []byte, _ time.Duration) error {
	s.client.Set(entryKey(name, key), value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name, key string) error {
	s.client.Delete(entryKey(name, key))
	return nil
}

// Size returns the number of entries currently held.
func (s *MemoryStore) Size() int {
	return s.client.Size()
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func entryKey(name, key string) string {
	return name + KeySeparator + key
}
