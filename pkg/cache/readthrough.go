package cache

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/angelmondragon/brewery-backend/pkg/logger"
	"github.com/angelmondragon/brewery-backend/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FetchFn loads a value from the source of truth. A nil result means absent and is never cached.
type FetchFn[T any] func(ctx context.Context) (*T, error)

// ReadThrough applies condition-gated read-through caching over a Store.
// Backend failures degrade to the fetch path; they are logged and counted, never returned.
type ReadThrough struct {
	store   Store
	ttl     time.Duration
	metrics *metrics.CacheMetrics
	logg    *logger.Logger
}

func NewReadThrough(store Store, ttl time.Duration, m *metrics.CacheMetrics, logg *logger.Logger) *ReadThrough {
	if logg == nil {
		logg = logger.Nop()
	}
	return &ReadThrough{store: store, ttl: ttl, metrics: m, logg: logg}
}

// Fetch returns the cached value for (name, key) when condition holds, populating
// the cache from fetch on a miss. When condition is false the cache is not consulted.
func Fetch[T any](ctx context.Context, rt *ReadThrough, name, key string, condition bool, fetch FetchFn[T]) (*T, error) {
	if rt == nil || rt.store == nil || !condition {
		if rt != nil && !condition {
			rt.metrics.IncBypass(name)
		}
		return fetch(ctx)
	}

	if cached, ok := rt.lookup(ctx, name, key, new(T)); ok {
		rt.metrics.IncHit(name)
		return cached.(*T), nil
	}
	rt.metrics.IncMiss(name)

	val, err := fetch(ctx)
	if err != nil || val == nil {
		return val, err
	}

	payload, err := json.Marshal(val)
	if err != nil {
		rt.degraded(ctx, name, "cache.encode_failed", err)
		return val, nil
	}
	if err := rt.store.Set(ctx, name, key, payload, rt.ttl); err != nil {
		rt.degraded(ctx, name, "cache.write_failed", err)
	}
	return val, nil
}

func (rt *ReadThrough) lookup(ctx context.Context, name, key string, dest any) (any, bool) {
	raw, err := rt.store.Get(ctx, name, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			rt.degraded(ctx, name, "cache.read_failed", err)
		}
		return nil, false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		rt.degraded(ctx, name, "cache.decode_failed", err)
		return nil, false
	}
	return dest, true
}

func (rt *ReadThrough) degraded(ctx context.Context, name, msg string, err error) {
	rt.metrics.IncError(name)
	rt.logg.WarnErr(rt.logg.WithField(ctx, "cache", name), msg, err)
}
