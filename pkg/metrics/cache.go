package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics counts read-through outcomes per named cache.
type CacheMetrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	bypass *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewCacheMetrics registers the cache counters on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	labels := []string{"cache"}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Reads served from the cache.",
	}, labels)
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Reads that fell through to the store.",
	}, labels)
	bypass := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_bypass_total",
		Help: "Reads whose cache condition did not hold.",
	}, labels)
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_errors_total",
		Help: "Cache backend or payload failures.",
	}, labels)
	reg.MustRegister(hits, misses, bypass, errs)
	return &CacheMetrics{hits: hits, misses: misses, bypass: bypass, errors: errs}
}

func (c *CacheMetrics) IncHit(cache string) {
	if c == nil || c.hits == nil {
		return
	}
	c.hits.WithLabelValues(normalizeLabel(cache)).Inc()
}

func (c *CacheMetrics) IncMiss(cache string) {
	if c == nil || c.misses == nil {
		return
	}
	c.misses.WithLabelValues(normalizeLabel(cache)).Inc()
}

func (c *CacheMetrics) IncBypass(cache string) {
	if c == nil || c.bypass == nil {
		return
	}
	c.bypass.WithLabelValues(normalizeLabel(cache)).Inc()
}

func (c *CacheMetrics) IncError(cache string) {
	if c == nil || c.errors == nil {
		return
	}
	c.errors.WithLabelValues(normalizeLabel(cache)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
