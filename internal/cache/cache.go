// Package cache holds the JSON cache used for place review listings.
package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache stores JSON-encoded values by key.
type Cache interface {
	// Get decodes the value under key into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Del(ctx context.Context, keys ...string) error
	// Incr atomically increments the integer under key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}

// Metrics counts cache events (hit|miss|set|del|incr) per cache backend.
type Metrics struct {
	events *prometheus.CounterVec
}

// NewMetrics registers the cache event counter with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_events_total",
				Help: "Cache hits/misses/sets/dels.",
			},
			[]string{"cache", "event"},
		),
	}
	if err := reg.Register(m.events); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(cache, event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(cache, event).Inc()
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error { return nil }
func (Noop) Del(context.Context, ...string) error { return nil }
func (Noop) Incr(context.Context, string) (int64, error) { return 0, nil }
