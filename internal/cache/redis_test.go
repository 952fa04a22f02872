package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewapi/internal/config"
)

type entry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis, *Metrics) {
	t.Helper()
	srv := miniredis.RunT(t)
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	c, err := NewRedis(context.Background(), config.RedisConfig{Addr: srv.Addr(), CacheTTLSec: 30}, m)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv, m
}

func TestRedis_GetSetDel(t *testing.T) {
	ctx := context.Background()
	c, srv, m := newTestRedis(t)

	var got []entry
	ok, err := c.Get(ctx, "place_reviews:p1", &got)
	assert.NoError(t, err)
	assert.False(t, ok)

	want := []entry{{ID: "r1", Text: "lovely"}}
	require.NoError(t, c.Set(ctx, "place_reviews:p1", want))
	assert.Equal(t, 30*time.Second, srv.TTL("place_reviews:p1"))

	ok, err = c.Get(ctx, "place_reviews:p1", &got)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Del(ctx, "place_reviews:p1"))
	assert.False(t, srv.Exists("place_reviews:p1"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("redis", "miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("redis", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("redis", "set")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("redis", "del")))
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	c, srv, _ := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "k", entry{ID: "r1"}))
	srv.FastForward(31 * time.Second)

	var got entry
	ok, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c, srv, _ := newTestRedis(t)

	require.NoError(t, srv.Set("k", "{not json"))

	var got entry
	ok, err := c.Get(ctx, "k", &got)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedis_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, srv, _ := newTestRedis(t)
	srv.Close()

	var got entry
	_, err := c.Get(ctx, "k", &got)
	assert.Error(t, err)
}

func TestNewRedis_Validation(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{}, nil)
	assert.EqualError(t, err, "redis address is required")
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	assert.NoError(t, c.Set(ctx, "k", "v"))
	var got string
	ok, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Del(ctx, "k"))
	n, err := c.Incr(ctx, "k")
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedis_Incr(t *testing.T) {
	ctx := context.Background()
	c, _, m := newTestRedis(t)

	n, err := c.Incr(ctx, "place_reviews_gen:p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Incr(ctx, "place_reviews_gen:p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var gen int64
	ok, err := c.Get(ctx, "place_reviews_gen:p1", &gen)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), gen)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.events.WithLabelValues("redis", "incr")))
}
