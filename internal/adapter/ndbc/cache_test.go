package ndbc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/buoy-swell-service/internal/observability"
)

// --- mock for cache tests ---

type countingSource struct {
	densityCalls   int
	directionCalls int
	err            error
}

func (m *countingSource) FetchDensity(_ context.Context, _ int) ([]byte, error) {
	m.densityCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []byte("density"), nil
}

func (m *countingSource) FetchDirection(_ context.Context, _ int) ([]byte, error) {
	m.directionCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []byte("direction"), nil
}

// --- CachedSource tests ---

func TestCachedSource_HitWithinTTL(t *testing.T) {
	inner := &countingSource{}
	clock := clockwork.NewFakeClock()
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedSource(inner, 10, 5*time.Minute, clock, metrics)

	b1, err := cached.FetchDensity(context.Background(), 46219)
	require.NoError(t, err)
	clock.Advance(4 * time.Minute)
	b2, err := cached.FetchDensity(context.Background(), 46219)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
	assert.Equal(t, 1, inner.densityCalls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FeedCache.WithLabelValues(KindDensity, "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FeedCache.WithLabelValues(KindDensity, "miss")), 0)
}

func TestCachedSource_ExpiresAfterTTL(t *testing.T) {
	inner := &countingSource{}
	clock := clockwork.NewFakeClock()
	cached := NewCachedSource(inner, 10, 5*time.Minute, clock, observability.NewMetricsForTesting())

	_, err := cached.FetchDirection(context.Background(), 46219)
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	_, err = cached.FetchDirection(context.Background(), 46219)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.directionCalls)
}

func TestCachedSource_KindsAndStationsAreSeparate(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner, 10, time.Minute, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	d, err := cached.FetchDensity(context.Background(), 46219)
	require.NoError(t, err)
	w, err := cached.FetchDirection(context.Background(), 46219)
	require.NoError(t, err)
	_, err = cached.FetchDensity(context.Background(), 46086)
	require.NoError(t, err)

	assert.Equal(t, "density", string(d))
	assert.Equal(t, "direction", string(w))
	assert.Equal(t, 2, inner.densityCalls)
	assert.Equal(t, 1, inner.directionCalls)
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("feed down")}
	cached := NewCachedSource(inner, 10, time.Minute, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	_, err := cached.FetchDensity(context.Background(), 46219)
	require.Error(t, err)

	inner.err = nil
	body, err := cached.FetchDensity(context.Background(), 46219)
	require.NoError(t, err)
	assert.Equal(t, "density", string(body))
	assert.Equal(t, 2, inner.densityCalls)
}

func TestCachedSource_ZeroTTLDisablesCache(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner, 10, 0, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	for range 3 {
		_, err := cached.FetchDensity(context.Background(), 46219)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.densityCalls)
	assert.Equal(t, 0, cached.cache.len())
}

// --- LRU cache tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	now := time.Now()
	c := newLRUCache(3)
	c.put("a", []byte("1"), now.Add(time.Minute))

	v, ok := c.get("a", now)
	require.True(t, ok)
	assert.Equal(t, "1", string(v))

	_, ok = c.get("missing", now)
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	now := time.Now()
	exp := now.Add(time.Minute)
	c := newLRUCache(2)
	c.put("a", []byte("1"), exp)
	c.put("b", []byte("2"), exp)
	c.put("c", []byte("3"), exp) // evicts "a"

	_, ok := c.get("a", now)
	assert.False(t, ok, "a should be evicted")
	_, ok = c.get("b", now)
	assert.True(t, ok)
	_, ok = c.get("c", now)
	assert.True(t, ok)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	now := time.Now()
	exp := now.Add(time.Minute)
	c := newLRUCache(2)
	c.put("a", []byte("1"), exp)
	c.put("b", []byte("2"), exp)

	_, _ = c.get("a", now)
	c.put("c", []byte("3"), exp) // evicts "b", not "a"

	_, ok := c.get("a", now)
	assert.True(t, ok, "a should survive, it was recently accessed")
	_, ok = c.get("b", now)
	assert.False(t, ok, "b should be evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	now := time.Now()
	c := newLRUCache(2)
	c.put("a", []byte("1"), now.Add(time.Second))
	c.put("a", []byte("2"), now.Add(time.Hour))

	v, ok := c.get("a", now.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, "2", string(v))
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_ExpiredEntryDropped(t *testing.T) {
	now := time.Now()
	c := newLRUCache(2)
	c.put("a", []byte("1"), now.Add(time.Second))

	_, ok := c.get("a", now.Add(2*time.Second))
	assert.False(t, ok)
	assert.Equal(t, 0, c.len())
}
