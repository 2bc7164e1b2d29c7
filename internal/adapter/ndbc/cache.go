package ndbc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/buoy-swell-service/internal/observability"
)

// TableSource fetches raw NDBC tables for a station.
type TableSource interface {
	FetchDensity(ctx context.Context, stationID int) ([]byte, error)
	FetchDirection(ctx context.Context, stationID int) ([]byte, error)
}

// CachedSource wraps a TableSource with an in-memory LRU cache whose entries
// expire after ttl. NDBC publishes at most twice an hour, so repeated buoy
// selections inside the TTL are served locally. A zero ttl disables caching.
type CachedSource struct {
	inner   TableSource
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a table source.
func NewCachedSource(inner TableSource, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

func (c *CachedSource) FetchDensity(ctx context.Context, stationID int) ([]byte, error) {
	return c.fetch(ctx, KindDensity, stationID, c.inner.FetchDensity)
}

func (c *CachedSource) FetchDirection(ctx context.Context, stationID int) ([]byte, error) {
	return c.fetch(ctx, KindDirection, stationID, c.inner.FetchDirection)
}

func (c *CachedSource) fetch(ctx context.Context, kind string, stationID int, load func(context.Context, int) ([]byte, error)) ([]byte, error) {
	if c.ttl <= 0 {
		return load(ctx, stationID)
	}

	key := fmt.Sprintf("%s:%d", kind, stationID)
	now := c.clock.Now()
	if body, ok := c.cache.get(key, now); ok {
		c.metrics.FeedCache.WithLabelValues(kind, "hit").Inc()
		return body, nil
	}
	c.metrics.FeedCache.WithLabelValues(kind, "miss").Inc()

	body, err := load(ctx, stationID)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, body, now.Add(c.ttl))
	return body, nil
}

// lruCache is a simple thread-safe LRU cache of table bodies with per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key     string
	value   []byte
	expires time.Time
	prev    *entry
	next    *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// get returns a live entry. Expired entries are dropped on access.
func (c *lruCache) get(key string, now time.Time) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expires) {
		delete(c.entries, key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []byte, expires time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
