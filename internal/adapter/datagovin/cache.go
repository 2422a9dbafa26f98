package datagovin

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/couchcryptid/agri-data-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedFetcher wraps a Fetcher with an in-memory TTL cache, keyed by
// dataset plus filters. Government datasets update at most daily, so a long
// TTL avoids hammering the API on repeated queries.
type CachedFetcher struct {
	inner      Fetcher
	ttl        time.Duration
	maxEntries int
	clock      clockwork.Clock
	metrics    *observability.Metrics

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	records   []domain.RawRecord
	expiresAt time.Time
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner Fetcher, ttl time.Duration, maxEntries int, clock clockwork.Clock, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:      inner,
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clock,
		metrics:    metrics,
		entries:    make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) FetchAll(ctx context.Context, ds Dataset, filters map[string]string) ([]domain.RawRecord, error) {
	key := cacheKey(ds.ResourceID, filters)
	if records, ok := c.get(key); ok {
		c.metrics.APICache.WithLabelValues(ds.Name, "hit").Inc()
		return records, nil
	}
	c.metrics.APICache.WithLabelValues(ds.Name, "miss").Inc()

	records, err := c.inner.FetchAll(ctx, ds, filters)
	if err != nil {
		return nil, err
	}
	// Empty fetches are not cached so a dataset that was briefly
	// unavailable is re-requested on the next query.
	if len(records) > 0 {
		c.put(key, records)
	}
	return records, nil
}

func (c *CachedFetcher) get(key string) ([]domain.RawRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.records, true
}

func (c *CachedFetcher) put(key string, records []domain.RawRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictExpiredOrOldest()
	}
	c.entries[key] = cacheEntry{
		records:   records,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// evictExpiredOrOldest drops every expired entry, or the entry closest to
// expiry when none has expired yet.
func (c *CachedFetcher) evictExpiredOrOldest() {
	now := c.clock.Now()
	var oldestKey string
	var oldestExpiry time.Time
	evicted := false

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			evicted = true
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = e.expiresAt
		}
	}
	if !evicted && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// cacheKey builds a deterministic key from the resource ID and filters.
func cacheKey(resourceID string, filters map[string]string) string {
	if len(filters) == 0 {
		return resourceID
	}
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(resourceID)
	for _, field := range fields {
		b.WriteByte('|')
		b.WriteString(field)
		b.WriteByte('=')
		b.WriteString(filters[field])
	}
	return b.String()
}
