package service

import (
	"context"
	"errors"
	"sync"
	"time"

	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"
	"playrate/internal/platform/metrics"
	ptime "playrate/internal/platform/time"
	"playrate/internal/services/playcount/domain"
)

// DefaultTTL is how long a captured count stays fresh
const DefaultTTL = 7 * 24 * time.Hour

// Cache maps track ids to their latest record with lazy expiry
// stale entries stay in memory until overwritten or invalidated
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.Record
	ttl     time.Duration

	store   domain.Store
	now     func() time.Time
	log     logger.Logger
	metrics *metrics.Metrics
}

// CacheOption customizes a Cache
type CacheOption func(*Cache)

// WithCacheClock injects the time source used for freshness
func WithCacheClock(now func() time.Time) CacheOption { return func(c *Cache) { c.now = ptime.OrNow(now) } }

// WithCacheStore adds a persistent layer behind memory
func WithCacheStore(s domain.Store) CacheOption { return func(c *Cache) { c.store = s } }

// WithCacheLogger sets the cache logger
func WithCacheLogger(l logger.Logger) CacheOption { return func(c *Cache) { c.log = l } }

// WithCacheMetrics records hits and misses
func WithCacheMetrics(m *metrics.Metrics) CacheOption { return func(c *Cache) { c.metrics = m } }

// NewCache creates an empty cache, ttl <= 0 uses DefaultTTL
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]domain.Record),
		ttl:     ttl,
		now:     time.Now,
		log:     *logger.Named("cache"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL returns the freshness window
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns a fresh record for id
// a memory miss falls through to the store, fresh rows are promoted into memory
func (c *Cache) Get(ctx context.Context, id string) (domain.Record, bool) {
	now := c.now()

	c.mu.RLock()
	rec, ok := c.entries[id]
	c.mu.RUnlock()
	if ok && rec.Fresh(now, c.ttl) {
		c.hit(id, "memory")
		return rec, true
	}

	if c.store != nil {
		row, err := c.store.Load(ctx, id)
		switch {
		case err == nil && row.Fresh(now, c.ttl):
			c.put(row)
			c.hit(id, "store")
			return row, true
		case err != nil && !errors.Is(err, perr.ErrNotFound):
			c.log.Warn().Err(err).Str("id", id).Msg("cache store load failed")
		}
	}

	c.metrics.CacheLookup(false)
	c.log.Debug().Str("id", id).Msg("cache miss")
	return domain.Record{}, false
}

func (c *Cache) hit(id, layer string) {
	c.metrics.CacheLookup(true)
	c.log.Debug().Str("id", id).Str("layer", layer).Msg("cache hit")
}

// Put stores rec and writes it through to the store
// a record older than the one held for the same id is ignored
func (c *Cache) Put(ctx context.Context, rec domain.Record) {
	if rec.ID == "" {
		return
	}
	if !c.put(rec) {
		return
	}
	if c.store != nil {
		if err := c.store.Save(ctx, rec); err != nil {
			c.log.Warn().Err(err).Str("id", rec.ID).Msg("cache store save failed")
		}
	}
}

func (c *Cache) put(rec domain.Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[rec.ID]; ok && rec.CapturedAt.Before(cur.CapturedAt) {
		return false
	}
	c.entries[rec.ID] = rec
	return true
}

// Invalidate drops id from memory and the store
func (c *Cache) Invalidate(ctx context.Context, id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Delete(ctx, id); err != nil {
			c.log.Warn().Err(err).Str("id", id).Msg("cache store delete failed")
		}
	}
}

// InvalidateAll empties memory and the store
func (c *Cache) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]domain.Record)
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.DeleteAll(ctx); err != nil {
			c.log.Warn().Err(err).Msg("cache store clear failed")
		}
	}
}

// Warm loads rows captured inside the TTL from the store into memory
func (c *Cache) Warm(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	rows, err := c.store.Since(ctx, c.now().Add(-c.ttl))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		if c.put(r) {
			n++
		}
	}
	c.log.Info().Int("records", n).Msg("cache warmed from store")
	return n, nil
}

// Len counts entries in memory, stale ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
