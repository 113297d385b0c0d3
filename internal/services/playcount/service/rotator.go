package service

import (
	"strings"
	"sync"
	"time"

	"playrate/internal/platform/logger"
	"playrate/internal/platform/metrics"
	pstr "playrate/internal/platform/strings"
	ptime "playrate/internal/platform/time"
	"playrate/internal/services/playcount/domain"
)

const (
	// DefaultDailyLimit is the per-key request budget inside one reset window
	DefaultDailyLimit = 10
	// DefaultResetWindow is how long a key rests before its budget refills
	DefaultResetWindow = 24 * time.Hour

	maskKeep = 5
)

type credential struct {
	key      string
	usage    int
	lastUsed time.Time
	seen     bool
}

// Rotator hands out API keys under a per-key budget
// when every key is spent it falls back to the least recently used one
type Rotator struct {
	mu     sync.Mutex
	pool   []*credential
	limit  int
	window time.Duration

	now     func() time.Time
	log     logger.Logger
	metrics *metrics.Metrics
}

// RotatorOption customizes a Rotator
type RotatorOption func(*Rotator)

// WithRotatorClock injects the time source
func WithRotatorClock(now func() time.Time) RotatorOption {
	return func(r *Rotator) { r.now = ptime.OrNow(now) }
}

// WithRotatorLogger sets the logger used for degraded acquisitions
func WithRotatorLogger(l logger.Logger) RotatorOption {
	return func(r *Rotator) { r.log = l }
}

// WithRotatorMetrics counts degraded acquisitions
func WithRotatorMetrics(m *metrics.Metrics) RotatorOption {
	return func(r *Rotator) { r.metrics = m }
}

// NewRotator builds a pool from keys in order, blanks and duplicates are dropped
func NewRotator(keys []string, dailyLimit int, window time.Duration, opts ...RotatorOption) *Rotator {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	if window <= 0 {
		window = DefaultResetWindow
	}
	r := &Rotator{
		limit:  dailyLimit,
		window: window,
		now:    time.Now,
		log:    *logger.Named("rotator"),
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		r.pool = append(r.pool, &credential{key: k})
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Size is the number of keys in the pool
func (r *Rotator) Size() int { return len(r.pool) }

// Acquire returns the next usable key, or ("", false) for an empty pool
// degraded is true when every key was over budget and the LRU key was reused
func (r *Rotator) Acquire() (string, bool) {
	r.mu.Lock()
	if len(r.pool) == 0 {
		r.mu.Unlock()
		return "", false
	}
	now := r.now()
	for _, c := range r.pool {
		switch {
		case !c.seen:
			c.seen, c.usage, c.lastUsed = true, 1, now
		case now.Sub(c.lastUsed) >= r.window:
			c.usage, c.lastUsed = 1, now
		case c.usage < r.limit:
			c.usage++
			c.lastUsed = now
		default:
			continue
		}
		key := c.key
		r.mu.Unlock()
		return key, false
	}

	lru := r.pool[0]
	for _, c := range r.pool[1:] {
		if c.lastUsed.Before(lru.lastUsed) {
			lru = c
		}
	}
	lru.usage++
	lru.lastUsed = now
	key, usage := lru.key, lru.usage
	r.mu.Unlock()

	r.log.Warn().
		Str("key", pstr.Mask(key, maskKeep)).
		Int("usage", usage).
		Int("daily_limit", r.limit).
		Msg("credential pool exhausted using least recently used key")
	r.metrics.CredentialDegraded()
	return key, true
}

// Snapshot returns the masked state of every key in pool order
func (r *Rotator) Snapshot() []domain.CredentialView {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	out := make([]domain.CredentialView, 0, len(r.pool))
	for _, c := range r.pool {
		exhausted := c.seen && c.usage >= r.limit && now.Sub(c.lastUsed) < r.window
		out = append(out, domain.CredentialView{
			Key:       pstr.Mask(c.key, maskKeep),
			Usage:     c.usage,
			LastUsed:  c.lastUsed,
			Exhausted: exhausted,
		})
	}
	return out
}
