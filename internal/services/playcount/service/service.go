// Package service contains the play-count workflows: credential rotation, caching and the source chain
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"playrate/internal/core/music"
	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"
	ptime "playrate/internal/platform/time"
	"playrate/internal/services/playcount/domain"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Service defines the playcount service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the playcount service
type Svc struct {
	cache       *Cache
	rotator     *Rotator
	provider    domain.Provider
	watch       *watch
	concurrency int
	now         func() time.Time
	log         logger.Logger
}

// Option customizes a Svc
type Option func(*Svc)

// WithClock injects the time stamped on new records
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = ptime.OrNow(now) } }

// WithLogger sets the service logger
func WithLogger(l logger.Logger) Option {
	return func(s *Svc) {
		s.log = l
		s.watch.log = l
	}
}

// WithConcurrency bounds the batch fan-out
func WithConcurrency(n int) Option {
	return func(s *Svc) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New constructs a playcount service
func New(cache *Cache, rotator *Rotator, provider domain.Provider, opts ...Option) *Svc {
	if cache == nil {
		panic("playcount.Service requires a non nil Cache")
	}
	if provider == nil {
		panic("playcount.Service requires a non nil Provider")
	}
	log := *logger.Named("playcount")
	s := &Svc{
		cache:       cache,
		rotator:     rotator,
		provider:    provider,
		watch:       newWatch(log),
		concurrency: defaultConcurrency,
		now:         time.Now,
		log:         log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch returns the lifetime count for id, false means absent
// order is cache, id form, url form; failures on both forms are absorbed
// nothing is written unless a provider call succeeded
func (s *Svc) Fetch(ctx context.Context, id, url string) (domain.Record, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Record{}, false
	}
	if rec, ok := s.cache.Get(ctx, id); ok {
		return rec, true
	}
	if url == "" {
		url = music.TrackURL(id)
	}

	n, err := s.provider.ByID(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Record{}, false
		}
		s.logFailure(err, id, "id")
		n, err = s.provider.ByURL(ctx, url)
	}
	if err != nil {
		if ctx.Err() == nil {
			s.logFailure(err, id, "url")
		}
		return domain.Record{}, false
	}

	rec := domain.Record{ID: id, LifetimeCount: &n, CapturedAt: s.now().UTC()}
	s.watch.observe(id, n)
	s.cache.Put(ctx, rec)
	return rec, true
}

func (s *Svc) logFailure(err error, id, form string) {
	ev := s.log.Warn()
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		ev = s.log.Debug()
	}
	ev.Err(err).Str("id", id).Str("form", form).Str("code", perr.CodeOf(err).String()).Msg("playcount form gave no count")
}

// FetchURL resolves the track id from a public track URL and fetches it
func (s *Svc) FetchURL(ctx context.Context, raw string) (domain.Record, bool, error) {
	id, ok := music.ExtractTrackID(raw)
	if !ok {
		return domain.Record{}, false, perr.WithField(perr.InvalidArgf("not a catalog track URL: %q", raw), "url")
	}
	rec, found := s.Fetch(ctx, id, music.TrackURL(id))
	return rec, found, nil
}

// FetchMany fetches every URL with bounded concurrency, absent and invalid URLs map to nil
func (s *Svc) FetchMany(ctx context.Context, urls []string) map[string]*int64 {
	return s.fanout(ctx, urls, func(ctx context.Context, u string) *int64 {
		rec, ok, err := s.FetchURL(ctx, u)
		if err != nil || !ok {
			return nil
		}
		return rec.LifetimeCount
	})
}

// FetchIDs fetches every track id with bounded concurrency, absent ids map to nil
func (s *Svc) FetchIDs(ctx context.Context, ids []string) map[string]*int64 {
	return s.fanout(ctx, ids, func(ctx context.Context, id string) *int64 {
		rec, ok := s.Fetch(ctx, id, "")
		if !ok {
			return nil
		}
		return rec.LifetimeCount
	})
}

func (s *Svc) fanout(ctx context.Context, keys []string, one func(context.Context, string) *int64) map[string]*int64 {
	out := make(map[string]*int64, len(keys))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, k := range keys {
		mu.Lock()
		if _, dup := out[k]; dup {
			mu.Unlock()
			continue
		}
		out[k] = nil
		mu.Unlock()
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			v := one(ctx, k)
			mu.Lock()
			out[k] = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// ClearCache invalidates id, or everything when id is empty
func (s *Svc) ClearCache(ctx context.Context, id string) {
	if strings.TrimSpace(id) == "" {
		s.cache.InvalidateAll(ctx)
		s.log.Info().Msg("playcount cache cleared")
		return
	}
	s.cache.Invalidate(ctx, id)
}

// Credentials returns the masked rotator state
func (s *Svc) Credentials() []domain.CredentialView {
	if s.rotator == nil {
		return []domain.CredentialView{}
	}
	return s.rotator.Snapshot()
}
