// Package service resolves free text into a catalog entity with play-count statistics
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"playrate/internal/core/annualize"
	"playrate/internal/core/intent"
	"playrate/internal/core/match"
	"playrate/internal/core/music"
	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"
	"playrate/internal/platform/metrics"
	ptime "playrate/internal/platform/time"
	"playrate/internal/services/resolve/domain"
)

// DefaultSearchLimit is how many candidates each search asks for
const DefaultSearchLimit = 8

// Service defines the resolve service contract
type Service interface {
	domain.ServicePort
}

// Svc implements resolution over a catalog and a play-count source
type Svc struct {
	catalog domain.Catalog
	counts  domain.PlayCounts
	parser  *intent.Parser
	limit   int
	now     func() time.Time
	log     logger.Logger
	metrics *metrics.Metrics
}

// Option customizes a Svc
type Option func(*Svc)

// WithParser replaces the default-override parser
func WithParser(p *intent.Parser) Option {
	return func(s *Svc) {
		if p != nil {
			s.parser = p
		}
	}
}

// WithSearchLimit sets the candidate count per search
func WithSearchLimit(n int) Option {
	return func(s *Svc) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithClock injects the time used for annualization
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = ptime.OrNow(now) } }

// WithLogger sets the service logger
func WithLogger(l logger.Logger) Option { return func(s *Svc) { s.log = l } }

// WithMetrics records resolution outcomes
func WithMetrics(m *metrics.Metrics) Option { return func(s *Svc) { s.metrics = m } }

// New constructs a resolve service
func New(catalog domain.Catalog, counts domain.PlayCounts, opts ...Option) *Svc {
	if catalog == nil {
		panic("resolve.Service requires a non nil Catalog")
	}
	if counts == nil {
		panic("resolve.Service requires a non nil PlayCounts")
	}
	s := &Svc{
		catalog: catalog,
		counts:  counts,
		parser:  intent.NewParser(intent.DefaultOverrides()),
		limit:   DefaultSearchLimit,
		now:     time.Now,
		log:     *logger.Named("resolve"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Resolve turns q into a single entity
// an empty search is a not_found result, only catalog failures are errors
func (s *Svc) Resolve(ctx context.Context, q domain.Query) (domain.Result, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return domain.Result{}, perr.WithField(perr.InvalidArgf("text is required"), "text")
	}

	var (
		res domain.Result
		err error
	)
	switch music.ParseKind(q.Kind) {
	case music.KindAlbum:
		res, err = s.resolveAlbum(ctx, text)
	default:
		res, err = s.resolveTrack(ctx, text)
	}

	outcome := string(res.Status)
	if err != nil {
		outcome = "error"
	}
	s.metrics.Resolution(outcome)
	return res, err
}

func (s *Svc) resolveTrack(ctx context.Context, text string) (domain.Result, error) {
	h := s.parser.Parse(text)
	res := s.base(music.KindTrack, h)

	cands, err := s.catalog.SearchTracks(ctx, res.Query, s.limit)
	if err != nil {
		return res, catalogErr(err, "search tracks")
	}
	if len(cands) == 0 {
		s.log.Debug().Str("query", res.Query).Msg("no track candidates")
		return s.notFound(res), nil
	}

	idx, tier := match.SelectIndex(cands, h, s.parser.Overrides())
	e, err := s.catalog.GetTrack(ctx, cands[idx].ID)
	if err != nil {
		return res, catalogErr(err, "get track")
	}

	now := s.now()
	count := s.counts.Count(ctx, e.ID)
	stats := annualize.Compute(count, e.ReleaseDate, e.Precision, now)
	view := domain.ProjectTrack(e, stats, now)

	res.Status = domain.StatusResolved
	res.MatchTier = tier.String()
	res.Entity = &e
	res.Rating = view.Rating
	res.LifetimeCount = stats.LifetimeCount
	res.AnnualRate = stats.AnnualRate
	res.AgeInDays = stats.AgeInDays
	res.Display = domain.NewDisplay(stats.LifetimeCount, stats.AnnualRate)
	res.Track = &view

	s.log.Debug().Str("id", e.ID).Str("tier", res.MatchTier).Bool("counted", count != nil).Msg("track resolved")
	return res, nil
}

func (s *Svc) resolveAlbum(ctx context.Context, text string) (domain.Result, error) {
	h := s.parser.ParseAlbum(text)
	res := s.base(music.KindAlbum, h)

	cands, err := s.catalog.SearchAlbums(ctx, res.Query, s.limit)
	if err != nil {
		return res, catalogErr(err, "search albums")
	}
	if len(cands) == 0 {
		s.log.Debug().Str("query", res.Query).Msg("no album candidates")
		return s.notFound(res), nil
	}

	idx, tier := match.SelectIndex(cands, h, s.parser.Overrides())
	e, err := s.catalog.GetAlbum(ctx, cands[idx].ID)
	if err != nil {
		return res, catalogErr(err, "get album")
	}

	var counts map[string]*int64
	if ids := music.IDs(e.Tracks); len(ids) > 0 {
		counts = s.counts.Counts(ctx, ids)
	}
	now := s.now()
	view := domain.ProjectAlbum(e, counts, now)
	if ref, ok := annualize.ReferenceDate(e.ReleaseDate, e.Precision); ok {
		res.AgeInDays = annualize.AgeInDays(ref, now)
	}

	res.Status = domain.StatusResolved
	res.MatchTier = tier.String()
	res.Entity = &e
	res.Rating = view.Rating
	res.Display = domain.NewDisplay(nil, nil)
	res.Album = &view

	s.log.Debug().Str("id", e.ID).Str("tier", res.MatchTier).Int("tracks", len(view.Tracks)).Msg("album resolved")
	return res, nil
}

func (s *Svc) base(kind music.Kind, h intent.Hypothesis) domain.Result {
	return domain.Result{Kind: kind, Hypothesis: h, Query: intent.Query(h)}
}

func (s *Svc) notFound(res domain.Result) domain.Result {
	res.Status = domain.StatusNotFound
	res.Display = domain.NewDisplay(nil, nil)
	return res
}

// catalogErr keeps the catalog's code so the transport maps it
func catalogErr(err error, op string) error {
	code := perr.CodeOf(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code = perr.ErrorCodeUnavailable
	}
	return perr.Wrapf(err, code, "catalog %s failed", op)
}

var _ Service = (*Svc)(nil)
