// Package module wires play counts into the API using modkit
package module

import (
	"context"
	"time"

	pcclient "playrate/internal/adapters/playcount"
	"playrate/internal/modkit"
	"playrate/internal/modkit/httpkit"
	str "playrate/internal/platform/strings"
	"playrate/internal/services/playcount/domain"
	pchttp "playrate/internal/services/playcount/http"
	pcrepo "playrate/internal/services/playcount/repo"
	pcsvc "playrate/internal/services/playcount/service"
)

const storeInitTimeout = 10 * time.Second

// newProvider builds the upstream client, tests swap it for a fake
var newProvider = func(cfg Config, creds pcclient.Credentials, deps modkit.Deps) domain.Provider {
	return pcclient.NewClient(pcclient.Options{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxAttempts,
		BackoffBase: cfg.BackoffBase,
	}, creds,
		pcclient.WithLogger(deps.Log.With().Str("component", "playcount_client").Logger()),
		pcclient.WithMetrics(deps.Metrics),
	)
}

// Module implements the playcount module
type Module struct {
	deps  modkit.Deps
	b     modkit.Built
	cfg   Config
	svc   *pcsvc.Svc
	cache *pcsvc.Cache
}

// New constructs the playcount module from PLAYCOUNT_* config under deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("playcount"), modkit.WithPrefix("/playcount")}, opts...)...)
	cfg := ConfigFromEnv(deps.Cfg)
	log := deps.Log

	rot := pcsvc.NewRotator(cfg.Keys, cfg.DailyLimit, cfg.ResetWindow,
		pcsvc.WithRotatorLogger(log.With().Str("component", "rotator").Logger()),
		pcsvc.WithRotatorMetrics(deps.Metrics),
	)
	if rot.Size() == 0 {
		log.Warn().Msg("PLAYCOUNT_KEYS is empty, provider calls go out without a key")
	}

	cacheOpts := []pcsvc.CacheOption{
		pcsvc.WithCacheLogger(log.With().Str("component", "cache").Logger()),
		pcsvc.WithCacheMetrics(deps.Metrics),
	}
	if st := openStore(deps); st != nil {
		cacheOpts = append(cacheOpts, pcsvc.WithCacheStore(st))
	}
	cache := pcsvc.NewCache(cfg.TTL, cacheOpts...)

	svc := pcsvc.New(cache, rot, newProvider(cfg, rot, deps),
		pcsvc.WithLogger(log.With().Str("component", "playcount").Logger()),
		pcsvc.WithConcurrency(cfg.Concurrency),
	)

	return &Module{deps: deps, b: b, cfg: cfg, svc: svc, cache: cache}
}

// openStore returns the postgres store when persistence is enabled and its schema is in place
func openStore(deps modkit.Deps) domain.Store {
	q := deps.PG()
	if q == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeInitTimeout)
	defer cancel()

	r := pcrepo.NewPG(q)
	if err := r.EnsureSchema(ctx); err != nil {
		deps.Log.Error().Err(err).Msg("playcount store schema failed, running memory only")
		return nil
	}
	return r
}

// Warm preloads fresh records from the store, a no-op without one
func (m *Module) Warm(ctx context.Context) error {
	_, err := m.cache.Warm(ctx)
	return err
}

// Service exposes the play-count port for other modules and the CLI
func (m *Module) Service() domain.ServicePort { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.b, func(rr httpkit.Router) { pchttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Ports returns the play-count service port
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }

var _ modkit.Module = (*Module)(nil)
