// Package api composes the HTTP API from the service modules
package api

import (
	"context"
	"time"

	"playrate/internal/modkit"
	"playrate/internal/modkit/httpkit"
	"playrate/internal/modkit/module"
	"playrate/internal/platform/config"
	"playrate/internal/platform/logger"
	"playrate/internal/platform/metrics"
	"playrate/internal/platform/net/middleware"
	phttp "playrate/internal/platform/net/http"
	"playrate/internal/platform/store"

	metamod "playrate/internal/services/meta/module"
	pcdomain "playrate/internal/services/playcount/domain"
	pcmod "playrate/internal/services/playcount/module"
	rsmod "playrate/internal/services/resolve/module"
)

// Options are the API options
type Options struct {
	Config  config.Conf
	Store   *store.Store
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// API holds the constructed modules
type API struct {
	PlayCount *pcmod.Module
	Resolve   *rsmod.Module
	Meta      *metamod.Module

	cfg     config.Conf
	metrics *metrics.Metrics
}

// New builds every module, play counts first since resolve consumes its port
func New(opt Options) *API {
	deps := modkit.Deps{
		Log:     opt.Logger,
		Cfg:     opt.Config,
		Store:   opt.Store,
		Metrics: opt.Metrics,
	}

	pc := pcmod.New(deps)
	rs := rsmod.New(deps, modkit.WithPorts(rsmod.Ports{
		PlayCounts: module.MustPortsOf[pcdomain.ServicePort](pc),
	}))

	return &API{
		PlayCount: pc,
		Resolve:   rs,
		Meta:      metamod.New(deps),
		cfg:       opt.Config,
		metrics:   opt.Metrics,
	}
}

// Warm preloads caches from the store
func (a *API) Warm(ctx context.Context) error { return a.PlayCount.Warm(ctx) }

// Modules lists the mounted modules in mount order
func (a *API) Modules() []module.Module {
	return []module.Module{a.Meta, a.PlayCount, a.Resolve}
}

// Mount registers /api/v1 and /metrics on r
func (a *API) Mount(r phttp.Router) {
	c := a.cfg.Prefix("HTTP_")
	stack := httpkit.CommonStack(httpkit.StackOptions{
		Metrics: a.metrics,
		CORS: middleware.CORSOptions{
			AllowedOrigins: c.MayCSV("CORS_ORIGINS", nil),
		},
		RequestTimeout: c.MayDuration("REQUEST_TIMEOUT", 2*time.Minute),
		SlowRequest:    c.MayDuration("SLOW_REQUEST", 2*time.Second),
		MaxInFlight:    c.MayInt("MAX_IN_FLIGHT", 0),
	})

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range a.Modules() {
			m.MountRoutes(api)
		}
	})

	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler())
	}
}

// Mount is New followed by Mount
func Mount(r phttp.Router, opt Options) *API {
	a := New(opt)
	a.Mount(r)
	return a
}
