package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"playrate/internal/platform/config"
	"playrate/internal/platform/logger"
	"playrate/internal/platform/metrics"
	phttp "playrate/internal/platform/net/http"
	"playrate/internal/platform/net/middleware"
	"playrate/internal/platform/store"

	"playrate/internal/services/api"

	"github.com/go-chi/chi/v5"
)

func main() {
	// .env first so LOG_* and friends apply to the root logger
	_ = config.LoadDotEnv()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// postgres is optional, without SERVICE_PGSQL_DBURL the caches stay in memory
	st, err := store.Open(ctx, store.ConfigFromEnv(root), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	m := metrics.New()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg, func(mux *chi.Mux) {
		mux.Use(middleware.Heartbeat("/ping"))
	})

	a := api.Mount(srv.Router(), api.Options{
		Config:  root,
		Store:   st,
		Logger:  *l,
		Metrics: m,
	})

	warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := a.Warm(warmCtx); err != nil {
		l.Warn().Err(err).Msg("cache warm failed, starting cold")
	}
	cancel()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
