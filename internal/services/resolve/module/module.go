// Package module wires resolution into the API using modkit
package module

import (
	"os"

	"playrate/internal/adapters/catalog/spotify"
	"playrate/internal/core/intent"
	"playrate/internal/modkit"
	"playrate/internal/modkit/httpkit"
	perr "playrate/internal/platform/errors"
	str "playrate/internal/platform/strings"
	"playrate/internal/services/resolve/domain"
	rhttp "playrate/internal/services/resolve/http"
	rsvc "playrate/internal/services/resolve/service"
)

// newCatalog builds the catalog client, tests swap it for a fake
var newCatalog = func(cfg Config, deps modkit.Deps) domain.Catalog {
	return spotify.NewClient(cfg.Catalog,
		spotify.WithLogger(deps.Log.With().Str("component", "catalog_client").Logger()),
	)
}

// Module implements the resolve module
type Module struct {
	b   modkit.Built
	svc *rsvc.Svc
}

// New constructs the resolve module
// it requires Ports with a PlayCounts port via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("resolve"), modkit.WithPrefix("/resolve")}, opts...)...)
	cfg := ConfigFromEnv(deps.Cfg)

	ports, _ := b.Ports.(Ports)
	if ports.PlayCounts == nil {
		panic("resolve module requires Ports.PlayCounts")
	}
	if ports.Catalog == nil {
		ports.Catalog = newCatalog(cfg, deps)
	}

	ov, err := loadOverrides(cfg.OverridesFile)
	if err != nil {
		deps.Log.Panic().Err(err).Str("path", cfg.OverridesFile).Msg("resolve overrides failed to load")
	}

	svc := rsvc.New(ports.Catalog, playCounts{svc: ports.PlayCounts},
		rsvc.WithParser(intent.NewParser(ov)),
		rsvc.WithSearchLimit(cfg.SearchLimit),
		rsvc.WithLogger(deps.Log.With().Str("component", "resolve").Logger()),
		rsvc.WithMetrics(deps.Metrics),
	)
	return &Module{b: b, svc: svc}
}

// loadOverrides reads path or falls back to the embedded table
func loadOverrides(path string) (intent.Overrides, error) {
	if path == "" {
		return intent.DefaultOverrides(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open overrides %s", path)
	}
	defer func() { _ = f.Close() }()
	return intent.LoadOverrides(f)
}

// Service exposes the resolve port for the CLI
func (m *Module) Service() domain.ServicePort { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.b, func(rr httpkit.Router) { rhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Ports returns the resolve service port
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }

var _ modkit.Module = (*Module)(nil)
