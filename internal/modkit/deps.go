// Package modkit provides module wiring and core deps
package modkit

import (
	"playrate/internal/platform/config"
	"playrate/internal/platform/logger"
	"playrate/internal/platform/metrics"
	"playrate/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	Store   *store.Store
	Metrics *metrics.Metrics
}

// PG returns the postgres seam or nil when persistence is disabled
func (d Deps) PG() store.TxRunner {
	if d.Store == nil {
		return nil
	}
	return d.Store.PG
}
