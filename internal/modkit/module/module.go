// Package module defines the minimal contract for a modkit module
package module

import phttp "playrate/internal/platform/net/http"

// Router is the platform router seam modules mount against
type Router = phttp.Router

// Module defines the minimal contract used by modkit
// it lives in its own package so a module can export a ports type without import knots
type Module interface {
	MountRoutes(r Router)
	Ports() any
	Name() string
}
