package modkit

import "playrate/internal/modkit/module"

// Module is the common surface for API modules that can mount routes and expose ports
type Module = module.Module

// Mount mounts m's routes under its prefix, applying its middleware and subrouter hooks
// own registers the module's endpoints, b.Register runs after it
func Mount(r module.Router, b Built, own func(module.Router)) {
	r.Route(b.Prefix, func(rr module.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		if b.Subrouter != nil {
			rr = b.Subrouter(rr)
		}
		if own != nil {
			own(rr)
		}
		if b.Register != nil {
			b.Register(rr)
		}
	})
}
