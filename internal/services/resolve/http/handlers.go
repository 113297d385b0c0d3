// Package http provides http transport for resolution
package http

import (
	stdhttp "net/http"

	"playrate/internal/modkit/httpkit"
	"playrate/internal/services/resolve/domain"
)

// Register mounts resolve endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.Query](r, "/", h.resolve)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) resolve(r *stdhttp.Request, q domain.Query) (any, error) {
	return h.svc.Resolve(r.Context(), q)
}
