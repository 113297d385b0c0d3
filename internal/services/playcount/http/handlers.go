// Package http provides http transport for play counts
package http

import (
	stdhttp "net/http"

	"playrate/internal/core/format"
	"playrate/internal/core/music"
	"playrate/internal/modkit/httpkit"
	ptime "playrate/internal/platform/time"
	"playrate/internal/services/playcount/domain"
)

// Register mounts playcount endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// single track by catalog id
	httpkit.Get(r, "/{id}", h.byID)

	// many tracks by public URL
	httpkit.PostJSON[domain.BatchInput](r, "/batch", h.batch)

	httpkit.Get(r, "/credentials", h.credentials)
	httpkit.Delete(r, "/cache", h.clearAll)
	httpkit.Delete(r, "/cache/{id}", h.clearOne)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) byID(r *stdhttp.Request) (any, error) {
	id, err := httpkit.Param(r, "id", "required,catalog_id")
	if err != nil {
		return nil, err
	}
	u := music.TrackURL(id)
	rec, ok := h.svc.Fetch(r.Context(), id, u)
	if !ok {
		return domain.NewCountView(id, u, nil, format.NotAvailable), nil
	}
	out := domain.NewCountView(id, u, rec.LifetimeCount, format.Full(rec.LifetimeCount))
	out.CapturedAt = ptime.Ptr(rec.CapturedAt)
	return out, nil
}

func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return domain.BatchOutput{Counts: h.svc.FetchMany(r.Context(), in.URLs)}, nil
}

func (h *handlers) credentials(_ *stdhttp.Request) (any, error) {
	return h.svc.Credentials(), nil
}

func (h *handlers) clearAll(r *stdhttp.Request) (any, error) {
	h.svc.ClearCache(r.Context(), "")
	return httpkit.NoContent(), nil
}

func (h *handlers) clearOne(r *stdhttp.Request) (any, error) {
	id, err := httpkit.Param(r, "id", "required,catalog_id")
	if err != nil {
		return nil, err
	}
	h.svc.ClearCache(r.Context(), id)
	return httpkit.NoContent(), nil
}
