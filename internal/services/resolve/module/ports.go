package module

import (
	"context"

	"playrate/internal/core/music"
	pcdomain "playrate/internal/services/playcount/domain"
	"playrate/internal/services/resolve/domain"
)

// Ports are the cross module dependencies of resolve
// Catalog is optional and built from CATALOG_* when nil
type Ports struct {
	PlayCounts pcdomain.ServicePort
	Catalog    domain.Catalog
}

// playCounts narrows the play-count service to what resolution reads
type playCounts struct{ svc pcdomain.ServicePort }

func (p playCounts) Count(ctx context.Context, id string) *int64 {
	rec, ok := p.svc.Fetch(ctx, id, music.TrackURL(id))
	if !ok {
		return nil
	}
	return rec.LifetimeCount
}

func (p playCounts) Counts(ctx context.Context, ids []string) map[string]*int64 {
	return p.svc.FetchIDs(ctx, ids)
}

var _ domain.PlayCounts = playCounts{}
