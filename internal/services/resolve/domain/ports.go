package domain

import (
	"context"

	"playrate/internal/core/music"
)

// Catalog is the external catalog provider
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]music.Candidate, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]music.Candidate, error)
	GetTrack(ctx context.Context, id string) (music.Entity, error)
	GetAlbum(ctx context.Context, id string) (music.Entity, error)
}

// PlayCounts supplies lifetime counts, nil means absent
// implementations absorb their own failures
type PlayCounts interface {
	Count(ctx context.Context, id string) *int64
	Counts(ctx context.Context, ids []string) map[string]*int64
}

// ServicePort is consumed by handlers and the CLI
type ServicePort interface {
	Resolve(ctx context.Context, q Query) (Result, error)
}
