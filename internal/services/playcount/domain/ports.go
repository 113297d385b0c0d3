package domain

import (
	"context"
	"time"
)

// Provider is the upstream play-count source, one method per query form
type Provider interface {
	ByID(ctx context.Context, id string) (int64, error)
	ByURL(ctx context.Context, url string) (int64, error)
}

// Store persists records behind the in-memory cache
// Load returns perr.ErrNotFound for unknown ids
type Store interface {
	Load(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Since(ctx context.Context, t time.Time) ([]Record, error)
}

// ServicePort is consumed by handlers and by the resolve module
type ServicePort interface {
	Fetch(ctx context.Context, id, url string) (Record, bool)
	FetchURL(ctx context.Context, url string) (Record, bool, error)
	FetchMany(ctx context.Context, urls []string) map[string]*int64
	FetchIDs(ctx context.Context, ids []string) map[string]*int64
	ClearCache(ctx context.Context, id string)
	Credentials() []CredentialView
}
