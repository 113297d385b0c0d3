// Package repo persists play-count records in Postgres
package repo

import (
	"context"
	_ "embed"
	"time"

	"playrate/internal/platform/store"
	"playrate/internal/services/playcount/domain"
)

//go:embed schema.sql
var schema string

// PG implements domain.Store over the platform sql seam
type PG struct{ q store.RowQuerier }

// NewPG binds the repo to q, usually the store's TxRunner
func NewPG(q store.RowQuerier) *PG {
	if q == nil {
		panic("playcount.repo requires a non nil RowQuerier")
	}
	return &PG{q: q}
}

var _ domain.Store = (*PG)(nil)

// EnsureSchema creates the records table if it is missing
func (s *PG) EnsureSchema(ctx context.Context) error {
	_, err := store.Exec(ctx, s.q, schema)
	return err
}

func scanRecord(r store.Row) (domain.Record, error) {
	var out domain.Record
	var count *int64
	if err := r.Scan(&out.ID, &count, &out.CapturedAt); err != nil {
		return domain.Record{}, err
	}
	out.LifetimeCount = count
	out.CapturedAt = out.CapturedAt.UTC()
	return out, nil
}

// Load implements domain.Store
func (s *PG) Load(ctx context.Context, id string) (domain.Record, error) {
	return store.One(ctx, s.q, scanRecord,
		`SELECT track_id, lifetime_count, captured_at FROM playcount_records WHERE track_id = $1`, id)
}

// Save implements domain.Store
// an older capture never replaces a newer one
func (s *PG) Save(ctx context.Context, rec domain.Record) error {
	_, err := store.Exec(ctx, s.q, `
		INSERT INTO playcount_records (track_id, lifetime_count, captured_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (track_id) DO UPDATE
		SET lifetime_count = EXCLUDED.lifetime_count, captured_at = EXCLUDED.captured_at
		WHERE playcount_records.captured_at <= EXCLUDED.captured_at`,
		rec.ID, rec.LifetimeCount, rec.CapturedAt.UTC())
	return err
}

// Delete implements domain.Store
func (s *PG) Delete(ctx context.Context, id string) error {
	_, err := store.Exec(ctx, s.q, `DELETE FROM playcount_records WHERE track_id = $1`, id)
	return err
}

// DeleteAll implements domain.Store
func (s *PG) DeleteAll(ctx context.Context) error {
	_, err := store.Exec(ctx, s.q, `DELETE FROM playcount_records`)
	return err
}

// Since implements domain.Store, newest first
func (s *PG) Since(ctx context.Context, t time.Time) ([]domain.Record, error) {
	return store.Many(ctx, s.q, scanRecord,
		`SELECT track_id, lifetime_count, captured_at FROM playcount_records
		 WHERE captured_at >= $1 ORDER BY captured_at DESC`, t.UTC())
}
