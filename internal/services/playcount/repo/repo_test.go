package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/store"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	sql  string
	args []any
}

type scanRow struct {
	vals []any
	err  error
}

func (r scanRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case **int64:
			*p = r.vals[i].(*int64)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		}
	}
	return nil
}

type scanRows struct {
	rows []scanRow
	i    int
}

func (r *scanRows) Next() bool             { r.i++; return r.i <= len(r.rows) }
func (r *scanRows) Scan(dest ...any) error { return r.rows[r.i-1].Scan(dest...) }
func (r *scanRows) Err() error             { return nil }
func (r *scanRows) Close()                 {}

type tag int64

func (t tag) String() string      { return "OK" }
func (t tag) RowsAffected() int64 { return int64(t) }

type fakeQ struct {
	calls []call
	row   scanRow
	rows  []scanRow
}

func (q *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.calls = append(q.calls, call{sql, args})
	return tag(1), nil
}

func (q *fakeQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	q.calls = append(q.calls, call{sql, args})
	return &scanRows{rows: q.rows}, nil
}

func (q *fakeQ) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	q.calls = append(q.calls, call{sql, args})
	return q.row
}

func TestLoad(t *testing.T) {
	n := int64(42)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	q := &fakeQ{row: scanRow{vals: []any{"t1", &n, at}}}

	rec, err := NewPG(q).Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", rec.ID)
	assert.Equal(t, int64(42), *rec.LifetimeCount)
	assert.Equal(t, time.UTC, rec.CapturedAt.Location())
	assert.Equal(t, []any{"t1"}, q.calls[0].args)
}

func TestLoad_Missing(t *testing.T) {
	q := &fakeQ{row: scanRow{err: pgx.ErrNoRows}}
	_, err := NewPG(q).Load(context.Background(), "nope")
	assert.True(t, errors.Is(err, perr.ErrNotFound))
}

func TestSave_MonotonicUpsert(t *testing.T) {
	q := &fakeQ{}
	n := int64(7)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, NewPG(q).Save(context.Background(), domainRecord("t1", &n, at)))

	require.Len(t, q.calls, 1)
	assert.Contains(t, q.calls[0].sql, "ON CONFLICT (track_id)")
	assert.Contains(t, q.calls[0].sql, "playcount_records.captured_at <= EXCLUDED.captured_at")
	assert.Equal(t, "t1", q.calls[0].args[0])
	assert.Equal(t, &n, q.calls[0].args[1])
}

func TestSince(t *testing.T) {
	a, b := int64(1), int64(2)
	now := time.Now().UTC()
	q := &fakeQ{rows: []scanRow{{vals: []any{"a", &a, now}}, {vals: []any{"b", &b, now}}}}
	got, err := NewPG(q).Since(context.Background(), now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
}

func TestDeleteAndSchema(t *testing.T) {
	q := &fakeQ{}
	r := NewPG(q)
	ctx := context.Background()
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.DeleteAll(ctx))
	require.NoError(t, r.EnsureSchema(ctx))
	require.Len(t, q.calls, 3)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(q.calls[2].sql), "CREATE TABLE IF NOT EXISTS playcount_records"))
}

func TestNewPG_Nil(t *testing.T) {
	assert.Panics(t, func() { NewPG(nil) })
}
