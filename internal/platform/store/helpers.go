package store

import (
	"context"
	"errors"

	perr "playrate/internal/platform/errors"

	"github.com/jackc/pgx/v5"
)

// Exec runs a write and returns the affected row count
func Exec(ctx context.Context, q RowQuerier, sql string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "exec")
	}
	return tag.RowsAffected(), nil
}

// One maps a single row into T, a missing row is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	item, err := scan(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, perr.ErrNotFound
	}
	if err != nil {
		return zero, perr.FromPostgres(err, "query row")
	}
	return item, nil
}

// Many maps all rows into []T
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "query")
	}
	defer rs.Close()

	var out []T
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rs.Err()
}
