//go:build integration_pg

package pg

import (
	"context"
	"testing"
	"time"

	"playrate/internal/platform/store/pg/pgtest"
)

func TestOpen_Integration(t *testing.T) {
	dsn := pgtest.Start(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	p, err := Open(ctx, Config{URL: dsn, MaxConns: 2}, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	var one int
	if err := p.Pool.QueryRow(ctx, "select 1").Scan(&one); err != nil || one != 1 {
		t.Fatalf("select 1 = %d, %v", one, err)
	}
}
