//go:build integration_pg

package repo

import (
	"context"
	"testing"
	"time"

	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/store"
	"playrate/internal/platform/store/pg/pgtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPG_Integration(t *testing.T) {
	dsn := pgtest.Start(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := store.Open(ctx, store.Config{AppName: "playrate-test", PG: store.PGConfig{
		Enabled: true, URL: dsn, MaxConns: 2, ConnectRetries: 5, PingTimeout: 3 * time.Second,
	}})
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	r := NewPG(st.PG)
	require.NoError(t, r.EnsureSchema(ctx))

	t1 := time.Now().UTC().Truncate(time.Microsecond)
	n1, n2 := int64(100), int64(50)
	require.NoError(t, r.Save(ctx, domainRecord("a", &n1, t1)))
	// older capture must not win
	require.NoError(t, r.Save(ctx, domainRecord("a", &n2, t1.Add(-time.Hour))))

	got, err := r.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(100), *got.LifetimeCount)
	assert.True(t, got.CapturedAt.Equal(t1))

	require.NoError(t, r.Save(ctx, domainRecord("b", nil, t1)))
	rows, err := r.Since(ctx, t1.Add(-time.Minute))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, r.Delete(ctx, "a"))
	_, err = r.Load(ctx, "a")
	assert.ErrorIs(t, err, perr.ErrNotFound)

	require.NoError(t, r.DeleteAll(ctx))
	rows, err = r.Since(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
