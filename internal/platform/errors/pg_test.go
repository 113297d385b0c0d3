package errors

import (
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDB},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	if err := FromPostgresf(pg("57P03"), "load %s", "abc"); CodeOf(err) != ErrorCodeUnavailable {
		t.Fatalf("FromPostgresf code = %v", CodeOf(err))
	}
	if err := FromPostgres(stderrs.New("conn reset"), "save"); CodeOf(err) != ErrorCodeDB {
		t.Fatalf("foreign error should map to DB, got %v", CodeOf(err))
	}
	if !IsUndefinedTable(FromPostgres(pg("42P01"), "load")) {
		t.Fatalf("IsUndefinedTable should see through the wrap")
	}
}

func TestIsRetryablePG(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		if !IsRetryablePG(Wrap(pg(code), ErrorCodeDB, "tx")) {
			t.Fatalf("%s should be retryable", code)
		}
	}
	if IsRetryablePG(pg("23505")) {
		t.Fatalf("unique violation should not be retryable")
	}
	if !IsRetryablePG(stderrs.New("ERROR: deadlock detected")) {
		t.Fatalf("text fallback should match deadlock")
	}
	if IsRetryablePG(nil) {
		t.Fatalf("nil is not retryable")
	}
}
