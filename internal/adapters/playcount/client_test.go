package playcount

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"
)

type fakeKeys struct {
	mu   sync.Mutex
	keys []string
	n    int
}

func (f *fakeKeys) Acquire() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.keys[f.n%len(f.keys)]
	f.n++
	return k, false
}

type recorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

func newTestClient(t *testing.T, h http.Handler, o Options) (*Client, *recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	o.BaseURL = srv.URL + "/track"
	c := NewClient(o, &fakeKeys{keys: []string{"key-aaaaaa", "key-bbbbbb"}}, WithLogger(logger.Nop()))
	rec := &recorder{}
	c.sleep = rec.sleep
	return c, rec
}

func okBody(n int64) string {
	return fmt.Sprintf(`{"success":true,"status":200,"data":{"id":"x","name":"Song","statistics":{"playCount":%d}}}`, n)
}

func TestLookup_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var keys []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("x-api-key"))
		mu.Unlock()
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(okBody(1234567)))
	})
	c, rec := newTestClient(t, h, Options{})

	n, err := c.Lookup(context.Background(), ByID("4uLU6hMCjMI75M1A2tKUQC"))
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if n != 1234567 {
		t.Fatalf("count = %d", n)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("upstream calls = %d, want 3", got)
	}
	if len(rec.sleeps) != 2 || rec.sleeps[0] != 2*time.Second || rec.sleeps[1] != 4*time.Second {
		t.Fatalf("backoff = %v, want [2s 4s]", rec.sleeps)
	}
	if keys[0] == keys[1] {
		t.Fatalf("retry should rotate keys, got %v", keys)
	}
}

func TestLookup_IDFormPath(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track/abc123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") == "" {
			t.Errorf("missing x-api-key")
		}
		_, _ = w.Write([]byte(okBody(0)))
	})
	c, _ := newTestClient(t, h, Options{})
	n, err := c.Lookup(context.Background(), ByID("abc123"))
	if err != nil || n != 0 {
		t.Fatalf("Lookup = %d, %v", n, err)
	}
}

func TestLookup_URLForm(t *testing.T) {
	want := "https://open.spotify.com/track/abc123"
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != want {
			t.Errorf("url param = %q", got)
		}
		_, _ = w.Write([]byte(okBody(42)))
	})
	c, _ := newTestClient(t, h, Options{})
	n, err := c.Lookup(context.Background(), ByURL(want))
	if err != nil || n != 42 {
		t.Fatalf("Lookup = %d, %v", n, err)
	}
}

func TestLookup_NoDataDoesNotRetry(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		code   perr.ErrorCode
	}{
		{"404", http.StatusNotFound, "", perr.ErrorCodeNotFound},
		{"success false", 200, `{"success":false,"status":404}`, perr.ErrorCodeNotFound},
		{"null count", 200, `{"success":true,"status":200,"data":{"id":"x","statistics":{"playCount":null}}}`, perr.ErrorCodeNotFound},
		{"missing data", 200, `{"success":true,"status":200}`, perr.ErrorCodeNotFound},
		{"bad json", 200, `{"success":`, perr.ErrorCodeMalformedResponse},
		{"negative", 200, okBody(-5), perr.ErrorCodeMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			c, rec := newTestClient(t, h, Options{})
			_, err := c.Lookup(context.Background(), ByID("abc"))
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("err = %v, want code %s", err, tc.code)
			}
			if calls.Load() != 1 || len(rec.sleeps) != 0 {
				t.Fatalf("calls = %d sleeps = %v, want a single attempt", calls.Load(), rec.sleeps)
			}
		})
	}
}

func TestLookup_ExhaustsOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	c, rec := newTestClient(t, h, Options{})
	_, err := c.Lookup(context.Background(), ByID("abc"))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if calls.Load() != 3 || len(rec.sleeps) != 2 {
		t.Fatalf("calls = %d sleeps = %d", calls.Load(), len(rec.sleeps))
	}
}

func TestLookup_RejectedKeyRetries(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(okBody(9)))
	})
	c, _ := newTestClient(t, h, Options{})
	n, err := c.Lookup(context.Background(), ByID("abc"))
	if err != nil || n != 9 || calls.Load() != 2 {
		t.Fatalf("Lookup = %d, %v after %d calls", n, err, calls.Load())
	}
}

func TestLookup_PerAttemptTimeoutIsTransient(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c, _ := newTestClient(t, h, Options{Timeout: 20 * time.Millisecond, MaxAttempts: 2})
	_, err := c.Lookup(context.Background(), ByID("abc"))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestLookup_CancelSkipsRemainingAttempts(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c, _ := newTestClient(t, h, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}
	_, err := c.Lookup(ctx, ByID("abc"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestLookup_EmptyQuery(t *testing.T) {
	c := NewClient(Options{}, nil, WithLogger(logger.Nop()))
	if _, err := c.Lookup(context.Background(), ByID(" ")); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestBackoffCap(t *testing.T) {
	c := NewClient(Options{BackoffBase: 2 * time.Second}, nil)
	for i, want := range []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 30 * time.Second, 30 * time.Second} {
		if got := c.backoff(i); got != want {
			t.Fatalf("backoff(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("sleepCtx err = %v", err)
	}
	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("sleepCtx err = %v", err)
	}
}
