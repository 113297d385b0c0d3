package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"playrate/internal/core/music"
	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"
	kit "playrate/internal/platform/testkit"
)

type fakeCatalog struct {
	tokens   atomic.Int32
	reject   atomic.Int32 // number of API calls to answer 401
	lastAuth atomic.Value
	srv      *httptest.Server
}

func newFake(t *testing.T, api http.HandlerFunc) *fakeCatalog {
	t.Helper()
	f := &fakeCatalog{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		if !ok || id != "cid" || secret != "csecret" || r.FormValue("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n := f.tokens.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-` + string(rune('0'+n)) + `","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		if f.reject.Load() > 0 {
			f.reject.Add(-1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		api(w, r)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCatalog) client(opts ...Option) *Client {
	o := Options{
		APIURL:       f.srv.URL + "/v1",
		TokenURL:     f.srv.URL + "/api/token",
		ClientID:     "cid",
		ClientSecret: "csecret",
		RPS:          1000,
	}
	return NewClient(o, append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

const trackJSON = `{
 "id":"t1","name":"Fantasy","popularity":71,"duration_ms":243000,"explicit":false,
 "artists":[{"id":"a1","name":"Mariah Carey"}],
 "album":{"id":"al1","name":"Daydream","release_date":"1995-09-30","release_date_precision":"day",
          "images":[{"url":"https://img.example/1.jpg","height":640,"width":640}]},
 "external_urls":{"spotify":"https://open.spotify.com/track/t1"}
}`

func TestSearchTracks(t *testing.T) {
	f := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("type") != "track" || q.Get("q") != "Fantasy Mariah Carey" || q.Get("limit") != "8" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"tracks":{"items":[` + trackJSON + `,{"id":"t2","name":"Fantasy (Remix)","popularity":40,"artists":[{"name":"Mariah Carey"},{"name":"ODB"}]}]}}`))
	})
	c := f.client()

	got, err := c.SearchTracks(context.Background(), "Fantasy Mariah Carey", 0)
	if err != nil {
		t.Fatalf("SearchTracks err: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].Artists[1] != "ODB" || got[0].Popularity != 71 {
		t.Fatalf("candidates = %+v", got)
	}
	if a, _ := f.lastAuth.Load().(string); a != "Bearer tok-1" {
		t.Fatalf("auth header = %q", a)
	}
}

func TestSearchAlbums_NoResults(t *testing.T) {
	f := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"albums":{"items":[]}}`))
	})
	got, err := f.client().SearchAlbums(context.Background(), "Get A Grip", 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("SearchAlbums = %v, %v", got, err)
	}
}

func TestGetTrack_Entity(t *testing.T) {
	f := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tracks/t1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(trackJSON))
	})
	e, err := f.client().GetTrack(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetTrack err: %v", err)
	}
	if e.Kind != music.KindTrack || e.ReleaseDate != "1995-09-30" || e.Precision != music.PrecisionDay {
		t.Fatalf("entity = %+v", e)
	}
	if e.AlbumTitle != "Daydream" || e.ImageURL == "" || e.URL != "https://open.spotify.com/track/t1" {
		t.Fatalf("entity album fields = %+v", e)
	}
}

func TestGetAlbum_TrackList(t *testing.T) {
	f := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"al9","name":"Get A Grip","release_date":"1993","release_date_precision":"year",
		 "label":"Geffen","total_tracks":2,"popularity":60,"artists":[{"name":"Aerosmith"}],
		 "tracks":{"items":[{"id":"x1","name":"Intro","track_number":1},{"id":"x2","name":"Eat The Rich","track_number":2}]}}`))
	})
	e, err := f.client().GetAlbum(context.Background(), "al9")
	if err != nil {
		t.Fatalf("GetAlbum err: %v", err)
	}
	if e.Kind != music.KindAlbum || e.Precision != music.PrecisionYear || e.Label != "Geffen" {
		t.Fatalf("entity = %+v", e)
	}
	if ids := music.IDs(e.Tracks); len(ids) != 2 || ids[1] != "x2" {
		t.Fatalf("track ids = %v", ids)
	}
	if e.URL != music.AlbumURL("al9") {
		t.Fatalf("url fallback = %q", e.URL)
	}
}

func TestUnauthorized_RefreshesOnce(t *testing.T) {
	f := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(trackJSON))
	})
	f.reject.Store(1)
	if _, err := f.client().GetTrack(context.Background(), "t1"); err != nil {
		t.Fatalf("GetTrack err: %v", err)
	}
	if f.tokens.Load() != 2 {
		t.Fatalf("token fetches = %d, want 2", f.tokens.Load())
	}

	f2 := newFake(t, func(w http.ResponseWriter, r *http.Request) {})
	f2.reject.Store(5)
	_, err := f2.client().GetTrack(context.Background(), "t1")
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("err = %v, want unauthorized after one refresh", err)
	}
	if f2.tokens.Load() != 2 {
		t.Fatalf("token fetches = %d, want 2", f2.tokens.Load())
	}
}

func TestToken_CachedUntilFiveMinutesBeforeExpiry(t *testing.T) {
	f := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(trackJSON))
	})
	clk := kit.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c := f.client(WithClock(clk.Now))
	ctx := context.Background()

	for range 3 {
		if _, err := c.GetTrack(ctx, "t1"); err != nil {
			t.Fatal(err)
		}
	}
	if f.tokens.Load() != 1 {
		t.Fatalf("token fetches = %d, want 1", f.tokens.Load())
	}

	clk.Advance(54 * time.Minute)
	_, _ = c.GetTrack(ctx, "t1")
	if f.tokens.Load() != 1 {
		t.Fatalf("refreshed too early")
	}
	clk.Advance(2 * time.Minute)
	_, _ = c.GetTrack(ctx, "t1")
	if f.tokens.Load() != 2 {
		t.Fatalf("token fetches = %d, want refresh inside the 5 minute window", f.tokens.Load())
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   perr.ErrorCode
	}{
		{http.StatusNotFound, perr.ErrorCodeNotFound},
		{http.StatusTooManyRequests, perr.ErrorCodeTooManyRequests},
		{http.StatusServiceUnavailable, perr.ErrorCodeUnavailable},
		{http.StatusForbidden, perr.ErrorCodeUnauthorized},
		{http.StatusTeapot, perr.ErrorCodeUnknown},
	}
	for _, tc := range cases {
		f := newFake(t, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(tc.status) })
		_, err := f.client().GetTrack(context.Background(), "t1")
		if !perr.IsCode(err, tc.code) {
			t.Fatalf("status %d: err = %v, want %s", tc.status, err, tc.code)
		}
	}
}

func TestMalformedBody(t *testing.T) {
	f := newFake(t, func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) })
	_, err := f.client().GetTrack(context.Background(), "t1")
	if !perr.IsCode(err, perr.ErrorCodeMalformedResponse) {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingCredentials(t *testing.T) {
	c := NewClient(Options{APIURL: "http://127.0.0.1:1"}, WithLogger(logger.Nop()))
	_, err := c.SearchTracks(context.Background(), "x", 1)
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	kit.MustContain(t, err.Error(), "not configured")
}

func TestEmptyInputs(t *testing.T) {
	c := NewClient(Options{}, WithLogger(logger.Nop()))
	if _, err := c.SearchTracks(context.Background(), "  ", 1); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("search err = %v", err)
	}
	if _, err := c.GetAlbum(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("album err = %v", err)
	}
}

func TestPrecisionFallback(t *testing.T) {
	for date, want := range map[string]music.Precision{"1993": music.PrecisionYear, "1993-04": music.PrecisionMonth, "1993-04-20": music.PrecisionDay} {
		if got := precision("", date); got != want {
			t.Fatalf("precision(%q) = %s", date, got)
		}
	}
	if !strings.EqualFold(string(precision("MONTH", "1993")), "month") {
		t.Fatalf("explicit precision should win")
	}
}

func TestToken_RefreshSurvivesCancelledCaller(t *testing.T) {
	var tokens atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if tokens.Add(1) == 1 {
			close(arrived)
		}
		<-release
		_, _ = w.Write([]byte(`{"access_token":"shared","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(trackJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		APIURL:       srv.URL + "/v1",
		TokenURL:     srv.URL + "/api/token",
		ClientID:     "cid",
		ClientSecret: "csecret",
		RPS:          1000,
	}, WithLogger(logger.Nop()))

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.GetTrack(ctxA, "t1")
		errA <- err
	}()
	<-arrived

	errB := make(chan error, 1)
	go func() {
		_, err := c.GetTrack(context.Background(), "t1")
		errB <- err
	}()

	cancelA()
	err := <-errA
	close(release)
	if err == nil {
		t.Fatalf("cancelled caller should fail")
	}

	if err := <-errB; err != nil {
		t.Fatalf("waiting caller err = %v, want success", err)
	}
	if tokens.Load() != 1 {
		t.Fatalf("token fetches = %d, want one shared refresh", tokens.Load())
	}
}
