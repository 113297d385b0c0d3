package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"playrate/internal/modkit/httpkit"
	phttp "playrate/internal/platform/net/http"
	"playrate/internal/platform/store"

	"github.com/go-chi/chi/v5"
)

func TestBuild_Defaults(t *testing.T) {
	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || len(b.Mw) != 0 {
		t.Fatalf("unexpected defaults %+v", b)
	}
	if b.Subrouter == nil || b.Register == nil {
		t.Fatalf("hooks should default to no-ops")
	}
}

func TestBuild_Options(t *testing.T) {
	type ports struct{ N int }
	mw := func(next http.Handler) http.Handler { return next }
	b := Build(WithName("playcount"), WithPrefix("/playcount"), WithMiddlewares(mw, mw), WithPorts(ports{N: 2}))
	if b.Name != "playcount" || b.Prefix != "/playcount" || len(b.Mw) != 2 {
		t.Fatalf("options not applied: %+v", b)
	}
	if p, ok := b.Ports.(ports); !ok || p.N != 2 {
		t.Fatalf("ports = %#v", b.Ports)
	}
}

func TestMount_OrderAndMiddleware(t *testing.T) {
	var order []string
	b := Build(
		WithPrefix("/m"),
		WithMiddlewares(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Mod", "1")
				next.ServeHTTP(w, r)
			})
		}),
		WithRegister(func(r httpkit.Router) {
			order = append(order, "extra")
			httpkit.Get(r, "/extra", func(*http.Request) (any, error) { return "x", nil })
		}),
	)
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, b, func(r httpkit.Router) {
		order = append(order, "own")
		httpkit.Get(r, "/own", func(*http.Request) (any, error) { return "o", nil })
	})

	if len(order) != 2 || order[0] != "own" || order[1] != "extra" {
		t.Fatalf("register order = %v", order)
	}
	for _, p := range []string{"/m/own", "/m/extra"} {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
		if rr.Code != http.StatusOK || rr.Header().Get("X-Mod") != "1" {
			t.Fatalf("%s: status %d header %q", p, rr.Code, rr.Header().Get("X-Mod"))
		}
	}
}

func TestDeps_PG(t *testing.T) {
	if (Deps{}).PG() != nil {
		t.Fatalf("nil store should give nil PG")
	}
	if (Deps{Store: &store.Store{}}).PG() != nil {
		t.Fatalf("disabled store should give nil PG")
	}
}
