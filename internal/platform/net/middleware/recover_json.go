package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"
	pnet "playrate/internal/platform/net"
)

type panicWire struct {
	StatusCode int       `json:"status_code"`
	Status     string    `json:"status"`
	Error      perr.Wire `json:"error"`
	RequestID  string    `json:"request_id,omitempty"`
}

// RecoverJSON converts panics into a JSON 500 and logs the stack with the request id
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set(HeaderRequestID, reqID)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(panicWire{
				StatusCode: http.StatusInternalServerError,
				Status:     http.StatusText(http.StatusInternalServerError),
				Error:      perr.WireFrom(perr.PanicErrf("panic recovered")),
				RequestID:  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
