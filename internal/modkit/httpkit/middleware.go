package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"playrate/internal/platform/metrics"
	"playrate/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Metrics        *metrics.Metrics
	CORS           middleware.CORSOptions
	RequestTimeout time.Duration
	SlowRequest    time.Duration
	MaxInFlight    int
}

// CommonStack returns the baseline middleware for the versioned API
// request timeouts should exceed the upstream retry budget or batch lookups get cut short
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	stack := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		metrics.RequestMiddleware(o.Metrics),
		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	}
	if o.MaxInFlight > 0 {
		stack = append(stack, middleware.Throttle(o.MaxInFlight))
	}
	return stack
}
