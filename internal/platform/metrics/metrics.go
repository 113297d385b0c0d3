// Package metrics holds the Prometheus series exported by playrate
// a nil *Metrics is valid and records nothing
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and histograms for the resolver and play-count engine
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	upstreamCalls      *prometheus.CounterVec
	upstreamLatency    *prometheus.HistogramVec
	credentialDegraded prometheus.Counter
	resolutions        *prometheus.CounterVec
}

// New creates and registers the series on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playrate_http_requests_total",
			Help: "HTTP requests served, by status class",
		}, []string{"class"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playrate_cache_lookups_total",
			Help: "Play-count cache lookups by result",
		}, []string{"result"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playrate_upstream_calls_total",
			Help: "Play-count provider calls by query form and outcome",
		}, []string{"form", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playrate_upstream_latency_seconds",
			Help:    "Play-count provider call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"form"}),
		credentialDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playrate_credential_degraded_total",
			Help: "Credential acquisitions served from an exhausted pool",
		}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playrate_resolutions_total",
			Help: "Resolution requests by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.cacheLookups,
		m.upstreamCalls,
		m.upstreamLatency,
		m.credentialDegraded,
		m.resolutions,
	)
	return m
}

// CacheLookup records a cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// UpstreamCall records one provider attempt
func (m *Metrics) UpstreamCall(form, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(form, outcome).Inc()
	m.upstreamLatency.WithLabelValues(form).Observe(elapsed.Seconds())
}

// CredentialDegraded records an acquisition past every key's daily limit
func (m *Metrics) CredentialDegraded() {
	if m == nil {
		return
	}
	m.credentialDegraded.Inc()
}

// Resolution records the outcome of one resolve request
func (m *Metrics) Resolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
