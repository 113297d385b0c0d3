// Package playcount is the HTTP client for the play-count scraping provider
// it owns the per-form attempt loop, backoff and per-attempt credential selection
package playcount

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"
	"playrate/internal/platform/metrics"
	pstr "playrate/internal/platform/strings"
)

const (
	baseURLDefault     = "https://api.spotscraper.com/track"
	defaultTimeout     = 30 * time.Second
	defaultUA          = "playrate"
	defaultMaxAttempts = 3
	defaultBackoffBase = 2 * time.Second
	maxBackoff         = 30 * time.Second
	maxBody            = 1 << 20
)

// Credentials hands out one API key per attempt
// degraded reports the pool was exhausted and the key is over its limit
type Credentials interface {
	Acquire() (key string, degraded bool)
}

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds each attempt, not the whole lookup
	Timeout time.Duration

	MaxAttempts int
	BackoffBase time.Duration
}

// Form is the query shape sent to the provider
type Form string

const (
	// FormID asks by catalog track id
	FormID Form = "id"
	// FormURL asks by the public track URL
	FormURL Form = "url"
)

// Query is one provider lookup
type Query struct {
	Form  Form
	Value string
}

// ByID builds an id-form query
func ByID(id string) Query { return Query{Form: FormID, Value: id} }

// ByURL builds a url-form query
func ByURL(u string) Query { return Query{Form: FormURL, Value: u} }

// Client calls the provider with retries and credential rotation
type Client struct {
	http    *http.Client
	opts    Options
	creds   Credentials
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the transport, tests point it at httptest servers
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the component logger
func WithLogger(l logger.Logger) Option { return func(c *Client) { c.log = l } }

// WithMetrics records one observation per attempt
func WithMetrics(m *metrics.Metrics) Option { return func(c *Client) { c.metrics = m } }

// NewClient creates a Client with sane defaults
func NewClient(o Options, creds Credentials, opts ...Option) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = defaultBackoffBase
	}
	c := &Client{
		http:  &http.Client{},
		opts:  o,
		creds: creds,
		log:   *logger.Named("playcount"),
		now:   time.Now,
		sleep: sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the lifetime play count for q
// NotFound and MalformedResponse end the lookup at once, rate limits, rejected
// keys and unavailability retry up to MaxAttempts with base<<n backoff
// ctx cancellation aborts immediately and returns ctx.Err()
func (c *Client) Lookup(ctx context.Context, q Query) (int64, error) {
	if strings.TrimSpace(q.Value) == "" {
		return 0, perr.InvalidArgf("playcount %s query is empty", q.Form)
	}
	var last error
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		key := ""
		if c.creds != nil {
			key, _ = c.creds.Acquire()
		}

		start := c.now()
		n, err := c.call(ctx, q, key)
		c.metrics.UpstreamCall(string(q.Form), outcome(err), c.now().Sub(start))
		if err == nil {
			return n, nil
		}
		if !perr.Retryable(err) {
			return 0, err
		}
		last = err
		if attempt == c.opts.MaxAttempts-1 {
			break
		}

		back := c.backoff(attempt)
		c.log.Warn().
			Err(err).
			Str("form", string(q.Form)).
			Str("key", pstr.Mask(key, 5)).
			Int("attempt", attempt+1).
			Dur("retry_in", back).
			Msg("playcount attempt failed retrying")
		if err := c.sleep(ctx, back); err != nil {
			return 0, err
		}
	}
	return 0, last
}

func (c *Client) call(ctx context.Context, q Query, key string) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "playcount new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if key != "" {
		req.Header.Set("x-api-key", key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		// the per-attempt deadline lands here too and counts as transient
		return 0, perr.Unavailablef("playcount %s transport: %v", q.Form, err)
	}
	defer func() {
		if cerr := drainAndClose(resp.Body); cerr != nil {
			c.log.Debug().Err(cerr).Msg("playcount close body failed")
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		n, err := decodeCount(resp.Body, q.Form)
		if err != nil && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if perr.IsCode(err, perr.ErrorCodeMalformedResponse) {
			c.log.Warn().Err(err).Str("form", string(q.Form)).Str("query", q.Value).Msg("playcount malformed payload")
		}
		return n, err
	case resp.StatusCode == http.StatusNotFound:
		return 0, perr.NotFoundf("playcount %s no data", q.Form)
	case resp.StatusCode == http.StatusTooManyRequests:
		return 0, perr.RateLimitedf("playcount rate limited")
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return 0, perr.Unauthorizedf("playcount credential rejected status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return 0, perr.Unavailablef("playcount upstream status %d", resp.StatusCode)
	default:
		return 0, perr.Newf(perr.ErrorCodeUnknown, "playcount unexpected status %d", resp.StatusCode)
	}
}

func (c *Client) endpoint(q Query) string {
	if q.Form == FormURL {
		return c.opts.BaseURL + "?url=" + url.QueryEscape(q.Value)
	}
	return c.opts.BaseURL + "/" + url.PathEscape(q.Value)
}

// backoff is base<<attempt for the 0-based failed attempt, capped
func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.BackoffBase << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := perr.As(err); ok {
		return e.Code().String()
	}
	return "canceled"
}

// ByID looks up a track by catalog id
func (c *Client) ByID(ctx context.Context, id string) (int64, error) { return c.Lookup(ctx, ByID(id)) }

// ByURL looks up a track by its public URL
func (c *Client) ByURL(ctx context.Context, u string) (int64, error) { return c.Lookup(ctx, ByURL(u)) }
