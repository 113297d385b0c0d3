// Package spotify is the catalog provider client: search plus track and album detail
package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	perr "playrate/internal/platform/errors"
	"playrate/internal/platform/logger"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	apiURLDefault     = "https://api.spotify.com/v1"
	tokenURLDefault   = "https://accounts.spotify.com/api/token"
	defaultTimeout    = 15 * time.Second
	defaultRPS        = 10
	defaultLimit      = 8
	refreshEarly      = 5 * time.Minute
	maxBody           = 4 << 20
	tokenFlightKey    = "token"
	defaultUserAgent  = "playrate"
	defaultMarketCode = "US"
)

// Options configures the Client
type Options struct {
	APIURL       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	UserAgent    string
	Market       string
	Timeout      time.Duration

	// RPS throttles every API call, token requests included
	RPS float64

	// SearchLimit is used when a caller passes limit <= 0
	SearchLimit int
}

// Client talks to the catalog Web API with an app-level client-credentials token
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time

	flight singleflight.Group
	mu     sync.Mutex
	token  string
	expiry time.Time
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the transport
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the component logger
func WithLogger(l logger.Logger) Option { return func(c *Client) { c.log = l } }

// WithClock injects the time source used for token expiry
func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// NewClient creates a Client with sane defaults
func NewClient(o Options, opts ...Option) *Client {
	if o.APIURL == "" {
		o.APIURL = apiURLDefault
	}
	o.APIURL = strings.TrimRight(o.APIURL, "/")
	if o.TokenURL == "" {
		o.TokenURL = tokenURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Market == "" {
		o.Market = defaultMarketCode
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RPS <= 0 {
		o.RPS = defaultRPS
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = defaultLimit
	}
	burst := int(o.RPS)
	if burst < 1 {
		burst = 1
	}
	c := &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: rate.NewLimiter(rate.Limit(o.RPS), burst),
		log:     *logger.Named("catalog"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// accessToken returns a cached token or fetches a new one
// concurrent callers share a single refresh
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	tok, exp := c.token, c.expiry
	c.mu.Unlock()
	if tok != "" && c.now().Before(exp.Add(-refreshEarly)) {
		return tok, nil
	}

	// the shared refresh outlives any single caller
	ch := c.flight.DoChan(tokenFlightKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
		defer cancel()
		return c.fetchToken(fctx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return "", perr.Unauthorizedf("catalog client credentials are not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "catalog token request failed")
	}
	req.SetBasicAuth(c.opts.ClientID, c.opts.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", perr.Unavailablef("catalog token transport: %v", err)
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		if err := statusError(resp.StatusCode, "token"); err != nil {
			return "", err
		}
	}

	var tr tokenResponse
	if err := decode(resp.Body, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", perr.Malformedf("catalog token response has no access_token")
	}

	exp := c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	c.mu.Lock()
	c.token, c.expiry = tr.AccessToken, exp
	c.mu.Unlock()

	c.log.Info().Time("expires_at", exp).Msg("catalog token refreshed")
	return tr.AccessToken, nil
}

func (c *Client) invalidate(tok string) {
	c.mu.Lock()
	if c.token == tok {
		c.token, c.expiry = "", time.Time{}
	}
	c.mu.Unlock()
}

// get issues an authorized GET and decodes the JSON body into out
// a 401 drops the token, refreshes it and retries once
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.opts.APIURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	for try := 0; ; try++ {
		tok, err := c.accessToken(ctx)
		if err != nil {
			return err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "catalog new request failed")
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.opts.UserAgent)

		start := c.now()
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return perr.Unavailablef("catalog %s transport: %v", path, err)
		}
		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Dur("latency", c.now().Sub(start)).
			Msg("catalog http response")

		if resp.StatusCode == http.StatusUnauthorized && try == 0 {
			_ = drainAndClose(resp.Body)
			c.invalidate(tok)
			c.log.Info().Str("path", path).Msg("catalog token rejected refreshing")
			continue
		}

		err = statusError(resp.StatusCode, path)
		if err == nil {
			err = decode(resp.Body, out)
		}
		_ = drainAndClose(resp.Body)
		return err
	}
}

func statusError(status int, what string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return perr.NotFoundf("catalog %s not found", what)
	case status == http.StatusTooManyRequests:
		return perr.RateLimitedf("catalog rate limited")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return perr.Unauthorizedf("catalog %s rejected status %d", what, status)
	case status == http.StatusBadRequest:
		return perr.InvalidArgf("catalog %s bad request", what)
	case status >= 500:
		return perr.Unavailablef("catalog %s upstream status %d", what, status)
	default:
		return perr.Newf(perr.ErrorCodeUnknown, "catalog %s unexpected status %d", what, status)
	}
}

func decode(r io.Reader, out any) error {
	b, err := io.ReadAll(io.LimitReader(r, maxBody))
	if err != nil {
		return perr.Unavailablef("catalog read body: %v", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeMalformedResponse, "catalog decode")
	}
	return nil
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
