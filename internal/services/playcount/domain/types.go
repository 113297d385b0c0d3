// Package domain holds the play-count records, views and ports shared by the playcount module
package domain

import (
	"math"
	"time"
)

// Record is one cached play-count observation
// CapturedAt never moves backwards for a given ID
type Record struct {
	ID            string    `json:"id"`
	LifetimeCount *int64    `json:"lifetime_count"`
	CapturedAt    time.Time `json:"captured_at"`
}

// Fresh reports whether r is within ttl of now, the boundary counts as fresh
func (r Record) Fresh(now time.Time, ttl time.Duration) bool {
	return !r.CapturedAt.IsZero() && now.Sub(r.CapturedAt) <= ttl
}

// Clamp32 saturates n into the int32 range for consumers that cannot hold 64-bit counts
func Clamp32(n int64) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	default:
		return int32(n)
	}
}

// CredentialView is the masked, read-only state of one API key
type CredentialView struct {
	Key       string    `json:"key"`
	Usage     int       `json:"usage"`
	LastUsed  time.Time `json:"last_used"`
	Exhausted bool      `json:"exhausted"`
}

// CountView is the HTTP shape for a single track's count
// PlayCount32 serves clients that still decode the count into a 32-bit int
type CountView struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	PlayCount   *int64     `json:"play_count"`
	PlayCount32 *int32     `json:"play_count_32"`
	Display     string     `json:"display"`
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
}

// NewCountView fills the count fields from c, nil stays nil in both widths
func NewCountView(id, url string, c *int64, display string) CountView {
	v := CountView{ID: id, URL: url, PlayCount: c, Display: display}
	if c != nil {
		n := Clamp32(*c)
		v.PlayCount32 = &n
	}
	return v
}

// BatchInput is the body of POST /playcount/batch
type BatchInput struct {
	URLs []string `json:"urls" validate:"required,min=1,max=50,dive,track_url"`
}

// BatchOutput maps each requested URL to its count, null when absent
type BatchOutput struct {
	Counts map[string]*int64 `json:"counts"`
}
