// Package time contains time related helpers
package time

import "time"

// NowFunc is the injectable clock used by services and caches
type NowFunc func() time.Time

// UTCNow is the default NowFunc
func UTCNow() time.Time { return time.Now().UTC() }

// OrNow returns fn, or UTCNow when fn is nil
func OrNow(fn NowFunc) NowFunc {
	if fn == nil {
		return UTCNow
	}
	return fn
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
