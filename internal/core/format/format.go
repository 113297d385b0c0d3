// Package format renders counts and durations for display
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// NotAvailable marks an absent count, distinct from "0"
const NotAvailable = "not available"

// Compact renders a count with a K, M or B suffix, rounded half away from zero to one decimal
func Compact(n *int64) string {
	if n == nil {
		return NotAvailable
	}
	v := *n
	if v > -1_000 && v < 1_000 {
		return fmt.Sprintf("%d", v)
	}
	for i, u := range compactUnits {
		r := math.Round(float64(v)/u.div*10) / 10
		if math.Abs(r) < 1_000 || i == len(compactUnits)-1 {
			return humanize.FtoaWithDigits(r, 1) + u.suffix
		}
	}
	return fmt.Sprintf("%d", v)
}

// 999_950 rounds to 1000.0K and moves up to 1M
var compactUnits = []struct {
	div    float64
	suffix string
}{
	{1e3, "K"},
	{1e6, "M"},
	{1e9, "B"},
}

// Full renders a count with thousands separators
func Full(n *int64) string {
	if n == nil {
		return NotAvailable
	}
	return humanize.Comma(*n)
}

// Plays renders "1,234 plays" or NotAvailable
func Plays(n *int64) string {
	if n == nil {
		return NotAvailable
	}
	return Full(n) + " plays"
}

// Duration renders milliseconds as m:ss
func Duration(ms int) string {
	if ms <= 0 {
		return "0:00"
	}
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Age renders how long ago ref was relative to now, e.g. "3 years ago"
func Age(ref, now time.Time) string {
	if ref.IsZero() {
		return ""
	}
	return humanize.RelTime(ref, now, "ago", "from now")
}
