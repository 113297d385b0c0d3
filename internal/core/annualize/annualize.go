// Package annualize turns a lifetime play count into plays per 365.25 days of release age
package annualize

import (
	"math"
	"strings"
	"time"

	"playrate/internal/core/music"
)

// DaysPerYear is the length of the normalized year
const DaysPerYear = 365.25

const secondsPerDay = 24 * 60 * 60

// Result bundles the lifetime count with its annual rate, AgeInDays is 0 when the date did not parse
type Result struct {
	LifetimeCount *int64 `json:"lifetime_count"`
	AnnualRate    *int64 `json:"annual_rate"`
	AgeInDays     int64  `json:"age_in_days"`
}

// ReferenceDate resolves the first instant a release date can mean at its precision
// month and year accept longer dates and truncate them
func ReferenceDate(date string, precision music.Precision) (time.Time, bool) {
	date = strings.TrimSpace(date)
	var layout string
	switch precision {
	case music.PrecisionDay:
		layout = "2006-01-02"
	case music.PrecisionMonth:
		layout = "2006-01"
		if len(date) > len(layout) {
			date = date[:len(layout)]
		}
	case music.PrecisionYear:
		layout = "2006"
		if len(date) > len(layout) {
			date = date[:len(layout)]
		}
	default:
		return time.Time{}, false
	}
	t, err := time.Parse(layout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeInDays is whole days from ref to now, never below 1
func AgeInDays(ref, now time.Time) int64 {
	secs := now.Unix() - ref.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		days--
	}
	return max(days, 1)
}

// Annualize returns round(count / age * 365.25)
// nil stays nil, counts <= 0 and unparseable dates return the count unchanged
func Annualize(count *int64, releaseDate string, precision music.Precision, now time.Time) *int64 {
	return Compute(count, releaseDate, precision, now).AnnualRate
}

// Compute is Annualize plus the age it used
func Compute(count *int64, releaseDate string, precision music.Precision, now time.Time) Result {
	res := Result{LifetimeCount: count}
	if count == nil {
		return res
	}
	ref, ok := ReferenceDate(releaseDate, precision)
	if ok {
		res.AgeInDays = AgeInDays(ref, now)
	}
	if *count <= 0 || !ok {
		v := *count
		res.AnnualRate = &v
		return res
	}
	rate := int64(math.Round(float64(*count) / float64(res.AgeInDays) * DaysPerYear))
	res.AnnualRate = &rate
	return res
}
