package music

import "strings"

// Precision is the granularity of a release date
type Precision string

const (
	// PrecisionDay is YYYY-MM-DD
	PrecisionDay Precision = "day"
	// PrecisionMonth is YYYY-MM
	PrecisionMonth Precision = "month"
	// PrecisionYear is YYYY
	PrecisionYear Precision = "year"
)

// ParsePrecision maps the catalog's precision string, unknown values report false
func ParsePrecision(s string) (Precision, bool) {
	switch p := Precision(strings.ToLower(strings.TrimSpace(s))); p {
	case PrecisionDay, PrecisionMonth, PrecisionYear:
		return p, true
	}
	return "", false
}
