// Package domain holds the resolution request, result and wire projections
package domain

import (
	"playrate/internal/core/intent"
	"playrate/internal/core/music"
)

// Query is a free-text resolution request
type Query struct {
	Text string `json:"text" validate:"required,max=300"`
	Kind string `json:"kind" validate:"omitempty,oneof=track album"`
}

// Status is the resolution outcome
type Status string

const (
	// StatusResolved means a catalog entity was found
	StatusResolved Status = "resolved"
	// StatusNotFound means the catalog search returned nothing
	StatusNotFound Status = "not_found"
)

// Display carries preformatted counts, absent renders "not available" and zero renders "0"
type Display struct {
	LifetimeCount string `json:"lifetime_count"`
	AnnualRate    string `json:"annual_rate"`
	Compact       string `json:"compact"`
}

// Result is the outcome of one resolution
// LifetimeCount and AnnualRate are nil when the count is absent, album results never carry them
type Result struct {
	Status     Status            `json:"status"`
	Kind       music.Kind        `json:"kind"`
	Hypothesis intent.Hypothesis `json:"hypothesis"`
	Query      string            `json:"query"`
	MatchTier  string            `json:"match_tier,omitempty"`

	Entity *music.Entity `json:"entity,omitempty"`
	Rating string        `json:"rating,omitempty"`

	LifetimeCount *int64  `json:"lifetime_count"`
	AnnualRate    *int64  `json:"annual_rate"`
	AgeInDays     int64   `json:"age_in_days,omitempty"`
	Display       Display `json:"display"`

	Track *TrackView `json:"track,omitempty"`
	Album *AlbumView `json:"album,omitempty"`
}
