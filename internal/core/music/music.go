// Package music holds the canonical catalog entity and the candidate shape search returns
package music

import (
	"strings"
)

// Kind distinguishes tracks from albums
type Kind string

const (
	// KindTrack is a single recording
	KindTrack Kind = "track"
	// KindAlbum is a release grouping tracks
	KindAlbum Kind = "album"
)

// ParseKind maps free text to a Kind, anything but "album" is a track
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), string(KindAlbum)) {
		return KindAlbum
	}
	return KindTrack
}

// Candidate is one search hit, read-only and scoped to a single resolution
type Candidate struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	Popularity int      `json:"popularity"`
}

// Entity is the catalog's authoritative record for a track or album, identity is ID
type Entity struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Artists     []string  `json:"artists"`
	ReleaseDate string    `json:"release_date"`
	Precision   Precision `json:"release_date_precision"`
	Popularity  int       `json:"popularity"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`

	// track only
	AlbumID    string `json:"album_id,omitempty"`
	AlbumTitle string `json:"album_title,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
	Explicit   bool   `json:"explicit,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`

	// album only
	Label       string    `json:"label,omitempty"`
	TotalTracks int       `json:"total_tracks,omitempty"`
	Tracks      TrackList `json:"-"`
}

// PrimaryArtist returns the first credited artist or ""
func (e Entity) PrimaryArtist() string {
	if len(e.Artists) == 0 {
		return ""
	}
	return e.Artists[0]
}

// ArtistLine joins credited artists for display
func ArtistLine(artists []string) string { return strings.Join(artists, ", ") }

// IsRemix reports whether a title names a remix or mix
func IsRemix(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "remix") || strings.Contains(t, "mix")
}

// Rating buckets a 0-100 popularity score
func Rating(popularity int) string {
	switch {
	case popularity <= 20:
		return "unpopular"
	case popularity <= 40:
		return "below average"
	case popularity <= 60:
		return "moderately popular"
	case popularity <= 80:
		return "popular"
	default:
		return "very popular"
	}
}
