package domain

import (
	"time"

	"playrate/internal/core/annualize"
	"playrate/internal/core/format"
	"playrate/internal/core/music"
)

// TrackView is the track wire shape
type TrackView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	ArtistLine  string   `json:"artist_line"`
	Album       string   `json:"album"`
	ReleaseDate string   `json:"release_date"`
	Released    string   `json:"released,omitempty"`
	Duration    string   `json:"duration"`
	Explicit    bool     `json:"explicit"`
	IsRemix     bool     `json:"is_remix"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	Popularity  int      `json:"popularity"`
	Rating      string   `json:"rating"`

	PlayCount  *int64 `json:"play_count"`
	AnnualRate *int64 `json:"annual_rate"`
	Plays      string `json:"plays"`
	PerYear    string `json:"per_year"`
}

// AlbumTrackView is one row of an album listing
type AlbumTrackView struct {
	Number    int    `json:"number"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	PlayCount *int64 `json:"play_count"`
	Plays     string `json:"plays"`
}

// AlbumView is the album wire shape
type AlbumView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Artists     []string         `json:"artists"`
	ArtistLine  string           `json:"artist_line"`
	ReleaseDate string           `json:"release_date"`
	Released    string           `json:"released,omitempty"`
	Label       string           `json:"label,omitempty"`
	TotalTracks int              `json:"total_tracks"`
	URL         string           `json:"url"`
	ImageURL    string           `json:"image_url,omitempty"`
	Popularity  int              `json:"popularity"`
	Rating      string           `json:"rating"`
	Tracks      []AlbumTrackView `json:"tracks,omitempty"`
	Listing     string           `json:"listing"`
}

// ProjectTrack projects a track entity and its counts
func ProjectTrack(e music.Entity, c annualize.Result, now time.Time) TrackView {
	return TrackView{
		ID:          e.ID,
		Title:       e.Title,
		Artists:     e.Artists,
		ArtistLine:  music.ArtistLine(e.Artists),
		Album:       e.AlbumTitle,
		ReleaseDate: e.ReleaseDate,
		Released:    released(e, now),
		Duration:    format.Duration(e.DurationMs),
		Explicit:    e.Explicit,
		IsRemix:     music.IsRemix(e.Title),
		URL:         e.URL,
		ImageURL:    e.ImageURL,
		PreviewURL:  e.PreviewURL,
		Popularity:  e.Popularity,
		Rating:      music.Rating(e.Popularity),
		PlayCount:   c.LifetimeCount,
		AnnualRate:  c.AnnualRate,
		Plays:       format.Plays(c.LifetimeCount),
		PerYear:     format.Full(c.AnnualRate),
	}
}

// ProjectAlbum projects an album entity with per-track counts keyed by track id
// preformatted listings carry no rows, only the listing text
func ProjectAlbum(e music.Entity, counts map[string]*int64, now time.Time) AlbumView {
	v := AlbumView{
		ID:          e.ID,
		Title:       e.Title,
		Artists:     e.Artists,
		ArtistLine:  music.ArtistLine(e.Artists),
		ReleaseDate: e.ReleaseDate,
		Released:    released(e, now),
		Label:       e.Label,
		TotalTracks: e.TotalTracks,
		URL:         e.URL,
		ImageURL:    e.ImageURL,
		Popularity:  e.Popularity,
		Rating:      music.Rating(e.Popularity),
	}
	if s, ok := e.Tracks.(music.Summaries); ok {
		v.Tracks = make([]AlbumTrackView, 0, len(s))
		for i, t := range s {
			n := t.TrackNumber
			if n == 0 {
				n = i + 1
			}
			c := counts[t.ID]
			v.Tracks = append(v.Tracks, AlbumTrackView{
				Number:    n,
				ID:        t.ID,
				Title:     t.Title,
				Duration:  format.Duration(t.DurationMs),
				PlayCount: c,
				Plays:     format.Plays(c),
			})
		}
		if v.TotalTracks == 0 {
			v.TotalTracks = len(s)
		}
	}
	v.Listing = music.RenderTracks(e.Tracks, func(t music.TrackSummary) string {
		c := counts[t.ID]
		if c == nil {
			return ""
		}
		return format.Compact(c)
	})
	return v
}

// NewDisplay formats a count and rate pair
func NewDisplay(count, rate *int64) Display {
	return Display{
		LifetimeCount: format.Full(count),
		AnnualRate:    format.Full(rate),
		Compact:       format.Compact(count),
	}
}

func released(e music.Entity, now time.Time) string {
	ref, ok := annualize.ReferenceDate(e.ReleaseDate, e.Precision)
	if !ok {
		return ""
	}
	return format.Age(ref, now)
}
