package music

import (
	"fmt"
	"strings"
)

// TrackList is an album's track listing, either structured summaries or text the catalog already formatted
// the set of implementations is closed
type TrackList interface{ isTrackList() }

// TrackSummary is one album track
type TrackSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	TrackNumber int      `json:"track_number"`
	DiscNumber  int      `json:"disc_number"`
	DurationMs  int      `json:"duration_ms"`
	Explicit    bool     `json:"explicit"`
	Artists     []string `json:"artists"`
}

// Summaries is a structured listing
type Summaries []TrackSummary

// Preformatted is a listing that arrived as display text
type Preformatted string

func (Summaries) isTrackList()    {}
func (Preformatted) isTrackList() {}

// IDs returns the track ids of a structured listing, nil for anything else
func IDs(tl TrackList) []string {
	s, ok := tl.(Summaries)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(s))
	for _, t := range s {
		if t.ID != "" {
			out = append(out, t.ID)
		}
	}
	return out
}

// RenderTracks returns the listing as numbered display lines
// count supplies an optional per-track suffix such as a play count
func RenderTracks(tl TrackList, count func(TrackSummary) string) string {
	switch v := tl.(type) {
	case Preformatted:
		return string(v)
	case Summaries:
		var b strings.Builder
		for i, t := range v {
			n := t.TrackNumber
			if n == 0 {
				n = i + 1
			}
			fmt.Fprintf(&b, "%d. %s", n, t.Title)
			if count != nil {
				if s := count(t); s != "" {
					fmt.Fprintf(&b, " (%s)", s)
				}
			}
			b.WriteByte('\n')
		}
		return strings.TrimSuffix(b.String(), "\n")
	default:
		return ""
	}
}
