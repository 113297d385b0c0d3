package music

import (
	"net/url"
	"strings"
)

const openBase = "https://open.spotify.com"

// TrackURL is the public catalog URL for a track id
func TrackURL(id string) string { return openBase + "/track/" + id }

// AlbumURL is the public catalog URL for an album id
func AlbumURL(id string) string { return openBase + "/album/" + id }

// ExtractTrackID pulls the id out of an open.spotify.com/track/{id} URL
// query strings and fragments are ignored, other shapes report false
func ExtractTrackID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(u.Hostname(), "open.spotify.com") {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// localized links look like /intl-de/track/{id}
	if len(parts) == 3 && strings.HasPrefix(parts[0], "intl-") {
		parts = parts[1:]
	}
	if len(parts) != 2 || parts[0] != "track" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
