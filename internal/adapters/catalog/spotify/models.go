package spotify

import (
	"playrate/internal/core/music"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type albumRef struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	ReleaseDate          string   `json:"release_date"`
	ReleaseDatePrecision string   `json:"release_date_precision"`
	Images               []image  `json:"images"`
	Artists              []artist `json:"artists"`
}

type track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Popularity   int          `json:"popularity"`
	DurationMs   int          `json:"duration_ms"`
	Explicit     bool         `json:"explicit"`
	PreviewURL   string       `json:"preview_url"`
	TrackNumber  int          `json:"track_number"`
	DiscNumber   int          `json:"disc_number"`
	Artists      []artist     `json:"artists"`
	Album        albumRef     `json:"album"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type album struct {
	albumRef
	Popularity   int          `json:"popularity"`
	Label        string       `json:"label"`
	TotalTracks  int          `json:"total_tracks"`
	ExternalURLs externalURLs `json:"external_urls"`
	Tracks       struct {
		Items []track `json:"items"`
	} `json:"tracks"`
}

type searchResponse struct {
	Tracks *struct {
		Items []track `json:"items"`
	} `json:"tracks"`
	Albums *struct {
		Items []album `json:"items"`
	} `json:"albums"`
}

func names(as []artist) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		if a.Name != "" {
			out = append(out, a.Name)
		}
	}
	return out
}

func firstImage(imgs []image) string {
	if len(imgs) == 0 {
		return ""
	}
	return imgs[0].URL
}

// precision falls back to the shape of the date when the field is missing
func precision(raw, date string) music.Precision {
	if p, ok := music.ParsePrecision(raw); ok {
		return p
	}
	switch len(date) {
	case 4:
		return music.PrecisionYear
	case 7:
		return music.PrecisionMonth
	default:
		return music.PrecisionDay
	}
}

func (t track) candidate() music.Candidate {
	return music.Candidate{ID: t.ID, Title: t.Name, Artists: names(t.Artists), Popularity: t.Popularity}
}

func (a album) candidate() music.Candidate {
	return music.Candidate{ID: a.ID, Title: a.Name, Artists: names(a.Artists), Popularity: a.Popularity}
}

func (t track) entity() music.Entity {
	u := t.ExternalURLs.Spotify
	if u == "" {
		u = music.TrackURL(t.ID)
	}
	return music.Entity{
		ID:          t.ID,
		Kind:        music.KindTrack,
		Title:       t.Name,
		Artists:     names(t.Artists),
		ReleaseDate: t.Album.ReleaseDate,
		Precision:   precision(t.Album.ReleaseDatePrecision, t.Album.ReleaseDate),
		Popularity:  t.Popularity,
		URL:         u,
		ImageURL:    firstImage(t.Album.Images),
		AlbumID:     t.Album.ID,
		AlbumTitle:  t.Album.Name,
		DurationMs:  t.DurationMs,
		Explicit:    t.Explicit,
		PreviewURL:  t.PreviewURL,
	}
}

func (a album) entity() music.Entity {
	u := a.ExternalURLs.Spotify
	if u == "" {
		u = music.AlbumURL(a.ID)
	}
	tracks := make(music.Summaries, 0, len(a.Tracks.Items))
	for _, t := range a.Tracks.Items {
		tracks = append(tracks, music.TrackSummary{
			ID:          t.ID,
			Title:       t.Name,
			TrackNumber: t.TrackNumber,
			DiscNumber:  t.DiscNumber,
			DurationMs:  t.DurationMs,
			Explicit:    t.Explicit,
			Artists:     names(t.Artists),
		})
	}
	return music.Entity{
		ID:          a.ID,
		Kind:        music.KindAlbum,
		Title:       a.Name,
		Artists:     names(a.Artists),
		ReleaseDate: a.ReleaseDate,
		Precision:   precision(a.ReleaseDatePrecision, a.ReleaseDate),
		Popularity:  a.Popularity,
		URL:         u,
		ImageURL:    firstImage(a.Images),
		Label:       a.Label,
		TotalTracks: a.TotalTracks,
		Tracks:      tracks,
	}
}
