package spotify

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"playrate/internal/core/music"
	perr "playrate/internal/platform/errors"
)

// SearchTracks returns up to limit track candidates in catalog order
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]music.Candidate, error) {
	var out searchResponse
	if err := c.search(ctx, query, "track", limit, &out); err != nil {
		return nil, err
	}
	if out.Tracks == nil {
		return nil, nil
	}
	cands := make([]music.Candidate, 0, len(out.Tracks.Items))
	for _, t := range out.Tracks.Items {
		cands = append(cands, t.candidate())
	}
	return cands, nil
}

// SearchAlbums returns up to limit album candidates in catalog order
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]music.Candidate, error) {
	var out searchResponse
	if err := c.search(ctx, query, "album", limit, &out); err != nil {
		return nil, err
	}
	if out.Albums == nil {
		return nil, nil
	}
	cands := make([]music.Candidate, 0, len(out.Albums.Items))
	for _, a := range out.Albums.Items {
		cands = append(cands, a.candidate())
	}
	return cands, nil
}

// GetTrack fetches the canonical track, release date comes from its album
func (c *Client) GetTrack(ctx context.Context, id string) (music.Entity, error) {
	if strings.TrimSpace(id) == "" {
		return music.Entity{}, perr.InvalidArgf("catalog track id is empty")
	}
	var t track
	if err := c.get(ctx, "/tracks/"+url.PathEscape(id), c.market(), &t); err != nil {
		return music.Entity{}, err
	}
	return t.entity(), nil
}

// GetAlbum fetches the canonical album with its structured track listing
func (c *Client) GetAlbum(ctx context.Context, id string) (music.Entity, error) {
	if strings.TrimSpace(id) == "" {
		return music.Entity{}, perr.InvalidArgf("catalog album id is empty")
	}
	var a album
	if err := c.get(ctx, "/albums/"+url.PathEscape(id), c.market(), &a); err != nil {
		return music.Entity{}, err
	}
	return a.entity(), nil
}

func (c *Client) search(ctx context.Context, query, typ string, limit int, out *searchResponse) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return perr.InvalidArgf("catalog search query is empty")
	}
	if limit <= 0 {
		limit = c.opts.SearchLimit
	}
	if limit > 50 {
		limit = 50
	}
	q := c.market()
	q.Set("q", query)
	q.Set("type", typ)
	q.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, "/search", q, out)
}

func (c *Client) market() url.Values {
	return url.Values{"market": {c.opts.Market}}
}
