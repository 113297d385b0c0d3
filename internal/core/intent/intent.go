// Package intent turns free text like "Fantasy by Mariah Carey" into a title and artist guess
package intent

import (
	"strings"
	"unicode"
)

// UnknownArtist is the placeholder artist some callers append to a bare title
const UnknownArtist = "Unknown Artist"

const (
	separator     = " by "
	unknownMarker = "by " + UnknownArtist
)

// Hypothesis is a low-confidence title and artist guess, Artist is meaningful only when HasArtist
type Hypothesis struct {
	Title     string `json:"title"`
	Artist    string `json:"artist,omitempty"`
	HasArtist bool   `json:"has_artist"`
}

// Parser applies an override table before the general heuristics
type Parser struct {
	ov Overrides
}

// NewParser builds a parser over ov, nil ov disables overrides
func NewParser(ov Overrides) *Parser { return &Parser{ov: ov} }

// Overrides returns the table the parser consults
func (p *Parser) Overrides() Overrides { return p.ov }

// Parse never fails, the worst case is the whole text as title with no artist
func (p *Parser) Parse(text string) Hypothesis {
	if o, ok := p.ov.Match(text); ok {
		return Hypothesis{Title: o.Title, Artist: o.Artist, HasArtist: o.Artist != ""}
	}
	return split(text, false)
}

// ParseAlbum parses album phrasing, a lone word becomes the title by UnknownArtist
func (p *Parser) ParseAlbum(text string) Hypothesis {
	if o, ok := p.ov.Match(text); ok {
		return Hypothesis{Title: o.Title, Artist: o.Artist, HasArtist: o.Artist != ""}
	}
	return split(text, true)
}

// Parse uses the embedded override table
func Parse(text string) Hypothesis { return NewParser(DefaultOverrides()).Parse(text) }

// ParseAlbum uses the embedded override table
func ParseAlbum(text string) Hypothesis { return NewParser(DefaultOverrides()).ParseAlbum(text) }

// Query builds the catalog search string for h
func Query(h Hypothesis) string {
	if h.HasArtist && h.Artist != "" && !strings.EqualFold(h.Artist, UnknownArtist) {
		return h.Title + " " + h.Artist
	}
	return h.Title
}

func split(text string, album bool) Hypothesis {
	s := unquote(strings.TrimSpace(text))

	if cut := len(s) - len(unknownMarker); cut >= 0 && strings.EqualFold(s[cut:], unknownMarker) &&
		(cut == 0 || unicode.IsSpace(rune(s[cut-1]))) {
		rest := strings.TrimSpace(s[:cut])
		if h, ok := bySeparator(rest); ok {
			return h
		}
		return Hypothesis{Title: unquote(rest), Artist: UnknownArtist, HasArtist: true}
	}

	if h, ok := bySeparator(s); ok {
		return h
	}

	words := strings.Fields(s)
	switch {
	case len(words) >= 2:
		return Hypothesis{
			Title:     strings.Join(words[:len(words)-1], " "),
			Artist:    words[len(words)-1],
			HasArtist: true,
		}
	case album && len(words) == 1:
		return Hypothesis{Title: s, Artist: UnknownArtist, HasArtist: true}
	default:
		return Hypothesis{Title: s}
	}
}

// bySeparator splits at the first case-insensitive " by "
func bySeparator(s string) (Hypothesis, bool) {
	i := indexFold(s, separator)
	if i <= 0 {
		return Hypothesis{}, false
	}
	title := unquote(strings.TrimSpace(s[:i]))
	artist := strings.TrimSpace(s[i+len(separator):])
	return Hypothesis{Title: title, Artist: artist, HasArtist: artist != ""}, true
}

// indexFold is a case-insensitive strings.Index for an ASCII needle, offsets stay valid in s
func indexFold(s, sep string) int {
	for i := 0; i+len(sep) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

// unquote strips one layer of matching outer single or double quotes
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
