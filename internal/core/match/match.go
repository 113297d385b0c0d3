// Package match picks the best catalog candidate for a parsed hypothesis
//
// Tiers, first one with a hit wins and ties go to catalog order
// 1 override table entry equal to the hypothesis
// 2 exact artist
// 3 artist substring in either direction
// 4 exact title
// 5 title substring in either direction
// 6 first candidate
package match

import (
	"playrate/internal/core/intent"
	"playrate/internal/core/music"
	"playrate/internal/core/normalize"
)

// Tier names the rule that picked a candidate
type Tier int

// Tier values in evaluation order
const (
	TierNone Tier = iota
	TierOverride
	TierArtistExact
	TierArtistPartial
	TierTitleExact
	TierTitlePartial
	TierFirst
)

var tierNames = [...]string{"none", "override", "artist_exact", "artist_partial", "title_exact", "title_partial", "first"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// Select returns the best candidate, cands must be non-empty
func Select(cands []music.Candidate, h intent.Hypothesis, ov intent.Overrides) music.Candidate {
	i, _ := SelectIndex(cands, h, ov)
	if i < 0 {
		panic("match: Select called with no candidates")
	}
	return cands[i]
}

// SelectIndex returns the index of the best candidate and the tier that chose it, -1 when cands is empty
func SelectIndex(cands []music.Candidate, h intent.Hypothesis, ov intent.Overrides) (int, Tier) {
	if len(cands) == 0 {
		return -1, TierNone
	}

	if o, ok := ov.For(h); ok {
		if i := first(cands, func(c music.Candidate) bool {
			return normalize.Contains(c.Title, o.Title) && anyArtist(c, func(a string) bool { return normalize.Contains(a, o.Artist) })
		}); i >= 0 {
			return i, TierOverride
		}
	}

	if h.HasArtist {
		want := normalize.Fold(h.Artist)
		if want != "" {
			if i := first(cands, func(c music.Candidate) bool {
				return anyArtist(c, func(a string) bool { return normalize.Fold(a) == want })
			}); i >= 0 {
				return i, TierArtistExact
			}
		}
		if i := first(cands, func(c music.Candidate) bool {
			return anyArtist(c, func(a string) bool { return normalize.Overlaps(a, h.Artist) })
		}); i >= 0 {
			return i, TierArtistPartial
		}
	}

	if title := normalize.Fold(h.Title); title != "" {
		if i := first(cands, func(c music.Candidate) bool { return normalize.Fold(c.Title) == title }); i >= 0 {
			return i, TierTitleExact
		}
	}
	if i := first(cands, func(c music.Candidate) bool { return normalize.Overlaps(c.Title, h.Title) }); i >= 0 {
		return i, TierTitlePartial
	}
	return 0, TierFirst
}

func first(cands []music.Candidate, pred func(music.Candidate) bool) int {
	for i, c := range cands {
		if pred(c) {
			return i
		}
	}
	return -1
}

func anyArtist(c music.Candidate, pred func(string) bool) bool {
	for _, a := range c.Artists {
		if pred(a) {
			return true
		}
	}
	return false
}
