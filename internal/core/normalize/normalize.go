// Package normalize folds text into a comparison form for title and artist matching
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD decomposition so accents split off their base letters
// 3 Case folding
// 4 Remove zero-width and combining marks
// 5 Width fold fullwidth to ASCII
// 6 NFC recomposition
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains, a chain is stateful and not safe to share
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			norm.NFC,
		)
	},
}

// Fold returns the comparison form of s
// accented, fullwidth and mixed-case spellings fold to the same value
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(ns), " ")
}

// Equal reports whether a and b fold to the same value
func Equal(a, b string) bool { return Fold(a) == Fold(b) }

// Contains reports whether the folded s contains the folded sub
// an empty sub never matches
func Contains(s, sub string) bool {
	fs := Fold(sub)
	if fs == "" {
		return false
	}
	return strings.Contains(Fold(s), fs)
}

// Overlaps reports whether either folded value contains the other, empty values never overlap
func Overlaps(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
