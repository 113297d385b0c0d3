package intent

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"playrate/internal/core/normalize"
)

//go:embed overrides.json
var embedded []byte

// Override maps text containing every Contains fragment to a fixed title and artist
type Override struct {
	Contains []string `json:"contains"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
}

// Overrides is the literal exception table, consulted before the general heuristics
type Overrides []Override

type rawTable struct {
	Version   int        `json:"version"`
	Overrides []Override `json:"overrides"`
}

var defaultOnce = sync.OnceValue(func() Overrides {
	ov, err := LoadOverrides(strings.NewReader(string(embedded)))
	if err != nil {
		panic(err)
	}
	return ov
})

// DefaultOverrides returns the embedded table
func DefaultOverrides() Overrides { return defaultOnce() }

// LoadOverrides parses a version 1 override table
func LoadOverrides(r io.Reader) (Overrides, error) {
	var raw rawTable
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("intent: parse overrides: %w", err)
	}
	if raw.Version != 1 {
		return nil, fmt.Errorf("intent: unsupported overrides version %d (want 1)", raw.Version)
	}
	out := make(Overrides, 0, len(raw.Overrides))
	for i, o := range raw.Overrides {
		if len(o.Contains) == 0 || strings.TrimSpace(o.Title) == "" {
			return nil, fmt.Errorf("intent: override %d needs contains and title", i)
		}
		for _, c := range o.Contains {
			if strings.TrimSpace(c) == "" {
				return nil, fmt.Errorf("intent: override %d has an empty fragment", i)
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// Match returns the first override whose fragments all appear in text
func (ov Overrides) Match(text string) (Override, bool) {
	for _, o := range ov {
		all := true
		for _, c := range o.Contains {
			if !normalize.Contains(text, c) {
				all = false
				break
			}
		}
		if all {
			return o, true
		}
	}
	return Override{}, false
}

// For returns the override whose title and artist equal the hypothesis
func (ov Overrides) For(h Hypothesis) (Override, bool) {
	for _, o := range ov {
		if normalize.Equal(o.Title, h.Title) && normalize.Equal(o.Artist, h.Artist) {
			return o, true
		}
	}
	return Override{}, false
}
