package service

import (
	"sync"

	"playrate/internal/platform/logger"
)

const (
	// knownBadCount is a value the provider has been seen returning for unrelated tracks
	knownBadCount int64 = 2_025_000_000

	suspiciousIDs = 3
	watchMax      = 10_000
)

// watch flags counts that show up for several distinct tracks
// it only logs, the value is still returned to callers
type watch struct {
	mu   sync.Mutex
	seen map[int64]map[string]struct{}
	log  logger.Logger
}

func newWatch(log logger.Logger) *watch {
	return &watch{seen: make(map[int64]map[string]struct{}), log: log}
}

// observe returns how many distinct ids have reported n so far
func (w *watch) observe(id string, n int64) int {
	if n == knownBadCount {
		w.log.Warn().Str("id", id).Int64("count", n).Msg("playcount matches a known bad provider value")
	}
	if n == 0 {
		return 0
	}

	w.mu.Lock()
	if len(w.seen) >= watchMax {
		w.seen = make(map[int64]map[string]struct{})
	}
	ids, ok := w.seen[n]
	if !ok {
		ids = make(map[string]struct{})
		w.seen[n] = ids
	}
	ids[id] = struct{}{}
	distinct := len(ids)
	w.mu.Unlock()

	if distinct >= suspiciousIDs {
		w.log.Warn().Str("id", id).Int64("count", n).Int("distinct_ids", distinct).Msg("playcount repeated across tracks")
	}
	return distinct
}
