package playcount

import (
	"context"
	"encoding/json"
	"io"
	"time"

	perr "playrate/internal/platform/errors"
)

// Response is the provider envelope for both query forms
type Response struct {
	Success bool  `json:"success"`
	Status  int   `json:"status"`
	Data    *Data `json:"data"`
}

// Data is the track payload inside Response
type Data struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Statistics Statistics `json:"statistics"`
}

// Statistics carries the lifetime count, null means the provider has none
type Statistics struct {
	PlayCount *int64 `json:"playCount"`
}

// decodeCount maps a 200 body to a count
// success=false and a null or missing playCount are "no data", not malformed
func decodeCount(r io.Reader, form Form) (int64, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBody))
	if err != nil {
		return 0, perr.Unavailablef("playcount %s read body: %v", form, err)
	}
	var out Response
	if err := json.Unmarshal(b, &out); err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeMalformedResponse, "playcount %s decode", form)
	}
	if !out.Success {
		return 0, perr.NotFoundf("playcount %s no data status %d", form, out.Status)
	}
	if out.Data == nil || out.Data.Statistics.PlayCount == nil {
		return 0, perr.NotFoundf("playcount %s missing playCount", form)
	}
	n := *out.Data.Statistics.PlayCount
	if n < 0 {
		return 0, perr.Malformedf("playcount %s negative playCount %d", form, n)
	}
	return n, nil
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// sleepCtx waits d or until ctx is done, whichever comes first
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
