package repo

import (
	"time"

	"playrate/internal/services/playcount/domain"
)

func domainRecord(id string, n *int64, at time.Time) domain.Record {
	return domain.Record{ID: id, LifetimeCount: n, CapturedAt: at}
}
