package module

import (
	"time"

	"playrate/internal/platform/config"
	"playrate/internal/services/playcount/service"
)

// Config holds the PLAYCOUNT_* settings
type Config struct {
	Keys        []string
	BaseURL     string
	TTL         time.Duration
	DailyLimit  int
	ResetWindow time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	Timeout     time.Duration
	Concurrency int
}

// ConfigFromEnv reads PLAYCOUNT_* under c
func ConfigFromEnv(c config.Conf) Config {
	pc := c.Prefix("PLAYCOUNT_")
	return Config{
		Keys:        pc.MayCSV("KEYS", nil),
		BaseURL:     pc.MayString("BASE_URL", "https://api.spotscraper.com/track"),
		TTL:         pc.MayDuration("TTL", service.DefaultTTL),
		DailyLimit:  pc.MayInt("DAILY_LIMIT", service.DefaultDailyLimit),
		ResetWindow: pc.MayDuration("RESET_WINDOW", service.DefaultResetWindow),
		MaxAttempts: pc.MayInt("MAX_ATTEMPTS", 3),
		BackoffBase: pc.MayDuration("BACKOFF_BASE", 2*time.Second),
		Timeout:     pc.MayDuration("TIMEOUT", 30*time.Second),
		Concurrency: pc.MayInt("BATCH_CONCURRENCY", 4),
	}
}
