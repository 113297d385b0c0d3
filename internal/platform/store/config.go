package store

import (
	"time"

	"playrate/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero picks the defaults in openPG
	ConnectRetries int
	PingTimeout    time.Duration
}

// ConfigFromEnv reads SERVICE_PGSQL_* under c, postgres is enabled only when DBURL is set
func ConfigFromEnv(c config.Conf) Config {
	pc := c.Prefix("SERVICE_PGSQL_")
	url := pc.MayString("DBURL", "")
	return Config{
		AppName: c.MayString("SERVICE_NAME", "playrate"),
		PG: PGConfig{
			Enabled:        url != "",
			URL:            url,
			MaxConns:       int32(pc.MayInt("MAX_CONNS", 8)),
			LogSQL:         pc.MayBool("LOG_SQL", false),
			SlowQueryMs:    pc.MayInt("SLOW_MS", 200),
			ConnectRetries: pc.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
	}
}
