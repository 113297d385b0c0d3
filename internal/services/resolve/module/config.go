package module

import (
	"time"

	"playrate/internal/adapters/catalog/spotify"
	"playrate/internal/platform/config"
	"playrate/internal/services/resolve/service"
)

// Config holds the CATALOG_* and RESOLVE_* settings
type Config struct {
	Catalog       spotify.Options
	SearchLimit   int
	OverridesFile string
}

// ConfigFromEnv reads CATALOG_* and RESOLVE_* under c
// credentials stay optional here, the token request reports them missing
func ConfigFromEnv(c config.Conf) Config {
	cc := c.Prefix("CATALOG_")
	limit := cc.MayInt("SEARCH_LIMIT", service.DefaultSearchLimit)
	return Config{
		Catalog: spotify.Options{
			APIURL:       cc.MayString("API_URL", "https://api.spotify.com/v1"),
			TokenURL:     cc.MayString("TOKEN_URL", "https://accounts.spotify.com/api/token"),
			ClientID:     cc.MayString("CLIENT_ID", ""),
			ClientSecret: cc.MayString("CLIENT_SECRET", ""),
			Market:       cc.MayString("MARKET", "US"),
			Timeout:      cc.MayDuration("TIMEOUT", 15*time.Second),
			RPS:          cc.MayFloat64("RPS", 10),
			SearchLimit:  limit,
		},
		SearchLimit:   limit,
		OverridesFile: c.Prefix("RESOLVE_").MayString("OVERRIDES_FILE", ""),
	}
}
