package server

import "time"

// DefaultRefreshInterval is how often cached bundles and catalog entries
// are dropped so a new publish is picked up.
const DefaultRefreshInterval = 15 * time.Minute

// DefaultCacheControl lets shared caches keep bundles for a year and
// browsers for a week.
const DefaultCacheControl = "public, s-maxage=31536000, max-age=604800, stale-while-revalidate=604800, stale-if-error=604800"

// Config is the front end configuration read from SERVER_* variables.
type Config struct {
	Name              string `env:"SERVER_NAME" envDefault:"polyfill"`
	Description       string `env:"SERVER_DESCRIPTION" envDefault:"Serves the polyfills a browser needs and nothing else"`
	ResponseCacheSize int    `env:"SERVER_RESPONSE_CACHE_SIZE" envDefault:"1000"`
	CacheControl      string `env:"SERVER_CACHE_CONTROL" envDefault:"public, s-maxage=31536000, max-age=604800, stale-while-revalidate=604800, stale-if-error=604800"`
	// Stream writes bundles as they are assembled instead of buffering them.
	Stream bool `env:"SERVER_STREAM" envDefault:"false"`
	// RefreshInterval purges the response and catalog caches; 0 disables it.
	RefreshInterval time.Duration `env:"SERVER_REFRESH_INTERVAL" envDefault:"15m"`
}

// FromConfig converts cfg into options. Zero fields keep the defaults.
func FromConfig(cfg Config) []Option {
	opts := []Option{WithStream(cfg.Stream), WithRefreshInterval(cfg.RefreshInterval)}
	if cfg.Name != "" || cfg.Description != "" {
		opts = append(opts, WithAbout(cfg.Name, cfg.Description))
	}
	if cfg.ResponseCacheSize > 0 {
		opts = append(opts, WithResponseCacheSize(cfg.ResponseCacheSize))
	}
	if cfg.CacheControl != "" {
		opts = append(opts, WithCacheControl(cfg.CacheControl))
	}
	return opts
}
