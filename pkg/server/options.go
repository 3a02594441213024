package server

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/polyfill/pkg/httpserver"
)

type config struct {
	name         string
	description  string
	version      string
	cacheSize    int
	cacheControl string
	stream       bool
	log          *slog.Logger
	checks       []httpserver.Check
	refresh      time.Duration
	purgers      []func()
}

func defaultConfig() *config {
	return &config{
		name:         "polyfill",
		description:  "Serves the polyfills a browser needs and nothing else",
		version:      "dev",
		cacheSize:    1000,
		cacheControl: DefaultCacheControl,
		refresh:      DefaultRefreshInterval,
	}
}

// Option configures a Server.
type Option func(*config)

// WithLogger sets the request and error logger. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithAbout sets the name and description reported by /__about.
func WithAbout(name, description string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
		if description != "" {
			c.description = description
		}
	}
}

// WithVersion sets the reported version. It is part of every response cache
// key and ETag, so a new release invalidates downstream caches.
func WithVersion(v string) Option {
	return func(c *config) {
		if v != "" {
			c.version = v
		}
	}
}

// WithResponseCacheSize sets how many bundles are kept in memory.
func WithResponseCacheSize(n int) Option {
	if n <= 0 {
		panic("WithResponseCacheSize: size must be > 0")
	}
	return func(c *config) { c.cacheSize = n }
}

// WithCacheControl sets the Cache-Control header of bundle responses.
func WithCacheControl(v string) Option {
	return func(c *config) {
		if v != "" {
			c.cacheControl = v
		}
	}
}

// WithStream writes bundles incrementally on a cache miss.
func WithStream(on bool) Option {
	return func(c *config) { c.stream = on }
}

// WithChecks registers the probes run by /__health.
func WithChecks(checks ...httpserver.Check) Option {
	return func(c *config) { c.checks = append(c.checks, checks...) }
}

// WithRefreshInterval sets how often Refresh purges the caches. Zero
// disables the periodic purge.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *config) { c.refresh = d }
}

// WithPurgers registers functions run by Purge next to clearing the
// response cache, typically the catalog cache's Purge.
func WithPurgers(purgers ...func()) Option {
	return func(c *config) {
		for _, p := range purgers {
			if p != nil {
				c.purgers = append(c.purgers, p)
			}
		}
	}
}
