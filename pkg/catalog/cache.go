package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/polyfill/pkg/cache"
	"github.com/dmitrymomot/polyfill/pkg/logger"
)

// Default capacities, one per cache kind.
const (
	DefaultMetaCapacity   = 1000
	DefaultSourceCapacity = 1000
)

const aliasesKey = "aliases"

// sourceEntry lets the source cache remember misses.
type sourceEntry struct {
	text  string
	found bool
}

// Cache is a Provider that memoises another Provider in bounded LRU caches.
// Concurrent misses for one key share a single backend fetch. Not-found
// answers are cached; backend failures are not.
type Cache struct {
	provider Provider
	metas    *cache.Loader[*Meta]
	sources  *cache.Loader[sourceEntry]
	aliases  *cache.Loader[map[string][]string]
	logger   *slog.Logger
}

type cacheConfig struct {
	metaCapacity   int
	sourceCapacity int
	logger         *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

// WithMetaCapacity sets how many metadata entries are kept.
func WithMetaCapacity(n int) CacheOption {
	return func(c *cacheConfig) {
		if n > 0 {
			c.metaCapacity = n
		}
	}
}

// WithSourceCapacity sets how many implementation texts are kept.
// Each variant of a feature is a separate entry.
func WithSourceCapacity(n int) CacheOption {
	return func(c *cacheConfig) {
		if n > 0 {
			c.sourceCapacity = n
		}
	}
}

// WithCacheLogger sets the logger used for cache fills and backend failures.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *cacheConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache wraps provider with metadata and source caches.
func NewCache(provider Provider, opts ...CacheOption) *Cache {
	cfg := cacheConfig{
		metaCapacity:   DefaultMetaCapacity,
		sourceCapacity: DefaultSourceCapacity,
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cache{
		provider: provider,
		metas:    cache.NewLoader[*Meta](cfg.metaCapacity),
		sources:  cache.NewLoader[sourceEntry](cfg.sourceCapacity),
		aliases:  cache.NewLoader[map[string][]string](1),
		logger:   cfg.logger.With(logger.Component("catalog.cache")),
	}
}

func (c *Cache) Meta(ctx context.Context, name string) (*Meta, error) {
	meta, err := c.metas.Get(ctx, name, func(ctx context.Context) (*Meta, bool, error) {
		meta, err := c.provider.Meta(ctx, name)
		switch {
		case errors.Is(err, ErrNotFound):
			c.logger.DebugContext(ctx, "caching missing feature", logger.Feature(name))
			return nil, true, nil
		case err != nil:
			c.logger.WarnContext(ctx, "metadata read failed", logger.Feature(name), logger.Error(err))
			return nil, false, err
		}
		return meta, true, nil
	})
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, ErrNotFound
	}
	return meta, nil
}

func (c *Cache) Source(ctx context.Context, name string, variant Variant) (string, error) {
	if !variant.Valid() {
		return "", ErrInvalidVariant
	}
	entry, err := c.sources.Get(ctx, name+"."+string(variant), func(ctx context.Context) (sourceEntry, bool, error) {
		text, err := c.provider.Source(ctx, name, variant)
		switch {
		case errors.Is(err, ErrNotFound):
			return sourceEntry{}, true, nil
		case err != nil:
			return sourceEntry{}, false, err
		}
		return sourceEntry{text: text, found: true}, true, nil
	})
	if err != nil {
		return "", err
	}
	if !entry.found {
		return "", ErrNotFound
	}
	return entry.text, nil
}

func (c *Cache) Aliases(ctx context.Context) (map[string][]string, error) {
	return c.aliases.Get(ctx, aliasesKey, func(ctx context.Context) (map[string][]string, bool, error) {
		aliases, err := c.provider.Aliases(ctx)
		if err != nil {
			return nil, false, err
		}
		return aliases, true, nil
	})
}

// Purge drops every cached entry, for example after a catalog publish.
func (c *Cache) Purge() {
	c.metas.Purge()
	c.sources.Purge()
	c.aliases.Purge()
}

// Stats reports hit and miss counters per cache kind.
func (c *Cache) Stats() (metaHits, metaMisses, sourceHits, sourceMisses uint64) {
	metaHits, metaMisses = c.metas.Stats()
	sourceHits, sourceMisses = c.sources.Stats()
	return
}
