package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/polyfill/pkg/catalog"
	"github.com/dmitrymomot/polyfill/pkg/config"
	"github.com/dmitrymomot/polyfill/pkg/httpserver"
	"github.com/dmitrymomot/polyfill/pkg/logger"
	"github.com/dmitrymomot/polyfill/pkg/mongo"
	"github.com/dmitrymomot/polyfill/pkg/pg"
	"github.com/dmitrymomot/polyfill/pkg/redis"
)

// Kind names a catalog store.
type Kind string

const (
	Local    Kind = "local"
	S3       Kind = "s3"
	Redis    Kind = "redis"
	Postgres Kind = "postgres"
	Mongo    Kind = "mongo"
)

// Config selects and sizes the catalog store.
type Config struct {
	Kind            string `env:"CATALOG_BACKEND" envDefault:"local"`
	Dir             string `env:"CATALOG_DIR" envDefault:"./polyfills"`
	MetaCacheSize   int    `env:"CATALOG_META_CACHE_SIZE" envDefault:"1000"`
	SourceCacheSize int    `env:"CATALOG_SOURCE_CACHE_SIZE" envDefault:"2000"`
	// Migrate applies the Postgres schema on open.
	Migrate bool `env:"CATALOG_MIGRATE" envDefault:"true"`
}

// Backend is an opened catalog store.
type Backend struct {
	Kind     Kind
	Provider catalog.Provider
	// Writer is the uncached store, nil when the store is read-only.
	Writer  catalog.Writer
	Checks  []httpserver.Check
	closers []func(context.Context) error
}

// Close releases every connection held by b.
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Purge drops the catalog cache in front of a remote store. It is a no-op
// for the local store, which reads the filesystem on every call.
func (b *Backend) Purge() {
	if c, ok := b.Provider.(*catalog.Cache); ok {
		c.Purge()
	}
}

// ParseKind maps s onto a Kind. "fs" and "" mean Local.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", "fs":
		return Local, nil
	case Local, S3, Redis, Postgres, Mongo:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Open connects to the store named by cfg.Kind. opts are passed to
// config.Load when the store's own configuration is read.
func Open(ctx context.Context, cfg Config, log *slog.Logger, opts ...config.Option) (*Backend, error) {
	if log == nil {
		log = logger.Discard()
	}
	kind, err := ParseKind(cfg.Kind)
	if err != nil {
		return nil, err
	}
	log = log.With(logger.Backend(string(kind)))

	b := &Backend{Kind: kind}
	if err := b.open(ctx, cfg, log, opts); err != nil {
		_ = b.Close(ctx)
		return nil, errors.Join(ErrOpenFailed, err)
	}
	if kind != Local {
		b.Provider = catalog.NewCache(b.Provider,
			catalog.WithMetaCapacity(cfg.MetaCacheSize),
			catalog.WithSourceCapacity(cfg.SourceCacheSize),
			catalog.WithCacheLogger(log),
		)
	}

	log.InfoContext(ctx, "catalog backend opened")
	return b, nil
}

func (b *Backend) open(ctx context.Context, cfg Config, log *slog.Logger, opts []config.Option) error {
	switch b.Kind {
	case S3:
		var s3cfg catalog.S3Config
		if err := config.Load(&s3cfg, opts...); err != nil {
			return err
		}
		p, err := catalog.NewS3Provider(ctx, s3cfg)
		if err != nil {
			return err
		}
		b.Provider, b.Writer = p, p
		b.check("s3", aliasProbe(p))

	case Redis:
		var rcfg redis.Config
		if err := config.Load(&rcfg, opts...); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
		p := catalog.NewRedisProvider(client, catalog.WithRedisPrefix(rcfg.KeyPrefix))
		b.Provider, b.Writer = p, p
		b.check("redis", redis.Healthcheck(client))

	case Postgres:
		var pgcfg pg.Config
		if err := config.Load(&pgcfg, opts...); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, pgcfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func(context.Context) error { pool.Close(); return nil })
		if cfg.Migrate {
			if err := pg.Migrate(ctx, pool, catalog.Migrations, pgcfg, log); err != nil {
				return err
			}
		}
		p := catalog.NewPostgresProvider(pool)
		b.Provider, b.Writer = p, p
		b.check("postgres", pg.Healthcheck(pool))

	case Mongo:
		var mcfg mongo.Config
		if err := config.Load(&mcfg, opts...); err != nil {
			return err
		}
		client, err := mongo.New(ctx, mcfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func(ctx context.Context) error { return client.Disconnect(ctx) })
		p := catalog.NewMongoProvider(client.Database(mcfg.Database))
		b.Provider, b.Writer = p, p
		b.check("mongo", mongo.Healthcheck(client))

	default:
		p, err := catalog.NewLocalProvider(cfg.Dir)
		if err != nil {
			return err
		}
		b.Provider = p
		b.check("local", func(ctx context.Context) error {
			_, err := p.Names(ctx)
			return err
		})
	}
	return nil
}

func (b *Backend) check(name string, probe func(context.Context) error) {
	b.Checks = append(b.Checks, httpserver.Check{Name: name, Probe: probe})
}

// aliasProbe treats a store without an alias table as healthy but empty.
func aliasProbe(p catalog.Provider) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := p.Aliases(ctx)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil
		}
		return err
	}
}
