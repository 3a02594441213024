// Package pg connects to PostgreSQL with pgx/v5 and applies goose migrations
// from an embedded filesystem.
//
// It backs the PostgreSQL catalog: the polyfill server opens a pool with
// Connect, applies catalog.Migrations with Migrate and hands the pool to
// catalog.NewPostgresProvider.
//
// # Usage
//
// Load the configuration from PG_* variables. PG_CONN_URL is required:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Open a pool. Connect retries the first ping RetryAttempts times:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
// Apply the schema. Migrate reads cfg.MigrationsPath inside the given fs.FS
// and records applied versions in cfg.MigrationsTable:
//
//	if err := pg.Migrate(ctx, pool, catalog.Migrations, cfg, log); err != nil {
//	    return err
//	}
//
//	provider := catalog.NewPostgresProvider(pool)
//
// # Health
//
// Healthcheck returns a probe suitable for the server's /__health endpoint:
//
//	check := httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool)}
//
// # Errors
//
// Failures are joined with ErrInvalidConfig, ErrConnect, ErrMigrate,
// ErrMigrationsPathEmpty, ErrMigrationsNotFound or ErrHealthcheckFailed.
// IsNotFoundError reports whether a query matched no rows, which the catalog
// maps onto catalog.ErrNotFound.
//
// # Logging
//
// Migrate adapts the given *slog.Logger to goose's logger interface, so
// migration progress lands in the same structured log as the rest of the
// service.
package pg
