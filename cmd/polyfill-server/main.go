// Command polyfill-server serves polyfill bundles over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/polyfill"
	"github.com/dmitrymomot/polyfill/pkg/backend"
	"github.com/dmitrymomot/polyfill/pkg/config"
	"github.com/dmitrymomot/polyfill/pkg/environment"
	"github.com/dmitrymomot/polyfill/pkg/httpserver"
	"github.com/dmitrymomot/polyfill/pkg/logger"
	"github.com/dmitrymomot/polyfill/pkg/requestid"
	"github.com/dmitrymomot/polyfill/pkg/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = polyfill.DefaultVersion

type appConfig struct {
	Env         environment.Config
	Log         logger.Config
	HTTP        httpserver.Config
	Server      server.Config
	Catalog     backend.Config
	RuntimeSize int `env:"RUNTIME_CACHE_SIZE" envDefault:"1000"`
	Concurrency int `env:"ENGINE_CONCURRENCY" envDefault:"32"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	env := cfg.Env.Environment()
	log := logger.New(
		logger.WithEnvironment(env, "polyfill-server"),
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg.Catalog, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to open catalog", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error("failed to close catalog", logger.Error(err))
		}
	}()

	engine := polyfill.New(store.Provider,
		polyfill.WithLogger(log),
		polyfill.WithEnvironment(env),
		polyfill.WithVersion(version),
		polyfill.WithRuntimeCacheSize(cfg.RuntimeSize),
		polyfill.WithConcurrency(cfg.Concurrency),
	)

	opts := append(server.FromConfig(cfg.Server),
		server.WithLogger(log),
		server.WithVersion(version),
		server.WithChecks(store.Checks...),
		server.WithPurgers(store.Purge),
	)
	srv := server.New(engine, opts...)
	go srv.Refresh(ctx)

	if err := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, srv.Handler()); err != nil {
		log.ErrorContext(ctx, "server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
