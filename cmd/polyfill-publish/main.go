// Command polyfill-publish copies a catalog directory into a network store.
//
// The destination is chosen with CATALOG_BACKEND and configured with the
// variables of that store. The source directory is PUBLISH_SOURCE_DIR.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/polyfill/pkg/backend"
	"github.com/dmitrymomot/polyfill/pkg/catalog"
	"github.com/dmitrymomot/polyfill/pkg/config"
	"github.com/dmitrymomot/polyfill/pkg/environment"
	"github.com/dmitrymomot/polyfill/pkg/logger"
)

type appConfig struct {
	Env         environment.Config
	Log         logger.Config
	Catalog     backend.Config
	SourceDir   string `env:"PUBLISH_SOURCE_DIR" envDefault:"./polyfills"`
	ChunkSize   int    `env:"PUBLISH_CHUNK_SIZE" envDefault:"50"`
	Concurrency int    `env:"PUBLISH_CONCURRENCY" envDefault:"4"`
}

func main() {
	envFile := flag.String("env", "", "optional .env file to load before reading the environment")
	flag.Parse()

	if err := config.LoadEnv(optional(*envFile)...); err != nil {
		logger.New().Error("failed to load env file", logger.Error(err))
		os.Exit(1)
	}

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env.Environment(), "polyfill-publish"),
		logger.WithConfig(cfg.Log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "publish failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	src, err := catalog.NewLocalProvider(cfg.SourceDir)
	if err != nil {
		return err
	}

	dst, err := backend.Open(ctx, cfg.Catalog, log)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close(context.Background()) }()
	if dst.Writer == nil {
		return backend.ErrReadOnly
	}

	start := time.Now()
	report, err := catalog.Publish(ctx, src, dst.Writer,
		catalog.WithChunkSize(cfg.ChunkSize),
		catalog.WithPublishConcurrency(cfg.Concurrency),
		catalog.WithPublishLogger(log),
	)
	if err != nil {
		return err
	}

	for _, name := range report.Skipped {
		log.WarnContext(ctx, "skipped feature with unreadable metadata", logger.Feature(name))
	}
	log.InfoContext(ctx, "catalog published",
		logger.Backend(string(dst.Kind)),
		logger.Count("records", report.Records),
		logger.Count("aliases", report.Aliases),
		logger.Duration(time.Since(start)),
	)
	return nil
}

func optional(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}
