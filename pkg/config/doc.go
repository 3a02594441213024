// Package config parses environment variables into typed structs.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for .env files. The default .env in the working
// directory is read once per process before the first Load; missing files
// are ignored. Variables already present in the process environment win over
// anything read from a file.
//
// # Usage
//
// Describe the configuration as a struct with env tags:
//
//	type ServerConfig struct {
//	    Backend   string        `env:"BACKEND" envDefault:"local"`
//	    CacheSize int           `env:"CACHE_SIZE" envDefault:"1000"`
//	    Refresh   time.Duration `env:"REFRESH_INTERVAL" envDefault:"15m"`
//	}
//
// Load it, optionally under a prefix:
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg, config.WithPrefix("POLYFILL_")); err != nil {
//	    return err
//	}
//
// Binaries that cannot start without configuration use MustLoad, which
// panics with the parse error:
//
//	var cfg appConfig
//	config.MustLoad(&cfg)
//
// Nested structs are parsed recursively, so a binary composes its own
// configuration from the packages it wires (environment.Config,
// logger.Config, httpserver.Config, server.Config, backend.Config).
//
// # Extra .env files
//
// LoadEnv reads additional files into the process environment. The
// publisher exposes it through its -env flag:
//
//	if err := config.LoadEnv("deploy/staging.env"); err != nil {
//	    return err
//	}
//
// # Testing
//
// WithEnvironment parses from a map instead of os.Environ, which keeps tests
// parallel-safe:
//
//	err := config.Load(&cfg, config.WithEnvironment(map[string]string{
//	    "CATALOG_BACKEND": "redis",
//	}))
//
// # Backend configuration
//
// Backend specific structs (redis.Config, pg.Config, mongo.Config,
// catalog.S3Config) are loaded the same way, and only when that backend is
// selected, so their required variables do not leak into unrelated
// deployments.
//
// # Errors
//
// Parse failures are joined with ErrParsingConfig, a nil target yields
// ErrNilPointer and an unreadable explicit .env file yields
// ErrLoadingEnvFile. All of them can be matched with errors.Is.
package config
