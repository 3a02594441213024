// Package redis connects to Redis with go-redis and exposes a health probe.
//
// The polyfill server and publisher use it to build the client behind
// catalog.RedisProvider. Configuration comes from REDIS_* variables through
// Config and pkg/config.
//
// # Usage
//
// Load the configuration and connect:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Hand the client to the catalog, keeping keys under the configured prefix:
//
//	provider := catalog.NewRedisProvider(client, catalog.WithRedisPrefix(cfg.KeyPrefix))
//
// Register the probe with the server's /__health endpoint:
//
//	check := httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)}
//
// # Retries
//
// Connect parses REDIS_URL, then pings the server up to RetryAttempts
// times, RetryInterval apart, within ConnectTimeout. A server that is still
// starting (common in compose setups) is therefore waited for instead of
// failing the process.
//
// # Errors
//
// Errors are joined with the package sentinels so callers can match them
// with errors.Is: ErrEmptyURL and ErrInvalidURL for configuration problems,
// ErrNotReady when every ping failed, ErrHealthcheckFailed from the probe.
package redis
