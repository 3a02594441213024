// Package httpserver runs the polyfill HTTP handler with configured timeouts
// and graceful shutdown.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// shuts the server down within the configured deadline. Listen failures are
// joined with ErrStart and shutdown failures with ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, handler); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness and readiness from a list of named
// backend probes such as redis.Healthcheck or pg.Healthcheck.
package httpserver
