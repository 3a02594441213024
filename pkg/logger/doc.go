// Package logger builds the structured slog loggers used across the polyfill
// service.
//
// New creates a *slog.Logger configured by Option functions:
//
//   - WithEnvironment applies per-stage defaults (text/debug in development,
//     JSON/info elsewhere) and tags every record with service and env.
//   - WithConfig applies LOG_LEVEL / LOG_FORMAT overrides read by pkg/config.
//   - WithFormat, WithLevel, WithOutput and WithAttr tune the handler directly.
//   - WithContextExtractors / WithContextValue inject request-scoped values,
//     such as the request id, into every record logged with that context.
//
// The handler is wrapped in LogHandlerDecorator, which runs the extractors
// before delegating.
//
// attr.go holds attribute constructors (Feature, Runtime, CacheKey, Backend,
// Error, RequestID and others) so the engine, catalog backends and HTTP layer
// agree on key names.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(env, "polyfill-server"),
//	    logger.WithConfig(cfg.Log),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.WarnContext(ctx, "source read failed", logger.Feature(name), logger.Error(err))
//
// Library packages default to Discard so they stay silent unless a logger is
// injected.
package logger
