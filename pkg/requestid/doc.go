// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a well-formed X-Request-ID header from the client or
// generates a UUIDv4, stores it in the request context and echoes it in the
// response. LoggerExtractor feeds the id into pkg/logger's context
// extractors so every log line written while serving a bundle carries it,
// including lines written deep inside the engine and the catalog cache.
//
// # Usage
//
// Register the extractor when building the logger:
//
//	log := logger.New(
//	    logger.WithEnvironment(env, "polyfill-server"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// Mount the middleware early in the chain, before request logging:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Recoverer)
//	r.Use(requestid.Middleware)
//
// Read the id anywhere downstream:
//
//	id := requestid.FromContext(r.Context())
//
// WithContext stores an id explicitly, which is handy in tests and in
// background jobs that want to correlate their log lines:
//
//	ctx = requestid.WithContext(ctx, "publish-2024-05-01")
//
// # Validation
//
// Ids longer than 128 characters or containing anything outside
// [A-Za-z0-9_-] are replaced with a fresh UUID, never rejected: a bad
// header from a proxy must not fail the request.
package requestid
