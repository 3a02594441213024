// Package server is the HTTP front end of the polyfill engine.
//
// Routes:
//
//	GET /polyfill.js          unminified bundle
//	GET /polyfill.min.js      minified bundle
//	GET /v3/aliases           alias table
//	GET /v3/features/{name}   feature metadata
//	GET /__about              service description
//	GET /__health             readiness of the catalog backends
//	GET /__gtg                liveness
//
// Bundle requests are mapped onto polyfill.Options from the query string:
// features (comma list, "name|flag|flag", default "default"), flags,
// excludes, unknown, callback and ua, which overrides the User-Agent header.
// Responses are cached in an LRU keyed by a fingerprint of the normalised
// options and runtime, and carry a weak ETag derived from the same key.
// Bundles the engine reports as degraded (a catalog backend failed while
// they were built) are served but never cached.
//
// Refresh purges the response cache, and any registered purgers such as the
// catalog cache, on a fixed interval so a new publish is picked up.
//
// Usage:
//
//	cached := catalog.NewCache(provider)
//	engine := polyfill.New(cached)
//	srv := server.New(engine,
//		server.WithLogger(log),
//		server.WithChecks(httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)}),
//		server.WithPurgers(cached.Purge),
//	)
//	go srv.Refresh(ctx)
//	httpserver.New().Run(ctx, srv.Handler())
package server
