// Package catalog defines the source of polyfill metadata and implementation
// text, and ships the backends that serve it.
//
// A Provider answers three questions: the metadata of a feature, its
// implementation text in the raw or minified variant, and the alias table.
// Missing features are reported with ErrNotFound; every other failure wraps
// ErrBackendFailure so callers can tell "absent" from "unavailable".
//
// # Backends
//
//   - MemoryProvider: in-process, used by tests and embedded catalogs.
//   - FSProvider / NewLocalProvider: one directory per feature holding
//     meta.json (or meta.yaml), raw.js and min.js.
//   - RedisProvider: JSON metadata and sources under a key prefix.
//   - S3Provider: objects under a bucket prefix.
//   - PostgresProvider: polyfills and polyfill_aliases tables; the schema is
//     embedded in Migrations and applied with pg.Migrate.
//   - MongoProvider: one document per feature and per alias.
//
// The network backends also implement Writer, which Publish uses to copy a
// filesystem catalog into them in chunks of DefaultPublishChunkSize records.
//
// # Caching
//
// Cache wraps any Provider in bounded LRU caches, one for metadata and one
// for sources, built on pkg/cache. Concurrent misses for the same key share
// one backend call. Not-found answers are cached; backend failures are not,
// so a transient outage heals on the next request.
//
//	backend := catalog.NewRedisProvider(client)
//	provider := catalog.NewCache(backend,
//	    catalog.WithMetaCapacity(1000),
//	    catalog.WithSourceCapacity(1000),
//	)
//	meta, err := provider.Meta(ctx, "Array.from")
package catalog
