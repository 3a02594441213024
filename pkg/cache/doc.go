// Package cache provides the bounded in-memory caches used by the polyfill
// engine: a generic, thread-safe LRU cache and a read-through Loader built on
// top of it.
//
// Every cache has a fixed capacity chosen by its owner. Caches are plain
// values that are constructed and injected, so independent engines (or tests)
// never share state through a package-level singleton.
//
// # LRUCache
//
//	c := cache.NewLRUCache[string, runtime.Runtime](1000)
//	c.Put("chrome/45", rt)
//	rt, ok := c.Get("chrome/45")
//
// Get and Put mark an entry as most recently used. When a Put pushes the cache
// over capacity the least recently used entry is evicted. Stats exposes the
// hit and miss counters for debugging cache sizing.
//
// # Loader
//
// Loader wraps an LRUCache keyed by string and collapses concurrent misses for
// the same key onto one call of the load function using
// golang.org/x/sync/singleflight:
//
//	metas := cache.NewLoader[*catalog.Meta](1000)
//	meta, err := metas.Get(ctx, "Array.from", func(ctx context.Context) (*catalog.Meta, bool, error) {
//		m, err := backend.Meta(ctx, "Array.from")
//		if errors.Is(err, catalog.ErrNotFound) {
//			return nil, true, nil // absent features are cached as nil
//		}
//		return m, err == nil, err
//	})
//
// The load function decides whether its result may be cached, so transient
// backend failures are retried on the next call while definitive answers are
// memoised.
//
// # Cancellation
//
// The shared load runs on context.WithoutCancel of the first caller's
// context, keeping its values (request id, trace data) but not its deadline
// or cancellation. Each caller waits on its own context: a caller that gives
// up gets ctx.Err() right away, while the load keeps going and the other
// waiters still receive its result. One client hanging up therefore never
// turns into a backend failure for another client asking for the same key.
// Load functions that need a bound should apply their own timeout.
//
// # Performance Characteristics
//
//   - Get, Put, Remove: O(1)
//   - All operations take a single mutex; the Loader holds no lock while the
//     load function runs.
package cache
