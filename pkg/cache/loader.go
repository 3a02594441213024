package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the value for a key from the backing store.
// Returning cacheable=false keeps the value out of the cache, e.g. for
// transient backend failures.
type LoadFunc[V any] func(ctx context.Context) (value V, cacheable bool, err error)

// Loader is a read-through LRU cache. Concurrent misses for the same key are
// collapsed onto a single call of the load function.
type Loader[V any] struct {
	lru   *LRUCache[string, V]
	group singleflight.Group
}

// NewLoader creates a read-through cache with the given capacity.
func NewLoader[V any](capacity int) *Loader[V] {
	return &Loader[V]{lru: NewLRUCache[string, V](capacity)}
}

type loadResult[V any] struct {
	value     V
	cacheable bool
}

// Get returns the cached value for key or loads it with load.
// While a load for key is in flight, other callers for the same key wait for
// its result instead of hitting the backend again. The shared load runs
// detached from the caller's cancellation; a caller whose ctx ends stops
// waiting and gets ctx.Err() while the load continues for the others.
func (l *Loader[V]) Get(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	var zero V
	if v, ok := l.lru.Get(key); ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		// A caller that lost the race may find the value already stored.
		if v, ok := l.lru.Get(key); ok {
			return loadResult[V]{value: v}, nil
		}
		v, cacheable, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if cacheable {
			l.lru.Put(key, v)
		}
		return loadResult[V]{value: v, cacheable: cacheable}, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(loadResult[V]).value, nil
	}
}

// Forget evicts key so the next Get reloads it.
func (l *Loader[V]) Forget(key string) {
	l.lru.Remove(key)
	l.group.Forget(key)
}

func (l *Loader[V]) Len() int { return l.lru.Len() }

// Stats reports cache hits and misses of the underlying LRU.
func (l *Loader[V]) Stats() (hits, misses uint64) { return l.lru.Stats() }

// Purge empties the cache.
func (l *Loader[V]) Purge() { l.lru.Clear() }
