// Package async provides small generic helpers for concurrent work.
//
// Future and Async run a single computation in its own goroutine; the polyfill
// assembler uses them to start fetching every source before the bundle header
// is written and then awaits the futures in emission order.
//
// Map and ForEach fan a slice out over a bounded errgroup
// (golang.org/x/sync/errgroup). Results keep input order regardless of
// completion order, and the first error cancels the shared context.
//
// # Usage
//
//	metas, err := async.Map(ctx, async.DefaultLimit, names,
//	    func(ctx context.Context, name string) (*catalog.Meta, error) {
//	        return provider.Meta(ctx, name)
//	    })
//
//	future := async.Async(ctx, name, loadSource)
//	src, err := future.Await()
//
// # Error Handling
//
// Functions return the error produced by the user callback. AwaitWithTimeout
// returns ErrTimeout and Map returns ErrInvalidLimit for a non-positive limit.
package async
