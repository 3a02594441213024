package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyfill/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		f := async.Async(context.Background(), 42, func(_ context.Context, n int) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return fmt.Sprintf("n=%d", n), nil
		})

		res, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, "n=42", res)
		assert.True(t, f.IsComplete())
	})

	t.Run("returns error", func(t *testing.T) {
		boom := errors.New("boom")
		f := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
			return 0, boom
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("pre-canceled context skips call", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		f := async.Async(ctx, 1, func(context.Context, int) (int, error) {
			called.Store(true)
			return 1, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})

	t.Run("await with timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		f := async.Async(context.Background(), 1, func(context.Context, int) (int, error) {
			<-release
			return 1, nil
		})

		_, err := f.AwaitWithTimeout(10 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
		assert.False(t, f.IsComplete())
	})

	t.Run("await context", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		f := async.Async(context.Background(), 1, func(context.Context, int) (int, error) {
			<-release
			return 1, nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := f.AwaitContext(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	double := func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(5-n) * time.Millisecond)
		return n * 2, nil
	}

	futures := make([]*async.Future[int], 0, 5)
	for i := range 5 {
		futures = append(futures, async.Async(ctx, i, double))
	}

	results, err := async.WaitAll(futures...)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6, 8}, results)
}

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order", func(t *testing.T) {
		items := []int{5, 1, 4, 2, 3}
		results, err := async.Map(context.Background(), 2, items, func(_ context.Context, n int) (string, error) {
			time.Sleep(time.Duration(n) * time.Millisecond)
			return fmt.Sprint(n), nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"5", "1", "4", "2", "3"}, results)
	})

	t.Run("respects limit", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		items := make([]int, 20)

		_, err := async.Map(context.Background(), 3, items, func(context.Context, int) (int, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
			return 0, nil
		})

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(3))
	})

	t.Run("first error cancels the rest", func(t *testing.T) {
		boom := errors.New("boom")
		items := []int{0, 1, 2, 3}

		_, err := async.Map(context.Background(), 1, items, func(ctx context.Context, n int) (int, error) {
			if n == 0 {
				return 0, boom
			}
			return n, ctx.Err()
		})

		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty input", func(t *testing.T) {
		results, err := async.Map(context.Background(), 4, nil, func(context.Context, int) (int, error) {
			return 0, nil
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := async.Map(context.Background(), 0, []int{1}, func(context.Context, int) (int, error) {
			return 0, nil
		})
		assert.ErrorIs(t, err, async.ErrInvalidLimit)
	})
}

func TestForEach(t *testing.T) {
	t.Parallel()

	var sum atomic.Int64
	err := async.ForEach(context.Background(), async.DefaultLimit, []int64{1, 2, 3, 4}, func(_ context.Context, n int64) error {
		sum.Add(n)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}
