package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyfill/pkg/catalog"
)

// MockProvider is a mock implementation of catalog.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Meta(ctx context.Context, name string) (*catalog.Meta, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Meta), args.Error(1)
}

func (m *MockProvider) Source(ctx context.Context, name string, variant catalog.Variant) (string, error) {
	args := m.Called(ctx, name, variant)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) Aliases(ctx context.Context) (map[string][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func TestCache_Meta(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("hits backend once", func(t *testing.T) {
		t.Parallel()
		backend := &MockProvider{}
		backend.On("Meta", mock.Anything, "A").Return(&catalog.Meta{License: "MIT"}, nil).Once()

		c := catalog.NewCache(backend)
		for range 3 {
			meta, err := c.Meta(ctx, "A")
			require.NoError(t, err)
			assert.Equal(t, "MIT", meta.License)
		}
		backend.AssertExpectations(t)

		hits, misses, _, _ := c.Stats()
		assert.Equal(t, uint64(2), hits)
		assert.GreaterOrEqual(t, misses, uint64(1))
	})

	t.Run("caches not found", func(t *testing.T) {
		t.Parallel()
		backend := &MockProvider{}
		backend.On("Meta", mock.Anything, "Z").Return(nil, catalog.ErrNotFound).Once()

		c := catalog.NewCache(backend)
		_, err := c.Meta(ctx, "Z")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		_, err = c.Meta(ctx, "Z")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		backend.AssertExpectations(t)
	})

	t.Run("does not cache backend failures", func(t *testing.T) {
		t.Parallel()
		boom := errors.Join(catalog.ErrBackendFailure, errors.New("connection reset"))
		backend := &MockProvider{}
		backend.On("Meta", mock.Anything, "A").Return(nil, boom).Once()
		backend.On("Meta", mock.Anything, "A").Return(&catalog.Meta{}, nil).Once()

		c := catalog.NewCache(backend)
		_, err := c.Meta(ctx, "A")
		assert.ErrorIs(t, err, catalog.ErrBackendFailure)
		_, err = c.Meta(ctx, "A")
		assert.NoError(t, err)
		backend.AssertExpectations(t)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		backend := &MockProvider{}
		backend.On("Meta", mock.Anything, "A").Return(&catalog.Meta{}, nil).Twice()
		backend.On("Meta", mock.Anything, "B").Return(&catalog.Meta{}, nil).Once()

		c := catalog.NewCache(backend, catalog.WithMetaCapacity(1))
		_, _ = c.Meta(ctx, "A")
		_, _ = c.Meta(ctx, "B")
		_, _ = c.Meta(ctx, "A")
		backend.AssertExpectations(t)
	})
}

func TestCache_Source(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := &MockProvider{}
	backend.On("Source", mock.Anything, "A", catalog.VariantRaw).Return("a();", nil).Once()
	backend.On("Source", mock.Anything, "A", catalog.VariantMin).Return("a()", nil).Once()
	backend.On("Source", mock.Anything, "Z", catalog.VariantRaw).Return("", catalog.ErrNotFound).Once()

	c := catalog.NewCache(backend)
	for range 2 {
		raw, err := c.Source(ctx, "A", catalog.VariantRaw)
		require.NoError(t, err)
		assert.Equal(t, "a();", raw)

		minified, err := c.Source(ctx, "A", catalog.VariantMin)
		require.NoError(t, err)
		assert.Equal(t, "a()", minified)

		_, err = c.Source(ctx, "Z", catalog.VariantRaw)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	}

	_, err := c.Source(ctx, "A", catalog.Variant("br"))
	assert.ErrorIs(t, err, catalog.ErrInvalidVariant)
	backend.AssertExpectations(t)
}

func TestCache_Aliases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := &MockProvider{}
	backend.On("Aliases", mock.Anything).Return(map[string][]string{"es6": {"Map"}}, nil).Twice()

	c := catalog.NewCache(backend)
	for range 2 {
		aliases, err := c.Aliases(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Map"}, aliases["es6"])
	}

	c.Purge()
	_, err := c.Aliases(ctx)
	require.NoError(t, err)
	backend.AssertExpectations(t)
}

func TestCache_ConcurrentLoadsCollapse(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	backend := &MockProvider{}
	backend.On("Meta", mock.Anything, "A").
		WaitUntil(release).
		Return(&catalog.Meta{License: "MIT"}, nil).
		Once()

	c := catalog.NewCache(backend)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			meta, err := c.Meta(context.Background(), "A")
			assert.NoError(t, err)
			assert.Equal(t, "MIT", meta.License)
		}()
	}

	close(release)
	wg.Wait()
	backend.AssertExpectations(t)
}
