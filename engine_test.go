package polyfill_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyfill"
	"github.com/dmitrymomot/polyfill/pkg/catalog"
	"github.com/dmitrymomot/polyfill/pkg/runtime"
)

// everywhere is needed by every recognised chrome and ie version.
var everywhere = map[string]string{"chrome": "*", "ie": "*"}

func meta(deps []string, browsers map[string]string) *catalog.Meta {
	return &catalog.Meta{Dependencies: deps, Browsers: browsers}
}

// testCatalog is a small catalog exercising every pipeline stage:
//
//	es6 -> A, B          aliases
//	C -> D -> E          dependency chain
//	X -> G -> _helper    G is native from chrome 40
//	F                    needed by ie below 10 only
//	Native               needed by chrome below 10 only
func testCatalog() *catalog.MemoryProvider {
	add := func(p *catalog.MemoryProvider, name string, m *catalog.Meta) {
		p.Add(name, m, "// "+name+"\n"+name+"();\n", name+"();")
	}

	p := catalog.NewMemoryProvider()
	add(p, "A", &catalog.Meta{Browsers: map[string]string{"chrome": "<50", "ie": "*"}, License: "MIT"})
	add(p, "B", &catalog.Meta{Browsers: map[string]string{"chrome": "<50", "ie": "*"}, DetectSource: "'B' in self"})
	add(p, "C", meta([]string{"D"}, everywhere))
	add(p, "D", meta([]string{"E"}, everywhere))
	add(p, "E", meta(nil, everywhere))
	add(p, "F", &catalog.Meta{Browsers: map[string]string{"ie": "<10"}, DetectSource: "'F' in self"})
	add(p, "G", meta([]string{"_helper"}, map[string]string{"chrome": "<40", "ie": "*"}))
	add(p, "_helper", meta(nil, everywhere))
	add(p, "X", meta([]string{"G"}, everywhere))
	add(p, "Native", meta(nil, map[string]string{"chrome": "<10"}))
	p.SetAlias("es6", "A", "B")
	p.SetAlias("helpers", "_helper")
	return p
}

func newEngine(t *testing.T, p catalog.Provider, opts ...polyfill.Option) *polyfill.Engine {
	t.Helper()
	return polyfill.New(p, opts...)
}

func request(runtime string, features ...string) polyfill.Options {
	opts := polyfill.NewOptions()
	opts.RuntimeIdentity = runtime
	for _, f := range features {
		opts.AddFeature(f)
	}
	return opts
}

// failingProvider fails metadata or source lookups for selected names.
type failingProvider struct {
	catalog.Provider
	fail       map[string]bool
	failSource map[string]error
}

func (p failingProvider) Meta(ctx context.Context, name string) (*catalog.Meta, error) {
	if p.fail[name] {
		return nil, errors.Join(catalog.ErrBackendFailure, errors.New("connection reset"))
	}
	return p.Provider.Meta(ctx, name)
}

func (p failingProvider) Source(ctx context.Context, name string, variant catalog.Variant) (string, error) {
	if err := p.failSource[name]; err != nil {
		return "", err
	}
	return p.Provider.Source(ctx, name, variant)
}

// slowProvider holds every metadata read until release is closed, or until
// the read's own context ends.
type slowProvider struct {
	catalog.Provider
	entered chan struct{}
	once    *sync.Once
	release chan struct{}
}

func newSlowProvider(p catalog.Provider) slowProvider {
	return slowProvider{Provider: p, entered: make(chan struct{}), once: new(sync.Once), release: make(chan struct{})}
}

func (p slowProvider) Meta(ctx context.Context, name string) (*catalog.Meta, error) {
	p.once.Do(func() { close(p.entered) })
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.Provider.Meta(ctx, name)
}

func TestNew_NilProvider(t *testing.T) {
	t.Parallel()
	assert.PanicsWithValue(t, polyfill.ErrNilProvider, func() {
		polyfill.New(nil)
	})
}

func TestEngine_Describe(t *testing.T) {
	t.Parallel()
	e := newEngine(t, testCatalog())
	ctx := context.Background()

	m, ok := e.Describe(ctx, "C")
	require.True(t, ok)
	assert.Equal(t, []string{"D"}, m.Dependencies)

	// The result is a copy.
	m.Dependencies[0] = "changed"
	again, ok := e.Describe(ctx, "C")
	require.True(t, ok)
	assert.Equal(t, []string{"D"}, again.Dependencies)

	_, ok = e.Describe(ctx, "Missing")
	assert.False(t, ok)
}

func TestEngine_ListAliases(t *testing.T) {
	t.Parallel()
	e := newEngine(t, testCatalog())

	aliases := e.ListAliases(context.Background())
	assert.Equal(t, []string{"A", "B"}, aliases["es6"])
	assert.Equal(t, []string{"_helper"}, aliases["helpers"])
	assert.Contains(t, aliases[catalog.AliasAll], "X")
	assert.NotContains(t, aliases[catalog.AliasAll], "_helper")

	aliases["es6"][0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, e.ListAliases(context.Background())["es6"])
}

func TestEngine_RuntimeCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	parser := func(identity string) polyfill.Runtime {
		calls.Add(1)
		return runtime.Parse(identity)
	}
	e := newEngine(t, testCatalog(), polyfill.WithRuntimeParser(parser), polyfill.WithRuntimeCacheSize(2))
	ctx := context.Background()

	for range 3 {
		_, err := e.Resolve(ctx, request("chrome/45", "C"))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())

	_, err := e.Resolve(ctx, request("ie/11", "C"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEngine_CustomRuntime(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testCatalog(), polyfill.WithRuntimeParser(func(string) polyfill.Runtime {
		return stubRuntime{family: "ie", satisfies: true}
	}))

	set, err := e.Resolve(context.Background(), request("anything", "F"))
	require.NoError(t, err)
	assert.Equal(t, []string{"F"}, set.Names())
}

type stubRuntime struct {
	family    string
	unknown   bool
	satisfies bool
}

func (r stubRuntime) Family() string { return r.family }
func (r stubRuntime) IsUnknown() bool { return r.unknown }
func (r stubRuntime) Satisfies(string) bool { return r.satisfies }

func TestEngine_Output(t *testing.T) {
	t.Parallel()
	e := newEngine(t, testCatalog())
	ctx := context.Background()

	materialised := request("ie/9", "es6", "C", "F")
	streamed := materialised
	streamed.Stream = true

	want, err := e.Bundle(ctx, materialised)
	require.NoError(t, err)

	for _, opts := range []polyfill.Options{materialised, streamed} {
		body, err := e.Output(ctx, opts)
		require.NoError(t, err)
		got, err := io.ReadAll(body)
		require.NoError(t, err)
		require.NoError(t, body.Close())
		assert.Equal(t, string(want), string(got))
		assert.False(t, body.Degraded())
	}
}

func TestEngine_ConcurrentCalls(t *testing.T) {
	t.Parallel()
	e := newEngine(t, catalog.NewCache(testCatalog()))
	ctx := context.Background()
	opts := request("", "es6", "X", "C", "F")

	want, err := e.Bundle(ctx, opts)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = e.Bundle(ctx, opts)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, string(want), string(got))
	}
}

func TestEngine_BackendFailureIsSoft(t *testing.T) {
	t.Parallel()
	p := failingProvider{Provider: testCatalog(), fail: map[string]bool{"D": true}}
	e := newEngine(t, p)

	opts := request("chrome/45", "C", "A")
	opts.Minify = false

	set, err := e.Resolve(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, set.Names())

	out, err := e.Bundle(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, string(out), "These features were not recognised:\n * - D")

	for _, stream := range []bool{false, true} {
		opts.Stream = stream
		body, err := e.Output(context.Background(), opts)
		require.NoError(t, err)
		_, err = io.ReadAll(body)
		require.NoError(t, err)
		assert.True(t, body.Degraded(), "stream=%v", stream)
	}
}

func TestEngine_SourceFailure(t *testing.T) {
	t.Parallel()

	t.Run("backend failure reports the feature as unrecognised", func(t *testing.T) {
		p := failingProvider{Provider: testCatalog(), failSource: map[string]error{"B": errors.New("backend down")}}
		e := newEngine(t, p)
		opts := request("not a browser", "A", "B")

		for _, minify := range []bool{false, true} {
			opts.Minify = minify
			out, err := e.Bundle(context.Background(), opts)
			require.NoError(t, err)
			assert.NotContains(t, string(out), "'B' in self")
			assert.NotContains(t, string(out), "B();")
			assert.Contains(t, string(out), "A();")
		}

		opts.Minify = false
		out, err := e.Bundle(context.Background(), opts)
		require.NoError(t, err)
		assert.Contains(t, string(out), " * - A, License: MIT\n")
		assert.NotContains(t, string(out), "- B, License")
		assert.Contains(t, string(out), "These features were not recognised:\n * - B")
		assert.Contains(t, string(out), "(function(undefined) {\n// A\nA();\n})\n")

		body, err := e.Output(context.Background(), opts)
		require.NoError(t, err)
		_, err = io.ReadAll(body)
		require.NoError(t, err)
		assert.True(t, body.Degraded())
	})

	t.Run("missing source is unrecognised but not degraded", func(t *testing.T) {
		p := failingProvider{Provider: testCatalog(), failSource: map[string]error{"E": catalog.ErrNotFound}}
		e := newEngine(t, p)
		opts := request("chrome/45", "E")
		opts.Minify = false

		body, err := e.Output(context.Background(), opts)
		require.NoError(t, err)
		out, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Contains(t, string(out), "These features were not recognised:\n * - E")
		assert.Contains(t, string(out), "No polyfills found for current settings")
		assert.False(t, body.Degraded())
	})
}

func TestEngine_SharedLoadSurvivesCancelledCaller(t *testing.T) {
	t.Parallel()
	opts := request("ie/9", "F")
	want, err := newEngine(t, testCatalog()).Bundle(context.Background(), opts)
	require.NoError(t, err)

	slow := newSlowProvider(testCatalog())
	e := newEngine(t, catalog.NewCache(slow))

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := e.Bundle(firstCtx, opts)
		firstErr <- err
	}()
	<-slow.entered

	type result struct {
		out []byte
		err error
	}
	second := make(chan result, 1)
	go func() {
		out, err := e.Bundle(context.Background(), opts)
		second <- result{out, err}
	}()

	// Let the second call join the metadata read already in flight.
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(slow.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, string(want), string(got.out))
}

func TestEngine_Cancelled(t *testing.T) {
	t.Parallel()
	e := newEngine(t, testCatalog())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Resolve(ctx, request("chrome/45", "C"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = e.Bundle(ctx, request("chrome/45", "C"))
	assert.ErrorIs(t, err, context.Canceled)
}
