package polyfill

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/dmitrymomot/polyfill/pkg/async"
	"github.com/dmitrymomot/polyfill/pkg/cache"
	"github.com/dmitrymomot/polyfill/pkg/catalog"
	"github.com/dmitrymomot/polyfill/pkg/environment"
	"github.com/dmitrymomot/polyfill/pkg/logger"
	"github.com/dmitrymomot/polyfill/pkg/runtime"
)

const (
	// DefaultRuntimeCacheSize bounds the cache of parsed runtime identities.
	DefaultRuntimeCacheSize = 1000
	// DefaultVersion is reported in production bundle headers.
	DefaultVersion = "1.0.0"
)

// Runtime is the compatibility oracle for one client.
type Runtime interface {
	Family() string
	IsUnknown() bool
	Satisfies(rangeExpr string) bool
}

// RuntimeParser turns a runtime identity into a Runtime. It must not fail;
// unrecognised identities yield a runtime whose IsUnknown reports true.
type RuntimeParser func(identity string) Runtime

// DefaultRuntimeParser parses User-Agent strings and "family/version"
// shorthands with pkg/runtime.
func DefaultRuntimeParser(identity string) Runtime {
	return runtime.Parse(identity)
}

// Engine resolves feature requests against a catalog and assembles bundles.
// It is safe for concurrent use.
type Engine struct {
	provider    catalog.Provider
	log         *slog.Logger
	parse       RuntimeParser
	runtimes    *cache.LRUCache[string, Runtime]
	env         environment.Environment
	version     string
	concurrency int
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	log              *slog.Logger
	parse            RuntimeParser
	runtimeCacheSize int
	env              environment.Environment
	version          string
	concurrency      int
}

// WithLogger sets the engine logger. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) { c.log = l }
}

// WithRuntimeParser replaces DefaultRuntimeParser.
func WithRuntimeParser(p RuntimeParser) Option {
	return func(c *engineConfig) {
		if p != nil {
			c.parse = p
		}
	}
}

// WithRuntimeCacheSize sets how many parsed runtimes are kept.
func WithRuntimeCacheSize(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.runtimeCacheSize = n
		}
	}
}

// WithEnvironment selects the header wording: production headers carry the
// version, every other environment carries a development notice.
func WithEnvironment(env environment.Environment) Option {
	return func(c *engineConfig) { c.env = env }
}

// WithVersion sets the version reported in production headers.
func WithVersion(v string) Option {
	return func(c *engineConfig) {
		if v != "" {
			c.version = v
		}
	}
}

// WithConcurrency bounds the catalog lookups in flight per call.
func WithConcurrency(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New returns an Engine reading from provider. Wrap network providers in
// catalog.NewCache; the engine itself only memoises within a call.
func New(provider catalog.Provider, opts ...Option) *Engine {
	if provider == nil {
		panic(ErrNilProvider)
	}

	cfg := engineConfig{
		parse:            DefaultRuntimeParser,
		runtimeCacheSize: DefaultRuntimeCacheSize,
		env:              environment.Development,
		version:          DefaultVersion,
		concurrency:      async.DefaultLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Discard()
	}

	return &Engine{
		provider:    provider,
		log:         cfg.log.With(logger.Component("polyfill")),
		parse:       cfg.parse,
		runtimes:    cache.NewLRUCache[string, Runtime](cfg.runtimeCacheSize),
		env:         cfg.env,
		version:     cfg.version,
		concurrency: cfg.concurrency,
	}
}

// Runtime returns the parsed runtime for identity, from cache when possible.
func (e *Engine) Runtime(identity string) Runtime {
	if rt, ok := e.runtimes.Get(identity); ok {
		return rt
	}
	rt := e.parse(identity)
	e.runtimes.Put(identity, rt)
	return rt
}

// Resolve returns the canonical feature set for opts.
func (e *Engine) Resolve(ctx context.Context, opts Options) (FeatureSet, error) {
	res, err := e.resolve(ctx, opts.normalize())
	if err != nil {
		return nil, err
	}
	return res.features, nil
}

// Bundle returns the whole bundle for opts.
func (e *Engine) Bundle(ctx context.Context, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.WriteBundle(ctx, &buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBundle resolves opts and writes the bundle to w as it is produced.
// A dependency cycle is reported before anything is written.
func (e *Engine) WriteBundle(ctx context.Context, w io.Writer, opts Options) error {
	_, err := e.writeBundle(ctx, w, opts)
	return err
}

// writeBundle reports whether a catalog backend failed along the way.
func (e *Engine) writeBundle(ctx context.Context, w io.Writer, opts Options) (bool, error) {
	opts = opts.normalize()

	res, err := e.resolve(ctx, opts)
	if err != nil {
		return false, err
	}

	plan, err := e.plan(res, opts)
	if err != nil {
		return false, err
	}

	err = e.write(ctx, w, res, plan)
	return res.degraded.Load(), err
}

// BundleStream returns a reader producing the bundle incrementally. Errors,
// including ErrDependencyCycle, surface from Read. Closing the reader early
// cancels outstanding lookups.
func (e *Engine) BundleStream(ctx context.Context, opts Options) io.ReadCloser {
	return e.stream(ctx, opts, new(atomic.Bool))
}

func (e *Engine) stream(ctx context.Context, opts Options, degraded *atomic.Bool) io.ReadCloser {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	go func() {
		defer cancel()
		d, err := e.writeBundle(ctx, pw, opts)
		degraded.Store(d)
		pw.CloseWithError(err)
	}()
	return &streamReader{PipeReader: pr, cancel: cancel}
}

// Body is a bundle returned by Output.
type Body struct {
	io.ReadCloser
	degraded *atomic.Bool
}

// Degraded reports whether a catalog backend failed while the bundle was
// assembled. Such a bundle may list features as not recognised that a
// healthy backend would have served, so it should not be cached. For a
// streamed body the answer is final once Read has returned io.EOF.
func (b *Body) Degraded() bool { return b.degraded.Load() }

// Output returns the bundle as a reader, streamed when opts.Stream is set
// and materialised otherwise. Both produce identical bytes.
func (e *Engine) Output(ctx context.Context, opts Options) (*Body, error) {
	degraded := new(atomic.Bool)
	if opts.Stream {
		return &Body{ReadCloser: e.stream(ctx, opts, degraded), degraded: degraded}, nil
	}

	var buf bytes.Buffer
	d, err := e.writeBundle(ctx, &buf, opts)
	if err != nil {
		return nil, err
	}
	degraded.Store(d)
	return &Body{ReadCloser: io.NopCloser(bytes.NewReader(buf.Bytes())), degraded: degraded}, nil
}

// Describe returns a copy of the metadata for name.
func (e *Engine) Describe(ctx context.Context, name string) (*catalog.Meta, bool) {
	meta, _, err := e.fetchMeta(ctx, name)
	if err != nil || meta == nil {
		return nil, false
	}
	return meta.Clone(), true
}

// ListAliases returns a copy of the alias table. A backend failure yields
// an empty table.
func (e *Engine) ListAliases(ctx context.Context) map[string][]string {
	table, _ := e.aliasTable(ctx)
	out := make(map[string][]string, len(table))
	for name, members := range table {
		out[name] = slices.Clone(members)
	}
	return out
}

// aliasTable returns the alias table, or an empty one with failed set when
// the backend cannot serve it.
func (e *Engine) aliasTable(ctx context.Context) (table map[string][]string, failed bool) {
	table, err := e.provider.Aliases(ctx)
	if err != nil {
		if ctx.Err() == nil {
			e.log.WarnContext(ctx, "alias table unavailable", logger.Error(err))
		}
		return map[string][]string{}, true
	}
	return table, false
}

// fetchMeta returns nil metadata for missing features and for backend
// failures, which are logged and flagged. Only cancellation is returned as
// an error.
func (e *Engine) fetchMeta(ctx context.Context, name string) (meta *catalog.Meta, failed bool, err error) {
	meta, err = e.provider.Meta(ctx, name)
	if err == nil {
		return meta, false, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, false, ctxErr
	}
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, false, nil
	}
	e.log.WarnContext(ctx, "metadata lookup failed", logger.Feature(name), logger.Error(err))
	return nil, true, nil
}

// source returns the implementation text of name, falling back from the
// minified to the raw variant.
func (e *Engine) source(ctx context.Context, name string, variant catalog.Variant) (string, error) {
	src, err := e.provider.Source(ctx, name, variant)
	if err == nil {
		return src, nil
	}
	if errors.Is(err, catalog.ErrNotFound) && variant == catalog.VariantMin {
		e.log.DebugContext(ctx, "minified source missing, using raw", logger.Feature(name))
		return e.source(ctx, name, catalog.VariantRaw)
	}
	if ctx.Err() == nil {
		e.log.WarnContext(ctx, "source lookup failed", logger.Feature(name), logger.Error(err))
	}
	return "", err
}

// metaTable memoises metadata for the duration of one call.
type metaTable struct {
	e        *Engine
	metas    map[string]*catalog.Meta
	degraded *atomic.Bool
}

func (e *Engine) newMetaTable(degraded *atomic.Bool) *metaTable {
	return &metaTable{e: e, metas: make(map[string]*catalog.Meta), degraded: degraded}
}

// load fetches every name not yet in the table concurrently and waits for
// all of them.
func (t *metaTable) load(ctx context.Context, names []string) error {
	missing := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := t.metas[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	metas, err := async.Map(ctx, t.e.concurrency, missing, func(ctx context.Context, name string) (*catalog.Meta, error) {
		meta, failed, err := t.e.fetchMeta(ctx, name)
		if failed {
			t.degraded.Store(true)
		}
		return meta, err
	})
	if err != nil {
		return err
	}
	for i, name := range missing {
		t.metas[name] = metas[i]
	}
	return nil
}

// get returns loaded metadata, nil when the feature is unknown.
func (t *metaTable) get(name string) *catalog.Meta {
	return t.metas[name]
}

type streamReader struct {
	*io.PipeReader
	cancel context.CancelFunc
}

func (r *streamReader) Close() error {
	r.cancel()
	return r.PipeReader.Close()
}
