package polyfill

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dmitrymomot/polyfill/pkg/async"
	"github.com/dmitrymomot/polyfill/pkg/catalog"
	"github.com/dmitrymomot/polyfill/pkg/logger"
)

const (
	defaultLicense = "CC0"
	creditsLine    = "For detailed credits and licence information see https://github.com/dmitrymomot/polyfill."
	minifiedHint   = "Disable minification (remove `.min` from URL path) for more info"
	emptyNotice    = "\n/* No polyfills found for current settings */\n\n"
	globalCall     = ".call('object' === typeof window && window || 'object' === typeof self && self || 'object' === typeof global && global || {});"

	// AllWarning is logged by bundles that request the "all" alias.
	AllWarning = "Using the `all` alias is a very bad idea. In a future version of the service, `all` will deliver the same behaviour as `default`, so we recommend using `default` instead."
)

// segment is one feature's place in the bundle body.
type segment struct {
	name   string
	detect string
	gated  bool
}

// bundlePlan is everything needed to write a bundle except the sources.
type bundlePlan struct {
	opts     Options
	segments []segment
	variant  catalog.Variant
	lf       string
	minify   bool
	all      bool
	callback string
}

// plan orders the resolved features. It fails only on a dependency cycle.
func (e *Engine) plan(res *resolution, opts Options) (*bundlePlan, error) {
	var nodes []string
	var edges []edge
	for _, name := range res.features.Names() {
		meta := res.metas.get(name)
		if meta == nil {
			res.unknown.Add(name)
			continue
		}
		nodes = append(nodes, name)
		for _, dep := range meta.Dependencies {
			if res.features.Has(dep) {
				edges = append(edges, edge{from: dep, to: name})
			}
		}
	}

	order, err := topoSort(nodes, edges)
	if err != nil {
		e.log.Error("catalog dependency cycle", logger.Features(nodes), logger.Error(err))
		return nil, err
	}

	p := &bundlePlan{
		opts:     opts,
		segments: make([]segment, len(order)),
		variant:  catalog.VariantRaw,
		lf:       "\n",
		minify:   opts.Minify,
		all:      res.all,
		callback: opts.Callback,
	}
	if opts.Minify {
		p.variant = catalog.VariantMin
		p.lf = ""
	}
	for i, name := range order {
		p.segments[i] = segment{
			name:   name,
			detect: res.metas.get(name).DetectSource,
			gated:  res.features[name].Flags.Has(FlagGated),
		}
	}
	return p, nil
}

// header renders the leading comment. Minified bundles carry only a hint.
func (e *Engine) header(res *resolution, opts Options, order []string) string {
	if opts.Minify {
		return "/* " + minifiedHint + " */\n\n"
	}

	service := "Polyfill service DEVELOPMENT MODE - for live use set APP_ENV to 'production'"
	if e.env.IsProduction() {
		service = "Polyfill service v" + e.version
	}

	lines := []string{
		service,
		creditsLine,
		"",
		"Features requested: " + strings.Join(opts.RequestedNames(), ","),
		"",
	}
	for _, name := range order {
		line := "- " + name + ", License: " + license(res.metas.get(name))
		if aliasOf := res.features[name].AliasOf; len(aliasOf) > 0 {
			line += ` (required by "` + strings.Join(aliasOf.Sorted(), `", "`) + `")`
		}
		lines = append(lines, line)
	}
	if len(res.unknown) > 0 {
		lines = append(lines, "", "These features were not recognised:")
		for _, name := range res.unknown.Sorted() {
			lines = append(lines, "- "+name)
		}
	}
	if res.all {
		lines = append(lines, "", AllWarning)
	}
	return "/* " + strings.Join(lines, "\n * ") + " */\n\n"
}

func license(meta *catalog.Meta) string {
	if meta == nil || meta.License == "" {
		return defaultLicense
	}
	return meta.License
}

// sourceText is the outcome of one source lookup.
type sourceText struct {
	text string
	err  error
}

// write emits the bundle. Sources are fetched concurrently and all awaited
// before the header is rendered: a feature whose source cannot be read is
// dropped from the body and reported as not recognised.
func (e *Engine) write(ctx context.Context, w io.Writer, res *resolution, p *bundlePlan) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, e.concurrency)
	futures := make([]*async.Future[sourceText], len(p.segments))
	for i, seg := range p.segments {
		futures[i] = async.Async(ctx, seg.name, func(ctx context.Context, name string) (sourceText, error) {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return sourceText{}, ctx.Err()
			}
			defer func() { <-sem }()
			text, err := e.source(ctx, name, p.variant)
			return sourceText{text: text, err: err}, nil
		})
	}

	segments := make([]segment, 0, len(p.segments))
	texts := make([]string, 0, len(p.segments))
	for i, seg := range p.segments {
		src, err := futures[i].AwaitContext(ctx)
		if err != nil {
			return err
		}
		if src.err != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !errors.Is(src.err, catalog.ErrNotFound) {
				res.degraded.Store(true)
			}
			res.unknown.Add(seg.name)
			continue
		}
		segments = append(segments, seg)
		texts = append(texts, src.text)
	}

	order := make([]string, len(segments))
	for i, seg := range segments {
		order[i] = seg.name
	}

	out := &bundleWriter{w: w}
	out.write(e.header(res, p.opts, order))

	if len(segments) > 0 {
		out.write("(function(undefined) {" + p.lf)
		for i, seg := range segments {
			if seg.gated && seg.detect != "" {
				out.write("if (!(" + seg.detect + ")) {" + p.lf)
				out.write(texts[i])
				out.write(p.lf + "}" + p.lf + p.lf)
			} else {
				out.write(texts[i])
			}
			if out.err != nil {
				return out.err
			}
		}
		out.write("})" + p.lf + globalCall + p.lf)
	} else if !p.minify {
		out.write(emptyNotice)
	}

	if p.all {
		out.write("\nconsole.log('" + AllWarning + "');\n")
	}
	if p.callback != "" {
		out.write("\ntypeof " + p.callback + "==='function' && " + p.callback + "();")
	}
	return out.err
}

// bundleWriter keeps the first write error and ignores later writes.
type bundleWriter struct {
	w   io.Writer
	err error
}

func (b *bundleWriter) write(s string) {
	if b.err != nil || s == "" {
		return
	}
	_, b.err = io.WriteString(b.w, s)
}
