package polyfill

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/polyfill/pkg/catalog"
	"github.com/dmitrymomot/polyfill/pkg/logger"
)

// resolution is the outcome of the resolve pipeline for one call.
type resolution struct {
	features  FeatureSet
	metas     *metaTable
	requested Set
	unknown   Set
	all       bool
	// degraded is set when a backend failure, rather than the catalog's
	// contents, decided part of the outcome.
	degraded atomic.Bool
}

// resolve runs alias expansion, the first compatibility pass, dependency
// expansion, the second compatibility pass, exclusion and pruning. opts
// must already be normalised.
func (e *Engine) resolve(ctx context.Context, opts Options) (*resolution, error) {
	start := time.Now()
	rt := e.Runtime(opts.RuntimeIdentity)
	excludes := NewSet(opts.Excludes...)

	res := &resolution{
		requested: NewSet(opts.RequestedNames()...),
		unknown:   NewSet(),
	}
	res.metas = e.newMetaTable(&res.degraded)
	res.all = res.requested.Has(catalog.AliasAll)

	var aliasFailed bool
	res.features, aliasFailed = e.expandAliases(ctx, opts.Features)
	if aliasFailed {
		res.degraded.Store(true)
	}

	stages := []func(context.Context) error{
		func(ctx context.Context) error {
			return e.filterCompatible(ctx, res, rt, opts.Unknown)
		},
		func(ctx context.Context) error {
			return e.expandDependencies(ctx, res, excludes)
		},
		func(ctx context.Context) error {
			return e.filterCompatible(ctx, res, rt, opts.Unknown)
		},
		func(context.Context) error {
			for name := range excludes {
				delete(res.features, name)
			}
			return nil
		},
		func(context.Context) error {
			pruneAbstract(res)
			return nil
		},
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stage(ctx); err != nil {
			return nil, err
		}
	}

	e.log.DebugContext(ctx, "resolved features",
		logger.Runtime(opts.RuntimeIdentity),
		logger.Count("requested", len(res.requested)),
		logger.Count("resolved", len(res.features)),
		logger.Count("unknown", len(res.unknown)),
		slog.Bool("degraded", res.degraded.Load()),
		logger.Duration(time.Since(start)),
	)
	return res, nil
}
