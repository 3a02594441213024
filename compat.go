package polyfill

import (
	"context"

	"github.com/dmitrymomot/polyfill/pkg/catalog"
)

// filterCompatible drops every feature the runtime does not need. A feature
// stays when its range for the runtime family is satisfied, when it is
// flagged always, or when the runtime is unknown under UnknownPolyfill, in
// which case it is also flagged gated. Features without metadata are
// dropped and recorded as unknown.
func (e *Engine) filterCompatible(ctx context.Context, res *resolution, rt Runtime, policy UnknownPolicy) error {
	names := res.features.Names()
	if err := res.metas.load(ctx, names); err != nil {
		return err
	}

	unknownOverride := policy == UnknownPolyfill && rt.IsUnknown()
	for _, name := range names {
		meta := res.metas.get(name)
		if meta == nil {
			delete(res.features, name)
			res.unknown.Add(name)
			continue
		}

		f := res.features[name]
		if unknownOverride {
			f.Flags.Add(FlagGated)
		}
		if !needsPolyfill(meta, f, rt) && !unknownOverride {
			delete(res.features, name)
		}
	}
	return nil
}

func needsPolyfill(meta *catalog.Meta, f *Feature, rt Runtime) bool {
	if expr, ok := meta.Browsers[rt.Family()]; ok && rt.Satisfies(expr) {
		return true
	}
	return f.Flags.Has(FlagAlways)
}
