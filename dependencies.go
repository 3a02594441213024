package polyfill

import (
	"context"
	"sort"
)

// expandDependencies adds the transitive dependencies of every feature in
// the set, one breadth-first layer at a time. Excluded names are neither
// added nor explored, so an excluded feature pulls nothing in. A
// dependency's AliasOf gains each feature that directly depends on it.
// Features without metadata have no dependencies and are recorded unknown.
func (e *Engine) expandDependencies(ctx context.Context, res *resolution, excludes Set) error {
	for name := range excludes {
		delete(res.features, name)
	}

	frontier := res.features.Names()
	visited := NewSet(frontier...)
	for len(frontier) > 0 {
		if err := res.metas.load(ctx, frontier); err != nil {
			return err
		}

		var next []string
		for _, name := range frontier {
			meta := res.metas.get(name)
			if meta == nil {
				res.unknown.Add(name)
				continue
			}
			for _, dep := range meta.Dependencies {
				if dep == "" || dep == name || excludes.Has(dep) {
					continue
				}
				res.features.entry(dep).AliasOf.Add(name)
				if !visited.Has(dep) {
					visited.Add(dep)
					next = append(next, dep)
				}
			}
		}
		sort.Strings(next)
		frontier = next
	}

	propagateFlags(res)
	return nil
}

// propagateFlags pushes every feature's flags down to its dependencies
// until nothing changes, so flags are the union over all inclusion paths.
func propagateFlags(res *resolution) {
	names := res.features.Names()
	for changed := true; changed; {
		changed = false
		for _, name := range names {
			meta := res.metas.get(name)
			if meta == nil {
				continue
			}
			flags := res.features[name].Flags
			for _, dep := range meta.Dependencies {
				if d, ok := res.features[dep]; ok && d.Flags.Union(flags) {
					changed = true
				}
			}
		}
	}
}
