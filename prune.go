package polyfill

import "github.com/dmitrymomot/polyfill/pkg/catalog"

// pruneAbstract removes internal features that nothing left in the set
// depends on and that were not requested, directly or through an alias.
// Each pass removes every such feature at once and the loop stops at the
// first pass that removes nothing.
func pruneAbstract(res *resolution) {
	for {
		required := NewSet()
		for name := range res.features {
			meta := res.metas.get(name)
			if meta == nil {
				continue
			}
			for _, dep := range meta.Dependencies {
				if dep != name {
					required.Add(dep)
				}
			}
		}

		var orphans []string
		for name, f := range res.features {
			if !catalog.IsInternal(name) || required.Has(name) {
				continue
			}
			if res.requested.Has(name) || f.AliasOf.Intersects(res.requested) {
				continue
			}
			orphans = append(orphans, name)
		}
		if len(orphans) == 0 {
			return
		}
		for _, name := range orphans {
			delete(res.features, name)
		}
	}
}
