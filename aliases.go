package polyfill

import (
	"context"
	"maps"
	"slices"
)

// expandAliases replaces alias names in requested with their members. A
// member's AliasOf records the alias and every enclosing alias, and it
// inherits the flags of the requesting entry. failed reports that the alias
// table could not be read, in which case every name is taken literally.
func (e *Engine) expandAliases(ctx context.Context, requested map[string]Set) (_ FeatureSet, failed bool) {
	table, failed := e.aliasTable(ctx)
	out := make(FeatureSet, len(requested))
	expanding := NewSet()

	for _, name := range slices.Sorted(maps.Keys(requested)) {
		expandAlias(table, name, requested[name], nil, expanding, out)
	}
	return out, failed
}

// expandAlias adds name, or the members of alias name, to out. expanding
// holds the aliases on the current path; meeting one of them again, either
// through a self-including alias or an alias listing its own name as a
// member, treats the name as a plain feature.
func expandAlias(table map[string][]string, name string, flags Set, path []string, expanding Set, out FeatureSet) {
	members, isAlias := table[name]
	if isAlias && !expanding.Has(name) {
		expanding.Add(name)
		defer delete(expanding, name)

		chain := append(path[:len(path):len(path)], name)
		for _, member := range members {
			expandAlias(table, member, flags, chain, expanding, out)
		}
		return
	}

	f := out.entry(name)
	f.Flags.Union(flags)
	for _, alias := range path {
		if alias != name {
			f.AliasOf.Add(alias)
		}
	}
}
