package catalog

import "sort"

// AliasAll is the pseudo-alias that selects every public feature.
const AliasAll = "all"

// BuildAliases derives the alias table from feature metadata. Members of each
// alias are sorted by name. Internal features are not members of "all".
func BuildAliases(metas map[string]*Meta) map[string][]string {
	names := make([]string, 0, len(metas))
	for name := range metas {
		names = append(names, name)
	}
	sort.Strings(names)

	aliases := map[string][]string{AliasAll: {}}
	for _, name := range names {
		if !IsInternal(name) {
			aliases[AliasAll] = append(aliases[AliasAll], name)
		}
		meta := metas[name]
		if meta == nil {
			continue
		}
		for _, alias := range meta.Aliases {
			if alias == AliasAll || alias == "" {
				continue
			}
			aliases[alias] = append(aliases[alias], name)
		}
	}
	return aliases
}
