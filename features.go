package polyfill

import (
	"maps"
	"slices"
)

// Feature is one entry of a resolved feature set.
type Feature struct {
	// Flags is the union of flags over every path that included the feature.
	Flags Set
	// AliasOf names the aliases and dependent features that caused the
	// inclusion. Entries are never removed.
	AliasOf Set
}

func newFeature() *Feature {
	return &Feature{Flags: Set{}, AliasOf: Set{}}
}

// Clone returns a deep copy of f.
func (f *Feature) Clone() *Feature {
	return &Feature{Flags: f.Flags.Clone(), AliasOf: f.AliasOf.Clone()}
}

// FeatureSet maps canonical feature names to their resolution state. Keys
// are always catalog features, never aliases.
type FeatureSet map[string]*Feature

// Names returns the feature names in lexical order.
func (fs FeatureSet) Names() []string {
	return slices.Sorted(maps.Keys(fs))
}

// Has reports whether name is in the set.
func (fs FeatureSet) Has(name string) bool {
	_, ok := fs[name]
	return ok
}

// Clone returns a deep copy of fs.
func (fs FeatureSet) Clone() FeatureSet {
	c := make(FeatureSet, len(fs))
	for name, f := range fs {
		c[name] = f.Clone()
	}
	return c
}

// entry returns the feature for name, creating it when absent.
func (fs FeatureSet) entry(name string) *Feature {
	f, ok := fs[name]
	if !ok {
		f = newFeature()
		fs[name] = f
	}
	return f
}
