package polyfill

import (
	"maps"
	"slices"
)

// Recognised feature flags.
const (
	// FlagAlways includes a feature whatever the runtime.
	FlagAlways = "always"
	// FlagGated wraps a feature in its detection test.
	FlagGated = "gated"
)

// Set is an unordered set of strings, used for flags and provenance.
type Set map[string]struct{}

// NewSet returns a set holding items. Empty strings are skipped.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	s.Add(items...)
	return s
}

// Add inserts items, skipping empty strings.
func (s Set) Add(items ...string) {
	for _, item := range items {
		if item != "" {
			s[item] = struct{}{}
		}
	}
}

// Has reports whether item is in s.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Union adds every member of other to s and reports whether s grew.
func (s Set) Union(other Set) bool {
	grew := false
	for item := range other {
		if _, ok := s[item]; !ok {
			s[item] = struct{}{}
			grew = true
		}
	}
	return grew
}

// Intersects reports whether s and other share a member.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for item := range small {
		if large.Has(item) {
			return true
		}
	}
	return false
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns a copy of s. The copy of a nil set is empty, not nil.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	maps.Copy(c, s)
	return c
}
