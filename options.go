package polyfill

import (
	"regexp"
	"strings"
)

// UnknownPolicy decides what an unidentifiable runtime receives.
type UnknownPolicy string

const (
	// UnknownPolyfill serves every requested feature behind its detection test.
	UnknownPolyfill UnknownPolicy = "polyfill"
	// UnknownIgnore serves nothing that the runtime does not provably need.
	UnknownIgnore UnknownPolicy = "ignore"
)

// ParseUnknownPolicy maps s onto a policy. Unrecognised values degrade to
// UnknownPolyfill.
func ParseUnknownPolicy(s string) UnknownPolicy {
	if UnknownPolicy(strings.ToLower(strings.TrimSpace(s))) == UnknownIgnore {
		return UnknownIgnore
	}
	return UnknownPolyfill
}

var callbackPattern = regexp.MustCompile(`^[\w.]+$`)

// ValidCallback reports whether name is an acceptable callback identifier.
func ValidCallback(name string) bool {
	return callbackPattern.MatchString(name)
}

// Options controls one resolution or bundle call. Start from NewOptions to
// get the documented defaults; the zero value disables minification.
type Options struct {
	// Features maps requested feature or alias names to their flags.
	Features map[string]Set
	// Excludes lists features that must never be emitted.
	Excludes []string
	// RuntimeIdentity is a User-Agent string or a "family/version" shorthand.
	RuntimeIdentity string
	Unknown         UnknownPolicy
	Minify          bool
	// Callback is invoked after the bundle runs. Invalid identifiers are dropped.
	Callback string
	// Stream selects the incremental writer in Engine.Output.
	Stream bool
}

// NewOptions returns options with defaults applied: no features, unknown
// policy "polyfill", minified output.
func NewOptions() Options {
	return Options{
		Features: make(map[string]Set),
		Unknown:  UnknownPolyfill,
		Minify:   true,
	}
}

// AddFeature requests name with the given flags, merging with any flags
// already requested for it.
func (o *Options) AddFeature(name string, flags ...string) {
	if name == "" {
		return
	}
	if o.Features == nil {
		o.Features = make(map[string]Set)
	}
	if existing, ok := o.Features[name]; ok && existing != nil {
		existing.Add(flags...)
		return
	}
	o.Features[name] = NewSet(flags...)
}

// Exclude adds names to the exclude list.
func (o *Options) Exclude(names ...string) {
	for _, name := range names {
		if name != "" {
			o.Excludes = append(o.Excludes, name)
		}
	}
}

// RequestedNames returns the requested names in lexical order.
func (o Options) RequestedNames() []string {
	names := NewSet()
	for name := range o.Features {
		names.Add(name)
	}
	return names.Sorted()
}

// normalize returns a copy the engine can own: flag sets are fresh, the
// unknown policy is valid and an invalid callback is cleared.
func (o Options) normalize() Options {
	n := o
	n.Features = make(map[string]Set, len(o.Features))
	for name, flags := range o.Features {
		if name == "" {
			continue
		}
		n.Features[name] = flags.Clone()
	}
	n.Excludes = NewSet(o.Excludes...).Sorted()
	n.Unknown = ParseUnknownPolicy(string(o.Unknown))
	if !ValidCallback(o.Callback) {
		n.Callback = ""
	}
	return n
}
