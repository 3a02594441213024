package runtime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/polyfill/pkg/cache"
)

// shorthand matches the "family/version" identity form.
var shorthand = regexp.MustCompile(`^([a-z_]+)/(\d+(?:[._]\d+){0,2})$`)

// Compiled range expressions. Catalog metadata reuses a small set of
// expressions across thousands of features. Invalid expressions are stored
// as nil.
var constraints = cache.NewLRUCache[string, *semver.Constraints](1024)

// Runtime is a parsed client runtime identity.
type Runtime struct {
	identity string
	family   string
	version  *semver.Version
	unknown  bool
}

// Parse identifies the runtime behind a User-Agent string or a
// "family/version" shorthand. It never fails: unrecognised input yields a
// runtime whose IsUnknown reports true.
func Parse(identity string) Runtime {
	rt, _ := ParseStrict(identity)
	return rt
}

// ParseStrict is Parse that also reports why a runtime is unknown.
func ParseStrict(identity string) (Runtime, error) {
	unknown := Runtime{identity: identity, family: FamilyUnknown, unknown: true}

	trimmed := strings.TrimSpace(identity)
	if trimmed == "" {
		return unknown, ErrEmptyIdentity
	}
	lower := cases.Lower(language.Und).String(trimmed)

	var family, raw string
	if m := shorthand.FindStringSubmatch(lower); m != nil {
		family, raw = m[1], m[2]
	} else {
		family, raw = detect(lower)
	}
	if !IsKnownFamily(family) {
		return unknown, fmt.Errorf("%w: %q", ErrUnrecognized, family)
	}

	v, err := parseVersion(raw)
	if err != nil {
		unknown.family = family
		return unknown, err
	}

	rt := Runtime{identity: identity, family: family, version: v}
	if !rt.Satisfies(baseline[family]) {
		rt.unknown = true
		return rt, fmt.Errorf("%w: %s %s", ErrUnsupportedVersion, family, rt.Version())
	}
	return rt, nil
}

// parseVersion keeps major and minor; patch levels never change which
// polyfills a runtime needs.
func parseVersion(raw string) (*semver.Version, error) {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '.' || r == '_' })
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
	}

	major, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
	}
	var minor uint64
	if len(parts) > 1 {
		minor, err = strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
		}
	}
	return semver.New(major, minor, 0, "", ""), nil
}

// Identity returns the string the runtime was parsed from.
func (r Runtime) Identity() string { return r.identity }

// Family returns the runtime family, or FamilyUnknown.
func (r Runtime) Family() string { return r.family }

// IsUnknown reports whether the runtime could not be identified or is older
// than the family's baseline.
func (r Runtime) IsUnknown() bool { return r.unknown }

// Version returns "major.minor", or an empty string when no version was parsed.
func (r Runtime) Version() string {
	if r.version == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", r.version.Major(), r.version.Minor())
}

// Satisfies reports whether the runtime version is within expr. An empty or
// invalid expression is never satisfied.
func (r Runtime) Satisfies(expr string) bool {
	if r.version == nil {
		return false
	}
	c := constraint(expr)
	if c == nil {
		return false
	}
	return c.Check(r.version)
}

// Normalize returns "family#major#minor".
func (r Runtime) Normalize() string {
	if r.version == nil {
		return r.family + "#0#0"
	}
	return fmt.Sprintf("%s#%d#%d", r.family, r.version.Major(), r.version.Minor())
}

func (r Runtime) String() string {
	if r.version == nil {
		return r.family
	}
	return r.family + "/" + r.Version()
}

func constraint(expr string) *semver.Constraints {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	if c, ok := constraints.Get(expr); ok {
		return c
	}

	normalized := expr
	if lower, ok := strings.CutSuffix(expr, " - *"); ok {
		normalized = ">=" + strings.TrimSpace(lower)
	}
	c, err := semver.NewConstraint(normalized)
	if err != nil {
		c = nil
	}
	constraints.Put(expr, c)
	return c
}
