// Package runtime identifies the client runtime a polyfill bundle is built for
// and answers version-range questions about it.
//
// A runtime identity is either a full User-Agent header or the shorthand
// "family/version" form (for example "chrome/45" or "ios_saf/9.3"). Parse maps
// both onto one of the runtime families used by catalog metadata (chrome,
// firefox, safari, ios_saf, ie, edge, opera, samsung_mob and so on) and keeps
// the major.minor version.
//
// A runtime is unknown when its family cannot be detected, when its version is
// unparseable, or when the version predates the family's baseline support. The
// polyfill engine treats unknown runtimes according to the caller's unknown
// policy.
//
// # Usage
//
//	rt := runtime.Parse(r.Header.Get("User-Agent"))
//	if !rt.IsUnknown() && rt.Satisfies("<10") {
//	    // the runtime needs the polyfill
//	}
//
// Version ranges use the expression syntax of
// github.com/Masterminds/semver/v3 ("<10", ">=4", "6 - 13", "*"), extended
// with the open-ended "10 - *" form found in catalog metadata.
//
// Normalize returns the "family#major#minor" key used when fingerprinting
// requests, so different User-Agent strings of the same runtime share a cache
// entry.
package runtime
