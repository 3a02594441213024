// Package fingerprint derives short deterministic keys from ordered parts.
//
// The polyfill server fingerprints the normalised bundle request (features,
// flags, excludes, runtime family and version, unknown policy, minify,
// callback) and uses the result both as the response-cache key and as the
// weak ETag. Two requests that resolve to the same normalised options share
// one cached bundle, however differently their query strings were spelled.
//
// # Usage
//
//	key := fingerprint.Generate(
//	    "version=1.4.0",
//	    "features=Array.from,Promise|gated",
//	    "runtime=chrome#45#0",
//	    "minify=true",
//	)
//	etag := `W/"` + key + `"`
//
// Callers are responsible for canonical input: sort sets and normalise
// values before passing them in. The server's cacheKey does this for
// features, flags and excludes and passes the runtime through
// runtime.Normalize, so "chrome/45" and a full Chrome 45 user agent map to
// the same key.
//
// Validate recomputes a fingerprint and compares it:
//
//	if fingerprint.Validate(key, parts...) {
//	    // unchanged
//	}
//
// # Format
//
// Parts are length-prefixed before hashing so that ("ab", "c") and
// ("a", "bc") never collide. The result is the first 16 bytes of a SHA-256
// digest in lowercase hex, Size characters long. The value is stable across
// processes and releases of this package, which makes it safe to hand out as
// an ETag.
//
// # Performance
//
// Generate allocates one hash state and one output string; it is cheap
// enough to run on every request, including requests answered with 304.
package fingerprint
