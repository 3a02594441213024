// Package polyfill resolves feature requests against a polyfill catalog and
// assembles deterministic JavaScript bundles for a given client runtime.
//
// A request names features or aliases, each with optional flags, plus the
// client's runtime identity (a User-Agent string or a "family/version"
// shorthand such as "ie/11"). Resolution runs in fixed stages:
//
//  1. Aliases are expanded recursively into catalog features.
//  2. Features the runtime already supports are dropped.
//  3. Dependencies are added transitively; excluded names are skipped and
//     never explored.
//  4. The compatibility check runs again, because a dependency may be
//     native even when its dependent is not.
//  5. Excluded features are removed.
//  6. Internal helpers ("_"-prefixed) left without a dependent are pruned.
//
// The resulting FeatureSet is ordered so that dependencies come first, with
// ties broken by name, and written inside a closure invoked against the
// global object. Features flagged gated are wrapped in their detection test.
// Identical inputs always produce identical bytes, which is what lets the
// HTTP layer cache bundles by request fingerprint. A backend failure never
// fails a call: the affected feature is reported as not recognised and the
// Body returned by Output reports the bundle as degraded.
//
// # Usage
//
//	local, err := catalog.NewLocalProvider("./polyfills")
//	if err != nil { ... }
//	engine := polyfill.New(local, polyfill.WithLogger(log))
//
//	opts := polyfill.NewOptions()
//	opts.AddFeature("es6")
//	opts.AddFeature("fetch", polyfill.FlagAlways)
//	opts.RuntimeIdentity = r.UserAgent()
//
//	if err := engine.WriteBundle(ctx, w, opts); err != nil {
//	    // only ErrDependencyCycle and cancellation reach here
//	}
//
// # Failure model
//
// Unknown features, missing metadata and backend read failures never fail a
// call: the affected feature is reported in the bundle header and left out.
// A dependency cycle among the resolved features returns ErrDependencyCycle
// before any output is written.
package polyfill
