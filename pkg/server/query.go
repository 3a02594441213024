package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/polyfill"
	"github.com/dmitrymomot/polyfill/pkg/fingerprint"
	"github.com/dmitrymomot/polyfill/pkg/runtime"
)

const defaultFeatures = "default"

var stripFeatureChars = strings.NewReplacer("*", "", "/", "")

// parseOptions maps a bundle request onto engine options.
func parseOptions(r *http.Request) polyfill.Options {
	q := r.URL.Query()
	opts := polyfill.NewOptions()
	opts.Minify = strings.HasSuffix(r.URL.Path, ".min.js")

	features := q.Get("features")
	if features == "" {
		features = defaultFeatures
	}
	globalFlags := splitList(q.Get("flags"))
	for _, entry := range splitList(features) {
		entry = stripFeatureChars.Replace(entry)
		name, flags, _ := strings.Cut(entry, "|")
		if name == "" {
			continue
		}
		opts.AddFeature(name, globalFlags...)
		if flags != "" {
			opts.AddFeature(name, strings.Split(flags, "|")...)
		}
	}

	opts.Exclude(splitList(q.Get("excludes"))...)
	opts.Unknown = polyfill.ParseUnknownPolicy(q.Get("unknown"))
	if cb := q.Get("callback"); polyfill.ValidCallback(cb) {
		opts.Callback = cb
	}

	opts.RuntimeIdentity = r.Header.Get("User-Agent")
	if ua := q.Get("ua"); ua != "" {
		opts.RuntimeIdentity = ua
	}
	return opts
}

func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// cacheKey fingerprints everything that shapes the bundle. The runtime is
// reduced to family, major and minor version so equivalent user agents share
// one entry.
func cacheKey(opts polyfill.Options, version string) string {
	parts := make([]string, 0, len(opts.Features)+8)
	parts = append(parts, version)
	for _, name := range opts.RequestedNames() {
		parts = append(parts, name+"|"+strings.Join(opts.Features[name].Sorted(), "|"))
	}
	parts = append(parts,
		"excludes="+strings.Join(polyfill.NewSet(opts.Excludes...).Sorted(), ","),
		"callback="+opts.Callback,
		"unknown="+string(polyfill.ParseUnknownPolicy(string(opts.Unknown))),
		"minify="+strconv.FormatBool(opts.Minify),
		"runtime="+runtime.Parse(opts.RuntimeIdentity).Normalize(),
	)
	return fingerprint.Generate(parts...)
}

func etag(key string) string {
	return `W/"` + key + `"`
}

// etagMatches reports whether the If-None-Match header lists tag.
func etagMatches(header, tag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag || "W/"+candidate == tag {
			return true
		}
	}
	return false
}
