// Package backend opens the catalog store selected by CATALOG_BACKEND.
//
// Supported kinds are "local" (a directory of feature folders), "s3",
// "redis", "postgres" and "mongo". The configuration of a network store is
// read only when that store is selected, so a local deployment needs no
// database variables at all.
//
//	var cfg backend.Config
//	config.MustLoad(&cfg)
//	b, err := backend.Open(ctx, cfg, log)
//	if err != nil { ... }
//	defer b.Close(context.Background())
//
//	engine := polyfill.New(b.Provider)
//
// Open wraps network stores in a catalog.Cache; Writer is the raw store and
// is nil for the local kind, which is read-only.
package backend
