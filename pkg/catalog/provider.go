package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
)

// Variant selects the human-readable or minified implementation text.
type Variant string

const (
	VariantRaw Variant = "raw"
	VariantMin Variant = "min"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantRaw || v == VariantMin
}

// Provider supplies feature metadata, implementation text and the alias table.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Meta returns ErrNotFound when the feature is not in the catalog.
	Meta(ctx context.Context, name string) (*Meta, error)
	// Source returns ErrNotFound when the feature or variant is missing.
	Source(ctx context.Context, name string, variant Variant) (string, error)
	Aliases(ctx context.Context) (map[string][]string, error)
}

// Lister enumerates every feature of a catalog.
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}

// Record is one feature as written by the publisher.
type Record struct {
	Name string
	Meta *Meta
	Raw  string
	Min  string
}

// Writer is the write side of a network backend.
type Writer interface {
	WriteRecords(ctx context.Context, records []Record) error
	WriteAliases(ctx context.Context, aliases map[string][]string) error
}

// validateName rejects names that cannot be mapped onto a key or path safely.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || !fs.ValidPath(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
