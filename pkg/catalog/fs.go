package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/dmitrymomot/polyfill/pkg/async"
)

// File names inside a feature directory.
const (
	aliasesFile = "aliases.json"
	rawFile     = "raw.js"
	minFile     = "min.js"
)

var metaFiles = []string{"meta.json", "meta.yaml", "meta.yml"}

// FSProvider reads a catalog laid out as one directory per feature:
//
//	Array.from/meta.json
//	Array.from/raw.js
//	Array.from/min.js
//	aliases.json        (optional)
//
// Without aliases.json the alias table is derived from every feature's
// metadata.
type FSProvider struct {
	fsys fs.FS
}

// NewFSProvider wraps any fs.FS, typically an embed.FS or fstest.MapFS.
func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys}
}

// NewLocalProvider reads a catalog from a directory on disk.
func NewLocalProvider(dir string) (*FSProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Join(ErrCatalogNotFound, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCatalogNotFound, dir)
	}
	return NewFSProvider(os.DirFS(dir)), nil
}

func (p *FSProvider) Meta(_ context.Context, name string) (*Meta, error) {
	if err := validateName(name); err != nil {
		return nil, errors.Join(ErrNotFound, err)
	}
	for _, file := range metaFiles {
		data, err := fs.ReadFile(p.fsys, name+"/"+file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Join(ErrBackendFailure, err)
		}
		return DecodeMeta(data)
	}
	return nil, ErrNotFound
}

func (p *FSProvider) Source(_ context.Context, name string, variant Variant) (string, error) {
	if err := validateName(name); err != nil {
		return "", errors.Join(ErrNotFound, err)
	}
	var file string
	switch variant {
	case VariantRaw:
		file = rawFile
	case VariantMin:
		file = minFile
	default:
		return "", ErrInvalidVariant
	}

	data, err := fs.ReadFile(p.fsys, name+"/"+file)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Join(ErrBackendFailure, err)
	}
	return string(data), nil
}

// Names lists every directory that holds a metadata file.
func (p *FSProvider) Names(context.Context) ([]string, error) {
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return nil, errors.Join(ErrBackendFailure, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, file := range metaFiles {
			if _, err := fs.Stat(p.fsys, entry.Name()+"/"+file); err == nil {
				names = append(names, entry.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *FSProvider) Aliases(ctx context.Context) (map[string][]string, error) {
	data, err := fs.ReadFile(p.fsys, aliasesFile)
	switch {
	case err == nil:
		return DecodeAliases(data)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, errors.Join(ErrBackendFailure, err)
	}

	names, err := p.Names(ctx)
	if err != nil {
		return nil, err
	}
	// Features with unreadable metadata are left out of every alias.
	metas, err := async.Map(ctx, async.DefaultLimit, names, func(ctx context.Context, name string) (*Meta, error) {
		meta, err := p.Meta(ctx, name)
		if errors.Is(err, ErrInvalidMeta) || errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return meta, err
	})
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Meta, len(names))
	for i, name := range names {
		if metas[i] != nil {
			byName[name] = metas[i]
		}
	}
	return BuildAliases(byName), nil
}
