package catalog

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
)

// MemoryProvider is an in-process catalog. It backs tests and small embedded
// catalogs, and accepts publisher writes.
type MemoryProvider struct {
	mu      sync.RWMutex
	metas   map[string]*Meta
	sources map[string]map[Variant]string
	aliases map[string][]string
}

// NewMemoryProvider returns an empty catalog.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		metas:   make(map[string]*Meta),
		sources: make(map[string]map[Variant]string),
		aliases: make(map[string][]string),
	}
}

// Add stores a feature. A nil meta is stored as empty metadata.
func (p *MemoryProvider) Add(name string, meta *Meta, raw, minified string) *MemoryProvider {
	if meta == nil {
		meta = &Meta{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metas[name] = meta.Clone()
	p.sources[name] = map[Variant]string{VariantRaw: raw, VariantMin: minified}
	return p
}

// SetAlias defines or replaces an explicit alias. Explicit aliases take
// precedence over those derived from metadata.
func (p *MemoryProvider) SetAlias(name string, members ...string) *MemoryProvider {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.aliases[name] = slices.Clone(members)
	return p
}

func (p *MemoryProvider) Meta(_ context.Context, name string) (*Meta, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	meta, ok := p.metas[name]
	if !ok {
		return nil, ErrNotFound
	}
	return meta.Clone(), nil
}

func (p *MemoryProvider) Source(_ context.Context, name string, variant Variant) (string, error) {
	if !variant.Valid() {
		return "", ErrInvalidVariant
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	sources, ok := p.sources[name]
	if !ok {
		return "", ErrNotFound
	}
	return sources[variant], nil
}

func (p *MemoryProvider) Aliases(context.Context) (map[string][]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	aliases := BuildAliases(p.metas)
	for name, members := range p.aliases {
		aliases[name] = slices.Clone(members)
	}
	return aliases, nil
}

func (p *MemoryProvider) Names(context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := slices.Collect(maps.Keys(p.metas))
	sort.Strings(names)
	return names, nil
}

func (p *MemoryProvider) WriteRecords(_ context.Context, records []Record) error {
	for _, r := range records {
		p.Add(r.Name, r.Meta, r.Raw, r.Min)
	}
	return nil
}

func (p *MemoryProvider) WriteAliases(_ context.Context, aliases map[string][]string) error {
	for name, members := range aliases {
		p.SetAlias(name, members...)
	}
	return nil
}
