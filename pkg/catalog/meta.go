package catalog

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta describes one catalog feature.
type Meta struct {
	// Dependencies lists features that must be emitted before this one.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" bson:"dependencies,omitempty"`
	// Browsers maps a runtime family to the version range that needs the polyfill.
	Browsers     map[string]string `json:"browsers,omitempty" yaml:"browsers,omitempty" bson:"browsers,omitempty"`
	DetectSource string            `json:"detectSource,omitempty" yaml:"detectSource,omitempty" bson:"detectSource,omitempty"`
	License      string            `json:"license,omitempty" yaml:"license,omitempty" bson:"license,omitempty"`
	// Aliases lists the alias groups this feature belongs to, besides "all".
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" bson:"aliases,omitempty"`
	Spec    string   `json:"spec,omitempty" yaml:"spec,omitempty" bson:"spec,omitempty"`
	Docs    string   `json:"docs,omitempty" yaml:"docs,omitempty" bson:"docs,omitempty"`
}

// Clone returns a deep copy of m.
func (m *Meta) Clone() *Meta {
	if m == nil {
		return nil
	}
	c := *m
	c.Dependencies = slices.Clone(m.Dependencies)
	c.Aliases = slices.Clone(m.Aliases)
	c.Browsers = maps.Clone(m.Browsers)
	return &c
}

// IsInternal reports whether name denotes an internal helper feature.
func IsInternal(name string) bool {
	return strings.HasPrefix(name, "_")
}

// DecodeMeta parses feature metadata in YAML or JSON form.
func DecodeMeta(data []byte) (*Meta, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.Join(ErrInvalidMeta, errors.New("empty document"))
	}
	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Join(ErrInvalidMeta, err)
	}
	return &m, nil
}

// EncodeMeta serialises metadata as JSON, the form network backends store.
func EncodeMeta(m *Meta) ([]byte, error) {
	if m == nil {
		return nil, ErrInvalidMeta
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Join(ErrInvalidMeta, err)
	}
	return data, nil
}

// DecodeAliases parses an alias table in YAML or JSON form.
func DecodeAliases(data []byte) (map[string][]string, error) {
	aliases := map[string][]string{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return aliases, nil
	}
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, errors.Join(ErrInvalidAliases, err)
	}
	return aliases, nil
}
