// Package catalog loads component catalogs and reconciles placed parts
// against catalog revisions.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"rocket-assembler/internal/part"
)

// Library is an ordered set of catalog entries keyed by id.
type Library struct {
	Entries []part.CatalogEntry `json:"parts" yaml:"parts"`
}

// NewLibrary creates a library from entries. Later duplicates replace
// earlier ones; entries without an id are dropped.
func NewLibrary(entries []part.CatalogEntry) *Library {
	lib := &Library{Entries: make([]part.CatalogEntry, 0, len(entries))}
	for _, e := range entries {
		lib.Add(e)
	}
	return lib
}

// Add adds or replaces an entry.
func (lib *Library) Add(entry part.CatalogEntry) {
	if strings.TrimSpace(entry.ID) == "" {
		return
	}
	for i, e := range lib.Entries {
		if e.ID == entry.ID {
			lib.Entries[i] = entry.Clone()
			return
		}
	}
	lib.Entries = append(lib.Entries, entry.Clone())
}

// Get returns an entry by exact id.
func (lib *Library) Get(id string) (part.CatalogEntry, bool) {
	for _, e := range lib.Entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return part.CatalogEntry{}, false
}

// Visible returns entries that can be dropped directly, sorted by label.
// Internal entries only arrive through auto-nesting.
func (lib *Library) Visible() []part.CatalogEntry {
	var out []part.CatalogEntry
	for _, e := range lib.Entries {
		if !e.Internal {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}

// All returns a copy of every entry.
func (lib *Library) All() []part.CatalogEntry {
	out := make([]part.CatalogEntry, len(lib.Entries))
	for i, e := range lib.Entries {
		out[i] = e.Clone()
	}
	return out
}

// Parse decodes a catalog document. YAML is a superset of JSON, so one
// decoder serves both; the document is either {"parts": [...]} or a bare
// list of entries.
func Parse(data []byte) (*Library, error) {
	var doc struct {
		Parts []part.CatalogEntry `yaml:"parts"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Parts != nil {
		return NewLibrary(doc.Parts), nil
	}

	var entries []part.CatalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cannot parse catalog: %w", err)
	}
	return NewLibrary(entries), nil
}

// LoadFile reads a catalog from a YAML or JSON file.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog: %w", err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// SaveFile writes the library, as JSON for .json paths and YAML otherwise.
func (lib *Library) SaveFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(lib, "", "  ")
	} else {
		data, err = yaml.Marshal(lib)
	}
	if err != nil {
		return fmt.Errorf("cannot serialize catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write catalog: %w", err)
	}
	return nil
}
