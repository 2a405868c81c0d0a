package catalog

import (
	"reflect"

	"rocket-assembler/internal/part"
)

// Reconcile refreshes the catalog fields of every placed part whose id has
// an entry in the new revision. Placement fields are kept, parts without a
// matching entry are kept unchanged, and nothing is added or removed.
// Returns the new slice and the number of refreshed parts.
func Reconcile(parts []part.Placed, entries []part.CatalogEntry) ([]part.Placed, int) {
	byID := make(map[string]part.CatalogEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	out := make([]part.Placed, len(parts))
	refreshed := 0
	for i, p := range parts {
		out[i] = p.Clone()
		entry, ok := byID[p.ID]
		if !ok || reflect.DeepEqual(entry, p.CatalogEntry) {
			continue
		}
		out[i].Refresh(entry)
		refreshed++
	}
	return out, refreshed
}
