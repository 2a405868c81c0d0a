package part

import (
	"rocket-assembler/pkg/geometry"
)

// CatalogEntry is an immutable component definition from the upstream catalog.
type CatalogEntry struct {
	ID       string `json:"id" yaml:"id"`
	Kind     Kind   `json:"type" yaml:"type"`
	Label    string `json:"label" yaml:"label"`
	Params   Params `json:"params,omitempty" yaml:"params,omitempty"`
	Internal bool   `json:"internal,omitempty" yaml:"internal,omitempty"`
}

// Clone returns a copy that shares nothing mutable with e.
func (e CatalogEntry) Clone() CatalogEntry {
	e.Params = e.Params.Clone()
	return e
}

// Placed is a catalog entry plus its placement in the assembly.
// Position is logical: [long axis, lateral-1, lateral-2].
type Placed struct {
	CatalogEntry

	Position    geometry.Vec3 `json:"position"`
	Rotation    geometry.Vec3 `json:"rotation"`
	FlipLong    bool          `json:"flipLong"`
	FlipLateral bool          `json:"flipLateral"`
	FlipRoll    bool          `json:"flipRoll"`

	// Fins only.
	FinOffsets []geometry.Point2D `json:"finOffsets,omitempty"`
	FinPlaced  *bool              `json:"finPlaced,omitempty"`
}

// NewPlaced seeds a placed part from a catalog entry.
func NewPlaced(entry CatalogEntry, position geometry.Vec3) Placed {
	p := Placed{
		CatalogEntry: entry.Clone(),
		Position:     position,
	}
	p.normalizeFinState()
	return p
}

// normalizeFinState keeps FinPlaced present exactly for fins.
func (p *Placed) normalizeFinState() {
	if p.Kind == KindFin {
		if p.FinPlaced == nil {
			placed := false
			p.FinPlaced = &placed
		}
		return
	}
	p.FinPlaced = nil
	p.FinOffsets = nil
}

// Refresh replaces the catalog fields and keeps the placement.
func (p *Placed) Refresh(entry CatalogEntry) {
	p.CatalogEntry = entry.Clone()
	p.normalizeFinState()
}

// Clone returns a deep copy.
func (p Placed) Clone() Placed {
	p.CatalogEntry = p.CatalogEntry.Clone()
	if p.FinOffsets != nil {
		offsets := make([]geometry.Point2D, len(p.FinOffsets))
		copy(offsets, p.FinOffsets)
		p.FinOffsets = offsets
	}
	if p.FinPlaced != nil {
		v := *p.FinPlaced
		p.FinPlaced = &v
	}
	return p
}

// IsFinPlaced reports whether a fin's final placement was confirmed.
func (p Placed) IsFinPlaced() bool {
	return p.FinPlaced != nil && *p.FinPlaced
}

// Length returns the axial length.
func (p Placed) Length() float64 { return p.Params.Length() }

// Front returns the long-axis position of the forward face.
func (p Placed) Front() float64 { return p.Position[0] }

// Aft returns the long-axis position of the aft face.
func (p Placed) Aft() float64 { return p.Position[0] + p.Length() }

// CloneAll deep-copies a slice of placed parts.
func CloneAll(parts []Placed) []Placed {
	if parts == nil {
		return nil
	}
	out := make([]Placed, len(parts))
	for i, p := range parts {
		out[i] = p.Clone()
	}
	return out
}
