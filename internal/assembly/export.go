package assembly

import (
	"sort"

	"rocket-assembler/internal/fin"
	"rocket-assembler/internal/part"
)

// TotalMass sums the mass parameter over the assembly. A fin entry
// describes one fin of the set, so it counts finCount times.
func TotalMass(parts []part.Placed) float64 {
	total := 0.0
	for _, p := range parts {
		m := p.Params.Float(part.ParamMass, 0)
		if p.Kind == part.KindFin {
			m *= float64(p.Params.FinCount())
		}
		total += m
	}
	return total
}

// ExportPart is one row of the flattened assembly handed to downstream
// tools. Front and Aft are long-axis faces; fins report their root edge.
type ExportPart struct {
	ID     string    `json:"id"`
	Kind   part.Kind `json:"type"`
	Label  string    `json:"label"`
	Parent string    `json:"parent,omitempty"`
	Front  float64   `json:"front"`
	Aft    float64   `json:"aft"`
	Radius float64   `json:"radius,omitempty"`
	Mass   float64   `json:"mass"`
	Count  int       `json:"count,omitempty"`
	Placed bool      `json:"placed"`
}

// Flatten lists the assembly ordered from nose to tail.
func Flatten(parts []part.Placed) []ExportPart {
	out := make([]ExportPart, 0, len(parts))
	for _, p := range parts {
		row := ExportPart{
			ID:     p.ID,
			Kind:   p.Kind,
			Label:  p.Label,
			Parent: p.Params.Parent(),
			Front:  p.Front(),
			Aft:    p.Aft(),
			Radius: p.Params.Radius(),
			Mass:   p.Params.Float(part.ParamMass, 0),
			Placed: true,
		}
		if p.Kind == part.KindFin {
			root, _ := fin.EdgeOffsets(p, parts)
			g := fin.GeometryOf(p.Params)
			row.Front = p.Position[0] + root - g.RootChord/2
			row.Aft = row.Front + g.RootChord
			row.Radius = 0
			row.Count = p.Params.FinCount()
			row.Placed = p.IsFinPlaced()
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Front < out[j].Front })
	return out
}
