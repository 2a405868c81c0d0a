// Package fin resolves where a fin sits around its parent body: its roll
// angle and the logical positions of its root and tip chord centres.
//
// A fin's logical position is the leading edge of its root chord, on the
// parent body's axis. The flat fin shape lives in a local frame with x along
// the chord (aft positive) and y along the span; a fixed surface transform
// lifts it to the body radius, and the fin's own placement transform rolls
// and moves it into the assembly.
package fin

import (
	"math"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// RollEpsilon is the lateral offset below which a fin is considered to sit
// on its body's axis.
const RollEpsilon = 1e-6

// Geometry is the planar fin shape.
type Geometry struct {
	RootChord float64
	TipChord  float64
	Span      float64
	Sweep     float64
}

// GeometryOf reads the fin shape from a parameter bag.
func GeometryOf(p part.Params) Geometry {
	return Geometry{
		RootChord: p.Float(part.ParamRootChord, 0),
		TipChord:  p.Float(part.ParamTipChord, 0),
		Span:      p.Float(part.ParamSpan, 0),
		Sweep:     p.Float(part.ParamSweep, 0),
	}
}

// RootCenterLocal is the root-chord midpoint in the local fin frame.
func (g Geometry) RootCenterLocal() geometry.Vec3 {
	return geometry.V3(g.RootChord/2, 0, 0)
}

// TipCenterLocal is the tip-chord midpoint in the local fin frame.
func (g Geometry) TipCenterLocal() geometry.Vec3 {
	return geometry.V3(g.Sweep+g.TipChord/2, g.Span, 0)
}

// BasePhase is the default roll of a fin: half a turn for fins declared
// relative to the bottom, plus the declared rotation.
func BasePhase(fin part.Placed) float64 {
	phase := 0.0
	if fin.Params.RelativePosition() == "bottom" {
		phase = math.Pi
	}
	return phase + fin.Params.Float(part.ParamRotation, 0)*math.Pi/180
}

func isBody(p part.Placed) bool { return p.Kind == part.KindBody }

// PreferredBody returns the index of the body a fin is mounted to: its
// resolved parent if that is a placed body, else the first body, else -1.
func PreferredBody(fin part.Placed, parts []part.Placed) int {
	if i := part.Resolve(fin.Params.Parent(), parts, part.NewIndex(parts), isBody); i >= 0 {
		return i
	}
	for i, p := range parts {
		if isBody(p) {
			return i
		}
	}
	return -1
}

// ComputeRoll returns the fin's roll about the long axis. A fin resting on
// the body axis uses its base phase; one dragged off-axis points radially
// toward its lateral offset.
func ComputeRoll(fin part.Placed, parts []part.Placed) float64 {
	bi := PreferredBody(fin, parts)
	if bi < 0 {
		return BasePhase(fin)
	}
	body := parts[bi]
	dy := fin.Position[1] - body.Position[1]
	dz := fin.Position[2] - body.Position[2]
	if math.Hypot(dy, dz) < RollEpsilon {
		return BasePhase(fin)
	}
	return math.Atan2(dz, dy)
}

// Translate moves a fin by delta without changing its orientation. The
// roll change caused by the new lateral offset is folded back into the
// rotation, so every point of the fin, edge centres included, moves by
// exactly delta.
func Translate(fin part.Placed, delta geometry.Vec3, parts []part.Placed) (position, rotation geometry.Vec3) {
	before := ComputeRoll(fin, parts)
	moved := fin
	moved.Position = fin.Position.Add(delta)
	after := ComputeRoll(moved, parts)
	if before == after {
		return moved.Position, fin.Rotation
	}
	orientation := geometry.EulerXYZ(fin.Rotation).Mul(geometry.RotateX(before - after))
	return moved.Position, orientation.Angles()
}

// BodyRadius returns the radius of the fin's preferred body, or 0.
func BodyRadius(fin part.Placed, parts []part.Placed) float64 {
	if bi := PreferredBody(fin, parts); bi >= 0 {
		return parts[bi].Params.Radius()
	}
	return 0
}

// surface lifts the local fin shape onto the body surface and applies the
// long/lateral mirrors around the root chord centre.
func surface(g Geometry, radius float64, flipLong, flipLateral bool) geometry.Transform3 {
	sx, sz := 1.0, 1.0
	if flipLong {
		sx = -1
	}
	if flipLateral {
		sz = -1
	}
	centre := g.RootCenterLocal()
	mirror := geometry.Translate3(centre).
		Mul(geometry.Scale3(sx, 1, sz)).
		Mul(geometry.Translate3(centre.Scale(-1)))
	return geometry.Translate3(geometry.V3(0, radius, 0)).Mul(mirror)
}

// Transform returns the full local-to-logical transform of a fin:
// translation * rotation * roll * roll-flip * surface offset * local mirrors.
func Transform(fin part.Placed, parts []part.Placed) geometry.Transform3 {
	g := GeometryOf(fin.Params)
	roll := ComputeRoll(fin, parts)
	rollFlip := geometry.Identity3()
	if fin.FlipRoll {
		rollFlip = geometry.RotateX(math.Pi)
	}
	return geometry.Translate3(fin.Position).
		Mul(geometry.EulerXYZ(fin.Rotation)).
		Mul(geometry.RotateX(roll)).
		Mul(rollFlip).
		Mul(surface(g, BodyRadius(fin, parts), fin.FlipLong, fin.FlipLateral))
}

// EdgeCenters returns the logical root-chord and tip-chord midpoints.
func EdgeCenters(fin part.Placed, parts []part.Placed) (root, tip geometry.Vec3) {
	g := GeometryOf(fin.Params)
	t := Transform(fin, parts)
	return t.Apply(g.RootCenterLocal()), t.Apply(g.TipCenterLocal())
}

// Edge names one of a fin's two structural edges.
type Edge int

const (
	EdgeRoot Edge = iota
	EdgeTip
)

// String returns the edge name.
func (e Edge) String() string {
	if e == EdgeTip {
		return "tip"
	}
	return "root"
}

// ParseEdge maps "root"/"tip" to an Edge.
func ParseEdge(s string) (Edge, bool) {
	switch s {
	case "root":
		return EdgeRoot, true
	case "tip":
		return EdgeTip, true
	}
	return EdgeRoot, false
}

// EdgeOffsets returns each edge centre's long-axis distance from the fin's
// logical position.
func EdgeOffsets(fin part.Placed, parts []part.Placed) (root, tip float64) {
	r, t := EdgeCenters(fin, parts)
	return r[0] - fin.Position[0], t[0] - fin.Position[0]
}

// DefaultLong returns the long-axis position of a freshly placed fin
// relative to its body: from the forward face for "top" fins, from the aft
// face minus the root chord for "bottom" fins, shifted aft by plusOffset.
func DefaultLong(fin part.CatalogEntry, body part.Placed) float64 {
	offset := fin.Params.Float(part.ParamPlusOffset, 0)
	if fin.Params.RelativePosition() == "bottom" {
		return body.Aft() - fin.Params.Float(part.ParamRootChord, 0) + offset
	}
	return body.Front() + offset
}
