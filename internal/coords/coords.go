// Package coords converts between logical part space and world/render space.
//
// Logical space is [long axis, lateral-1, lateral-2] where the long-axis value
// is the part's forward reference point. World space is what the interactive
// surface consumes: the long axis carries a per-kind offset so that a tube's
// rendered origin sits mid-body while a nose cone stays anchored at its tip.
package coords

import (
	"fmt"
	"math"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// DefaultGridStep is the planar view translation increment.
const DefaultGridStep = 1.0

// Placement is the part-specific convention a conversion depends on.
type Placement struct {
	Kind     part.Kind
	Length   float64
	FlipLong bool
}

// PlacementOf extracts the conversion convention of a placed part.
func PlacementOf(p part.Placed) Placement {
	return Placement{Kind: p.Kind, Length: p.Length(), FlipLong: p.FlipLong}
}

// LongOffset returns the world long-axis offset of the rendered origin
// relative to the logical forward reference point.
func LongOffset(pl Placement) float64 {
	switch pl.Kind {
	case part.KindBody, part.KindInner:
		return pl.Length / 2
	case part.KindNose:
		if pl.FlipLong {
			return pl.Length
		}
		return 0
	case part.KindFin, part.KindParachute, part.KindMass, part.KindTelemetry:
		return 0
	}
	panic(fmt.Sprintf("coords: unhandled kind %v", pl.Kind))
}

// Mapper converts 3D coordinates. Scale is world units per logical unit.
type Mapper struct {
	Scale float64
}

// NewMapper returns a mapper; a non-positive scale means 1.
func NewMapper(scale float64) Mapper {
	if scale <= 0 {
		scale = 1
	}
	return Mapper{Scale: scale}
}

func (m Mapper) scale() float64 {
	if m.Scale <= 0 {
		return 1
	}
	return m.Scale
}

// ToWorld maps a logical position to world space.
func (m Mapper) ToWorld(logical geometry.Vec3, pl Placement) geometry.Vec3 {
	shifted := logical.Add(geometry.V3(LongOffset(pl), 0, 0))
	return shifted.Scale(m.scale())
}

// ToLogical maps a world position back to logical space.
func (m Mapper) ToLogical(world geometry.Vec3, pl Placement) geometry.Vec3 {
	return world.Scale(1 / m.scale()).Sub(geometry.V3(LongOffset(pl), 0, 0))
}

// Round snaps a logical position to integer units. Controls-driven moves are
// rounded; algorithmic and anchor snaps are not.
func Round(logical geometry.Vec3) geometry.Vec3 {
	return logical.Rounded()
}

// Planar converts between logical space and the 2D side view, which drops
// lateral-2 and moves in grid increments.
type Planar struct {
	Scale    float64
	GridStep float64
}

// NewPlanar returns a planar mapper with defaults for non-positive values.
func NewPlanar(scale, gridStep float64) Planar {
	if scale <= 0 {
		scale = 1
	}
	if gridStep <= 0 {
		gridStep = DefaultGridStep
	}
	return Planar{Scale: scale, GridStep: gridStep}
}

func (p Planar) transform(pl Placement) geometry.AffineTransform {
	s := p.Scale
	if s <= 0 {
		s = 1
	}
	return geometry.Scale(s, s).Compose(geometry.Translation(LongOffset(pl), 0))
}

// ToWorld2D maps a logical position into the planar view.
func (p Planar) ToWorld2D(logical geometry.Vec3, pl Placement) geometry.Point2D {
	return p.transform(pl).Apply(geometry.NewPoint2D(logical[0], logical[1]))
}

// ToLogical2D maps a planar point back to logical space. The planar view
// has no lateral-2 axis, so the caller's value is carried through.
func (p Planar) ToLogical2D(world geometry.Point2D, pl Placement, lateral2 float64) geometry.Vec3 {
	inv, ok := p.transform(pl).Inverse()
	if !ok {
		return geometry.V3(world.X, world.Y, lateral2)
	}
	l := inv.Apply(world)
	return geometry.V3(l.X, l.Y, lateral2)
}

// SnapTranslation rounds a planar translation to the grid step.
func (p Planar) SnapTranslation(delta geometry.Point2D) geometry.Point2D {
	step := p.GridStep
	if step <= 0 {
		step = DefaultGridStep
	}
	return geometry.NewPoint2D(
		math.Round(delta.X/step)*step,
		math.Round(delta.Y/step)*step,
	)
}
