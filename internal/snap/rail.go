package snap

import (
	"math"

	"rocket-assembler/internal/fin"
	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// Rail is a construction line on the body surface, one per expected fin.
type Rail struct {
	Index int           `json:"index"`
	Angle float64       `json:"angle"`
	Start geometry.Vec3 `json:"start"`
	End   geometry.Vec3 `json:"end"`
}

// AxialExtent returns the long-axis span covered by all axial parts.
func AxialExtent(parts []part.Placed) (geometry.Span, bool) {
	var span geometry.Span
	found := false
	for _, p := range parts {
		if !p.Kind.IsAxial() {
			continue
		}
		if !found {
			span = geometry.Span{Min: p.Front(), Max: p.Front()}
			found = true
		}
		span = span.Extend(p.Front()).Extend(p.Aft())
	}
	return span, found
}

// Rails returns the fin rails around the fin's preferred body. Rail i sits
// at basePhase + 2*pi*i/count and spans the whole assembly.
func Rails(f part.Placed, parts []part.Placed) []Rail {
	if f.Kind != part.KindFin {
		return nil
	}
	bi := fin.PreferredBody(f, parts)
	if bi < 0 {
		return nil
	}
	extent, ok := AxialExtent(parts)
	if !ok {
		return nil
	}

	body := parts[bi]
	radius := body.Params.Radius()
	count := f.Params.FinCount()
	base := fin.BasePhase(f)

	rails := make([]Rail, count)
	for i := range rails {
		angle := base + 2*math.Pi*float64(i)/float64(count)
		ly := body.Position[1] + radius*math.Cos(angle)
		lz := body.Position[2] + radius*math.Sin(angle)
		rails[i] = Rail{
			Index: i,
			Angle: angle,
			Start: geometry.V3(extent.Min, ly, lz),
			End:   geometry.V3(extent.Max, ly, lz),
		}
	}
	return rails
}

// RailBall is an edge marker a user can click to arm that edge.
type RailBall struct {
	Edge    fin.Edge      `json:"-"`
	Name    string        `json:"edge"`
	Logical geometry.Vec3 `json:"logical"`
}

// RailBalls returns the fin's two edge markers at its current edge centres.
func RailBalls(f part.Placed, parts []part.Placed) []RailBall {
	if f.Kind != part.KindFin {
		return nil
	}
	root, tip := fin.EdgeCenters(f, parts)
	return []RailBall{
		{Edge: fin.EdgeRoot, Name: fin.EdgeRoot.String(), Logical: root},
		{Edge: fin.EdgeTip, Name: fin.EdgeTip.String(), Logical: tip},
	}
}

// FinPlacement is the outcome of a rail snap.
type FinPlacement struct {
	Position geometry.Vec3 `json:"position"`
	Rotation geometry.Vec3 `json:"rotation"`
	Rail     int           `json:"rail"`
	Edge     fin.Edge      `json:"-"`
}

// RailSnap moves a fin onto the rail nearest a click. The fin is rolled onto
// that rail and slid along it so that one chord-centre line lands on the
// click: the armed edge if one is given, else whichever edge is currently
// nearer the click.
func RailSnap(f part.Placed, click geometry.Vec3, parts []part.Placed, armed *fin.Edge) (FinPlacement, bool) {
	rails := Rails(f, parts)
	if len(rails) == 0 {
		return FinPlacement{}, false
	}
	if extent, _ := AxialExtent(parts); !extent.Contains(click[0], RailTolerance.Long) {
		return FinPlacement{}, false
	}

	best, bestScore := -1, math.Inf(1)
	for i, r := range rails {
		dy := click[1] - r.Start[1]
		dz := click[2] - r.Start[2]
		score := dy*dy + dz*dz
		if math.Sqrt(score) > RailTolerance.Lateral1 {
			continue
		}
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return FinPlacement{}, false
	}
	rail := rails[best]

	edge := fin.EdgeRoot
	if armed != nil {
		edge = *armed
	} else {
		root, tip := fin.EdgeCenters(f, parts)
		if math.Abs(click[0]-tip[0]) < math.Abs(click[0]-root[0]) {
			edge = fin.EdgeTip
		}
	}

	body := parts[fin.PreferredBody(f, parts)]
	moved := f.Clone()
	moved.Rotation[0] = 2 * math.Pi * float64(rail.Index) / float64(len(rails))
	moved.Position = geometry.V3(f.Position[0], body.Position[1], body.Position[2])

	rootOff, tipOff := fin.EdgeOffsets(moved, parts)
	offset := rootOff
	if edge == fin.EdgeTip {
		offset = tipOff
	}
	moved.Position[0] = click[0] - offset

	return FinPlacement{
		Position: moved.Position,
		Rotation: moved.Rotation,
		Rail:     rail.Index,
		Edge:     edge,
	}, true
}
