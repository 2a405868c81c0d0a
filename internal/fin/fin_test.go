package fin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

func assertVec(t *testing.T, want, got geometry.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "axis %d (got %v)", i, got)
	}
}

func body(id string, pos geometry.Vec3, length, radius float64) part.Placed {
	return part.NewPlaced(part.CatalogEntry{
		ID:     id,
		Kind:   part.KindBody,
		Params: part.Params{part.ParamLength: length, part.ParamRadius: radius},
	}, pos)
}

func testFin(pos geometry.Vec3, extra part.Params) part.Placed {
	params := part.Params{
		part.ParamRootChord: 6.0,
		part.ParamTipChord:  2.0,
		part.ParamSpan:      4.0,
		part.ParamSweep:     3.0,
		part.ParamParent:    "body-1",
	}
	for k, v := range extra {
		params[k] = v
	}
	return part.NewPlaced(part.CatalogEntry{ID: "fins", Kind: part.KindFin, Params: params}, pos)
}

func TestBasePhase(t *testing.T) {
	bottom := testFin(geometry.Vec3{}, part.Params{part.ParamRelativePosition: "bottom", part.ParamRotation: 0})
	assert.InDelta(t, math.Pi, BasePhase(bottom), 1e-12)

	top := testFin(geometry.Vec3{}, part.Params{part.ParamRelativePosition: "top", part.ParamRotation: 90})
	assert.InDelta(t, math.Pi/2, BasePhase(top), 1e-12)

	unset := testFin(geometry.Vec3{}, nil)
	assert.Equal(t, 0.0, BasePhase(unset))
}

func TestPreferredBody(t *testing.T) {
	b1 := body("body-0", geometry.Vec3{}, 10, 1)
	b2 := body("tube_1", geometry.V3(10, 0, 0), 10, 1)
	f := testFin(geometry.Vec3{}, nil)

	assert.Equal(t, 1, PreferredBody(f, []part.Placed{b1, b2, f}))

	f.Params[part.ParamParent] = "missing"
	assert.Equal(t, 0, PreferredBody(f, []part.Placed{b1, b2, f}))
	assert.Equal(t, -1, PreferredBody(f, []part.Placed{f}))
}

func TestComputeRoll(t *testing.T) {
	b := body("body-1", geometry.Vec3{}, 24, 2)

	onAxis := testFin(geometry.V3(10, 0, 0), part.Params{part.ParamRotation: 45})
	assert.InDelta(t, math.Pi/4, ComputeRoll(onAxis, []part.Placed{b, onAxis}), 1e-12)

	dragged := testFin(geometry.V3(10, 0, 3), nil)
	assert.InDelta(t, math.Pi/2, ComputeRoll(dragged, []part.Placed{b, dragged}), 1e-12)

	noBody := testFin(geometry.V3(10, 0, 3), part.Params{part.ParamRelativePosition: "bottom"})
	assert.InDelta(t, math.Pi, ComputeRoll(noBody, []part.Placed{noBody}), 1e-12)
}

func TestEdgeCenters(t *testing.T) {
	b := body("body-1", geometry.Vec3{}, 24, 2)

	tests := []struct {
		name     string
		fin      func() part.Placed
		wantRoot geometry.Vec3
		wantTip  geometry.Vec3
	}{
		{
			name:     "top fin on axis",
			fin:      func() part.Placed { return testFin(geometry.V3(10, 0, 0), nil) },
			wantRoot: geometry.V3(13, 2, 0),
			wantTip:  geometry.V3(14, 6, 0),
		},
		{
			name: "bottom fin rolls half a turn",
			fin: func() part.Placed {
				return testFin(geometry.V3(10, 0, 0), part.Params{part.ParamRelativePosition: "bottom"})
			},
			wantRoot: geometry.V3(13, -2, 0),
			wantTip:  geometry.V3(14, -6, 0),
		},
		{
			name: "flip long mirrors about the root centre",
			fin: func() part.Placed {
				f := testFin(geometry.V3(10, 0, 0), nil)
				f.FlipLong = true
				return f
			},
			wantRoot: geometry.V3(13, 2, 0),
			wantTip:  geometry.V3(12, 6, 0),
		},
		{
			name: "flip roll turns to the opposite side",
			fin: func() part.Placed {
				f := testFin(geometry.V3(10, 0, 0), nil)
				f.FlipRoll = true
				return f
			},
			wantRoot: geometry.V3(13, -2, 0),
			wantTip:  geometry.V3(14, -6, 0),
		},
		{
			name:     "dragged fin points toward its offset",
			fin:      func() part.Placed { return testFin(geometry.V3(10, 0, 1), nil) },
			wantRoot: geometry.V3(13, 0, 3),
			wantTip:  geometry.V3(14, 0, 7),
		},
		{
			name: "rotation about the long axis",
			fin: func() part.Placed {
				f := testFin(geometry.V3(10, 0, 0), nil)
				f.Rotation = geometry.V3(2*math.Pi/3, 0, 0)
				return f
			},
			wantRoot: geometry.V3(13, 2*math.Cos(2*math.Pi/3), 2*math.Sin(2*math.Pi/3)),
			wantTip:  geometry.V3(14, 6*math.Cos(2*math.Pi/3), 6*math.Sin(2*math.Pi/3)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.fin()
			root, tip := EdgeCenters(f, []part.Placed{b, f})
			assertVec(t, tt.wantRoot, root)
			assertVec(t, tt.wantTip, tip)
		})
	}
}

func TestEdgeCentersFollowTranslation(t *testing.T) {
	b := body("body-1", geometry.Vec3{}, 24, 2)
	f := testFin(geometry.V3(10, 0, 0), nil)
	root, tip := EdgeCenters(f, []part.Placed{b, f})

	f.Position = f.Position.Add(geometry.V3(5, 0, 0))
	root2, tip2 := EdgeCenters(f, []part.Placed{b, f})
	assertVec(t, root.Add(geometry.V3(5, 0, 0)), root2)
	assertVec(t, tip.Add(geometry.V3(5, 0, 0)), tip2)
}

func TestEdgeOffsets(t *testing.T) {
	b := body("body-1", geometry.Vec3{}, 24, 2)
	f := testFin(geometry.V3(10, 0, 0), nil)
	root, tip := EdgeOffsets(f, []part.Placed{b, f})
	assert.InDelta(t, 3, root, 1e-9)
	assert.InDelta(t, 4, tip, 1e-9)
}

func TestDefaultLong(t *testing.T) {
	b := body("body-1", geometry.V3(5, 0, 0), 24, 2)

	top := part.CatalogEntry{Kind: part.KindFin, Params: part.Params{part.ParamPlusOffset: 2.0}}
	assert.Equal(t, 7.0, DefaultLong(top, b))

	bottom := part.CatalogEntry{Kind: part.KindFin, Params: part.Params{
		part.ParamRelativePosition: "bottom",
		part.ParamRootChord:        6.0,
		part.ParamPlusOffset:       -1.0,
	}}
	assert.Equal(t, 22.0, DefaultLong(bottom, b))
}

func TestParseEdge(t *testing.T) {
	e, ok := ParseEdge("tip")
	require.True(t, ok)
	assert.Equal(t, EdgeTip, e)
	assert.Equal(t, "tip", e.String())

	_, ok = ParseEdge("middle")
	assert.False(t, ok)
}
