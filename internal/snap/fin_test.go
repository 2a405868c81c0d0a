package snap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocket-assembler/internal/fin"
	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

func finPart(pos geometry.Vec3, extra part.Params) part.Placed {
	params := part.Params{
		part.ParamRootChord: 6.0,
		part.ParamTipChord:  2.0,
		part.ParamSpan:      4.0,
		part.ParamSweep:     3.0,
		part.ParamFinCount:  4,
		part.ParamParent:    "body-1",
	}
	for k, v := range extra {
		params[k] = v
	}
	return placed("fins", part.KindFin, pos, params)
}

func assertVec(t *testing.T, want, got geometry.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "axis %d (got %v)", i, got)
	}
}

func TestFinTargetsDeduplicate(t *testing.T) {
	a := tube("a", geometry.V3(0, 0, 0), 10)
	b := tube("b", geometry.V3(0.2, 0.3, 0), 10)
	c := tube("c", geometry.V3(20, 0, 0), 10)

	targets := FinTargets([]part.Placed{a, b, c})
	require.Len(t, targets, 2)
	assert.Equal(t, geometry.NewPoint2D(10, 0), targets[0].Point)
	assert.Equal(t, []string{"a", "b"}, targets[0].IDs)
	assert.Equal(t, []string{"c"}, targets[1].IDs)
}

func TestFinTargetsFallBackToInnerTubes(t *testing.T) {
	inner := placed("mm", part.KindInner, geometry.V3(5, 0, 0), part.Params{part.ParamLength: 10.0})
	targets := FinTargets([]part.Placed{inner})
	require.Len(t, targets, 1)
	assert.Equal(t, geometry.NewPoint2D(15, 0), targets[0].Point)

	assert.Empty(t, FinTargets(nil))
}

func TestFinToBodyPrefersParent(t *testing.T) {
	near := tube("near", geometry.V3(0, 0, 0), 10)
	parent := tube("body-1", geometry.V3(100, 0, 0), 10)
	f := finPart(geometry.Vec3{}, nil)

	got, ok := FinToBody(f, geometry.V3(4, 0, 3), []part.Placed{near, parent})
	require.True(t, ok)
	assert.Equal(t, "body-1", got.TargetID)
	assert.Equal(t, geometry.V3(104, 0, 0), got.Position, "lateral axes come from the body, not the pointer")
}

func TestFinToBodyLandsOnBodyAxis(t *testing.T) {
	tests := []struct {
		name string
		axis geometry.Vec3
	}{
		{"raised lateral-2", geometry.V3(0, 0, 3)},
		{"fractional lateral-1", geometry.V3(0, 0.4, -1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tube("body-1", tt.axis, 24)
			f := finPart(geometry.Vec3{}, nil)
			parts := []part.Placed{body}

			got, ok := FinToBody(f, geometry.V3(15, 0, 0), parts)
			require.True(t, ok)
			assert.Equal(t, geometry.V3(18, tt.axis[1], tt.axis[2]), got.Position)

			f.Position = got.Position
			assert.InDelta(t, fin.BasePhase(f), fin.ComputeRoll(f, append(parts, f)), 1e-12)
		})
	}
}

func TestFinToBodyNearestWithoutGate(t *testing.T) {
	a := tube("a", geometry.V3(0, 0, 0), 10)
	b := tube("b", geometry.V3(200, 0, 0), 10)
	f := finPart(geometry.Vec3{}, part.Params{part.ParamParent: "unknown"})

	got, ok := FinToBody(f, geometry.V3(150, 40, 0), []part.Placed{a, b})
	require.True(t, ok)
	assert.Equal(t, "b", got.TargetID)
	assert.Equal(t, geometry.V3(204, 0, 0), got.Position)
}

func TestFinToBodyNoTargets(t *testing.T) {
	f := finPart(geometry.Vec3{}, nil)
	_, ok := FinToBody(f, geometry.Vec3{}, []part.Placed{f})
	assert.False(t, ok)

	body := tube("body-1", geometry.Vec3{}, 10)
	_, ok = FinToBody(body, geometry.Vec3{}, []part.Placed{body})
	assert.False(t, ok)
}

func TestRails(t *testing.T) {
	body := tube("body-1", geometry.V3(0, 0, 0), 24)
	nose := placed("nose", part.KindNose, geometry.V3(-12, 0, 0), part.Params{part.ParamLength: 12.0})
	f := finPart(geometry.V3(10, 0, 0), nil)

	rails := Rails(f, []part.Placed{nose, body, f})
	require.Len(t, rails, 4)
	for i, r := range rails {
		assert.Equal(t, i, r.Index)
		assert.InDelta(t, float64(i)*math.Pi/2, r.Angle, 1e-12)
		assert.Equal(t, -12.0, r.Start[0])
		assert.Equal(t, 24.0, r.End[0])
	}
	assertVec(t, geometry.V3(-12, 0, 2), rails[1].Start)

	assert.Nil(t, Rails(f, []part.Placed{f}))
	assert.Nil(t, Rails(body, []part.Placed{body}))
}

func TestRailsFollowBasePhase(t *testing.T) {
	body := tube("body-1", geometry.V3(0, 0, 0), 24)
	f := finPart(geometry.V3(10, 0, 0), part.Params{part.ParamRelativePosition: "bottom", part.ParamFinCount: 3})

	rails := Rails(f, []part.Placed{body, f})
	require.Len(t, rails, 3)
	assert.InDelta(t, math.Pi, rails[0].Angle, 1e-12)
	assert.InDelta(t, math.Pi+2*math.Pi/3, rails[1].Angle, 1e-12)
}

func TestRailSnapNearestEdge(t *testing.T) {
	body := tube("body-1", geometry.V3(0, 0, 0), 24)
	f := finPart(geometry.V3(10, 0, 0), nil)
	parts := []part.Placed{body, f}

	got, ok := RailSnap(f, geometry.V3(5, 0.1, 2.2), parts, nil)
	require.True(t, ok)
	assert.Equal(t, 1, got.Rail)
	assert.Equal(t, fin.EdgeRoot, got.Edge)
	assertVec(t, geometry.V3(2, 0, 0), got.Position)
	assertVec(t, geometry.V3(math.Pi/2, 0, 0), got.Rotation)

	// The root centre now sits on rail 1 at the clicked long position.
	moved := f.Clone()
	moved.Position, moved.Rotation = got.Position, got.Rotation
	root, _ := fin.EdgeCenters(moved, []part.Placed{body, moved})
	assertVec(t, geometry.V3(5, 0, 2), root)
}

func TestRailSnapArmedEdge(t *testing.T) {
	body := tube("body-1", geometry.V3(0, 0, 0), 24)
	f := finPart(geometry.V3(10, 0, 0), nil)
	tip := fin.EdgeTip

	got, ok := RailSnap(f, geometry.V3(20, 2, 0), []part.Placed{body, f}, &tip)
	require.True(t, ok)
	assert.Equal(t, 0, got.Rail)
	assert.Equal(t, fin.EdgeTip, got.Edge)
	assertVec(t, geometry.V3(16, 0, 0), got.Position)
}

func TestRailSnapOutsideTolerance(t *testing.T) {
	body := tube("body-1", geometry.V3(0, 0, 0), 24)
	f := finPart(geometry.V3(10, 0, 0), nil)
	parts := []part.Placed{body, f}

	_, ok := RailSnap(f, geometry.V3(5, 5, 5), parts, nil)
	assert.False(t, ok, "too far from every rail")

	_, ok = RailSnap(f, geometry.V3(30, 2, 0), parts, nil)
	assert.False(t, ok, "past the rail end")
}

func TestRailBalls(t *testing.T) {
	body := tube("body-1", geometry.V3(0, 0, 0), 24)
	f := finPart(geometry.V3(10, 0, 0), nil)

	balls := RailBalls(f, []part.Placed{body, f})
	require.Len(t, balls, 2)
	assert.Equal(t, "root", balls[0].Name)
	assertVec(t, geometry.V3(13, 2, 0), balls[0].Logical)
	assertVec(t, geometry.V3(14, 6, 0), balls[1].Logical)
}
