package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

func placed(id string, kind part.Kind, pos geometry.Vec3, params part.Params) part.Placed {
	return part.NewPlaced(part.CatalogEntry{ID: id, Kind: kind, Params: params}, pos)
}

func tube(id string, pos geometry.Vec3, length float64) part.Placed {
	return placed(id, part.KindBody, pos, part.Params{part.ParamLength: length, part.ParamRadius: 2.0})
}

func TestLinearNoseNestsAgainstBodyFront(t *testing.T) {
	body := tube("body", geometry.V3(0, 0, 0), 24)
	nose := placed("nose", part.KindNose, geometry.Vec3{}, part.Params{part.ParamLength: 12.0})

	got, ok := Linear(nose, geometry.V3(-11.2, 0.3, -0.4), []part.Placed{body}, Mode3D)
	require.True(t, ok)
	assert.Equal(t, geometry.V3(-12, 0, 0), got.Position)
	assert.Equal(t, "body", got.TargetID)
}

func TestLinearBodiesJoinWithinTolerance(t *testing.T) {
	a := tube("a", geometry.V3(0, 0, 0), 10)
	b := tube("b", geometry.Vec3{}, 10)
	parts := []part.Placed{a, b}

	got, ok := Linear(b, geometry.V3(11.5, 0.5, 0), parts, Mode3D)
	require.True(t, ok)
	assert.Equal(t, geometry.V3(10, 0, 0), got.Position)

	// Idempotent: snapping the snapped position changes nothing.
	again, ok := Linear(b, got.Position, parts, Mode3D)
	require.True(t, ok)
	assert.Equal(t, got.Position, again.Position)

	_, ok = Linear(b, geometry.V3(13, 0.5, 0), parts, Mode3D)
	assert.False(t, ok, "3 units apart must not snap")
}

func TestLinearToleranceBox(t *testing.T) {
	a := tube("a", geometry.V3(0, 0, 0), 10)
	b := tube("b", geometry.Vec3{}, 10)
	parts := []part.Placed{a, b}

	tests := []struct {
		name      string
		candidate geometry.Vec3
		want      bool
	}{
		{"on the boundary", geometry.V3(12, 1, 2), true},
		{"long exceeded", geometry.V3(12.01, 0, 0), false},
		{"lateral-1 exceeded", geometry.V3(10, 1.01, 0), false},
		{"lateral-2 exceeded", geometry.V3(10, 0, -2.01), false},
		{"before the aft face", geometry.V3(8, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Linear(b, tt.candidate, parts, Mode3D)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestLinearDropModeIgnoresLateral2(t *testing.T) {
	a := tube("a", geometry.V3(0, 0, 0), 10)
	b := tube("b", geometry.Vec3{}, 10)

	got, ok := Linear(b, geometry.V3(10.5, 0, 7), []part.Placed{a}, ModeDrop)
	require.True(t, ok)
	assert.Equal(t, geometry.V3(10, 0, 7), got.Position)

	_, ok = Linear(b, geometry.V3(10.5, 0, 7), []part.Placed{a}, Mode3D)
	assert.False(t, ok)
}

func TestLinearPicksNearestCandidate(t *testing.T) {
	a := tube("a", geometry.V3(0, 0, 0), 10)
	c := tube("c", geometry.V3(-30, 0, 0), 41)
	b := tube("b", geometry.Vec3{}, 10)

	got, ok := Linear(b, geometry.V3(10.8, 0, 0), []part.Placed{a, c, b}, Mode3D)
	require.True(t, ok)
	assert.Equal(t, "c", got.TargetID)
	assert.Equal(t, geometry.V3(11, 0, 0), got.Position)
}

func TestLinearSkipsUnsupportedKinds(t *testing.T) {
	a := tube("a", geometry.V3(0, 0, 0), 10)
	f := placed("fin", part.KindFin, geometry.Vec3{}, nil)
	m := placed("ballast", part.KindMass, geometry.Vec3{}, nil)

	_, ok := Linear(f, geometry.V3(10, 0, 0), []part.Placed{a}, Mode3D)
	assert.False(t, ok)
	_, ok = Linear(m, geometry.V3(10, 0, 0), []part.Placed{a}, Mode3D)
	assert.False(t, ok)

	_, ok = Linear(a, geometry.V3(10, 0, 0), nil, Mode3D)
	assert.False(t, ok)
}

func TestLinearIgnoresOwnFollowers(t *testing.T) {
	body := tube("body-1", geometry.V3(0, 0, 0), 24)
	mount := placed("mm", part.KindInner, geometry.V3(0, 0, 0), part.Params{
		part.ParamLength: 10.0,
		part.ParamParent: "body-1",
	})

	// The mount's aft face at 10 would otherwise attract the body.
	_, ok := Linear(body, geometry.V3(9.5, 0, 0), []part.Placed{body, mount}, Mode3D)
	assert.False(t, ok)
}
