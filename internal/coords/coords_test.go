package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

func TestLongOffset(t *testing.T) {
	tests := []struct {
		name string
		pl   Placement
		want float64
	}{
		{"body centred", Placement{Kind: part.KindBody, Length: 24}, 12},
		{"inner centred", Placement{Kind: part.KindInner, Length: 10}, 5},
		{"nose at tip", Placement{Kind: part.KindNose, Length: 12}, 0},
		{"flipped nose", Placement{Kind: part.KindNose, Length: 12, FlipLong: true}, 12},
		{"fin", Placement{Kind: part.KindFin, Length: 5}, 0},
		{"mass", Placement{Kind: part.KindMass, Length: 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongOffset(tt.pl))
		})
	}
}

func TestMapperRoundTrip(t *testing.T) {
	m := NewMapper(0.5)
	for _, k := range part.Kinds() {
		for _, flip := range []bool{false, true} {
			pl := Placement{Kind: k, Length: 24, FlipLong: flip}
			logical := geometry.V3(-7.25, 1.5, -3)
			back := m.ToLogical(m.ToWorld(logical, pl), pl)
			for i := range logical {
				assert.InDelta(t, logical[i], back[i], 1e-12, "%v flip=%v axis %d", k, flip, i)
			}
		}
	}
}

func TestMapperBodyCentre(t *testing.T) {
	m := NewMapper(1)
	got := m.ToWorld(geometry.V3(0, 1, 2), Placement{Kind: part.KindBody, Length: 24})
	assert.Equal(t, geometry.V3(12, 1, 2), got)
}

func TestPlanarRoundTrip(t *testing.T) {
	p := NewPlanar(2, 0)
	pl := Placement{Kind: part.KindBody, Length: 10}

	w := p.ToWorld2D(geometry.V3(3, 4, 99), pl)
	assert.Equal(t, geometry.NewPoint2D(16, 8), w)

	back := p.ToLogical2D(w, pl, 99)
	assert.InDelta(t, 3, back[0], 1e-12)
	assert.InDelta(t, 4, back[1], 1e-12)
	assert.Equal(t, 99.0, back[2])
}

func TestPlanarSnapTranslation(t *testing.T) {
	p := NewPlanar(1, 0.5)
	assert.Equal(t, geometry.NewPoint2D(1.5, -0.5), p.SnapTranslation(geometry.NewPoint2D(1.4, -0.6)))

	def := NewPlanar(1, 0)
	assert.Equal(t, DefaultGridStep, def.GridStep)
	assert.Equal(t, geometry.NewPoint2D(2, 0), def.SnapTranslation(geometry.NewPoint2D(1.6, 0.2)))
}

func TestRound(t *testing.T) {
	assert.Equal(t, geometry.V3(2, 0, -3), Round(geometry.V3(1.51, 0.49, -2.6)))
}
