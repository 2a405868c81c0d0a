// Package snap computes alignment corrections for parts being placed or
// moved. Every algorithm follows the same shape: generate candidate
// positions, drop those outside a tolerance box, keep the one with the
// smallest squared distance. A false result means "no correction": callers
// keep the raw position.
package snap

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"rocket-assembler/pkg/geometry"
)

// Mode selects the linear snap variant.
type Mode int

const (
	// Mode3D gates all three axes.
	Mode3D Mode = iota
	// ModeDrop gates the long axis and lateral-1 only, for drops and the
	// planar view; lateral-2 is carried through from the candidate.
	ModeDrop
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeDrop {
		return "drop"
	}
	return "3d"
}

// Tolerance is a per-axis acceptance box.
type Tolerance struct {
	Long     float64
	Lateral1 float64
	Lateral2 float64
}

// LinearTolerance is the acceptance box for end-to-end joins.
var LinearTolerance = Tolerance{Long: 2, Lateral1: 1, Lateral2: 2}

// RailTolerance gates fin-rail clicks: Lateral1 is the allowed distance from
// the rail line, Long how far past either rail end a click may land.
var RailTolerance = Tolerance{Long: 2, Lateral1: 1}

// Result is an accepted snap.
type Result struct {
	Position geometry.Vec3 `json:"position"`
	TargetID string        `json:"targetId"`
}

// within reports whether every gated axis of want lies inside the box
// around got. Lateral-2 is skipped when gate3 is false.
func (t Tolerance) within(want, got geometry.Vec3, gate3 bool) bool {
	if !scalar.EqualWithinAbs(want[0], got[0], t.Long) {
		return false
	}
	if !scalar.EqualWithinAbs(want[1], got[1], t.Lateral1) {
		return false
	}
	return !gate3 || scalar.EqualWithinAbs(want[2], got[2], t.Lateral2)
}

// picker keeps the lowest-scoring candidate seen so far. Ties keep the
// earliest candidate.
type picker struct {
	best  Result
	score float64
	found bool
}

func newPicker() picker {
	return picker{score: math.Inf(1)}
}

func (p *picker) offer(r Result, score float64) {
	if score < p.score {
		p.best, p.score, p.found = r, score, true
	}
}

func (p *picker) result() (Result, bool) {
	return p.best, p.found
}
