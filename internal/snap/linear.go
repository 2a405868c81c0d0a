package snap

import (
	"fmt"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// joinTarget reports whether moving can join other end-to-end and, if so,
// the long-axis position that puts moving flush against it.
func joinTarget(moving, other part.Placed) (float64, bool) {
	switch moving.Kind {
	case part.KindNose:
		// The nose base nests against the forward face.
		if other.Kind == part.KindBody || other.Kind == part.KindInner {
			return other.Front() - moving.Length(), true
		}
		return 0, false
	case part.KindBody, part.KindInner:
		// Tubes append after the aft face.
		switch other.Kind {
		case part.KindBody, part.KindInner, part.KindNose:
			return other.Aft(), true
		}
		return 0, false
	case part.KindFin, part.KindParachute, part.KindMass, part.KindTelemetry:
		return 0, false
	}
	panic(fmt.Sprintf("snap: unhandled kind %v", moving.Kind))
}

// Linear snaps a nose, body, or inner tube end-to-end against the other
// axial parts. candidate is the raw logical position of moving. Parts that
// follow moving as their parent are never targets.
func Linear(moving part.Placed, candidate geometry.Vec3, parts []part.Placed, mode Mode) (Result, bool) {
	if !moving.Kind.IsAxial() {
		return Result{}, false
	}
	idx := part.NewIndex(parts)
	gate3 := mode == Mode3D
	pick := newPicker()

	for _, other := range parts {
		if other.ID == moving.ID {
			continue
		}
		if pi := part.FollowedParent(other, parts, idx); pi >= 0 && parts[pi].ID == moving.ID {
			continue
		}
		long, ok := joinTarget(moving, other)
		if !ok {
			continue
		}

		want := geometry.V3(long, other.Position[1], other.Position[2])
		if !LinearTolerance.within(want, candidate, gate3) {
			continue
		}

		d := want.Sub(candidate)
		score := d[0]*d[0] + d[1]*d[1]
		if gate3 {
			score += d[2] * d[2]
		} else {
			want[2] = candidate[2]
		}
		pick.offer(Result{Position: want, TargetID: other.ID}, score)
	}
	return pick.result()
}
