package snap

import (
	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// FinTarget is a planar aft-face centre a fin can attach to. Faces that
// round to the same integer point are merged and list every owner.
type FinTarget struct {
	Point geometry.Point2D `json:"point"`
	IDs   []string         `json:"ids"`
}

// FinTargets returns the aft-face centres of every body, or of every inner
// tube when the assembly has no body.
func FinTargets(parts []part.Placed) []FinTarget {
	kind := part.KindBody
	if !hasKind(parts, part.KindBody) {
		kind = part.KindInner
	}

	var targets []FinTarget
	seen := make(map[geometry.Point2D]int)
	for _, p := range parts {
		if p.Kind != kind {
			continue
		}
		pt := geometry.NewPoint2D(p.Aft(), p.Position[1]).Rounded()
		if i, ok := seen[pt]; ok {
			targets[i].IDs = append(targets[i].IDs, p.ID)
			continue
		}
		seen[pt] = len(targets)
		targets = append(targets, FinTarget{Point: pt, IDs: []string{p.ID}})
	}
	return targets
}

func hasKind(parts []part.Placed, k part.Kind) bool {
	for _, p := range parts {
		if p.Kind == k {
			return true
		}
	}
	return false
}

// FinToBody snaps a fin in the planar view so that its root trailing edge
// sits on a body's aft face. A target owned by the fin's resolved parent
// wins outright; otherwise the nearest target wins with no distance gate.
// The long-axis target is the merged aft-face point; the lateral axes are
// taken from the owning body so the fin sits on that body's axis.
func FinToBody(f part.Placed, candidate geometry.Vec3, parts []part.Placed) (Result, bool) {
	if f.Kind != part.KindFin {
		return Result{}, false
	}
	targets := FinTargets(parts)
	if len(targets) == 0 {
		return Result{}, false
	}

	idx := part.NewIndex(parts)
	rootChord := f.Params.Float(part.ParamRootChord, 0)
	trailing := geometry.NewPoint2D(candidate[0]+rootChord, candidate[1])
	result := func(t FinTarget, owner string) Result {
		axis := parts[idx[owner]].Position
		return Result{
			Position: geometry.V3(t.Point.X-rootChord, axis[1], axis[2]),
			TargetID: owner,
		}
	}

	parentIdx := part.Resolve(f.Params.Parent(), parts, idx, func(p part.Placed) bool {
		return p.Kind == part.KindBody || p.Kind == part.KindInner
	})
	if parentIdx >= 0 {
		parentID := parts[parentIdx].ID
		for _, t := range targets {
			for _, id := range t.IDs {
				if id == parentID {
					return result(t, parentID), true
				}
			}
		}
	}

	pick := newPicker()
	for _, t := range targets {
		pick.offer(result(t, t.IDs[0]), t.Point.DistanceSq(trailing))
	}
	return pick.result()
}
