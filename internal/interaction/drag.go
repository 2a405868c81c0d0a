package interaction

import (
	"rocket-assembler/internal/coords"
	"rocket-assembler/internal/metrics"
	"rocket-assembler/internal/part"
	"rocket-assembler/internal/snap"
	"rocket-assembler/pkg/geometry"
)

// Handle is the sub-part a drag grabbed.
type Handle int

const (
	// HandlePart drags the whole part.
	HandlePart Handle = iota
	// HandleFinOffset drags one fin's planar offset in the 2D view.
	HandleFinOffset
)

// DragContext is the transient state of one drag, created by BeginDrag and
// passed to DragMove and EndDrag.
type DragContext struct {
	PartID   string `json:"partId"`
	Handle   Handle `json:"handle"`
	FinIndex int    `json:"finIndex"`
	// Grab is the logical pointer position at drag start.
	Grab geometry.Vec3 `json:"grab"`
	// Start is the part position (or fin offset) at drag start.
	Start geometry.Vec3 `json:"start"`
	View  View          `json:"view"`
}

// BeginDrag starts dragging a part and selects it. A fin-offset drag is
// only available on fins in the 2D view.
func (s *Session) BeginDrag(partID string, handle Handle, finIndex int, grab geometry.Vec3) (DragContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := find(s.store.Parts(), partID)
	if !ok {
		return DragContext{}, false
	}

	ctx := DragContext{
		PartID: partID,
		Handle: handle,
		Grab:   s.toLogical(grab, coords.PlacementOf(p), p.Position[2]),
		Start:  p.Position,
		View:   s.view,
	}
	switch handle {
	case HandlePart:
	case HandleFinOffset:
		if p.Kind != part.KindFin || s.view != View2D || finIndex < 0 || finIndex >= p.Params.FinCount() {
			return DragContext{}, false
		}
		ctx.FinIndex = finIndex
		ctx.Start = geometry.Vec3{}
		if finIndex < len(p.FinOffsets) {
			o := p.FinOffsets[finIndex]
			ctx.Start = geometry.V3(o.X, o.Y, 0)
		}
	default:
		return DragContext{}, false
	}

	s.store.Select(partID)
	s.revalidateLocked(s.store.Parts(), partID)
	return ctx, true
}

// target returns the unsnapped logical position for a pointer position.
func (s *Session) target(ctx DragContext, p part.Placed, world geometry.Vec3) geometry.Vec3 {
	cur := s.toLogical(world, coords.PlacementOf(p), p.Position[2])
	return ctx.Start.Add(cur.Sub(ctx.Grab))
}

// DragMove moves the dragged part to follow the pointer. Positions are
// rounded to whole units; no snapping happens until EndDrag.
func (s *Session) DragMove(ctx DragContext, world geometry.Vec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := find(s.store.Parts(), ctx.PartID)
	if !ok || ctx.View != s.view {
		return false
	}
	if ctx.Handle == HandleFinOffset {
		return s.moveFinOffset(ctx, p, world)
	}
	return s.store.Move(p.ID, s.rounded(s.target(ctx, p, world), p))
}

func (s *Session) rounded(pos geometry.Vec3, p part.Placed) geometry.Vec3 {
	r := coords.Round(pos)
	if s.view == View2D {
		r[2] = p.Position[2]
	}
	return r
}

func (s *Session) moveFinOffset(ctx DragContext, p part.Placed, world geometry.Vec3) bool {
	cur := s.toLogical(world, coords.PlacementOf(p), 0)
	delta := s.planar.SnapTranslation(geometry.NewPoint2D(cur[0]-ctx.Grab[0], cur[1]-ctx.Grab[1]))

	offsets := make([]geometry.Point2D, p.Params.FinCount())
	copy(offsets, p.FinOffsets)
	offsets[ctx.FinIndex] = geometry.NewPoint2D(ctx.Start[0], ctx.Start[1]).Add(delta)
	return s.store.SetFinOffsets(p.ID, offsets)
}

// EndDrag finishes a drag: the matching snap algorithm runs once and the
// corrected position is committed. A nil position means the pointer was
// released off any valid target and nothing changes.
func (s *Session) EndDrag(ctx DragContext, world *geometry.Vec3) (snap.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if world == nil {
		return snap.Result{}, false
	}
	parts := s.store.Parts()
	p, ok := find(parts, ctx.PartID)
	if !ok || ctx.View != s.view {
		return snap.Result{}, false
	}
	if ctx.Handle == HandleFinOffset {
		s.moveFinOffset(ctx, p, *world)
		return snap.Result{}, false
	}

	candidate := s.target(ctx, p, *world)
	var (
		res     snap.Result
		snapped bool
	)
	switch {
	case p.Kind == part.KindFin && s.view == View2D:
		res, snapped = snap.FinToBody(p, candidate, parts)
		metrics.RecordSnap("fin_body", snapped)
	case p.Kind.IsAxial():
		mode := snap.Mode3D
		if s.view == View2D {
			mode = snap.ModeDrop
		}
		res, snapped = snap.Linear(p, candidate, parts, mode)
		metrics.RecordSnap("linear", snapped)
	}

	if snapped {
		s.store.Move(p.ID, res.Position)
		return res, true
	}
	s.store.Move(p.ID, s.rounded(candidate, p))
	return snap.Result{}, false
}
