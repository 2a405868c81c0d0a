// Package interaction turns pointer gestures into assembly commands. A
// Session holds the per-operator transient state (view mode, arming state
// machines) that is never persisted; drags carry their own DragContext.
package interaction

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rocket-assembler/internal/assembly"
	"rocket-assembler/internal/coords"
	"rocket-assembler/internal/fin"
	"rocket-assembler/internal/logging"
	"rocket-assembler/internal/metrics"
	"rocket-assembler/internal/part"
	"rocket-assembler/internal/snap"
	"rocket-assembler/pkg/geometry"
)

// View is the interactive view mode.
type View int

const (
	View3D View = iota
	View2D
)

// String returns "3d" or "2d".
func (v View) String() string {
	if v == View2D {
		return "2d"
	}
	return "3d"
}

// ParseView parses "3d" or "2d".
func ParseView(s string) (View, error) {
	switch s {
	case "3d", "3D":
		return View3D, nil
	case "2d", "2D":
		return View2D, nil
	}
	return View3D, fmt.Errorf("unknown view %q", s)
}

// Session is one operator's interaction state against a shared store.
type Session struct {
	ID string

	store  *assembly.Store
	mapper coords.Mapper
	planar coords.Planar
	logger *zap.Logger

	mu      sync.Mutex
	view    View
	anchors snap.AnchorArming
	rails   snap.RailArming
}

// NewSession creates a session in the 3D view.
func NewSession(store *assembly.Store, mapper coords.Mapper, planar coords.Planar, logger *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:     id,
		store:  store,
		mapper: mapper,
		planar: planar,
		logger: logging.OrNop(logger).Named("session").With(zap.String("session", id)),
	}
}

// State is a read-only view of a session.
type State struct {
	ID          string `json:"id"`
	View        string `json:"view"`
	ArmedAnchor string `json:"armedAnchor,omitempty"`
	RailFin     string `json:"railFin,omitempty"`
	RailEdge    string `json:"railEdge,omitempty"`
}

// State returns the current session state after revalidation.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revalidateLocked(s.store.Parts(), s.store.Selected())

	st := State{ID: s.ID, View: s.view.String()}
	st.ArmedAnchor, _ = s.anchors.Armed()
	if finID, ok := s.rails.Fin(); ok {
		e, _ := s.rails.Armed(finID)
		st.RailFin, st.RailEdge = finID, e.String()
	}
	return st
}

// SetView switches the view. Leaving 3D disarms both protocols.
func (s *Session) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	s.revalidateLocked(s.store.Parts(), s.store.Selected())
}

// revalidateLocked drops arming state that no longer refers to something
// present: an anchor whose part vanished, a view that left 3D, or a rail
// arming whose fin is no longer the selection.
func (s *Session) revalidateLocked(parts []part.Placed, selected string) {
	if s.anchors.Revalidate(snap.Anchors(parts), s.view == View3D) {
		s.logger.Debug("anchor arming cleared")
	}
	finID, ok := s.rails.Fin()
	if !ok {
		return
	}
	if s.view != View3D || selected != finID || !isFin(parts, finID) {
		s.rails.Reset()
		s.logger.Debug("rail arming cleared", zap.String("fin", finID))
	}
}

func isFin(parts []part.Placed, id string) bool {
	for _, p := range parts {
		if p.ID == id {
			return p.Kind == part.KindFin
		}
	}
	return false
}

func find(parts []part.Placed, id string) (part.Placed, bool) {
	for _, p := range parts {
		if p.ID == id {
			return p, true
		}
	}
	return part.Placed{}, false
}

// toLogical maps a pointer position into the part's logical space. In 2D
// only the first two components are used and lateral2 is carried through.
func (s *Session) toLogical(world geometry.Vec3, pl coords.Placement, lateral2 float64) geometry.Vec3 {
	if s.view == View2D {
		return s.planar.ToLogical2D(geometry.NewPoint2D(world[0], world[1]), pl, lateral2)
	}
	return s.mapper.ToLogical(world, pl)
}

// Drop places a catalog entry at a pointer position. Internal entries are
// refused: they only arrive through auto-nesting. A nil position places at
// the last drop position. Tubes and noses get a drop-time linear snap; in
// 2D fins are pulled onto a body target, in 3D they take their default
// placement.
func (s *Session) Drop(entryID string, world *geometry.Vec3) (snap.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := findEntry(s.store.Catalog(), entryID)
	if !ok || entry.Internal {
		return snap.Result{}, false
	}
	if world == nil {
		return snap.Result{}, s.store.Place(entry, nil)
	}

	moving := part.NewPlaced(entry, geometry.Vec3{})
	logical := s.toLogical(*world, coords.PlacementOf(moving), 0)
	s.store.SetLastDrop(logical)

	parts := s.store.Parts()
	var (
		res     snap.Result
		snapped bool
	)
	switch {
	case entry.Kind == part.KindFin && s.view == View2D:
		res, snapped = snap.FinToBody(moving, logical, parts)
		metrics.RecordSnap("fin_body", snapped)
	case entry.Kind == part.KindFin:
		return snap.Result{}, s.store.Place(entry, nil)
	case entry.Kind.IsAxial():
		res, snapped = snap.Linear(moving, logical, parts, snap.ModeDrop)
		metrics.RecordSnap("linear", snapped)
	}

	pos := logical
	if snapped {
		pos = res.Position
	} else {
		res = snap.Result{Position: logical}
	}
	return res, s.store.Place(entry, &pos)
}

func findEntry(entries []part.CatalogEntry, id string) (part.CatalogEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return part.CatalogEntry{}, false
}

// ClickAnchor runs one step of the anchor protocol. Only the 3D view
// exposes anchors. A completed snap translates the second part exactly.
func (s *Session) ClickAnchor(anchorID string) snap.AnchorOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := s.store.Parts()
	s.revalidateLocked(parts, s.store.Selected())
	if s.view != View3D {
		return snap.AnchorIgnored
	}

	outcome, move := s.anchors.Click(anchorID, snap.Anchors(parts))
	if move == nil {
		return outcome
	}
	p, ok := find(parts, move.PartID)
	if !ok {
		return snap.AnchorIgnored
	}
	position, rotation := move.Target(p, parts)
	s.store.MoveAndRotate(p.ID, position, rotation)
	metrics.RecordSnap("anchor", true)
	s.logger.Debug("anchor snap",
		zap.String("part", p.ID),
		zap.Float64s("delta", move.Delta[:]))
	return outcome
}

// ClickRailBall toggles edge arming on the selected fin. Returns whether
// the edge is now armed; clicks on anything but the selected fin in 3D are
// ignored.
func (s *Session) ClickRailBall(finID string, e fin.Edge) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := s.store.Parts()
	selected := s.store.Selected()
	s.revalidateLocked(parts, selected)
	if s.view != View3D || selected != finID || !isFin(parts, finID) {
		return false
	}
	return s.rails.ClickBall(finID, e)
}

// ClickRail snaps the selected fin onto the rail nearest the click. A
// successful snap consumes any edge arming; a missed click leaves it armed.
func (s *Session) ClickRail(world geometry.Vec3) (snap.FinPlacement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := s.store.Parts()
	selected := s.store.Selected()
	s.revalidateLocked(parts, selected)
	if s.view != View3D {
		return snap.FinPlacement{}, false
	}
	f, ok := find(parts, selected)
	if !ok || f.Kind != part.KindFin {
		return snap.FinPlacement{}, false
	}

	click := s.mapper.ToLogical(world, coords.PlacementOf(f))
	placement, ok := snap.RailSnap(f, click, parts, s.rails.Edge(f.ID))
	metrics.RecordSnap("rail", ok)
	if !ok {
		return snap.FinPlacement{}, false
	}
	s.rails.Reset()
	s.store.MoveAndRotate(f.ID, placement.Position, placement.Rotation)
	return placement, true
}

// RailView is what the 3D view draws for the selected fin.
type RailView struct {
	FinID string          `json:"finId"`
	Rails []snap.Rail     `json:"rails"`
	Balls []snap.RailBall `json:"balls"`
	Armed string          `json:"armed,omitempty"`
}

// Rails returns the rails and rail balls of the selected fin.
func (s *Session) Rails() (RailView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := s.store.Parts()
	selected := s.store.Selected()
	s.revalidateLocked(parts, selected)
	f, ok := find(parts, selected)
	if s.view != View3D || !ok || f.Kind != part.KindFin {
		return RailView{}, false
	}
	v := RailView{
		FinID: f.ID,
		Rails: snap.Rails(f, parts),
		Balls: snap.RailBalls(f, parts),
	}
	if e, ok := s.rails.Armed(f.ID); ok {
		v.Armed = e.String()
	}
	return v, true
}
