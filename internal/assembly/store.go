// Package assembly owns the authoritative rocket assembly: the placed parts,
// the placement history, the selection and the last drop position. Every
// mutation goes through a Store command that enforces the parent-follow
// rules, writes a snapshot and notifies listeners.
package assembly

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"rocket-assembler/internal/catalog"
	"rocket-assembler/internal/fin"
	"rocket-assembler/internal/logging"
	"rocket-assembler/internal/metrics"
	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// Persister stores the snapshot blob of one assembly.
type Persister interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store is the assembly state container. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	parts    []part.Placed
	index    part.Index
	history  []Entry
	selected string
	lastDrop geometry.Vec3
	catalog  []part.CatalogEntry

	persister Persister
	logger    *zap.Logger

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// Option configures a Store.
type Option func(*Store)

// WithPersister sets the snapshot backend.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithCatalog seeds the catalog used for auto-nesting.
func WithCatalog(entries []part.CatalogEntry) Option {
	return func(s *Store) { s.catalog = cloneEntries(entries) }
}

// New creates a store. When a persister is configured its snapshot is
// loaded; a missing or unreadable snapshot starts an empty assembly.
func New(opts ...Option) *Store {
	s := &Store{
		listeners: make(map[EventType][]EventListener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger).Named("assembly")

	if s.persister != nil {
		data, err := s.persister.Load()
		switch {
		case err != nil:
			s.logger.Info("starting with empty assembly", zap.Error(err))
		default:
			s.restore(DecodeSnapshot(data))
		}
	}
	s.reindex()
	return s
}

func (s *Store) restore(snap Snapshot) {
	s.parts = snap.Assembly
	s.history = snap.History
	s.lastDrop = snap.LastDropPosition
	s.selected = ""
	if snap.SelectedID != nil {
		s.selected = *snap.SelectedID
	}
}

func (s *Store) reindex() {
	s.index = part.NewIndex(s.parts)
	metrics.PlacedParts.Set(float64(len(s.parts)))
}

// snapshotLocked builds the persisted form. Caller holds s.mu.
func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Assembly:         part.CloneAll(s.parts),
		History:          make([]Entry, len(s.history)),
		LastDropPosition: s.lastDrop,
	}
	if snap.Assembly == nil {
		snap.Assembly = []part.Placed{}
	}
	for i, e := range s.history {
		snap.History[i] = e.clone()
	}
	if s.selected != "" {
		sel := s.selected
		snap.SelectedID = &sel
	}
	return snap
}

// persistLocked writes the snapshot. Failures are logged and counted but
// never reach the caller. Caller holds s.mu.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	data, err := json.Marshal(s.snapshotLocked())
	if err == nil {
		err = s.persister.Save(data)
	}
	if err != nil {
		metrics.PersistFailures.Inc()
		s.logger.Warn("snapshot write failed", zap.Error(err))
	}
}

// commit finishes a mutating command. Caller holds s.mu; the event is
// emitted by the caller after unlocking.
func (s *Store) commit(command string) {
	s.reindex()
	s.persistLocked()
	metrics.RecordCommand(command)
}

// enforceFollow sets every follower's position to its parent's until the
// assembly is stable. Returns the ids whose position changed. A reference
// cycle stops after len(parts) rounds.
func (s *Store) enforceFollow() []string {
	var changed []string
	seen := make(map[string]bool)
	for round := 0; round <= len(s.parts); round++ {
		moved := false
		for i := range s.parts {
			pi := part.FollowedParent(s.parts[i], s.parts, s.index)
			if pi < 0 || s.parts[i].Position == s.parts[pi].Position {
				continue
			}
			s.parts[i].Position = s.parts[pi].Position
			moved = true
			if !seen[s.parts[i].ID] {
				seen[s.parts[i].ID] = true
				changed = append(changed, s.parts[i].ID)
			}
		}
		if !moved {
			break
		}
	}
	return changed
}

// seedFin applies the default fin placement against the fin's body.
func (s *Store) seedFin(i int) {
	f := s.parts[i]
	bi := fin.PreferredBody(f, s.parts)
	if bi < 0 {
		return
	}
	body := s.parts[bi]
	s.parts[i].Position = geometry.V3(fin.DefaultLong(f.CatalogEntry, body), body.Position[1], body.Position[2])
}

// Place adds a part built from entry. position is the snap result or raw
// drop location; nil means "use the last drop position". A fin without an
// explicit position is seeded from its body. Placing a container also
// places every unplaced internal catalog entry whose parent names it.
// The new part becomes the selection. Returns false if the id is taken.
func (s *Store) Place(entry part.CatalogEntry, position *geometry.Vec3) bool {
	s.mu.Lock()

	if entry.ID == "" {
		s.mu.Unlock()
		return false
	}
	if _, exists := s.index[entry.ID]; exists {
		s.mu.Unlock()
		return false
	}
	if position != nil && !position.IsFinite() {
		s.mu.Unlock()
		return false
	}

	before := make(map[string]geometry.Vec3, len(s.parts))
	for _, p := range s.parts {
		before[p.ID] = p.Position
	}

	base := s.lastDrop
	if position != nil {
		base = *position
	}
	s.parts = append(s.parts, part.NewPlaced(entry, base))
	s.reindex()
	if entry.Kind == part.KindFin && position == nil {
		s.seedFin(len(s.parts) - 1)
	}

	var nested []string
	if entry.Kind.IsContainer() {
		for _, c := range s.catalog {
			if !part.IsNestChild(c, entry.ID) {
				continue
			}
			if _, placed := s.index[c.ID]; placed {
				continue
			}
			s.parts = append(s.parts, part.NewPlaced(c, base))
			s.reindex()
			if c.Kind == part.KindFin {
				s.seedFin(len(s.parts) - 1)
			}
			nested = append(nested, c.ID)
		}
	}

	s.enforceFollow()

	e := Entry{Placed: s.parts[s.index[entry.ID]].Clone(), Nested: nested}
	for id, pos := range before {
		if now := s.parts[s.index[id]].Position; now != pos {
			if e.Displaced == nil {
				e.Displaced = make(map[string]geometry.Vec3)
			}
			e.Displaced[id] = pos
		}
	}
	if s.selected != "" {
		prev := s.selected
		e.PrevSelected = &prev
	}
	s.history = append(s.history, e)
	s.selected = entry.ID

	s.commit("place")
	s.logger.Debug("placed part",
		zap.String("id", entry.ID),
		zap.Stringer("kind", entry.Kind),
		zap.Strings("nested", nested))
	s.mu.Unlock()

	s.emit(Event{Type: EventPlaced, IDs: e.IDs()})
	return true
}

// Move sets a part's position. A part that follows a placed parent is
// healed back onto the parent instead; followers of the moved part are
// carried along recursively. Returns false for an unknown id or a
// non-finite position.
func (s *Store) Move(id string, position geometry.Vec3) bool {
	return s.setPlacement("move", id, position, nil)
}

// MoveAndRotate sets a part's position and rotation in one command.
func (s *Store) MoveAndRotate(id string, position, rotation geometry.Vec3) bool {
	return s.setPlacement("move", id, position, &rotation)
}

func (s *Store) setPlacement(command, id string, position geometry.Vec3, rotation *geometry.Vec3) bool {
	if !position.IsFinite() || (rotation != nil && !rotation.IsFinite()) {
		return false
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}

	if pi := part.FollowedParent(s.parts[i], s.parts, s.index); pi >= 0 {
		position = s.parts[pi].Position
	}
	s.parts[i].Position = position
	if rotation != nil {
		s.parts[i].Rotation = *rotation
	}
	ids := append([]string{id}, s.enforceFollow()...)

	s.commit(command)
	s.mu.Unlock()

	s.emit(Event{Type: EventMoved, IDs: ids})
	return true
}

// Undo removes the most recent placement together with its auto-nested
// parts and restores the positions it displaced. A selection that pointed
// at a removed part reverts to the selection before that placement, if it
// still exists. Returns false when the history is empty.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}

	e := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	removed := make(map[string]bool)
	for _, id := range e.IDs() {
		removed[id] = true
	}
	kept := s.parts[:0]
	for _, p := range s.parts {
		if !removed[p.ID] {
			kept = append(kept, p)
		}
	}
	s.parts = kept
	s.reindex()

	for id, pos := range e.Displaced {
		if i, ok := s.index[id]; ok {
			s.parts[i].Position = pos
		}
	}
	s.enforceFollow()

	if removed[s.selected] {
		s.selected = ""
		if e.PrevSelected != nil {
			if _, ok := s.index[*e.PrevSelected]; ok {
				s.selected = *e.PrevSelected
			}
		}
	}

	s.commit("undo")
	s.mu.Unlock()

	s.emit(Event{Type: EventRemoved, IDs: e.IDs()})
	return true
}

// FlipAxis names one of the three flip flags.
type FlipAxis int

const (
	FlipLong FlipAxis = iota
	FlipLateral
	FlipRoll
)

// ParseFlipAxis parses "long", "lateral" or "roll".
func ParseFlipAxis(s string) (FlipAxis, error) {
	switch s {
	case "long":
		return FlipLong, nil
	case "lateral":
		return FlipLateral, nil
	case "roll":
		return FlipRoll, nil
	}
	return 0, fmt.Errorf("unknown flip axis %q", s)
}

// Flip toggles one flip flag of a part.
func (s *Store) Flip(id string, axis FlipAxis) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	p := &s.parts[i]
	switch axis {
	case FlipLong:
		p.FlipLong = !p.FlipLong
	case FlipLateral:
		p.FlipLateral = !p.FlipLateral
	case FlipRoll:
		p.FlipRoll = !p.FlipRoll
	default:
		s.mu.Unlock()
		return false
	}
	s.commit("flip")
	s.mu.Unlock()

	s.emit(Event{Type: EventFlipped, IDs: []string{id}})
	return true
}

// ConfirmFinPlacement marks a fin set as finally placed. Returns false for
// unknown ids and non-fins.
func (s *Store) ConfirmFinPlacement(id string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok || s.parts[i].Kind != part.KindFin {
		s.mu.Unlock()
		return false
	}
	placed := true
	s.parts[i].FinPlaced = &placed
	s.commit("confirm_fin")
	s.mu.Unlock()

	s.emit(Event{Type: EventFinConfirmed, IDs: []string{id}})
	return true
}

// SetFinOffsets replaces a fin's per-fin planar offsets.
func (s *Store) SetFinOffsets(id string, offsets []geometry.Point2D) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok || s.parts[i].Kind != part.KindFin {
		s.mu.Unlock()
		return false
	}
	s.parts[i].FinOffsets = append([]geometry.Point2D(nil), offsets...)
	s.commit("fin_offsets")
	s.mu.Unlock()

	s.emit(Event{Type: EventFinOffsetsChanged, IDs: []string{id}})
	return true
}

// ReconcileCatalog installs a new catalog revision and refreshes the
// catalog fields of placed parts with a matching id. Positions, history
// and selection are untouched. Returns the number of refreshed parts.
func (s *Store) ReconcileCatalog(entries []part.CatalogEntry) int {
	s.mu.Lock()
	s.catalog = cloneEntries(entries)
	var refreshed int
	s.parts, refreshed = catalog.Reconcile(s.parts, entries)
	s.commit("reconcile")
	s.mu.Unlock()

	s.logger.Info("catalog reconciled",
		zap.Int("entries", len(entries)),
		zap.Int("refreshed", refreshed))
	s.emit(Event{Type: EventReconciled})
	return refreshed
}

// SetCatalog installs a catalog for auto-nesting without touching placed
// parts.
func (s *Store) SetCatalog(entries []part.CatalogEntry) {
	s.mu.Lock()
	s.catalog = cloneEntries(entries)
	s.mu.Unlock()
}

// Select sets the selection. An empty id clears it; an unknown id is
// rejected.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	if id != "" {
		if _, ok := s.index[id]; !ok {
			s.mu.Unlock()
			return false
		}
	}
	s.selected = id
	s.commit("select")
	s.mu.Unlock()

	s.emit(Event{Type: EventSelectionChanged, IDs: []string{id}})
	return true
}

// SetLastDrop records the fallback position for the next place.
func (s *Store) SetLastDrop(position geometry.Vec3) bool {
	if !position.IsFinite() {
		return false
	}
	s.mu.Lock()
	s.lastDrop = position
	s.commit("set_last_drop")
	s.mu.Unlock()

	s.emit(Event{Type: EventDropChanged})
	return true
}

// Clear removes every part and the history. The last drop position and
// the catalog are kept.
func (s *Store) Clear() {
	s.mu.Lock()
	s.parts = nil
	s.history = nil
	s.selected = ""
	s.commit("clear")
	s.mu.Unlock()

	s.emit(Event{Type: EventCleared})
}

// Parts returns a copy of the assembly.
func (s *Store) Parts() []part.Placed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return part.CloneAll(s.parts)
}

// Part returns a copy of one placed part.
func (s *Store) Part(id string) (part.Placed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return part.Placed{}, false
	}
	return s.parts[i].Clone(), true
}

// History returns a copy of the placement log.
func (s *Store) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.history))
	for i, e := range s.history {
		out[i] = e.clone()
	}
	return out
}

// Selected returns the selected id, or "" for none.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// LastDrop returns the fallback drop position.
func (s *Store) LastDrop() geometry.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDrop
}

// Catalog returns a copy of the current catalog.
func (s *Store) Catalog() []part.CatalogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.catalog)
}

// Snapshot returns the current persisted form.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func cloneEntries(entries []part.CatalogEntry) []part.CatalogEntry {
	if entries == nil {
		return nil
	}
	out := make([]part.CatalogEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
