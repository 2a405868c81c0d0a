package assembly

import (
	"encoding/json"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// Entry is one placement event in the history log. Besides the placed part
// it records what undo needs to restore the exact prior state.
type Entry struct {
	part.Placed

	// Nested lists the ids auto-placed together with this part.
	Nested []string `json:"nested,omitempty"`
	// PrevSelected is the selection before the place.
	PrevSelected *string `json:"prevSelected,omitempty"`
	// Displaced holds prior positions of parts re-homed onto the new part.
	Displaced map[string]geometry.Vec3 `json:"displaced,omitempty"`
}

// IDs returns every part id the entry introduced.
func (e Entry) IDs() []string {
	return append([]string{e.ID}, e.Nested...)
}

func (e Entry) clone() Entry {
	out := Entry{Placed: e.Placed.Clone()}
	if e.Nested != nil {
		out.Nested = append([]string(nil), e.Nested...)
	}
	if e.PrevSelected != nil {
		sel := *e.PrevSelected
		out.PrevSelected = &sel
	}
	if e.Displaced != nil {
		out.Displaced = make(map[string]geometry.Vec3, len(e.Displaced))
		for k, v := range e.Displaced {
			out.Displaced[k] = v
		}
	}
	return out
}

// Snapshot is the persisted state of one assembly.
type Snapshot struct {
	Assembly         []part.Placed `json:"assembly"`
	History          []Entry       `json:"history"`
	LastDropPosition geometry.Vec3 `json:"lastDropPosition"`
	SelectedID       *string       `json:"selectedId"`
}

// EmptySnapshot returns the default state.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Assembly: []part.Placed{},
		History:  []Entry{},
	}
}

// DecodeSnapshot parses a snapshot blob. Every field that is missing or
// malformed falls back to its default independently; malformed or duplicate
// parts are dropped; a selection that names no part is cleared.
func DecodeSnapshot(data []byte) Snapshot {
	snap := EmptySnapshot()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return snap
	}

	seen := make(map[string]bool)
	for _, item := range rawArray(raw["assembly"]) {
		var p part.Placed
		if err := json.Unmarshal(item, &p); err != nil || p.ID == "" || seen[p.ID] {
			continue
		}
		if !p.Position.IsFinite() || !p.Rotation.IsFinite() {
			continue
		}
		p.Refresh(p.CatalogEntry)
		seen[p.ID] = true
		snap.Assembly = append(snap.Assembly, p)
	}

	for _, item := range rawArray(raw["history"]) {
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil || e.ID == "" {
			continue
		}
		e.Refresh(e.CatalogEntry)
		snap.History = append(snap.History, e)
	}

	var drop geometry.Vec3
	if v, ok := raw["lastDropPosition"]; ok && json.Unmarshal(v, &drop) == nil && drop.IsFinite() {
		snap.LastDropPosition = drop
	}

	var sel *string
	if v, ok := raw["selectedId"]; ok && json.Unmarshal(v, &sel) == nil && sel != nil && seen[*sel] {
		snap.SelectedID = sel
	}
	return snap
}

func rawArray(data json.RawMessage) []json.RawMessage {
	if data == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}
