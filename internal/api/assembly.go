package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rocket-assembler/internal/assembly"
	"rocket-assembler/internal/catalog"
	"rocket-assembler/internal/part"
	"rocket-assembler/internal/snap"
	"rocket-assembler/pkg/geometry"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	s.store.Clear()
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.History())
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	s.commandResult(w, s.store.Undo())
}

func (s *Server) handleMass(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"mass": assembly.TotalMass(s.store.Parts())})
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, assembly.Flatten(s.store.Parts()))
}

func (s *Server) handleAnchors(w http.ResponseWriter, _ *http.Request) {
	anchors := snap.Anchors(s.store.Parts())
	if anchors == nil {
		anchors = []snap.Anchor{}
	}
	writeJSON(w, http.StatusOK, anchors)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.commandResult(w, s.store.Select(req.ID))
}

type positionRequest struct {
	Position *geometry.Vec3 `json:"position"`
	Rotation *geometry.Vec3 `json:"rotation,omitempty"`
}

func (s *Server) handleDropPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		writeError(w, http.StatusBadRequest, "position is required")
		return
	}
	s.commandResult(w, s.store.SetLastDrop(*req.Position))
}

// handleCatalog lists the catalog. ?visible=true hides internal entries
// and sorts by label, as a drop palette shows them.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := s.store.Catalog()
	if r.URL.Query().Get("visible") == "true" {
		entries = catalog.NewLibrary(entries).Visible()
	}
	if entries == nil {
		entries = []part.CatalogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var entries []part.CatalogEntry
	if !decode(w, r, &entries) {
		return
	}
	n := s.store.ReconcileCatalog(entries)
	writeJSON(w, http.StatusOK, map[string]int{"refreshed": n})
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID  string         `json:"entryId"`
		Position *geometry.Vec3 `json:"position"`
	}
	if !decode(w, r, &req) {
		return
	}
	var entry part.CatalogEntry
	found := false
	for _, e := range s.store.Catalog() {
		if e.ID == req.EntryID {
			entry, found = e, true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "unknown catalog entry")
		return
	}
	if entry.Internal {
		writeError(w, http.StatusConflict, "internal entries are placed with their container")
		return
	}
	if !s.store.Place(entry, req.Position) {
		writeError(w, http.StatusConflict, "command rejected")
		return
	}
	p, _ := s.store.Part(entry.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePart(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.Part(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown part")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		writeError(w, http.StatusBadRequest, "position is required")
		return
	}
	id := chi.URLParam(r, "id")
	if req.Rotation != nil {
		s.commandResult(w, s.store.MoveAndRotate(id, *req.Position, *req.Rotation))
		return
	}
	s.commandResult(w, s.store.Move(id, *req.Position))
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Axis string `json:"axis"`
	}
	if !decode(w, r, &req) {
		return
	}
	axis, err := assembly.ParseFlipAxis(req.Axis)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.commandResult(w, s.store.Flip(chi.URLParam(r, "id"), axis))
}

func (s *Server) handleConfirmFin(w http.ResponseWriter, r *http.Request) {
	s.commandResult(w, s.store.ConfirmFinPlacement(chi.URLParam(r, "id")))
}

func (s *Server) handleFinOffsets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Offsets []geometry.Point2D `json:"offsets"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.commandResult(w, s.store.SetFinOffsets(chi.URLParam(r, "id"), req.Offsets))
}
