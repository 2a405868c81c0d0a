package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rocket-assembler/internal/fin"
	"rocket-assembler/internal/interaction"
	"rocket-assembler/pkg/geometry"
)

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *interaction.Session)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.Get(chi.URLParam(r, "sid"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) handleOpenSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, s.sessions.Open().State())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Close(chi.URLParam(r, "sid")) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionState(w http.ResponseWriter, _ *http.Request, sess *interaction.Session) {
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req struct {
		View string `json:"view"`
	}
	if !decode(w, r, &req) {
		return
	}
	v, err := interaction.ParseView(req.View)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.SetView(v)
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleSessionDrop(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req struct {
		EntryID  string         `json:"entryId"`
		Position *geometry.Vec3 `json:"position"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, ok := sess.Drop(req.EntryID, req.Position)
	if !ok {
		writeError(w, http.StatusConflict, "drop rejected")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleBeginDrag(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req struct {
		PartID   string             `json:"partId"`
		Handle   interaction.Handle `json:"handle"`
		FinIndex int                `json:"finIndex"`
		Grab     geometry.Vec3      `json:"grab"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, ok := sess.BeginDrag(req.PartID, req.Handle, req.FinIndex, req.Grab)
	if !ok {
		writeError(w, http.StatusConflict, "drag rejected")
		return
	}
	writeJSON(w, http.StatusOK, ctx)
}

type dragRequest struct {
	Context  interaction.DragContext `json:"context"`
	Position *geometry.Vec3          `json:"position"`
}

func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req dragRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		writeError(w, http.StatusBadRequest, "position is required")
		return
	}
	s.commandResult(w, sess.DragMove(req.Context, *req.Position))
}

func (s *Server) handleEndDrag(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req dragRequest
	if !decode(w, r, &req) {
		return
	}
	res, snapped := sess.EndDrag(req.Context, req.Position)
	writeJSON(w, http.StatusOK, map[string]any{"snapped": snapped, "result": res})
}

func (s *Server) handleAnchorClick(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req struct {
		AnchorID string `json:"anchorId"`
	}
	if !decode(w, r, &req) {
		return
	}
	outcome := sess.ClickAnchor(req.AnchorID)
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome.String(),
		"state":   sess.State(),
	})
}

func (s *Server) handleRailBall(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req struct {
		FinID string `json:"finId"`
		Edge  string `json:"edge"`
	}
	if !decode(w, r, &req) {
		return
	}
	e, ok := fin.ParseEdge(req.Edge)
	if !ok {
		writeError(w, http.StatusBadRequest, "edge must be root or tip")
		return
	}
	armed := sess.ClickRailBall(req.FinID, e)
	writeJSON(w, http.StatusOK, map[string]any{"armed": armed, "state": sess.State()})
}

func (s *Server) handleRailClick(w http.ResponseWriter, r *http.Request, sess *interaction.Session) {
	var req positionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		writeError(w, http.StatusBadRequest, "position is required")
		return
	}
	placement, ok := sess.ClickRail(*req.Position)
	if !ok {
		writeError(w, http.StatusConflict, "no rail within reach")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"placement": placement,
		"edge":      placement.Edge.String(),
	})
}

func (s *Server) handleRails(w http.ResponseWriter, _ *http.Request, sess *interaction.Session) {
	view, ok := sess.Rails()
	if !ok {
		writeError(w, http.StatusConflict, "select a fin in the 3d view")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
