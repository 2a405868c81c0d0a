// Package api exposes the assembly store and interaction sessions over
// HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rocket-assembler/internal/assembly"
	"rocket-assembler/internal/interaction"
	"rocket-assembler/internal/logging"
	"rocket-assembler/internal/version"
)

// Server serves one assembly.
type Server struct {
	store    *assembly.Store
	sessions *interaction.Manager
	logger   *zap.Logger
}

// New creates the HTTP service.
func New(store *assembly.Store, sessions *interaction.Manager, logger *zap.Logger) *Server {
	return &Server{
		store:    store,
		sessions: sessions,
		logger:   logging.OrNop(logger).Named("api"),
	}
}

// Router returns the full handler with middleware and /metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"version":  version.Version,
			"sessions": s.sessions.Len(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP mounts the API routes on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/assembly", s.handleSnapshot)
		r.Delete("/assembly", s.handleClear)
		r.Get("/assembly/history", s.handleHistory)
		r.Post("/assembly/undo", s.handleUndo)
		r.Get("/assembly/mass", s.handleMass)
		r.Get("/assembly/export", s.handleExport)
		r.Get("/assembly/anchors", s.handleAnchors)

		r.Put("/selection", s.handleSelect)
		r.Put("/drop-position", s.handleDropPosition)

		r.Get("/catalog", s.handleCatalog)
		r.Put("/catalog", s.handleReconcile)

		r.Post("/parts", s.handlePlace)
		r.Route("/parts/{id}", func(r chi.Router) {
			r.Get("/", s.handlePart)
			r.Put("/position", s.handleMove)
			r.Post("/flip", s.handleFlip)
			r.Post("/confirm-fin", s.handleConfirmFin)
			r.Put("/fin-offsets", s.handleFinOffsets)
		})

		r.Post("/sessions", s.handleOpenSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleSessionState))
			r.Delete("/", s.handleCloseSession)
			r.Put("/view", s.withSession(s.handleSetView))
			r.Post("/drop", s.withSession(s.handleSessionDrop))
			r.Post("/drags", s.withSession(s.handleBeginDrag))
			r.Post("/drags/move", s.withSession(s.handleDragMove))
			r.Post("/drags/end", s.withSession(s.handleEndDrag))
			r.Post("/anchor-clicks", s.withSession(s.handleAnchorClick))
			r.Post("/rail-balls", s.withSession(s.handleRailBall))
			r.Post("/rail-clicks", s.withSession(s.handleRailClick))
			r.Get("/rails", s.withSession(s.handleRails))
		})
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// commandResult answers a store command: 200 with the snapshot when it
// applied, 409 when it was rejected.
func (s *Server) commandResult(w http.ResponseWriter, ok bool) {
	if !ok {
		writeError(w, http.StatusConflict, "command rejected")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}
