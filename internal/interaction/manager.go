package interaction

import (
	"sync"

	"go.uber.org/zap"

	"rocket-assembler/internal/assembly"
	"rocket-assembler/internal/coords"
	"rocket-assembler/internal/logging"
)

// Manager tracks the live sessions of one store.
type Manager struct {
	store  *assembly.Store
	mapper coords.Mapper
	planar coords.Planar
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager(store *assembly.Store, mapper coords.Mapper, planar coords.Planar, logger *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		mapper:   mapper,
		planar:   planar,
		logger:   logging.OrNop(logger),
		sessions: make(map[string]*Session),
	}
}

// Open starts a new session.
func (m *Manager) Open() *Session {
	s := NewSession(m.store, m.mapper, m.planar, m.logger)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Info("session opened", zap.String("session", s.ID))
	return s
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close ends a session. Returns false if it was not open.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
