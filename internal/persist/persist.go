// Package persist provides key-value blob stores for assembly snapshots.
// Every backend stores opaque bytes under a string key; Snapshot binds a
// store and a key into the single-blob interface the assembly store uses.
package persist

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"fyne.io/fyne/v2"
)

// ErrNotFound is returned when a key holds no value.
var ErrNotFound = errors.New("persist: key not found")

// DefaultKey is the snapshot key used when none is configured.
const DefaultKey = "rocket-assembly"

// KV is a blob store.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
}

// Snapshot reads and writes one key of a KV.
type Snapshot struct {
	kv  KV
	key string
}

// NewSnapshot binds kv and key. An empty key uses DefaultKey.
func NewSnapshot(kv KV, key string) *Snapshot {
	if key == "" {
		key = DefaultKey
	}
	return &Snapshot{kv: kv, key: key}
}

// Load returns the stored snapshot.
func (s *Snapshot) Load() ([]byte, error) { return s.kv.Get(s.key) }

// Save replaces the stored snapshot.
func (s *Snapshot) Save(data []byte) error { return s.kv.Put(s.key, data) }

// Memory is an in-process KV.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Get returns a copy of the value under key.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of data under key.
func (m *Memory) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), data...)
	return nil
}

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"` // "file", "sqlite", "preferences" or "memory"
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

// Option supplies backend dependencies that cannot come from a config file.
type Option func(*openOptions)

type openOptions struct {
	prefs fyne.Preferences
}

// WithPreferences provides the fyne preferences used by the "preferences"
// backend.
func WithPreferences(p fyne.Preferences) Option {
	return func(o *openOptions) { o.prefs = p }
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the configured backend. The returned closer releases it.
func Open(cfg Config, opts ...Option) (*Snapshot, io.Closer, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Backend {
	case "", "memory":
		return NewSnapshot(NewMemory(), cfg.Key), nopCloser{}, nil
	case "file":
		if cfg.Path == "" {
			return nil, nil, errors.New("persist: file backend needs a path")
		}
		return NewSnapshot(OpenFile(cfg.Path), cfg.Key), nopCloser{}, nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, nil, errors.New("persist: sqlite backend needs a path")
		}
		db, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return NewSnapshot(db, cfg.Key), db, nil
	case "preferences":
		if o.prefs == nil {
			return nil, nil, errors.New("persist: preferences backend needs a fyne app")
		}
		return NewSnapshot(NewPreferences(o.prefs), cfg.Key), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("persist: unknown backend %q", cfg.Backend)
}
