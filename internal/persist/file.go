package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File stores JSON values in one human-readable JSON object on disk. The
// whole file is rewritten on every Put.
type File struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
	path   string
}

// OpenFile loads the store at path. A missing or unreadable file starts
// empty; it is created on the first Put.
func OpenFile(path string) *File {
	f := &File{
		values: make(map[string]json.RawMessage),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f
	}
	_ = json.Unmarshal(data, &f.values)
	return f
}

// DefaultPath returns ~/.config/rocket-assembler/<name>.
func DefaultPath(name string) string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "rocket-assembler", name)
}

// Get returns the value under key.
func (f *File) Get(key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores data under key and writes the file. data must be JSON.
func (f *File) Put(key string, data []byte) error {
	if !json.Valid(data) {
		return errors.New("persist: file values must be JSON")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = append(json.RawMessage(nil), data...)

	out, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encode %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("persist: mkdir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("persist: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("persist: rename: %w", err)
	}
	return nil
}
