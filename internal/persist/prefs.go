package persist

import (
	"fyne.io/fyne/v2"
)

// Preferences stores blobs as string values in a fyne preferences store.
type Preferences struct {
	prefs fyne.Preferences
}

// NewPreferences wraps a fyne preferences store.
func NewPreferences(p fyne.Preferences) *Preferences {
	return &Preferences{prefs: p}
}

// Get returns the value under key. An empty value counts as missing.
func (p *Preferences) Get(key string) ([]byte, error) {
	v := p.prefs.String(key)
	if v == "" {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

// Put stores data under key.
func (p *Preferences) Put(key string, data []byte) error {
	p.prefs.SetString(key, string(data))
	return nil
}
