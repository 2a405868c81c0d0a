package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "file", cfg.Snapshot.Backend)
	assert.Equal(t, 5*time.Second, cfg.PollInterval.Duration)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen = "127.0.0.1:9000"
catalog_path = "catalog.yaml"
poll_interval = "250ms"

[snapshot]
backend = "sqlite"
path = "/tmp/assembly.db"
key = "bench"

[view]
grid_step = 0.5

[log]
level = "debug"
format = "console"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval.Duration)
	assert.Equal(t, "sqlite", cfg.Snapshot.Backend)
	assert.Equal(t, "bench", cfg.Snapshot.Key)
	assert.Equal(t, 1.0, cfg.View.Scale, "unset keys keep their default")
	assert.Equal(t, 0.5, cfg.View.GridStep)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `listen = `},
		{"unknown key", `colour = "red"`},
		{"bad duration", `poll_interval = "soon"`},
		{"backend", "[snapshot]\nbackend = \"etcd\""},
		{"sqlite without path", "[snapshot]\nbackend = \"sqlite\"\npath = \"\""},
		{"scale", "[view]\nscale = -1"},
		{"empty listen", `listen = ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidateReportsEverySetting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Listen = ""
	cfg.View.Scale = -1
	cfg.View.GridStep = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen must not be empty")
	assert.Contains(t, err.Error(), "view.scale must be positive")
	assert.Contains(t, err.Error(), "view.grid_step must be positive")
}
