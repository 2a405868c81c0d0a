// Package app provides application configuration and wiring.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"rocket-assembler/internal/logging"
	"rocket-assembler/internal/persist"
)

// Duration is a time.Duration decoded from strings like "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ViewConfig holds coordinate mapping settings.
type ViewConfig struct {
	Scale    float64 `toml:"scale"`
	GridStep float64 `toml:"grid_step"`
}

// Config is the server configuration.
type Config struct {
	Listen       string         `toml:"listen"`
	CatalogPath  string         `toml:"catalog_path"`
	PollInterval Duration       `toml:"poll_interval"`
	Snapshot     persist.Config `toml:"snapshot"`
	View         ViewConfig     `toml:"view"`
	Log          logging.Config `toml:"log"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen:       ":8080",
		PollInterval: Duration{5 * time.Second},
		Snapshot: persist.Config{
			Backend: "file",
			Path:    persist.DefaultPath("snapshots.json"),
			Key:     persist.DefaultKey,
		},
		View: ViewConfig{Scale: 1, GridStep: 1},
		Log:  logging.Config{Level: "info", Format: "json"},
	}
}

// Load decodes a TOML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, cfg.Validate()
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting, joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen must not be empty"))
	}
	if c.CatalogPath != "" && c.PollInterval.Duration <= 0 {
		errs = append(errs, errors.New("poll_interval must be positive"))
	}
	switch c.Snapshot.Backend {
	case "memory", "preferences":
	case "file", "sqlite":
		if c.Snapshot.Path == "" {
			errs = append(errs, fmt.Errorf("snapshot.path is required for the %s backend", c.Snapshot.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("snapshot.backend %q is not one of file, sqlite, preferences, memory", c.Snapshot.Backend))
	}
	if c.View.Scale <= 0 {
		errs = append(errs, errors.New("view.scale must be positive"))
	}
	if c.View.GridStep <= 0 {
		errs = append(errs, errors.New("view.grid_step must be positive"))
	}
	return errors.Join(errs...)
}
