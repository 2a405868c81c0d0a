// Package logging builds the zap loggers used across the assembler.
package logging

import (
	"go.uber.org/zap"
)

// Config holds logging configuration.
type Config struct {
	Level       string `toml:"level"`
	Format      string `toml:"format"` // "json" or "console"
	Output      string `toml:"output"`
	Development bool   `toml:"development"`
}

// New creates a logger from cfg. An unparseable level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zc.Level = level

	if cfg.Format == "console" {
		zc.Encoding = "console"
	} else {
		zc.Encoding = "json"
	}

	if cfg.Output != "" {
		zc.OutputPaths = []string{cfg.Output}
	}

	return zc.Build(zap.Fields(zap.String("service", "rocket-assembler")))
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
