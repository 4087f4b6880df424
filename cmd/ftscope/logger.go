package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newFileLogger writes JSON logs to path so the TUI keeps the terminal.
// It falls back to stderr when the file cannot be opened.
func newFileLogger(level, path string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log-level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			cfg.OutputPaths = []string{path}
			cfg.ErrorOutputPaths = []string{path}
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// newConsoleLogger writes human-readable logs to stderr for headless commands.
func newConsoleLogger(level string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log-level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}
