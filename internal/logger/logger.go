package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Log is the process-wide logger. It is a no-op until Initialize is called,
// so library packages may log unconditionally.
var Log = zap.NewNop()

// Initialize replaces the global logger with a real one at the given level.
func Initialize(level string, debug bool) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Log = zl
	return nil
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = Log.Sync()
}
