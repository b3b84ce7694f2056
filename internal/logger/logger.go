// Package logger wraps zap to provide structured logging for the service.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the configured zap logger.
type Logger struct {
	// Log is the underlying zap logger.
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger until Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures the logger at the given level ("Debug", "Info", "Warn",
// "Error"). It replaces the no-op logger with a production zap logger.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = log
	return nil
}
