// Package logger builds the structured logger shared by the CLI, the stores and the MCP server.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. Unknown names map to warn.
func ParseLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// New builds a zap logger writing to stderr. The json format uses the production
// encoder, anything else the development console encoder.
func New(levelStr, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(levelStr))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// Init replaces the process-wide logger. Until Init is called L returns a no-op logger.
func Init(levelStr, format string) error {
	l, err := New(levelStr, format)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l.Named("scholar"))
	return nil
}

// L returns the process-wide logger.
func L() *zap.Logger {
	return zap.L()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = zap.L().Sync()
}
