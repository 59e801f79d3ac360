package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a development-style zap logger at the given level.
// Output always goes to stderr so it never mixes with command output or
// the MCP stdio stream.
func NewLogger(levelStr string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()

	var level zapcore.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = zap.DebugLevel
	case "info":
		level = zap.InfoLevel
	case "error":
		level = zap.ErrorLevel
	default:
		level = zap.WarnLevel
	}

	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = level > zap.DebugLevel

	return cfg.Build()
}
