package app

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewLogger builds the process logger. The TUI owns the terminal, so logs are
// JSON lines in a file under the user cache directory. Falls back to a nop
// logger when the file cannot be set up.
func NewLogger() *zap.Logger {
	path := DefaultLogPath()
	if path == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func DefaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "omnileap", "omnileap.log")
}
