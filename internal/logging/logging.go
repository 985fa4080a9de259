// Package logging wraps zap for process-wide structured logging, following
// the production/debug split used across the example corpus's CLI tools.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger = zap.NewNop()

// Init configures the process-global logger. verbose lowers the level to
// Debug; logFile, if non-empty, also writes to a session log file under the
// platform cache directory.
func Init(verbose bool, logFile string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if logFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	global = logger
	return logger, nil
}

// Global returns the process-wide logger. Safe to call before Init (returns
// a no-op logger in that case).
func Global() *zap.Logger {
	return global
}

// SessionLogPath returns the session log path under the platform cache
// directory, following the "session-YYYYMMDD-HHMMSS-PID.log" naming pattern.
func SessionLogPath(now time.Time, pid int) (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	dir := filepath.Join(cacheDir, "rholang-lsp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("session-%s-%d.log", now.Format("20060102-150405"), pid)
	return filepath.Join(dir, name), nil
}
