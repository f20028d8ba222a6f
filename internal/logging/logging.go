// Package logging provides the shared structured logger for paneboard.
//
// Every component derives its logger from one slog base logger so output
// format and level are decided in a single place. Two environment variables
// are read on first use:
//
//	PANEBOARD_LOG_LEVEL  debug, info, warn or error (default info)
//	PANEBOARD_LOG_FILE   append log output to this file instead of stderr
//
// Usage:
//
//	log := logging.New("catalog")
//	log.Info("opened store", "driver", "sqlite")
//	log.Error("save failed", "error", err)
//
// While the terminal UI owns the screen, stderr output is hidden behind the
// alternate screen buffer, so PANEBOARD_LOG_FILE is the practical way to
// follow logs during an interactive session.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	levelEnv = "PANEBOARD_LOG_LEVEL"
	fileEnv  = "PANEBOARD_LOG_FILE"
)

var (
	initLogger sync.Once
	baseLogger *slog.Logger
)

// New returns a logger tagged with component="<component>". An empty
// component returns the base logger.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		baseLogger = slog.New(slog.NewTextHandler(openOutput(os.Getenv(fileEnv)), &slog.HandlerOptions{
			Level: parseLevel(os.Getenv(levelEnv)),
		}))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// openOutput returns the log destination. A file that cannot be opened falls
// back to stderr.
func openOutput(path string) io.Writer {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return os.Stderr
	}
	return f
}

// parseLevel maps a level name (case-insensitive) to a slog level, defaulting
// to info.
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
