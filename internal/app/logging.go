package app

import (
	"log/slog"

	"github.com/treykane/paneboard/internal/logging"
)

// appLog is the package-level structured logger for the app package.
//
// The TUI owns the terminal, so the level and destination come from
// PANEBOARD_LOG_LEVEL and PANEBOARD_LOG_FILE (see the logging package).
var appLog = logging.New("app")

// setStatusError updates the status bar with a user-facing error message and
// simultaneously logs a structured error entry with full context.
//
// The status parameter is displayed verbatim in the UI, while the err and any
// additional key-value attrs are included only in the log entry:
//
//	m.setStatusError("Error saving note", err, "note", noteID)
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.status = status
	m.statusWarn = true
	fields := make([]any, 0, len(attrs)+2)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}

// setStatus replaces the footer message.
func (m *Model) setStatus(status string) {
	m.status = status
	m.statusWarn = false
}

// setStatusWarning shows a non-error problem, such as a denied unlock.
func (m *Model) setStatusWarning(status string, attrs ...any) {
	m.status = status
	m.statusWarn = true
	appLog.Warn(status, attrs...)
}
