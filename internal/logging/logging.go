// Package logging builds the slog loggers used by the commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ParseLevel maps a config level name to a slog level. verbose forces debug.
// Unknown names fall back to info.
func ParseLevel(name string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Stderr installs a stderr text logger as the default and returns it.
func Stderr(level slog.Level) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

// ToFile redirects logging to path for the lifetime of a TUI session, since
// stdout and stderr belong to the renderer. The standard log package is
// pointed at the same file. Close the returned closer on exit.
func ToFile(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	f, err := tea.LogToFile(path, "demodeck")
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	logger := New(f, level)
	slog.SetDefault(logger)
	return logger, f, nil
}
