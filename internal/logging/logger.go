// Package logging writes a daily debug log next to the config file.
// The terminal belongs to the TUI, so nothing is printed to stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// Logger is the global logger instance; nil until Init succeeds.
	Logger *log.Logger

	// SessionID tags every line written by this run.
	SessionID string

	logFile *os.File
)

// Init opens dir/prowlarr-tui-YYYY-MM-DD.log for appending.
func Init(dir, version string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, fmt.Sprintf("prowlarr-tui-%s.log", time.Now().Format("2006-01-02")))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	SessionID = uuid.NewString()
	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
	}).With("session", SessionID[:8])

	Logger.Info("prowlarr-tui started", "version", version)
	return nil
}

// Dir returns the log directory used for a config file path.
func Dir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "logs")
}

// Close flushes the shutdown line and closes the file.
func Close() {
	if Logger != nil {
		Logger.Info("prowlarr-tui shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	Logger = nil
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
