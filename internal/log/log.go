// Package log provides JSON-lines structured logging for selectpro.
//
// The picker owns the terminal, so records always go to a file (or any
// writer the caller supplies), never to the TTY.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: io.Discard)
	Output io.Writer

	// Level is the minimum log level. The zero value is LevelInfo;
	// DefaultConfig and NewFile use LevelWarn.
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool

	// SessionID is attached to every record. Empty generates a new one.
	SessionID string
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: io.Discard,
		Level:  slog.LevelWarn,
	}
}

// New creates a new JSON-lines structured logger:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"fetch done","session_id":"…","seq":3}
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	session := cfg.SessionID
	if session == "" {
		session = uuid.NewString()
	}
	return slog.New(slog.NewJSONHandler(output, opts)).With("session_id", session)
}

// ErrUnknownLevel is returned by ParseLevel for an unrecognised name.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("%w: %s", ErrUnknownLevel, name)
	}
}

// OpenFile opens path for appending, creating parent directories. The
// returned closer must be closed by the caller.
func OpenFile(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// NewFile returns a logger writing to path at the named level. If the file
// cannot be opened the logger discards and the error is returned alongside
// it, so callers can continue without logs.
func NewFile(path, level string) (*slog.Logger, io.Closer, error) {
	lvl, lvlErr := ParseLevel(level)
	w, err := OpenFile(path)
	if err != nil {
		return New(&Config{Level: lvl}), io.NopCloser(nil), err
	}
	return New(&Config{Output: w, Level: lvl}), w, lvlErr
}

// LogSession logs prompt startup.
func LogSession(logger *slog.Logger, mode, source string, multiple bool) {
	logger.Info("session started",
		"mode", mode,
		"source", source,
		"multiple", multiple,
		"pid", os.Getpid(),
	)
}

// LogOutcome logs how the prompt ended.
func LogOutcome(logger *slog.Logger, outcome string, count int) {
	logger.Info("session ended", "outcome", outcome, "selected", count)
}
