// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a contextual RunLogger carrying run, slot
// and component attributes for the vector runners.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for EnvMesh.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// LoggerConfig configures construction of a structured logger.
type LoggerConfig struct {
	Level  LogLevel
	Format string // json or text
	Output io.Writer
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewLogger builds a Logger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) Logger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NoOpLogger discards all log output. It is the default logger for runners so
// library consumers opt in to logging explicitly.
type NoOpLogger struct{}

// Debug discards the message.
func (NoOpLogger) Debug(msg string, args ...any) {}

// Info discards the message.
func (NoOpLogger) Info(msg string, args ...any) {}

// Warn discards the message.
func (NoOpLogger) Warn(msg string, args ...any) {}

// Error discards the message.
func (NoOpLogger) Error(msg string, args ...any) {}

// RunLogger decorates a Logger with run, component and slot context so runner
// internals produce correlated output without threading attributes manually.
// It is cheap to copy via the With* helpers.
type RunLogger struct {
	logger    Logger
	component string
	runID     string
	slot      int
	hasSlot   bool
}

// NewRunLogger wraps logger for a component and run. A nil logger is replaced
// with NoOpLogger.
func NewRunLogger(logger Logger, component, runID string) *RunLogger {
	if logger == nil {
		logger = NoOpLogger{}
	}
	return &RunLogger{logger: logger, component: component, runID: runID}
}

// WithSlot returns a copy annotated with a slot index.
func (r *RunLogger) WithSlot(slot int) *RunLogger {
	clone := *r
	clone.slot = slot
	clone.hasSlot = true
	return &clone
}

func (r *RunLogger) prefix(msg string) string {
	if r.hasSlot {
		return fmt.Sprintf("%s run_id=%s slot=%d: %s", r.component, r.runID, r.slot, msg)
	}
	return fmt.Sprintf("%s run_id=%s: %s", r.component, r.runID, msg)
}

// Debug logs a debug message with run context.
func (r *RunLogger) Debug(msg string, args ...any) { r.logger.Debug(r.prefix(msg), args...) }

// Info logs an info message with run context.
func (r *RunLogger) Info(msg string, args ...any) { r.logger.Info(r.prefix(msg), args...) }

// Warn logs a warning message with run context.
func (r *RunLogger) Warn(msg string, args ...any) { r.logger.Warn(r.prefix(msg), args...) }

// Error logs an error message with run context.
func (r *RunLogger) Error(msg string, args ...any) { r.logger.Error(r.prefix(msg), args...) }
