// Package logger wraps zerolog with level parsing and a process-wide instance.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger.
type Logger struct {
	logger zerolog.Logger
}

// New creates a logger writing to stdout. Format is "json" or "console".
func New(level, format string) *Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	var writer io.Writer = os.Stdout
	if format == "console" {
		writer = zerolog.ConsoleWriter{Out: writer}
	}

	return &Logger{logger: zerolog.New(writer).With().Timestamp().Logger()}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug starts a debug-level event.
func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }

// Info starts an info-level event.
func (l *Logger) Info() *zerolog.Event { return l.logger.Info() }

// Warn starts a warn-level event.
func (l *Logger) Warn() *zerolog.Event { return l.logger.Warn() }

// Error starts an error-level event.
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }

// Fatal starts a fatal-level event; the event's Msg call exits the process.
func (l *Logger) Fatal() *zerolog.Event { return l.logger.Fatal() }

// With creates a child logger context.
func (l *Logger) With() zerolog.Context { return l.logger.With() }

var global *Logger

// Init initializes the global logger.
func Init(level, format string) {
	global = New(level, format)
}

// Get returns the global logger, creating a default one if Init was not called.
func Get() *Logger {
	if global == nil {
		global = New("info", "json")
	}
	return global
}
