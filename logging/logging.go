// Package logging builds the structured loggers used across maney.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger to provide a consistent interface
type Logger struct {
	zerolog.Logger
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// New creates a human readable logger on stderr with the specified level.
func New(level string) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}
	logger := zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	return &Logger{Logger: logger}
}

// NewWithOutput creates a JSON logger writing to w.
func NewWithOutput(level string, w io.Writer) *Logger {
	logger := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	return &Logger{Logger: logger}
}

// Silent creates a logger that discards all output.
func Silent() *Logger {
	return &Logger{Logger: zerolog.New(io.Discard)}
}

// Named returns a child logger with the component field set. A nil logger
// yields a silent one.
func (l *Logger) Named(component string) *Logger {
	if l == nil {
		return Silent()
	}
	return &Logger{Logger: l.Logger.With().Str("component", component).Logger()}
}
