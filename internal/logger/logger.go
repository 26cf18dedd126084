// Package logger provides a thin wrapper around zerolog.Logger used
// throughout qrstudio. Embedding zerolog.Logger exposes the full zerolog
// API while keeping construction in one place.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger for the given role label (e.g. "server").
// Every entry carries a "role" field and a timestamp.
func New(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
