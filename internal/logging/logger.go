// Package logging provides structured logging for the ratelimitctl CLI and the gRPC admission
// adapter.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the console-writer formatting this repo's commands use.
type Logger struct {
	zlog   zerolog.Logger
	output io.Writer
}

// NewLogger builds a Logger writing console-formatted output to w.
func NewLogger(w io.Writer) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
	return &Logger{
		zlog:   zerolog.New(output).With().Timestamp().Logger(),
		output: output,
	}
}

// NewDefault builds a Logger writing to stderr.
func NewDefault() *Logger {
	return NewLogger(os.Stderr)
}

// Info returns an info-level event.
func (l *Logger) Info() *zerolog.Event { return l.zlog.Info() }

// Warn returns a warn-level event.
func (l *Logger) Warn() *zerolog.Event { return l.zlog.Warn() }

// Error returns an error-level event.
func (l *Logger) Error() *zerolog.Event { return l.zlog.Error() }

// Debug returns a debug-level event.
func (l *Logger) Debug() *zerolog.Event { return l.zlog.Debug() }

// Fatal returns a fatal-level event; logging to it exits the process.
func (l *Logger) Fatal() *zerolog.Event { return l.zlog.Fatal() }

// With returns a child logger context for attaching fields before the event is built.
func (l *Logger) With() zerolog.Context { return l.zlog.With() }

// SetVerbose raises the global log level to debug, or resets it to info.
func SetVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
