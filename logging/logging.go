// Package logging builds the structured loggers used by the I/O components.
package logging

import (
	"io"
	"strings"

	"github.com/phuslu/log"
)

// Formats accepted by New.
const (
	Console = "console"
	JSON    = "json"
)

// New returns a logger writing entries at or above level to w.
//
// format is Console (human readable, the default) or JSON. An unknown level
// falls back to info.
func New(level, format string, w io.Writer) *log.Logger {
	l := &log.Logger{Level: ParseLevel(level)}
	switch strings.ToLower(format) {
	case JSON:
		l.Writer = &log.IOWriter{Writer: w}
	default:
		l.Writer = &log.ConsoleWriter{Writer: w, EndWithMessage: true}
	}
	return l
}

// ParseLevel maps "trace", "debug", "info", "warn", "error" to a level, info otherwise.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Nop returns a logger that discards everything.
func Nop() *log.Logger {
	return &log.Logger{Level: log.PanicLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *log.Logger) *log.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
