// Package logger provides the application's logging and error reporting.
package logger

import (
	"log"
	"os"
)

// Logger is the logging surface used across StudyBoard.
// Args are printed after the message; errors among them are reported in full.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Close()
}

// StdLogger writes to a standard library logger.
type StdLogger struct {
	std   *log.Logger
	debug bool
}

var _ Logger = (*StdLogger)(nil)

// NewStdLogger logs to stderr with the given component prefix, e.g. "[BOARD] ".
func NewStdLogger(prefix string, debug bool) *StdLogger {
	return &StdLogger{std: log.New(os.Stderr, prefix, log.LstdFlags), debug: debug}
}

// WithLogger wraps an existing *log.Logger.
func WithLogger(std *log.Logger, debug bool) *StdLogger {
	return &StdLogger{std: std, debug: debug}
}

func (l *StdLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s %s", level, msg)
	for _, arg := range args {
		l.std.Printf("  %+v", arg)
	}
}

func (l *StdLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.print("DEBUG", msg, args)
	}
}

func (l *StdLogger) Info(msg string, args ...interface{}) {
	l.print("INFO", msg, args)
}

func (l *StdLogger) Warn(msg string, args ...interface{}) {
	l.print("WARN", msg, args)
}

func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.print("ERROR", msg, args)
}

func (l *StdLogger) Close() {}
