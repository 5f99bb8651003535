package logger

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
)

// RollbarLogger reports warnings and errors to Rollbar and mirrors every
// message to a StdLogger.
type RollbarLogger struct {
	std *StdLogger
}

var _ Logger = (*RollbarLogger)(nil)

// RollbarOptions identifies this installation to Rollbar.
type RollbarOptions struct {
	Token       string
	Environment string
	Host        string
	CodeVersion string
}

func NewRollbarLogger(std *StdLogger, opts RollbarOptions) *RollbarLogger {
	rollbar.SetToken(opts.Token)
	rollbar.SetEnvironment(opts.Environment)
	rollbar.SetServerHost(opts.Host)
	rollbar.SetCodeVersion(opts.CodeVersion)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(opts.Token != "")
	return &RollbarLogger{std: std}
}

func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, msg)
	return append(out, args...)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.std.Debug(msg, args...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.std.Info(msg, args...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.std.Warn(msg, args...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.std.Error(msg, args...)
}

// Close flushes queued reports.
func (l *RollbarLogger) Close() {
	rollbar.Wait()
}

// New picks the Rollbar logger when a token is set, the plain one otherwise.
func New(prefix string, debug bool, opts RollbarOptions) Logger {
	std := NewStdLogger(prefix, debug)
	if opts.Token == "" {
		return std
	}
	return NewRollbarLogger(std, opts)
}
