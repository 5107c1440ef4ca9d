package logger

import (
	"github.com/Philipp01105/firelogger/core"
)

// Logger is a named source of records within one Session.
// All methods are safe on a nil *Logger and do nothing.
type Logger struct {
	session *Session
	name    string
	style   string
	records []*core.Record
}

// Name returns the logger name
func (l *Logger) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Style returns the CSS snippet for the logger icon
func (l *Logger) Style() string {
	if l == nil {
		return ""
	}
	return l.style
}

// Session returns the session the logger belongs to
func (l *Logger) Session() *Session {
	if l == nil {
		return nil
	}
	return l.session
}

// Records returns a copy of the records logged so far
func (l *Logger) Records() []*core.Record {
	if l == nil {
		return nil
	}
	l.session.mu.Lock()
	defer l.session.mu.Unlock()
	out := make([]*core.Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Logger) enabled() bool {
	return l != nil && l.session.Enabled()
}

// Log records args.
//
// The first argument, when it is a Level or a string naming a level, is the
// level (debug otherwise). The next argument, when it is a string, is the
// template. Everything after that is payload. An error as the first payload
// value makes an exception record.
func (l *Logger) Log(args ...any) {
	if !l.enabled() {
		return
	}
	c := parseCall(args)
	l.emit(&c)
}

// Debug logs a template and payload at debug level
func (l *Logger) Debug(template string, args ...any) {
	l.logAt(core.DebugLevel, template, args)
}

// Warning logs a template and payload at warning level
func (l *Logger) Warning(template string, args ...any) {
	l.logAt(core.WarningLevel, template, args)
}

// Info logs a template and payload at info level
func (l *Logger) Info(template string, args ...any) {
	l.logAt(core.InfoLevel, template, args)
}

// Error logs a template and payload at error level
func (l *Logger) Error(template string, args ...any) {
	l.logAt(core.ErrorLevel, template, args)
}

// Critical logs a template and payload at critical level
func (l *Logger) Critical(template string, args ...any) {
	l.logAt(core.CriticalLevel, template, args)
}

// Exception logs err with its stack at error level
func (l *Logger) Exception(err error) {
	if !l.enabled() || core.IsNil(err) {
		return
	}
	l.emit(&call{level: core.ErrorLevel, args: []any{err}})
}

func (l *Logger) logAt(level core.Level, template string, args []any) {
	if !l.enabled() {
		return
	}
	l.emit(&call{level: level, template: template, args: args})
}

func (l *Logger) emit(c *call) {
	r := l.build(c)
	l.session.append(l, r)
}
