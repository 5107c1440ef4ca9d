package logger

import (
	"github.com/Philipp01105/firelogger/core"
)

// Entry builds one record step by step:
//
//	l.At(logger.InfoLevel).Template("saved %d rows").With(n).Log()
//
// An Entry is not safe for concurrent use.
type Entry struct {
	logger *Logger
	call   call
}

// At starts an entry at the given level
func (l *Logger) At(level core.Level) *Entry {
	return &Entry{logger: l, call: call{level: level}}
}

// Template sets the template
func (e *Entry) Template(template string) *Entry {
	e.call.template = template
	return e
}

// With appends payload values
func (e *Entry) With(args ...any) *Entry {
	e.call.args = append(e.call.args, args...)
	return e
}

// CallSite overrides the reported source location
func (e *Entry) CallSite(file string, line int) *Entry {
	e.call.site = &CallSite{File: file, Line: line}
	return e
}

// Backtrace overrides the reported trace
func (e *Entry) Backtrace(frames []core.Frame) *Entry {
	e.call.trace = &Backtrace{Frames: frames}
	return e
}

// Log builds and stores the record
func (e *Entry) Log() {
	if !e.logger.enabled() {
		return
	}
	e.logger.emit(&e.call)
}
