package logger

import (
	"fmt"

	"github.com/Philipp01105/firelogger/core"
)

// Severity classifies runtime warnings passed to Session.OnError. Values
// are bit flags so a reporting mask can select several of them.
type Severity int

const (
	SeverityWarning        Severity = 2
	SeverityNotice         Severity = 8
	SeverityUserWarning    Severity = 512
	SeverityUserNotice     Severity = 1024
	SeverityStrict         Severity = 2048
	SeverityDeprecated     Severity = 8192
	SeverityUserDeprecated Severity = 16384

	// SeverityAll is the reporting mask that lets everything through
	SeverityAll Severity = 32767
)

// Label returns the human readable prefix used in error records
func (s Severity) Label() string {
	switch s {
	case SeverityWarning, SeverityUserWarning:
		return "Warning"
	case SeverityNotice, SeverityUserNotice:
		return "Notice"
	case SeverityStrict:
		return "Strict standards"
	case SeverityDeprecated, SeverityUserDeprecated:
		return "Deprecated"
	default:
		return "Unknown error"
	}
}

// OnError records a runtime warning on the error logger as
// "<label>: <msg>" at warning level, located at file:line and carrying the
// current stack. With error filtering on, severities outside the reporting
// mask are dropped silently.
func (s *Session) OnError(sev Severity, msg, file string, line int) {
	if !s.Enabled() || s.errorLogger == nil {
		return
	}
	if s.errorFiltering && sev&s.errorReporting == 0 {
		return
	}
	s.errorLogger.Log(
		core.WarningLevel.String(),
		sev.Label()+": "+msg,
		CallSite{File: file, Line: line},
		Backtrace{Frames: core.CaptureStack(1)},
	)
}

// OnUncaughtException records a recovered panic value on the default
// logger. Call it from the deferred function that recovered:
//
//	defer func() {
//	    if v := recover(); v != nil {
//	        s.OnUncaughtException(v)
//	    }
//	}()
//
// Errors that recorded a stack are reported with it. Other values are
// reported with the stack of the panicking goroutine.
func (s *Session) OnUncaughtException(v any) {
	if !s.Enabled() || s.defaultLogger == nil || v == nil {
		return
	}
	err, ok := v.(error)
	if !ok || core.IsNil(err) || !core.HasStack(err) {
		err = &panicError{value: v, frames: core.CapturePanicStack(1)}
	}
	s.defaultLogger.emit(&call{level: core.DebugLevel, args: []any{err}})
}

// panicError carries a panic value and the stack it was raised on.
type panicError struct {
	value  any
	frames []core.Frame
}

func (e *panicError) Error() string {
	if err, ok := e.value.(error); ok && !core.IsNil(err) {
		return errorMessage(err)
	}
	return fmt.Sprint(e.value)
}

func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok && !core.IsNil(err) {
		return err
	}
	return nil
}

func (e *panicError) StackFrames() []core.Frame {
	return e.frames
}
