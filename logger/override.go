package logger

import (
	"github.com/Philipp01105/firelogger/core"
)

// CallSite overrides the source location of a record when passed as a log
// argument. It is consumed, never stored as payload.
type CallSite struct {
	File string
	Line int
}

// Backtrace overrides the trace of a record when passed as a log argument.
// The record reports the frames with an empty message and file.
type Backtrace struct {
	Frames []core.Frame
}

// CurrentBacktrace captures the caller's stack as a Backtrace
func CurrentBacktrace() Backtrace {
	return Backtrace{Frames: core.CaptureStack(1)}
}
