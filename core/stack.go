package core

import (
	"github.com/go-stack/stack"
)

// panicFunction is the runtime frame that sits between a deferred recover
// and the function that panicked.
const panicFunction = "runtime.gopanic"

// CaptureStack returns the current goroutine's stack, innermost first.
// skip=0 starts at the caller of CaptureStack. Trailing runtime frames are
// trimmed.
func CaptureStack(skip int) []Frame {
	calls := stack.Trace().TrimRuntime()
	// calls[0] is CaptureStack itself
	skip++
	if skip >= len(calls) {
		return nil
	}
	calls = calls[skip:]
	frames := make([]Frame, 0, len(calls))
	for _, c := range calls {
		frames = append(frames, FrameFromRuntime(c.Frame()))
	}
	return frames
}

// CapturePanicStack is CaptureStack for use inside a deferred recover: it
// drops the frames of the recovering code, and the runtime frames of
// faults such as nil dereferences, so the stack starts where the panic was
// raised. Outside a panic it behaves like CaptureStack.
func CapturePanicStack(skip int) []Frame {
	frames := CaptureStack(skip + 1)
	for i, f := range frames {
		if f.Function != panicFunction {
			continue
		}
		frames = frames[i+1:]
		for len(frames) > 1 && frames[0].Package == "runtime" {
			frames = frames[1:]
		}
		return frames
	}
	return frames
}
