package core

import (
	"errors"
	"reflect"

	pkgerrors "github.com/pkg/errors"
)

// ExtractTrace converts raw frames into two index-aligned slices: one
// location tuple and one argument list per frame.
func ExtractTrace(frames []Frame) ([]TraceLocation, [][]any) {
	locations := make([]TraceLocation, 0, len(frames))
	args := make([][]any, 0, len(frames))
	for _, f := range frames {
		locations = append(locations, TraceLocation{
			File:          f.File,
			Line:          f.Line,
			QualifiedName: f.QualifiedName(),
			Receiver:      f.Receiver,
		})
		args = append(args, f.Args)
	}
	return locations, args
}

// FrameTracer is implemented by errors that carry their own raw frames.
type FrameTracer interface {
	StackFrames() []Frame
}

// stackTracer is the interface github.com/pkg/errors values satisfy.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// FramesFromError returns the deepest stack recorded anywhere in err's
// chain. Errors without a recorded stack yield nil.
func FramesFromError(err error) []Frame {
	var frames []Frame
	for e := err; !IsNil(e); e = errors.Unwrap(e) {
		switch t := e.(type) {
		case FrameTracer:
			frames = t.StackFrames()
		case stackTracer:
			frames = framesFromStackTrace(t.StackTrace())
		}
	}
	return frames
}

// HasStack reports whether err or anything it wraps records a stack.
func HasStack(err error) bool {
	for e := err; !IsNil(e); e = errors.Unwrap(e) {
		switch e.(type) {
		case FrameTracer, stackTracer:
			return true
		}
	}
	return false
}

func framesFromStackTrace(st pkgerrors.StackTrace) []Frame {
	pcs := make([]uintptr, len(st))
	for i, f := range st {
		pcs[i] = uintptr(f)
	}
	return FramesFromPCs(pcs)
}

// Coder is implemented by errors that expose a numeric code.
type Coder interface {
	Code() int
}

// ErrorCode returns the code of the first Coder in err's chain, or 0.
func ErrorCode(err error) int {
	if IsNil(err) {
		return 0
	}
	var c Coder
	if errors.As(err, &c) && !isNilValue(c) {
		return c.Code()
	}
	return 0
}

// IsNil reports whether err is nil or a nil pointer, map, slice, func or
// channel stored in a non-nil error interface.
func IsNil(err error) bool {
	return isNilValue(err)
}

func isNilValue(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
