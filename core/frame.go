package core

import (
	"runtime"
	"strings"
)

// Frame is one raw stack frame. Every field is optional; a missing value
// is simply the zero value.
type Frame struct {
	File     string
	Line     int
	Class    string
	Type     string
	Function string
	// Package is the import path of the frame's function when known. It
	// groups the frames of one library together for call-site resolution.
	Package  string
	Receiver any
	Args     []any
}

// HasFile reports whether the frame carries a source file
func (f Frame) HasFile() bool {
	return f.File != ""
}

// QualifiedName joins class, call type and function name
func (f Frame) QualifiedName() string {
	return f.Class + f.Type + f.Function
}

// owner identifies the code unit a frame belongs to: its package when
// known, its file otherwise.
func (f Frame) owner() string {
	if f.Package != "" {
		return f.Package
	}
	return f.File
}

// FrameFromRuntime converts a runtime.Frame. Go stacks carry neither
// receivers nor argument values, so those stay empty.
func FrameFromRuntime(rf runtime.Frame) Frame {
	pkg, class, typ, fn := splitFunction(rf.Function)
	return Frame{
		File:     rf.File,
		Line:     rf.Line,
		Class:    class,
		Type:     typ,
		Function: fn,
		Package:  pkg,
	}
}

// FramesFromPCs resolves program counters as returned by runtime.Callers.
func FramesFromPCs(pcs []uintptr) []Frame {
	if len(pcs) == 0 {
		return nil
	}
	frames := make([]Frame, 0, len(pcs))
	it := runtime.CallersFrames(pcs)
	for {
		rf, more := it.Next()
		if rf.Function != "" || rf.File != "" {
			frames = append(frames, FrameFromRuntime(rf))
		}
		if !more {
			break
		}
	}
	return frames
}

// splitFunction breaks a fully qualified Go function name into package,
// class, call type and function.
//
//	github.com/a/b.(*T).Method -> github.com/a/b, github.com/a/b.(*T), ->, Method
//	github.com/a/b.T.Method    -> github.com/a/b, github.com/a/b.T, ->, Method
//	github.com/a/b.Func.func1  -> github.com/a/b, "", "", github.com/a/b.Func.func1
func splitFunction(full string) (pkg, class, typ, fn string) {
	if full == "" {
		return "", "", "", ""
	}
	slash := strings.LastIndexByte(full, '/')
	dot := strings.IndexByte(full[slash+1:], '.')
	if dot < 0 {
		return "", "", "", full
	}
	dot += slash + 1
	pkg, rest := full[:dot], full[dot+1:]

	if strings.HasPrefix(rest, "(") {
		if end := strings.Index(rest, ")."); end > 0 {
			return pkg, pkg + "." + rest[:end+1], "->", rest[end+2:]
		}
		return pkg, "", "", full
	}
	recv, method, ok := strings.Cut(rest, ".")
	if !ok || isClosure(method) || recv == "init" {
		return pkg, "", "", full
	}
	return pkg, pkg + "." + recv, "->", method
}

// isClosure matches the compiler's names for function literals: func1, func2.3
func isClosure(name string) bool {
	rest, ok := strings.CutPrefix(name, "func")
	if !ok || rest == "" {
		return false
	}
	return rest[0] >= '0' && rest[0] <= '9'
}
