package core

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptureStack(t *testing.T) {
	frames := CaptureStack(0)
	if len(frames) == 0 {
		t.Fatal("CaptureStack() returned no frames")
	}

	top := frames[0]
	if !strings.HasSuffix(top.Function, "TestCaptureStack") {
		t.Errorf("top frame function = %q, want TestCaptureStack", top.Function)
	}
	if filepath.Base(top.File) != "stack_test.go" {
		t.Errorf("top frame file = %q, want stack_test.go", top.File)
	}
	if top.Line == 0 {
		t.Error("expected non-zero line")
	}
	if !strings.HasSuffix(top.Package, "/core") {
		t.Errorf("top frame package = %q", top.Package)
	}
}

func captureFromHelper() []Frame {
	return CaptureStack(1)
}

func TestCaptureStack_Skip(t *testing.T) {
	frames := captureFromHelper()
	if len(frames) == 0 {
		t.Fatal("CaptureStack(1) returned no frames")
	}
	if !strings.HasSuffix(frames[0].Function, "TestCaptureStack_Skip") {
		t.Errorf("top frame function = %q, want TestCaptureStack_Skip", frames[0].Function)
	}
}

func panicker() {
	panic("boom")
}

func TestCapturePanicStack(t *testing.T) {
	var frames []Frame
	func() {
		defer func() {
			if recover() != nil {
				frames = CapturePanicStack(0)
			}
		}()
		panicker()
	}()

	if len(frames) == 0 {
		t.Fatal("CapturePanicStack() returned no frames")
	}
	if !strings.HasSuffix(frames[0].Function, ".panicker") {
		t.Errorf("top frame function = %q, want panicker", frames[0].Function)
	}
}

type faultNode struct{ next *faultNode }

func faulter(n *faultNode) *faultNode {
	return n.next
}

func TestCapturePanicStack_RuntimeFault(t *testing.T) {
	var frames []Frame
	func() {
		defer func() {
			if recover() != nil {
				frames = CapturePanicStack(0)
			}
		}()
		faulter(nil)
	}()

	if len(frames) == 0 {
		t.Fatal("CapturePanicStack() returned no frames")
	}
	if !strings.HasSuffix(frames[0].Function, ".faulter") {
		t.Errorf("top frame function = %q, want faulter", frames[0].Function)
	}
}

func TestCaptureStack_SkipBeyondDepth(t *testing.T) {
	if frames := CaptureStack(10_000); frames != nil {
		t.Errorf("expected nil frames, got %d", len(frames))
	}
}
