// Package core defines the shared types of the FireLogger pipeline.
//
// It provides the Level enumeration understood by the FireLogger client,
// the Record type that represents one captured log event, and the raw
// Frame type used for call-site and trace extraction.
//
// Call-site resolution works on a plain slice of frames so that it can be
// fed either a live goroutine stack (CaptureStack, backed by
// github.com/go-stack/stack) or a caller-supplied override. The first
// frame with a file is taken to be the logging library; it and every
// adjacent frame of the same package are skipped and the next frame is the
// call site:
//
//	file, line := core.ResolveCallSite(core.CaptureStack(0))
//
// Locations reported inside evaluated code ("/x/y.php(41) : eval()'d
// code") are rewritten to the evaluating statement by FixEvalFileLine.
//
// ExtractTrace turns frames into the (file, line, qualified name,
// receiver) tuples and per-frame argument lists sent as exc_info and
// exc_frames. Errors created with github.com/pkg/errors, or implementing
// FrameTracer, provide the frames for exception records.
package core
