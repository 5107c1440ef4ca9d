package logger

import (
	"fmt"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/pickle"
)

// excText marks records built from an error payload.
const excText = "exception"

// call is one parsed logging invocation.
type call struct {
	level    core.Level
	template string
	args     []any
	site     *CallSite
	trace    *Backtrace
}

// parseCall applies the positional convention of Logger.Log.
func parseCall(args []any) call {
	c := call{level: core.DebugLevel}
	if len(args) > 0 {
		switch v := args[0].(type) {
		case core.Level:
			c.level = v
			args = args[1:]
		case string:
			if level, ok := core.ParseLevel(v); ok {
				c.level = level
				args = args[1:]
			}
		}
	}
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			c.template = s
			args = args[1:]
		}
	}
	c.args = args
	return c
}

// build turns a call into a record. Order is assigned when the record is
// stored.
func (l *Logger) build(c *call) *core.Record {
	s := l.session
	r := &core.Record{
		Name:     l.name,
		Args:     []any{},
		Level:    c.level,
		Template: c.template,
		Message:  c.template,
		Style:    l.style,
	}
	r.Stamp(s.now())

	if len(c.args) > 0 {
		if err, ok := c.args[0].(error); ok && !core.IsNil(err) {
			s.fillException(r, err)
			return r
		}
	}

	site, trace := c.site, c.trace
	payload := make([]any, 0, len(c.args))
	for _, arg := range c.args {
		switch v := arg.(type) {
		case CallSite:
			site = &v
		case *CallSite:
			if v != nil {
				site = v
			}
		case Backtrace:
			trace = &v
		case *Backtrace:
			if v != nil {
				trace = v
			}
		default:
			payload = append(payload, arg)
		}
	}

	if site != nil {
		r.Pathname, r.Lineno = core.FixEvalFileLine(site.File, site.Line)
	} else {
		r.Pathname, r.Lineno = core.ResolveCallSite(core.CaptureStack(0))
	}

	if trace != nil {
		locations, frames := s.extractTrace(trace.Frames)
		r.Exception = &core.ExceptionInfo{Trace: locations}
		r.ExcFrames = frames
	}

	for _, arg := range payload {
		r.Args = append(r.Args, pickle.Pickle(arg, s.maxDepth))
	}
	return r
}

// fillException reports err with the stack it recorded. Errors without a
// recorded stack are reported with the stack of the logging call.
func (s *Session) fillException(r *core.Record, err error) {
	frames := core.FramesFromError(err)
	if frames == nil {
		frames = core.TrimToCallSite(core.CaptureStack(0))
	}

	file, line := core.UnknownFile, 0
	if len(frames) > 0 {
		file, line = core.FixEvalFileLine(frames[0].File, frames[0].Line)
	}

	locations, args := s.extractTrace(frames)
	msg := errorMessage(err)
	r.Exception = &core.ExceptionInfo{Message: msg, File: file, Trace: locations}
	r.ExcFrames = args
	r.ExcText = excText
	r.Template = msg
	r.Code = core.ErrorCode(err)
	r.Pathname = file
	r.Lineno = line
}

// errorMessage returns err.Error(), or the error's type when Error panics.
func errorMessage(err error) (msg string) {
	defer func() {
		if recover() != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()
	return err.Error()
}

// extractTrace is core.ExtractTrace with receivers and frame arguments
// pickled.
func (s *Session) extractTrace(frames []core.Frame) ([]core.TraceLocation, [][]any) {
	locations, args := core.ExtractTrace(frames)
	for i := range locations {
		if locations[i].Receiver != nil {
			locations[i].Receiver = pickle.Pickle(locations[i].Receiver, s.maxDepth)
		}
	}
	for i, frameArgs := range args {
		if frameArgs == nil {
			continue
		}
		pickled := make([]any, len(frameArgs))
		for j, a := range frameArgs {
			pickled[j] = pickle.Pickle(a, s.maxDepth)
		}
		args[i] = pickled
	}
	return locations, args
}
