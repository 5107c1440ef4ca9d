package handler

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/logger"
	"github.com/Philipp01105/firelogger/pickle"
)

// SlogHandler is a slog.Handler that logs into the FireLogger session of
// the record's context. Records logged with a context that carries no
// session go to the fallback session; a nil fallback drops them.
//
// The message becomes the template, the attributes one map argument and
// the record's PC the call site.
type SlogHandler struct {
	fallback *logger.Session
	name     string
	level    slog.Leveler
	attrs    pickle.Map
	groups   []string
}

// NewSlogHandler creates a slog.Handler writing to the logger called name
// (the session's default logger when name is empty).
func NewSlogHandler(fallback *logger.Session, name string) *SlogHandler {
	return &SlogHandler{fallback: fallback, name: name, level: slog.LevelDebug}
}

// WithLevel returns a copy that drops records below level. The filter
// uses slog's ordering, where warnings rank above info.
func (s *SlogHandler) WithLevel(level slog.Leveler) *SlogHandler {
	c := s.clone()
	if level != nil {
		c.level = level
	}
	return c
}

// Enabled reports whether a record at level would be stored
func (s *SlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= s.level.Level() && s.session(ctx).Enabled()
}

// Handle stores r in the session of ctx
func (s *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	sess := s.session(ctx)
	if !sess.Enabled() {
		return nil
	}
	l := sess.Default()
	if s.name != "" {
		l = sess.Logger(s.name)
	}

	attrs := make(pickle.Map, 0, len(s.attrs)+r.NumAttrs())
	attrs = append(attrs, s.attrs...)
	var recAttrs pickle.Map
	r.Attrs(func(a slog.Attr) bool {
		recAttrs = appendAttr(recAttrs, a)
		return true
	})
	attrs = nest(attrs, s.groups, recAttrs)

	e := l.At(slogLevelToCore(r.Level)).Template(r.Message)
	if len(attrs) > 0 {
		e.With(attrs)
	}
	if r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if f.File != "" {
			e.CallSite(f.File, f.Line)
		}
	}
	e.Log()
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	var added pickle.Map
	for _, a := range attrs {
		added = appendAttr(added, a)
	}
	c := s.clone()
	c.attrs = nest(c.attrs, c.groups, added)
	return c
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	c := s.clone()
	c.groups = append(c.groups, name)
	return c
}

func (s *SlogHandler) session(ctx context.Context) *logger.Session {
	if sess := logger.FromContext(ctx); sess.Enabled() {
		return sess
	}
	if s.fallback != nil {
		return s.fallback
	}
	return logger.Disabled()
}

func (s *SlogHandler) clone() *SlogHandler {
	return &SlogHandler{
		fallback: s.fallback,
		name:     s.name,
		level:    s.level,
		attrs:    append(pickle.Map(nil), s.attrs...),
		groups:   append([]string(nil), s.groups...),
	}
}

// nest adds attrs below the open groups. Each group is a map entry whose
// value holds the group's attributes; a group already present is extended
// without modifying the original.
func nest(dst pickle.Map, groups []string, attrs pickle.Map) pickle.Map {
	if len(attrs) == 0 {
		return dst
	}
	if len(groups) == 0 {
		out := make(pickle.Map, 0, len(dst)+len(attrs))
		return append(append(out, dst...), attrs...)
	}
	out := append(pickle.Map(nil), dst...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Key != groups[0] {
			continue
		}
		if inner, ok := out[i].Value.(pickle.Map); ok {
			out[i] = pickle.Pair{Key: groups[0], Value: nest(inner, groups[1:], attrs)}
			return out
		}
	}
	return append(out, pickle.Pair{Key: groups[0], Value: nest(nil, groups[1:], attrs)})
}

// appendAttr converts a slog.Attr, resolving LogValuers and inlining
// groups with an empty key.
func appendAttr(m pickle.Map, a slog.Attr) pickle.Map {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return m
	}
	if a.Value.Kind() == slog.KindGroup {
		var inner pickle.Map
		for _, ga := range a.Value.Group() {
			inner = appendAttr(inner, ga)
		}
		if len(inner) == 0 {
			return m
		}
		if a.Key == "" {
			return append(m, inner...)
		}
		return append(m, pickle.Pair{Key: a.Key, Value: inner})
	}
	return append(m, pickle.Pair{Key: a.Key, Value: slogValue(a.Value)})
}

func slogValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time()
	default:
		return v.Any()
	}
}

// slogLevelToCore maps slog levels onto FireLogger levels
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level > slog.LevelError:
		return core.CriticalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
