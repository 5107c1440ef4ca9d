package logger

import (
	"sync"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/pickle"
)

const (
	// DefaultLoggerName is the name of the logger behind the package-level
	// shortcuts and uncaught panics.
	DefaultLoggerName = "go"
	// DefaultLoggerStyle colors the default logger's icon in the client.
	DefaultLoggerStyle = "background-color: #00add8"
	// ErrorLoggerName is the name of the logger fed by Session.OnError.
	ErrorLoggerName = "error"
	// ErrorLoggerStyle colors the error logger's icon in the client.
	ErrorLoggerStyle = "background-color: #f00"
)

// Session holds the loggers and records of one request.
type Session struct {
	mu      sync.Mutex
	enabled bool
	counter int
	loggers []*Logger

	defaultLogger *Logger
	errorLogger   *Logger

	maxDepth       int
	now            core.Clock
	clientVersion  string
	errorFiltering bool
	errorReporting Severity
}

// Builder provides a fluent API for building Session instances
type Builder struct {
	enabled        bool
	maxDepth       int
	clock          core.Clock
	clientVersion  string
	errorFiltering bool
	errorReporting Severity
	defaultLogger  bool
	errorLogger    bool
}

// NewBuilder creates a new session builder
func NewBuilder() *Builder {
	return &Builder{
		enabled:        true,
		maxDepth:       pickle.DefaultMaxDepth,
		clock:          core.SystemClock,
		clientVersion:  "?",
		errorFiltering: true,
		errorReporting: SeverityAll,
		defaultLogger:  true,
		errorLogger:    true,
	}
}

// WithEnabled sets whether the session records anything
func (b *Builder) WithEnabled(enabled bool) *Builder {
	b.enabled = enabled
	return b
}

// WithMaxDepth sets the pickle depth for payload values
func (b *Builder) WithMaxDepth(depth int) *Builder {
	b.maxDepth = max(depth, 0)
	return b
}

// WithClock sets the clock used to stamp records
func (b *Builder) WithClock(clock core.Clock) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// WithClientVersion records the version the client announced
func (b *Builder) WithClientVersion(version string) *Builder {
	b.clientVersion = version
	return b
}

// WithErrorFiltering sets whether OnError honors the severity mask, and the
// mask itself.
func (b *Builder) WithErrorFiltering(enabled bool, mask Severity) *Builder {
	b.errorFiltering = enabled
	b.errorReporting = mask
	return b
}

// WithDefaultLogger sets whether the session registers the default logger
func (b *Builder) WithDefaultLogger(enabled bool) *Builder {
	b.defaultLogger = enabled
	return b
}

// WithErrorLogger sets whether the session registers the error logger
func (b *Builder) WithErrorLogger(enabled bool) *Builder {
	b.errorLogger = enabled
	return b
}

// Build creates the Session instance
func (b *Builder) Build() *Session {
	s := &Session{
		enabled:        b.enabled,
		maxDepth:       b.maxDepth,
		now:            b.clock,
		clientVersion:  b.clientVersion,
		errorFiltering: b.errorFiltering,
		errorReporting: b.errorReporting,
	}
	if b.defaultLogger {
		s.defaultLogger = s.NewLogger(DefaultLoggerName, DefaultLoggerStyle)
	}
	if b.errorLogger {
		s.errorLogger = s.NewLogger(ErrorLoggerName, ErrorLoggerStyle)
	}
	return s
}

// NewSession creates an enabled session with default settings
func NewSession() *Session {
	return NewBuilder().Build()
}

// Enabled reports whether the session records anything
func (s *Session) Enabled() bool {
	return s != nil && s.enabled
}

// ClientVersion returns the version announced by the client, or "?"
func (s *Session) ClientVersion() string {
	return s.clientVersion
}

// MaxDepth returns the pickle depth for payload values
func (s *Session) MaxDepth() int {
	return s.maxDepth
}

// Default returns the default logger, or nil when it is switched off
func (s *Session) Default() *Logger {
	return s.defaultLogger
}

// ErrorLogger returns the error logger, or nil when it is switched off
func (s *Session) ErrorLogger() *Logger {
	return s.errorLogger
}

// NewLogger creates and registers a logger. Names need not be unique.
// Disabled sessions hand out loggers without registering them.
func (s *Session) NewLogger(name, style string) *Logger {
	l := &Logger{session: s, name: name, style: style}
	if !s.enabled {
		return l
	}
	s.mu.Lock()
	s.loggers = append(s.loggers, l)
	s.mu.Unlock()
	return l
}

// Logger returns the first registered logger with the given name,
// creating an unstyled one if there is none.
func (s *Session) Logger(name string) *Logger {
	if !s.enabled {
		return &Logger{session: s, name: name}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.loggers {
		if l.name == name {
			return l
		}
	}
	l := &Logger{session: s, name: name}
	s.loggers = append(s.loggers, l)
	return l
}

// Loggers returns the registered loggers in creation order
func (s *Session) Loggers() []*Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Logger, len(s.loggers))
	copy(out, s.loggers)
	return out
}

// Records returns the records of every registered logger, logger by
// logger in creation order. Records are not re-sorted by order.
func (s *Session) Records() []*core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.loggers {
		n += len(l.records)
	}
	out := make([]*core.Record, 0, n)
	for _, l := range s.loggers {
		out = append(out, l.records...)
	}
	return out
}

// append assigns the next order value and stores r on l.
func (s *Session) append(l *Logger, r *core.Record) {
	s.mu.Lock()
	r.Order = s.counter
	s.counter++
	l.records = append(l.records, r)
	s.mu.Unlock()
}
