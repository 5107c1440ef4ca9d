package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/formatter"
	"github.com/Philipp01105/firelogger/logger"
)

func fixedID() string { return "1a2b" }

func newTestEncoder(t *testing.T) *formatter.Encoder {
	t.Helper()
	enc, err := formatter.NewEncoder(formatter.Config{})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	return enc.WithSessionID(fixedID)
}

func sessionWith(messages ...string) *logger.Session {
	s := logger.NewSession()
	for _, m := range messages {
		s.Default().Info(m)
	}
	return s
}

func TestHeaderHandler_Emits(t *testing.T) {
	stats := NewStats()
	hh := NewHeaderHandler(newTestEncoder(t), stats)

	s := sessionWith("hello")
	s.Default().Error("broken")

	h := http.Header{}
	if err := hh.Handle(s, h); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if _, ok := h["FireLogger-1a2b-0"]; !ok {
		t.Fatalf("header FireLogger-1a2b-0 missing, got %v", h)
	}

	records, err := formatter.Decode(h, formatter.DefaultHeaderPrefix)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Decode() returned %d records, want 2", len(records))
	}
	if records[0].Template != "hello" || records[1].Template != "broken" {
		t.Errorf("templates = %q, %q", records[0].Template, records[1].Template)
	}

	snap := hh.Stats()
	if snap.HeadersTotal != uint64(len(h)) {
		t.Errorf("HeadersTotal = %d, want %d", snap.HeadersTotal, len(h))
	}
	if snap.RecordsTotal[core.InfoLevel] != 1 || snap.RecordsTotal[core.ErrorLevel] != 1 {
		t.Errorf("RecordsTotal = %v", snap.RecordsTotal)
	}
	if snap.HeaderBytesTotal == 0 {
		t.Error("HeaderBytesTotal = 0")
	}
}

func TestHeaderHandler_EmptySession(t *testing.T) {
	hh := NewHeaderHandler(newTestEncoder(t), nil)
	h := http.Header{}
	if err := hh.Handle(logger.NewSession(), h); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	records, err := formatter.Decode(h, formatter.DefaultHeaderPrefix)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(h) != 1 || len(records) != 0 {
		t.Errorf("got %d headers and %d records, want 1 and 0", len(h), len(records))
	}
}

func TestHeaderHandler_Disabled(t *testing.T) {
	hh := NewHeaderHandler(newTestEncoder(t), nil)
	h := http.Header{}
	if err := hh.Handle(logger.Disabled(), h); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(h) != 0 {
		t.Errorf("disabled session emitted %v", h)
	}
}

type failingHandler struct {
	err    error
	calls  int
	closed bool
}

func (f *failingHandler) Handle(*logger.Session, http.Header) error {
	f.calls++
	return f.err
}

func (f *failingHandler) Close() error {
	f.closed = true
	return f.err
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := NewConsoleHandler(ConsoleConfig{Writer: &buf1})
	h2 := NewConsoleHandler(ConsoleConfig{Writer: &buf2})

	multi := NewMultiHandler(h1, h2)
	defer multi.Close()

	if err := multi.Handle(sessionWith("test message"), nil); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(buf1.String(), "test message") {
		t.Errorf("handler 1 output = %q", buf1.String())
	}
	if !strings.Contains(buf2.String(), "test message") {
		t.Errorf("handler 2 output = %q", buf2.String())
	}
}

func TestMultiHandler_CombinesErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	a, ok, b := &failingHandler{err: errA}, &failingHandler{}, &failingHandler{err: errB}
	multi := NewMultiHandler(a, ok, b)

	err := multi.Handle(sessionWith("x"), http.Header{})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Handle() error = %v, want both errors", err)
	}
	if a.calls != 1 || ok.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d/%d/%d, want 1/1/1", a.calls, ok.calls, b.calls)
	}

	if err := multi.Close(); !errors.Is(err, errA) {
		t.Errorf("Close() error = %v", err)
	}
	if !a.closed || !ok.closed || !b.closed {
		t.Error("Close() did not reach every handler")
	}
}

func TestConsoleHandler_Sync(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	defer h.Close()

	if err := h.Handle(sessionWith("test message", "second"), nil); err != nil {
		t.Errorf("Handle() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[INFO] go: test message") {
		t.Errorf("line = %q", lines[0])
	}
	if got := h.Stats().ProcessedTotal; got != 2 {
		t.Errorf("ProcessedTotal = %d, want 2", got)
	}
}

func TestConsoleHandler_SkipsDisabledAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{Writer: &buf})
	defer h.Close()

	_ = h.Handle(logger.Disabled(), nil)
	_ = h.Handle(logger.NewSession(), nil)
	if buf.Len() != 0 {
		t.Errorf("output = %q, want none", buf.String())
	}
}

func TestConsoleHandler_Async(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{
		Writer:     &buf,
		Async:      true,
		BufferSize: 10,
	})

	if err := h.Handle(sessionWith("async test"), nil); err != nil {
		t.Errorf("Handle() error = %v", err)
	}

	// Close drains the queue
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !strings.Contains(buf.String(), "async test") {
		t.Errorf("Expected 'async test' in output, got: %s", buf.String())
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

// gateWriter blocks the first write until released
type gateWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateWriter() *gateWriter {
	return &gateWriter{started: make(chan struct{}), release: make(chan struct{})}
}

func (w *gateWriter) Write(p []byte) (int, error) {
	first := false
	w.once.Do(func() { first = true })
	if first {
		close(w.started)
		<-w.release
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestConsoleHandler_OverflowPolicies(t *testing.T) {
	tests := []struct {
		name        string
		policy      OverflowPolicy
		wantDropped uint64
		wantLines   []string
	}{
		{"DropNewest", DropNewest, 1, []string{"first", "second"}},
		{"DropOldest", DropOldest, 1, []string{"first", "third"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newGateWriter()
			h := NewConsoleHandler(ConsoleConfig{
				Writer:         w,
				Async:          true,
				BufferSize:     1,
				OverflowPolicy: map[core.Level]OverflowPolicy{core.InfoLevel: tt.policy},
			})

			_ = h.Handle(sessionWith("first"), nil)
			<-w.started
			_ = h.Handle(sessionWith("second"), nil)
			_ = h.Handle(sessionWith("third"), nil)

			if got := h.Stats().DroppedTotal[core.InfoLevel]; got != tt.wantDropped {
				t.Errorf("dropped = %d, want %d", got, tt.wantDropped)
			}

			close(w.release)
			_ = h.Close()

			out := w.buf.String()
			for _, want := range tt.wantLines {
				if !strings.Contains(out, want) {
					t.Errorf("output %q misses %q", out, want)
				}
			}
		})
	}
}

func TestConsoleHandler_BlockFallsBackToSyncWrite(t *testing.T) {
	var buf safeBuffer
	h := NewConsoleHandler(ConsoleConfig{
		Writer:     &buf,
		Async:      true,
		BufferSize: 1,
		OverflowPolicy: map[core.Level]OverflowPolicy{
			core.ErrorLevel: Block,
		},
		BlockTimeout: 1,
	})
	defer h.Close()

	// Fill the queue faster than the writer drains it; blocked batches are
	// written synchronously, never dropped.
	for i := 0; i < 50; i++ {
		s := logger.NewSession()
		s.Default().Error("err")
		if err := h.Handle(s, nil); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}
	_ = h.Close()

	if got := strings.Count(buf.String(), "[ERROR]"); got != 50 {
		t.Errorf("wrote %d error records, want 50", got)
	}
	if got := h.Stats().DroppedTotal[core.ErrorLevel]; got != 0 {
		t.Errorf("dropped = %d, want 0", got)
	}
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestOverflowPolicy_String(t *testing.T) {
	tests := []struct {
		policy OverflowPolicy
		want   string
	}{
		{DropNewest, "DropNewest"},
		{DropOldest, "DropOldest"},
		{Block, "Block"},
		{OverflowPolicy(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.policy.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDefaultLevelPolicy(t *testing.T) {
	policy := DefaultLevelPolicy()
	if policy[core.ErrorLevel] != Block || policy[core.CriticalLevel] != Block {
		t.Errorf("error levels should block, got %v", policy)
	}
	if policy[core.DebugLevel] != DropNewest || policy[core.InfoLevel] != DropNewest {
		t.Errorf("low levels should drop newest, got %v", policy)
	}
}

func TestStats(t *testing.T) {
	s := NewStats()
	s.IncrementSessions(true)
	s.IncrementSessions(false)
	s.AddRecords([]*core.Record{{Level: core.InfoLevel}, {Level: core.InfoLevel}, {Level: core.Level(42)}})
	s.AddDropped([]*core.Record{{Level: core.WarningLevel}})
	s.AddHeaders(3, 200)
	s.IncrementErrors()
	s.IncrementBlocked()
	s.AddProcessed(5)

	snap := s.GetSnapshot()
	if snap.SessionsTotal != 2 || snap.CapturedTotal != 1 {
		t.Errorf("sessions = %d/%d, want 2/1", snap.SessionsTotal, snap.CapturedTotal)
	}
	if snap.RecordsTotal[core.InfoLevel] != 2 || snap.RecordsTotal[core.DebugLevel] != 1 {
		t.Errorf("RecordsTotal = %v", snap.RecordsTotal)
	}
	if s.GetTotalDropped() != 1 || s.GetDropped(core.WarningLevel) != 1 {
		t.Errorf("dropped = %d", s.GetTotalDropped())
	}
	if snap.HeadersTotal != 3 || snap.HeaderBytesTotal != 200 {
		t.Errorf("headers = %d/%d", snap.HeadersTotal, snap.HeaderBytesTotal)
	}
	if snap.ErrorsTotal != 1 || snap.BlockedTotal != 1 || snap.ProcessedTotal != 5 {
		t.Errorf("snapshot = %+v", snap)
	}

	s.Reset()
	if snap := s.GetSnapshot(); snap.SessionsTotal != 0 || snap.RecordsTotal[core.InfoLevel] != 0 || s.GetTotalDropped() != 0 {
		t.Errorf("Reset() left %+v", snap)
	}
}
