package handler

import (
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/formatter"
	"github.com/Philipp01105/firelogger/logger"
)

// ConsoleHandler writes the records of every captured session to a
// writer, so they can be followed on the server as well.
type ConsoleHandler struct {
	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	async           bool
	queue           chan []*core.Record
	wg              sync.WaitGroup
	closed          chan struct{}
	closeOnce       sync.Once
	mu              sync.Mutex
	overflowPolicy  map[core.Level]OverflowPolicy
	blockTimeout    time.Duration
	stats           *Stats
	drainTimeout    time.Duration
}

// ConsoleConfig holds configuration for console handler
type ConsoleConfig struct {
	// Writer to write to (default: os.Stderr)
	Writer io.Writer
	// Formatter to use (default: TextFormatter with caller)
	Formatter formatter.Formatter
	// Async enables asynchronous writing
	Async bool
	// BufferSize is the size of the async queue in sessions (default: 256)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: uses DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining queue on Close (default: 5s)
	DrainTimeout time.Duration
	// Stats receives the handler counters (default: private instance)
	Stats *Stats
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{IncludeCaller: true})
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.Stats == nil {
		cfg.Stats = NewStats()
	}

	h := &ConsoleHandler{
		writer:         cfg.Writer,
		formatter:      cfg.Formatter,
		async:          cfg.Async,
		closed:         make(chan struct{}),
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		stats:          cfg.Stats,
		drainTimeout:   cfg.DrainTimeout,
	}

	// Cache WriterFormatter for the direct write path
	h.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)

	if h.async {
		h.queue = make(chan []*core.Record, cfg.BufferSize)
		h.wg.Add(1)
		go h.process()
	}

	return h
}

// Handle writes the records of an enabled session
func (h *ConsoleHandler) Handle(s *logger.Session, _ http.Header) error {
	if !s.Enabled() {
		return nil
	}
	records := s.Records()
	if len(records) == 0 {
		return nil
	}
	if !h.async {
		return h.write(records)
	}
	return h.enqueue(records)
}

// enqueue applies the overflow policy of the batch's most severe level
func (h *ConsoleHandler) enqueue(records []*core.Record) error {
	top := core.DebugLevel
	for _, r := range records {
		if r.Level > top {
			top = r.Level
		}
	}
	policy, ok := h.overflowPolicy[top]
	if !ok {
		policy = DropNewest // Default if not specified
	}

	switch policy {
	case Block:
		select {
		case h.queue <- records:
			return nil
		default:
		}
		timer := time.NewTimer(h.blockTimeout)
		defer timer.Stop()
		select {
		case h.queue <- records:
			return nil
		case <-timer.C:
			// Timeout - fall back to synchronous write
			h.stats.IncrementBlocked()
			return h.write(records)
		case <-h.closed:
			// Handler is closing, write synchronously
			return h.write(records)
		}

	case DropOldest:
		select {
		case h.queue <- records:
			return nil
		default:
			// Queue full - try to drop oldest
			select {
			case old := <-h.queue:
				h.stats.AddDropped(old)
			default:
			}
			select {
			case h.queue <- records:
			default:
				// Still full, drop this one
				h.stats.AddDropped(records)
			}
			return nil
		}

	default:
		select {
		case h.queue <- records:
		default:
			// Queue full - drop this batch
			h.stats.AddDropped(records)
		}
		return nil
	}
}

// write formats and writes a batch
func (h *ConsoleHandler) write(records []*core.Record) error {
	if h.writerFormatter != nil {
		h.mu.Lock()
		err := h.writerFormatter.FormatTo(records, h.writer)
		h.mu.Unlock()
		if err == nil {
			h.stats.AddProcessed(len(records))
		}
		return err
	}

	data, err := h.formatter.Format(records)
	if err != nil {
		return err
	}

	h.mu.Lock()
	_, writeErr := h.writer.Write(data)
	h.mu.Unlock()

	if writeErr == nil {
		h.stats.AddProcessed(len(records))
	}

	return writeErr
}

// process handles async writing
func (h *ConsoleHandler) process() {
	defer h.wg.Done()

	for {
		select {
		case records := <-h.queue:
			_ = h.write(records)
		case <-h.closed:
			// Drain remaining batches with timeout
			deadline := time.After(h.drainTimeout)
			for {
				select {
				case records := <-h.queue:
					_ = h.write(records)
				case <-deadline:
					return
				default:
					return
				}
			}
		}
	}
}

// Stats returns a snapshot of the current statistics
func (h *ConsoleHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the queue and stops the background writer
func (h *ConsoleHandler) Close() error {
	h.closeOnce.Do(func() {
		close(h.closed)
		if h.async {
			h.wg.Wait()
		}
	})
	return nil
}
