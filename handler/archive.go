package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/formatter"
	"github.com/Philipp01105/firelogger/logger"
)

// ArchiveHandler appends the payload of every captured session to a file,
// one JSON document per line, and rotates the file by size or age. Each
// line decodes with formatter.DecodePayload.
type ArchiveHandler struct {
	filename       string
	file           *os.File
	formatter      formatter.WriterFormatter
	mu             sync.Mutex
	maxSize        int64
	maxBackups     int
	rotateInterval time.Duration
	currentSize    int64
	lastRotateTime time.Time
	now            core.Clock
	stats          *Stats
	closed         bool
}

// ArchiveConfig holds configuration for the archive handler
type ArchiveConfig struct {
	// Filename is the path to the archive file
	Filename string
	// Encoding of logged strings (default: UTF-8)
	Encoding string
	// MaxSize is the size in bytes that triggers rotation (0 = no size rotation)
	MaxSize int64
	// MaxBackups is the number of rotated files to keep (0 = keep all)
	MaxBackups int
	// RotateInterval rotates the file at this age (0 = no time rotation)
	RotateInterval time.Duration
	// Clock used for rotation (default: system clock)
	Clock core.Clock
	// Stats receives the handler counters (default: private instance)
	Stats *Stats
}

// NewArchiveHandler opens or creates the archive file
func NewArchiveHandler(cfg ArchiveConfig) (*ArchiveHandler, error) {
	if cfg.Filename == "" {
		return nil, errors.New("handler: archive filename is required")
	}
	jf, err := formatter.NewJSONFormatter(formatter.Config{Encoding: cfg.Encoding})
	if err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock
	}
	if cfg.Stats == nil {
		cfg.Stats = NewStats()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0o755); err != nil {
		return nil, fmt.Errorf("handler: create archive directory: %w", err)
	}
	file, size, err := openArchive(cfg.Filename)
	if err != nil {
		return nil, err
	}

	return &ArchiveHandler{
		filename:       cfg.Filename,
		file:           file,
		formatter:      jf,
		maxSize:        cfg.MaxSize,
		maxBackups:     cfg.MaxBackups,
		rotateInterval: cfg.RotateInterval,
		currentSize:    size,
		lastRotateTime: cfg.Clock(),
		now:            cfg.Clock,
		stats:          cfg.Stats,
	}, nil
}

func openArchive(name string) (*os.File, int64, error) {
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, 0, fmt.Errorf("handler: open archive: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, fmt.Errorf("handler: stat archive: %w", err)
	}
	return file, info.Size(), nil
}

// Handle appends the session's payload. Sessions without records are
// skipped.
func (h *ArchiveHandler) Handle(s *logger.Session, _ http.Header) error {
	if !s.Enabled() {
		return nil
	}
	records := s.Records()
	if len(records) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.New("handler: archive is closed")
	}
	if err := h.rotateIfNeeded(); err != nil {
		h.stats.IncrementErrors()
		return err
	}

	w := &countingWriter{w: h.file}
	err := h.formatter.FormatTo(records, w)
	if err == nil {
		_, err = w.Write([]byte{'\n'})
	}
	h.currentSize += w.n
	if err != nil {
		h.stats.IncrementErrors()
		return fmt.Errorf("handler: write archive: %w", err)
	}
	h.stats.AddProcessed(len(records))
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// rotateIfNeeded checks and performs rotation if needed
func (h *ArchiveHandler) rotateIfNeeded() error {
	needRotate := h.maxSize > 0 && h.currentSize >= h.maxSize
	if h.rotateInterval > 0 && h.now().Sub(h.lastRotateTime) >= h.rotateInterval {
		needRotate = true
	}
	if !needRotate || h.currentSize == 0 {
		return nil
	}
	return h.rotate()
}

// rotate renames the current file with a timestamp suffix and reopens
func (h *ArchiveHandler) rotate() error {
	if err := h.file.Sync(); err != nil {
		return err
	}
	if err := h.file.Close(); err != nil {
		return err
	}

	rotatedName := h.backupName()
	if err := os.Rename(h.filename, rotatedName); err != nil {
		file, _, openErr := openArchive(h.filename)
		if openErr != nil {
			return fmt.Errorf("handler: rotation failed: %v, reopen failed: %w", err, openErr)
		}
		h.file = file
		return fmt.Errorf("handler: rotation failed: %w", err)
	}

	if h.maxBackups > 0 {
		h.cleanupOldBackups()
	}

	file, _, err := openArchive(h.filename)
	if err != nil {
		return err
	}
	h.file = file
	h.currentSize = 0
	h.lastRotateTime = h.now()
	return nil
}

// backupName returns an unused timestamped name for the current file
func (h *ArchiveHandler) backupName() string {
	base := fmt.Sprintf("%s.%s", h.filename, h.now().UTC().Format("2006-01-02T15-04-05.000"))
	name := base
	for i := 1; ; i++ {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s.%d", base, i)
	}
}

// cleanupOldBackups removes the oldest rotated files beyond maxBackups.
// Backup names sort by their timestamp suffix.
func (h *ArchiveHandler) cleanupOldBackups() {
	matches, err := filepath.Glob(h.filename + ".*")
	if err != nil {
		return
	}
	var backups []string
	prefix := filepath.Base(h.filename) + "."
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), prefix) {
			backups = append(backups, match)
		}
	}
	sort.Strings(backups)

	if len(backups) > h.maxBackups {
		for _, file := range backups[:len(backups)-h.maxBackups] {
			if err := os.Remove(file); err != nil {
				return
			}
		}
	}
}

// Stats returns a snapshot of the current statistics
func (h *ArchiveHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close syncs and closes the archive file
func (h *ArchiveHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	if err := h.file.Sync(); err != nil {
		_ = h.file.Close()
		return err
	}
	return h.file.Close()
}
