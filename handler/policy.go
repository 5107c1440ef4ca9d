package handler

import (
	"sync/atomic"

	"github.com/Philipp01105/firelogger/core"
)

// OverflowPolicy defines how to handle full async queues
type OverflowPolicy int

const (
	// DropNewest drops the newest batch when queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest batch when queue is full
	DropOldest
	// Block blocks the caller until space is available (with timeout)
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy returns the default level-based overflow policies.
// A batch is governed by the most severe level it contains.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.DebugLevel:    DropNewest,
		core.WarningLevel:  DropNewest,
		core.InfoLevel:     DropNewest,
		core.ErrorLevel:    Block,
		core.CriticalLevel: Block,
	}
}

const numLevels = int(core.CriticalLevel) + 1

// Stats tracks capture and handler statistics. All methods are safe for
// concurrent use.
type Stats struct {
	// SessionsTotal counts requests seen by a Capture
	SessionsTotal uint64
	// CapturedTotal counts requests whose session was enabled
	CapturedTotal uint64
	// HeadersTotal counts emitted FireLogger headers
	HeadersTotal uint64
	// HeaderBytesTotal counts emitted header value bytes
	HeaderBytesTotal uint64
	// ErrorsTotal counts failed Handle calls
	ErrorsTotal uint64
	// BlockedTotal counts times a console write blocked on a full queue
	BlockedTotal uint64
	// ProcessedTotal counts records written by console handlers
	ProcessedTotal uint64

	records [numLevels]uint64
	dropped [numLevels]uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

func levelIndex(level core.Level) int {
	if !level.Valid() {
		return int(core.DebugLevel)
	}
	return int(level)
}

// IncrementSessions atomically counts a request and whether it was captured
func (s *Stats) IncrementSessions(captured bool) {
	atomic.AddUint64(&s.SessionsTotal, 1)
	if captured {
		atomic.AddUint64(&s.CapturedTotal, 1)
	}
}

// AddRecords atomically counts emitted records by level
func (s *Stats) AddRecords(records []*core.Record) {
	for _, r := range records {
		atomic.AddUint64(&s.records[levelIndex(r.Level)], 1)
	}
}

// AddHeaders atomically counts emitted headers and their value bytes
func (s *Stats) AddHeaders(n, bytes int) {
	atomic.AddUint64(&s.HeadersTotal, uint64(n))
	atomic.AddUint64(&s.HeaderBytesTotal, uint64(bytes))
}

// IncrementErrors atomically increments the error counter
func (s *Stats) IncrementErrors() {
	atomic.AddUint64(&s.ErrorsTotal, 1)
}

// AddDropped atomically counts dropped records by level
func (s *Stats) AddDropped(records []*core.Record) {
	for _, r := range records {
		atomic.AddUint64(&s.dropped[levelIndex(r.Level)], 1)
	}
}

// IncrementBlocked atomically increments the blocked counter
func (s *Stats) IncrementBlocked() {
	atomic.AddUint64(&s.BlockedTotal, 1)
}

// AddProcessed atomically counts records written by a console handler
func (s *Stats) AddProcessed(n int) {
	atomic.AddUint64(&s.ProcessedTotal, uint64(n))
}

// GetRecords returns the emitted record count for a level
func (s *Stats) GetRecords(level core.Level) uint64 {
	return atomic.LoadUint64(&s.records[levelIndex(level)])
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	return atomic.LoadUint64(&s.dropped[levelIndex(level)])
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += atomic.LoadUint64(&s.dropped[i])
	}
	return total
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.SessionsTotal, 0)
	atomic.StoreUint64(&s.CapturedTotal, 0)
	atomic.StoreUint64(&s.HeadersTotal, 0)
	atomic.StoreUint64(&s.HeaderBytesTotal, 0)
	atomic.StoreUint64(&s.ErrorsTotal, 0)
	atomic.StoreUint64(&s.BlockedTotal, 0)
	atomic.StoreUint64(&s.ProcessedTotal, 0)
	for i := range s.records {
		atomic.StoreUint64(&s.records[i], 0)
		atomic.StoreUint64(&s.dropped[i], 0)
	}
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	SessionsTotal    uint64
	CapturedTotal    uint64
	HeadersTotal     uint64
	HeaderBytesTotal uint64
	ErrorsTotal      uint64
	BlockedTotal     uint64
	ProcessedTotal   uint64
	RecordsTotal     map[core.Level]uint64
	DroppedTotal     map[core.Level]uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	snap := Snapshot{
		SessionsTotal:    atomic.LoadUint64(&s.SessionsTotal),
		CapturedTotal:    atomic.LoadUint64(&s.CapturedTotal),
		HeadersTotal:     atomic.LoadUint64(&s.HeadersTotal),
		HeaderBytesTotal: atomic.LoadUint64(&s.HeaderBytesTotal),
		ErrorsTotal:      atomic.LoadUint64(&s.ErrorsTotal),
		BlockedTotal:     atomic.LoadUint64(&s.BlockedTotal),
		ProcessedTotal:   atomic.LoadUint64(&s.ProcessedTotal),
		RecordsTotal:     make(map[core.Level]uint64, numLevels),
		DroppedTotal:     make(map[core.Level]uint64, numLevels),
	}
	for i := 0; i < numLevels; i++ {
		level := core.Level(i)
		snap.RecordsTotal[level] = s.GetRecords(level)
		snap.DroppedTotal[level] = s.GetDropped(level)
	}
	return snap
}
