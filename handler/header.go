package handler

import (
	"fmt"
	"net/http"

	"github.com/Philipp01105/firelogger/formatter"
	"github.com/Philipp01105/firelogger/logger"
)

// HeaderHandler emits a session's records as FireLogger response headers.
type HeaderHandler struct {
	enc   *formatter.Encoder
	stats *Stats
}

// NewHeaderHandler creates a header handler. A nil stats gets a private
// Stats instance.
func NewHeaderHandler(enc *formatter.Encoder, stats *Stats) *HeaderHandler {
	if stats == nil {
		stats = NewStats()
	}
	return &HeaderHandler{enc: enc, stats: stats}
}

// Handle sets one header per payload chunk on h. A disabled session emits
// nothing; an enabled one always emits at least the empty payload.
func (hh *HeaderHandler) Handle(s *logger.Session, h http.Header) error {
	if !s.Enabled() {
		return nil
	}
	records := s.Records()
	_, headers, err := hh.enc.Headers(records)
	if err != nil {
		hh.stats.IncrementErrors()
		return fmt.Errorf("handler: emit headers: %w", err)
	}
	size := 0
	for _, hdr := range headers {
		// direct assignment keeps the exact header casing
		h[hdr.Name] = []string{hdr.Value}
		size += len(hdr.Value)
	}
	hh.stats.AddRecords(records)
	hh.stats.AddHeaders(len(headers), size)
	return nil
}

// Stats returns a snapshot of the current statistics
func (hh *HeaderHandler) Stats() Snapshot {
	return hh.stats.GetSnapshot()
}

// Close is a no-op
func (hh *HeaderHandler) Close() error {
	return nil
}
