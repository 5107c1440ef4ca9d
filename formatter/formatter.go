package formatter

import (
	"bytes"
	"io"
	"sync"

	"github.com/Philipp01105/firelogger/core"
)

// Formatter defines the interface for record formatters
type Formatter interface {
	// Format serializes a batch of records into bytes
	Format(records []*core.Record) ([]byte, error)
}

// WriterFormatter is an optional interface that formatters can implement
// to write directly to a writer without intermediate byte slice allocation.
type WriterFormatter interface {
	// FormatTo serializes a batch of records and writes it to the writer
	FormatTo(records []*core.Record, w io.Writer) error
}

// Config holds common formatter configuration
type Config struct {
	// Encoding is the IANA name of the charset strings are assumed to be
	// in. Empty means UTF-8.
	Encoding string
	// HeaderPrefix is the name prefix of emitted headers. Empty means
	// DefaultHeaderPrefix.
	HeaderPrefix string
	// IncludeCaller adds the record location to text output
	IncludeCaller bool
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(1024)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 256*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
