package formatter

import (
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/Philipp01105/firelogger/core"
)

const (
	// DefaultHeaderPrefix starts the name of every emitted header
	DefaultHeaderPrefix = "FireLogger"
	// ChunkSize is the number of base64 characters per header value
	ChunkSize = 76
)

// Header is one emitted response header.
type Header struct {
	Name  string
	Value string
}

// Encoder turns records into FireLogger response headers: the JSON
// payload, base64 encoded and split into ChunkSize pieces named
// <prefix>-<session id>-<index>.
type Encoder struct {
	json      *JSONFormatter
	prefix    string
	sessionID func() string
}

// NewEncoder creates an Encoder. It fails for unknown encodings.
func NewEncoder(cfg Config) (*Encoder, error) {
	if cfg.HeaderPrefix == "" {
		cfg.HeaderPrefix = DefaultHeaderPrefix
	}
	jf, err := NewJSONFormatter(cfg)
	if err != nil {
		return nil, err
	}
	return &Encoder{json: jf, prefix: cfg.HeaderPrefix, sessionID: SessionID}, nil
}

// WithSessionID replaces the session id generator
func (e *Encoder) WithSessionID(f func() string) *Encoder {
	if f != nil {
		e.sessionID = f
	}
	return e
}

// Prefix returns the header name prefix
func (e *Encoder) Prefix() string {
	return e.prefix
}

// Encode returns the JSON payload for records
func (e *Encoder) Encode(records []*core.Record) ([]byte, error) {
	return e.json.Format(records)
}

// Headers returns the session id and the headers carrying records, in
// chunk order. An empty batch still yields the {"logs":[]} payload.
func (e *Encoder) Headers(records []*core.Record) (string, []Header, error) {
	payload, err := e.Encode(records)
	if err != nil {
		return "", nil, fmt.Errorf("formatter: encode payload: %w", err)
	}
	id := e.sessionID()
	chunks := Chunk(base64.StdEncoding.EncodeToString(payload), ChunkSize)
	headers := make([]Header, len(chunks))
	for i, c := range chunks {
		headers[i] = Header{Name: e.prefix + "-" + id + "-" + strconv.Itoa(i), Value: c}
	}
	return id, headers, nil
}

// Apply sets the headers for records on h and returns how many were set.
// Header names keep their exact casing.
func (e *Encoder) Apply(h http.Header, records []*core.Record) (int, error) {
	_, headers, err := e.Headers(records)
	if err != nil {
		return 0, err
	}
	for _, hdr := range headers {
		h[hdr.Name] = []string{hdr.Value}
	}
	return len(headers), nil
}

// Chunk splits s into pieces of at most size bytes
func Chunk(s string, size int) []string {
	if size <= 0 || len(s) <= size {
		return []string{s}
	}
	chunks := make([]string, 0, (len(s)+size-1)/size)
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	return append(chunks, s)
}

// SessionID returns a random id built from two values in [0, 0xFFFF],
// each in lower-case hex without padding.
func SessionID() string {
	return fmt.Sprintf("%x%x", rand.IntN(0x10000), rand.IntN(0x10000))
}
