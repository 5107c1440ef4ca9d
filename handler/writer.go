package handler

import (
	"bytes"
	"net/http"
)

// ResponseBuffer holds a response back until Commit, so FireLogger
// headers can still be added after the wrapped handler returned.
type ResponseBuffer struct {
	w      http.ResponseWriter
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

// NewResponseBuffer wraps w. Headers set on the buffer are copied to w on
// Commit.
func NewResponseBuffer(w http.ResponseWriter) *ResponseBuffer {
	return &ResponseBuffer{w: w, header: make(http.Header)}
}

// Header returns the buffered header map
func (b *ResponseBuffer) Header() http.Header {
	return b.header
}

// WriteHeader records the status code. Only the first call counts.
func (b *ResponseBuffer) WriteHeader(status int) {
	if b.wrote {
		return
	}
	b.status = status
	b.wrote = true
}

// Write appends p to the buffered body
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if !b.wrote {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}

// Written reports whether the handler started a response
func (b *ResponseBuffer) Written() bool {
	return b.wrote
}

// Status returns the recorded status, http.StatusOK if none was set
func (b *ResponseBuffer) Status() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

// Len returns the number of buffered body bytes
func (b *ResponseBuffer) Len() int {
	return b.body.Len()
}

// Reset drops the buffered response, keeping the header map
func (b *ResponseBuffer) Reset() {
	b.body.Reset()
	b.status = 0
	b.wrote = false
}

// Commit copies headers and status to the underlying writer and sends the
// body unchanged.
func (b *ResponseBuffer) Commit() error {
	dst := b.w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	b.w.WriteHeader(b.Status())
	if b.body.Len() == 0 {
		return nil
	}
	_, err := b.w.Write(b.body.Bytes())
	return err
}

// Unwrap returns the underlying writer for http.ResponseController
func (b *ResponseBuffer) Unwrap() http.ResponseWriter {
	return b.w
}
