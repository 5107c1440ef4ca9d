package handler

import (
	"net/http"

	"github.com/Philipp01105/firelogger/logger"
)

// Handler consumes the records of a finished request session.
type Handler interface {
	// Handle processes the session's records. h is the response header
	// set, still writable.
	Handle(s *logger.Session, h http.Header) error

	// Close closes the handler and releases resources
	Close() error
}
