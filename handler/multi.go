package handler

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/Philipp01105/firelogger/logger"
)

// MultiHandler sends a session to multiple handlers
type MultiHandler struct {
	handlers []Handler
}

// NewMultiHandler creates a new multi-handler
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Handle passes the session to every handler, in order. All handlers run
// even when one fails; the errors are combined.
func (m *MultiHandler) Handle(s *logger.Session, h http.Header) error {
	var err error
	for _, handler := range m.handlers {
		err = multierr.Append(err, handler.Handle(s, h))
	}
	return err
}

// Close closes all handlers
func (m *MultiHandler) Close() error {
	var err error
	for _, handler := range m.handlers {
		err = multierr.Append(err, handler.Close())
	}
	return err
}
