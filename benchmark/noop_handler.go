package benchmark

import (
	"net/http"

	"github.com/Philipp01105/firelogger/handler"
	"github.com/Philipp01105/firelogger/logger"
)

// noopHandler walks the records of a session without writing them
type noopHandler struct {
	seen int
}

func newNoopHandler() handler.Handler {
	return &noopHandler{}
}

func (h *noopHandler) Handle(s *logger.Session, _ http.Header) error {
	h.seen += len(s.Records())
	return nil
}

func (h *noopHandler) Close() error {
	return nil
}
