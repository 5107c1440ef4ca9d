// Package httphandler captures FireLogger records for net/http servers.
//
//	capture, _ := handler.NewCapture(cfg)
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//		logger.Info(r.Context(), "hello %s", r.URL.Path)
//	})
//	http.ListenAndServe(":8080", httphandler.New(capture).Wrap(mux))
package httphandler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Philipp01105/firelogger/handler"
	"github.com/Philipp01105/firelogger/logger"
)

// Middleware wraps handlers so their records reach the client
type Middleware struct {
	capture *handler.Capture
}

// New creates a middleware for capture
func New(capture *handler.Capture) *Middleware {
	return &Middleware{capture: capture}
}

// Wrap returns next with capture around it. Requests that are not
// captured pass through unbuffered; their context still carries a
// (disabled) session.
//
// Captured responses are buffered so the FireLogger headers can be set
// after next returns. With the exception handler on, a panic in next is
// logged, answered with 500 when nothing was written yet, and not
// re-raised; http.ErrAbortHandler is always re-raised.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.capture.Begin(r)
		r = r.WithContext(logger.NewContext(r.Context(), s))
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		buf := handler.NewResponseBuffer(w)
		if m.serve(next, buf, r, s) {
			buf.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprintln(buf, http.StatusText(http.StatusInternalServerError))
		}

		_ = m.capture.Finish(s, buf.Header())
		if err := buf.Commit(); err != nil {
			m.capture.Logger().Debug("FireLogger response write failed", zap.Error(err))
		}
	})
}

// serve runs next and reports whether it panicked without writing a
// response.
func (m *Middleware) serve(next http.Handler, buf *handler.ResponseBuffer, r *http.Request, s *logger.Session) (failed bool) {
	if m.capture.ExceptionHandler() {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			s.OnUncaughtException(v)
			failed = !buf.Written()
		}()
	}
	next.ServeHTTP(buf, r)
	return false
}
