// Package echohandler captures FireLogger records for Echo servers.
//
//	e := echo.New()
//	e.Use(echohandler.Middleware(capture))
//	e.GET("/", func(c echo.Context) error {
//		echohandler.FromContext(c).Default().Info("hello")
//		return c.String(http.StatusOK, "ok")
//	})
package echohandler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Philipp01105/firelogger/handler"
	"github.com/Philipp01105/firelogger/logger"
)

// SessionKey is the echo.Context key holding the request's session
const SessionKey = "firelogger.session"

// Middleware returns an Echo middleware backed by capture. The session is
// stored on the echo.Context and in the request context.
//
// For captured requests the response is buffered until the route and
// Echo's error handler are done, then the FireLogger headers are added.
// Panics are logged and turned into a 500 when the exception handler is
// on.
func Middleware(capture *handler.Capture) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			s := capture.Begin(req)
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), s)))
			c.Set(SessionKey, s)
			if !s.Enabled() {
				return next(c)
			}

			res := c.Response()
			orig := res.Writer
			buf := handler.NewResponseBuffer(orig)
			res.Writer = buf
			defer func() { res.Writer = orig }()

			if err := serve(capture, next, c, s); err != nil {
				c.Error(err)
			}

			_ = capture.Finish(s, buf.Header())
			if err := buf.Commit(); err != nil {
				capture.Logger().Debug("FireLogger response write failed", zap.Error(err))
			}
			return nil
		}
	}
}

func serve(capture *handler.Capture, next echo.HandlerFunc, c echo.Context, s *logger.Session) (err error) {
	if capture.ExceptionHandler() {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			s.OnUncaughtException(v)
			err = echo.NewHTTPError(http.StatusInternalServerError).SetInternal(fmt.Errorf("panic: %v", v))
		}()
	}
	return next(c)
}

// FromContext returns the session of the request handled by c, or a
// disabled session outside the middleware.
func FromContext(c echo.Context) *logger.Session {
	if s, ok := c.Get(SessionKey).(*logger.Session); ok && s != nil {
		return s
	}
	return logger.FromContext(c.Request().Context())
}
