// Package logger is the public API of FireLogger. Most users only need to
// import this package and one of the middleware packages.
//
// # Sessions
//
// All state of one request lives in a Session: the registered loggers in
// creation order, the counter that orders their records, and the default
// and error loggers. The middleware creates one Session per request and
// stores it in the request context:
//
//	s := logger.FromContext(r.Context())
//	s.Default().Info("user %s logged in", user)
//
// A Session that is not enabled records nothing; every logging call on it
// returns immediately. FromContext returns such a session when the context
// carries none, so code can log unconditionally.
//
// # Logging
//
// Logger.Log keeps the argument convention of the FireLogger client
// libraries: an optional level name, an optional template, then payload
// values:
//
//	l.Log("warning", "cache miss for %s", key)
//	l.Log("plain message", obj)
//	l.Log(err) // error payload, reported with its stack
//
// Payload values are pickled (see package pickle) when the record is
// built, so later mutation does not affect what the client sees. Entry is
// the explicit alternative:
//
//	l.At(logger.WarningLevel).Template("slow query").With(q).Log()
//
// CallSite and Backtrace arguments override the source location and the
// reported trace of a record and are never stored as payload.
//
// # Adapters
//
// Session.OnError records runtime warnings on the error logger, honoring
// the session's severity mask. Session.OnUncaughtException records a
// recovered panic value on the default logger with the stack of the
// panicking goroutine.
package logger
