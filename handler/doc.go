// Package handler captures FireLogger sessions per request and dispatches
// them once the request is done.
//
// Capture is the entry point for middlewares: Begin decides whether a
// request is captured (master switch, X-FireLogger version header,
// optional password hash) and returns its Session; Finish runs the
// session through the handlers while the response header is still
// writable. ResponseBuffer holds a response back until then.
//
// Built-in handlers:
//
//   - HeaderHandler emits the records as FireLogger response headers.
//   - ConsoleHandler writes the records to any io.Writer (default: stderr),
//     synchronously or through a bounded queue with a per-level
//     OverflowPolicy.
//   - ZapHandler mirrors the records into a zap logger.
//   - MultiHandler fans a session out to several handlers.
//
// SlogHandler goes the other way and lets log/slog write into the session
// of the request context.
//
// Handlers count their work in a Stats value; Collector exports it to
// Prometheus.
package handler
