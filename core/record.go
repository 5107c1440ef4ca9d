package core

import (
	"time"
)

// UnknownFile is the pathname reported when no call site can be resolved.
const UnknownFile = "?"

// Record represents one captured log event with all its metadata.
//
// Args, ExcFrames and the Receiver of every TraceLocation hold pickled
// values only, so a Record is always safe to serialize.
type Record struct {
	Name      string
	Args      []any
	Level     Level
	Timestamp float64
	Order     int
	Time      string
	Template  string
	Message   string
	Style     string

	// Exception is set for error payloads and for backtrace overrides.
	Exception *ExceptionInfo
	ExcFrames [][]any
	// ExcText marks records built from an error payload. Code is only
	// reported for those records.
	ExcText string
	Code    int

	Pathname string
	Lineno   int
}

// ExceptionInfo is the (message, file, trace) triple of a record
type ExceptionInfo struct {
	Message string
	File    string
	Trace   []TraceLocation
}

// TraceLocation is one (file, line, qualified name, receiver) tuple of a trace
type TraceLocation struct {
	File          string
	Line          int
	QualifiedName string
	Receiver      any
}

// HasException reports whether the record was built from an error payload
func (r *Record) HasException() bool {
	return r.ExcText != ""
}

// Stamp sets Timestamp and Time from t.
func (r *Record) Stamp(t time.Time) {
	r.Timestamp = Timestamp(t)
	r.Time = FormatTime(t)
}

// Timestamp converts t to fractional seconds since the Unix epoch.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// FormatTime renders t as HH:MM:SS.mmm in UTC. Milliseconds are
// truncated, not rounded.
func FormatTime(t time.Time) string {
	return t.UTC().Format("15:04:05.000")
}

