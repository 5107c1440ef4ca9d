package formatter

import (
	"bytes"
	"io"
	"path/filepath"
	"strconv"

	"github.com/Philipp01105/firelogger/core"
)

// TextFormatter renders records as human-readable lines, the way the
// client console lists them.
type TextFormatter struct {
	Config
	json *JSONFormatter
}

// NewTextFormatter creates a new text formatter. Strings are assumed to be
// UTF-8 already.
func NewTextFormatter(cfg Config) *TextFormatter {
	return &TextFormatter{
		Config: cfg,
		json:   &JSONFormatter{norm: &Normalizer{name: "UTF-8"}},
	}
}

// Format renders records, one line each
func (f *TextFormatter) Format(records []*core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	for _, r := range records {
		f.formatToBuffer(r, buf)
	}

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo renders records and writes them directly to the writer
func (f *TextFormatter) FormatTo(records []*core.Record, w io.Writer) error {
	buf := getBuffer()

	for _, r := range records {
		f.formatToBuffer(r, buf)
	}

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.DebugLevel:    " [DEBUG] ",
	core.WarningLevel:  " [WARNING] ",
	core.InfoLevel:     " [INFO] ",
	core.ErrorLevel:    " [ERROR] ",
	core.CriticalLevel: " [CRITICAL] ",
}

// formatToBuffer writes one record and its trace into the given buffer
func (f *TextFormatter) formatToBuffer(r *core.Record, buf *bytes.Buffer) {
	buf.WriteString(r.Time)

	if r.Level.Valid() {
		buf.WriteString(levelBrackets[r.Level])
	} else {
		buf.WriteString(" [UNKNOWN] ")
	}

	buf.WriteString(r.Name)
	buf.WriteString(": ")

	if f.IncludeCaller {
		buf.WriteByte('[')
		buf.WriteString(filepath.Base(r.Pathname))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(r.Lineno))
		buf.WriteString("] ")
	}

	buf.WriteString(r.Template)

	for _, arg := range r.Args {
		buf.WriteByte(' ')
		f.json.writeValue(buf, arg)
	}

	buf.WriteByte('\n')

	if r.Exception == nil {
		return
	}
	for _, loc := range r.Exception.Trace {
		buf.WriteString("    at ")
		buf.WriteString(loc.QualifiedName)
		if loc.File != "" {
			buf.WriteString(" (")
			buf.WriteString(loc.File)
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(loc.Line))
			buf.WriteByte(')')
		}
		buf.WriteByte('\n')
	}
}
