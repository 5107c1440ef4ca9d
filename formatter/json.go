package formatter

import (
	"bytes"
	"io"
	"math"
	"strconv"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/pickle"
)

// JSONFormatter serializes records into the {"logs": [...]} payload read
// by the FireLogger client.
type JSONFormatter struct {
	Config
	norm *Normalizer
}

// NewJSONFormatter creates a new JSON formatter. It fails for unknown
// encodings.
func NewJSONFormatter(cfg Config) (*JSONFormatter, error) {
	norm, err := NewNormalizer(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return &JSONFormatter{Config: cfg, norm: norm}, nil
}

// Format serializes records as the JSON payload
func (f *JSONFormatter) Format(records []*core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.formatJSONToBuffer(records, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo serializes records as the JSON payload and writes it to w
func (f *JSONFormatter) FormatTo(records []*core.Record, w io.Writer) error {
	buf := getBuffer()

	f.formatJSONToBuffer(records, buf)

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

func (f *JSONFormatter) formatJSONToBuffer(records []*core.Record, buf *bytes.Buffer) {
	buf.WriteString(`{"logs":[`)
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		f.writeRecord(buf, r)
	}
	buf.WriteString(`]}`)
}

// writeRecord writes one record with its keys in wire order.
func (f *JSONFormatter) writeRecord(buf *bytes.Buffer, r *core.Record) {
	buf.WriteString(`{"name":`)
	f.writeString(buf, r.Name)

	buf.WriteString(`,"args":`)
	if r.Args == nil {
		buf.WriteString(`[]`)
	} else {
		f.writeValue(buf, r.Args)
	}

	buf.WriteString(`,"level":"`)
	buf.WriteString(r.Level.String())

	buf.WriteString(`","timestamp":`)
	writeFloat(buf, r.Timestamp)

	buf.WriteString(`,"order":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(r.Order), 10))

	buf.WriteString(`,"time":`)
	f.writeString(buf, r.Time)
	buf.WriteString(`,"template":`)
	f.writeString(buf, r.Template)
	buf.WriteString(`,"message":`)
	f.writeString(buf, r.Message)

	if r.Style != "" {
		buf.WriteString(`,"style":`)
		f.writeString(buf, r.Style)
	}

	if r.Exception != nil {
		buf.WriteString(`,"exc_info":[`)
		f.writeString(buf, r.Exception.Message)
		buf.WriteByte(',')
		f.writeString(buf, r.Exception.File)
		buf.WriteString(`,[`)
		for i, loc := range r.Exception.Trace {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('[')
			f.writeString(buf, loc.File)
			buf.WriteByte(',')
			buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(loc.Line), 10))
			buf.WriteByte(',')
			f.writeString(buf, loc.QualifiedName)
			buf.WriteByte(',')
			f.writeValue(buf, loc.Receiver)
			buf.WriteByte(']')
		}
		buf.WriteString(`]]`)

		buf.WriteString(`,"exc_frames":[`)
		for i, args := range r.ExcFrames {
			if i > 0 {
				buf.WriteByte(',')
			}
			if args == nil {
				buf.WriteString(`null`)
				continue
			}
			f.writeValue(buf, args)
		}
		buf.WriteByte(']')
	}

	if r.HasException() {
		buf.WriteString(`,"exc_text":`)
		f.writeString(buf, r.ExcText)
		buf.WriteString(`,"code":`)
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(r.Code), 10))
	}

	buf.WriteString(`,"pathname":`)
	f.writeString(buf, r.Pathname)
	buf.WriteString(`,"lineno":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(r.Lineno), 10))
	buf.WriteByte('}')
}

// writeValue writes a pickled tree. Values outside the pickle vocabulary
// are pickled first.
func (f *JSONFormatter) writeValue(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case nil:
		buf.WriteString(`null`)
	case bool:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), t))
	case int64:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), t, 10))
	case uint64:
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), t, 10))
	case int:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(t), 10))
	case float64:
		writeFloat(buf, t)
	case string:
		f.writeString(buf, t)
	case pickle.Map:
		buf.WriteByte('{')
		for i, p := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			f.writeString(buf, p.Key)
			buf.WriteByte(':')
			f.writeValue(buf, p.Value)
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			f.writeValue(buf, e)
		}
		buf.WriteByte(']')
	default:
		f.writeValue(buf, pickle.Pickle(v, pickle.DefaultMaxDepth))
	}
}

// writeString writes s as a quoted JSON string after charset
// normalization.
func (f *JSONFormatter) writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	appendJSONString(buf, f.norm.String(s))
	buf.WriteByte('"')
}

// writeFloat writes f the way encoding/json does. JSON has no NaN or
// infinities; those are written as strings.
func writeFloat(buf *bytes.Buffer, f float64) {
	switch {
	case math.IsNaN(f):
		buf.WriteString(`"NaN"`)
		return
	case math.IsInf(f, 1):
		buf.WriteString(`"Infinity"`)
		return
	case math.IsInf(f, -1):
		buf.WriteString(`"-Infinity"`)
		return
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), f, format, -1, 64))
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		// Flush unescaped prefix
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	// Flush remaining
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}
