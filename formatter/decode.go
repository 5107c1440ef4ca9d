package formatter

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/pickle"
)

type chunk struct {
	index int
	value string
}

// Decode reassembles the records carried by FireLogger headers in h.
// Header names are matched case-insensitively, so canonicalized names
// decode too. Payloads of several sessions are returned in session id
// order.
func Decode(h http.Header, prefix string) ([]*core.Record, error) {
	if prefix == "" {
		prefix = DefaultHeaderPrefix
	}
	want := strings.ToLower(prefix) + "-"

	sessions := make(map[string][]chunk)
	for name, values := range h {
		rest, ok := strings.CutPrefix(strings.ToLower(name), want)
		if !ok || len(values) == 0 {
			continue
		}
		id, idx, ok := strings.Cut(rest, "-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil {
			continue
		}
		sessions[id] = append(sessions[id], chunk{index: n, value: values[0]})
	}

	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var records []*core.Record
	for _, id := range ids {
		chunks := sessions[id]
		sort.Slice(chunks, func(i, j int) bool { return chunks[i].index < chunks[j].index })
		var sb strings.Builder
		for _, c := range chunks {
			sb.WriteString(c.value)
		}
		payload, err := base64.StdEncoding.DecodeString(sb.String())
		if err != nil {
			return nil, fmt.Errorf("formatter: session %s: decode base64: %w", id, err)
		}
		rs, err := DecodePayload(payload)
		if err != nil {
			return nil, fmt.Errorf("formatter: session %s: %w", id, err)
		}
		records = append(records, rs...)
	}
	return records, nil
}

// DecodePayload parses a {"logs": [...]} payload.
func DecodePayload(payload []byte) ([]*core.Record, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(payload)
	if err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	logs := v.Get("logs")
	if logs == nil {
		return nil, fmt.Errorf("parse payload: missing logs")
	}
	items, err := logs.Array()
	if err != nil {
		return nil, fmt.Errorf("parse payload: logs: %w", err)
	}
	records := make([]*core.Record, 0, len(items))
	for _, item := range items {
		records = append(records, decodeRecord(item))
	}
	return records, nil
}

func decodeRecord(v *fastjson.Value) *core.Record {
	r := &core.Record{
		Name:      string(v.GetStringBytes("name")),
		Args:      []any{},
		Level:     core.ParseLevelOrDefault(string(v.GetStringBytes("level"))),
		Timestamp: v.GetFloat64("timestamp"),
		Order:     v.GetInt("order"),
		Time:      string(v.GetStringBytes("time")),
		Template:  string(v.GetStringBytes("template")),
		Message:   string(v.GetStringBytes("message")),
		Style:     string(v.GetStringBytes("style")),
		ExcText:   string(v.GetStringBytes("exc_text")),
		Code:      v.GetInt("code"),
		Pathname:  string(v.GetStringBytes("pathname")),
		Lineno:    v.GetInt("lineno"),
	}
	for _, a := range v.GetArray("args") {
		r.Args = append(r.Args, toValue(a))
	}

	if info := v.GetArray("exc_info"); len(info) == 3 {
		exc := &core.ExceptionInfo{
			Message: string(info[0].GetStringBytes()),
			File:    string(info[1].GetStringBytes()),
		}
		for _, loc := range info[2].GetArray() {
			parts := loc.GetArray()
			if len(parts) != 4 {
				continue
			}
			exc.Trace = append(exc.Trace, core.TraceLocation{
				File:          string(parts[0].GetStringBytes()),
				Line:          parts[1].GetInt(),
				QualifiedName: string(parts[2].GetStringBytes()),
				Receiver:      toValue(parts[3]),
			})
		}
		r.Exception = exc
	}
	if v.Exists("exc_frames") {
		frames := v.GetArray("exc_frames")
		r.ExcFrames = make([][]any, len(frames))
		for i, f := range frames {
			if f.Type() != fastjson.TypeArray {
				continue
			}
			args := make([]any, 0)
			for _, a := range f.GetArray() {
				args = append(args, toValue(a))
			}
			r.ExcFrames[i] = args
		}
	}
	return r
}

// toValue converts parsed JSON into the pickle vocabulary.
func toValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		m := make(pickle.Map, 0, o.Len())
		o.Visit(func(key []byte, val *fastjson.Value) {
			m = append(m, pickle.Pair{Key: string(key), Value: toValue(val)})
		})
		return m
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = toValue(item)
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if n, err := v.Uint64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
