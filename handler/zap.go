package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/logger"
	"github.com/Philipp01105/firelogger/pickle"
)

// ZapHandler mirrors captured records into a server-side zap logger.
type ZapHandler struct {
	log *zap.Logger
}

// NewZapHandler creates a handler writing to l
func NewZapHandler(l *zap.Logger) *ZapHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapHandler{log: l}
}

// Handle writes one zap entry per record, using the template as message
func (z *ZapHandler) Handle(s *logger.Session, _ http.Header) error {
	if !s.Enabled() {
		return nil
	}
	for _, r := range s.Records() {
		ce := z.log.Check(zapLevel(r.Level), r.Template)
		if ce == nil {
			continue
		}
		fields := []zap.Field{
			zap.String("logger", r.Name),
			zap.Int("order", r.Order),
			zap.String("pathname", r.Pathname),
			zap.Int("lineno", r.Lineno),
		}
		if len(r.Args) > 0 {
			fields = append(fields, zap.Array("args", valueArray(r.Args)))
		}
		if r.HasException() {
			fields = append(fields, zap.String("exception", r.Exception.Message), zap.Int("code", r.Code))
		}
		if r.Exception != nil && len(r.Exception.Trace) > 0 {
			fields = append(fields, zap.Array("trace", traceArray(r.Exception.Trace)))
		}
		ce.Write(fields...)
	}
	return nil
}

// Close flushes the zap logger
func (z *ZapHandler) Close() error {
	_ = z.log.Sync()
	return nil
}

// zapLevel maps record levels; zap has no level between error and
// dpanic, so critical records are logged at error level.
func zapLevel(level core.Level) zapcore.Level {
	switch level {
	case core.WarningLevel:
		return zapcore.WarnLevel
	case core.InfoLevel:
		return zapcore.InfoLevel
	case core.ErrorLevel, core.CriticalLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

// valueArray marshals a pickled list without reflection
type valueArray []any

func (a valueArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, v := range a {
		if err := appendValue(enc, v); err != nil {
			return err
		}
	}
	return nil
}

// valueObject marshals a pickled map without reflection
type valueObject pickle.Map

func (m valueObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, p := range m {
		if err := addValue(enc, p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

type traceArray []core.TraceLocation

func (t traceArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, loc := range t {
		enc.AppendString(loc.QualifiedName + " " + loc.File + ":" + strconv.Itoa(loc.Line))
	}
	return nil
}

func appendValue(enc zapcore.ArrayEncoder, v any) error {
	switch t := v.(type) {
	case bool:
		enc.AppendBool(t)
	case int64:
		enc.AppendInt64(t)
	case uint64:
		enc.AppendUint64(t)
	case float64:
		enc.AppendFloat64(t)
	case string:
		enc.AppendString(t)
	case pickle.Map:
		return enc.AppendObject(valueObject(t))
	case []any:
		return enc.AppendArray(valueArray(t))
	default:
		return enc.AppendReflected(t)
	}
	return nil
}

func addValue(enc zapcore.ObjectEncoder, key string, v any) error {
	switch t := v.(type) {
	case bool:
		enc.AddBool(key, t)
	case int64:
		enc.AddInt64(key, t)
	case uint64:
		enc.AddUint64(key, t)
	case float64:
		enc.AddFloat64(key, t)
	case string:
		enc.AddString(key, t)
	case pickle.Map:
		return enc.AddObject(key, valueObject(t))
	case []any:
		return enc.AddArray(key, valueArray(t))
	default:
		return enc.AddReflected(key, t)
	}
	return nil
}
