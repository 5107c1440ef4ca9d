package logger

import (
	"strings"

	"github.com/Philipp01105/firelogger/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	DebugLevel    = core.DebugLevel
	WarningLevel  = core.WarningLevel
	InfoLevel     = core.InfoLevel
	ErrorLevel    = core.ErrorLevel
	CriticalLevel = core.CriticalLevel
)

// ParseLevel converts a user supplied string to a Level. Unlike
// core.ParseLevel it ignores case and accepts "warn" and "fatal".
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn":
		return WarningLevel
	case "fatal", "panic":
		return CriticalLevel
	default:
		return core.ParseLevelOrDefault(strings.ToLower(strings.TrimSpace(s)))
	}
}
