package core

// Level represents the severity level of a log record
type Level int8

const (
	// DebugLevel is the default level of a record
	DebugLevel Level = iota
	// WarningLevel for warning messages and runtime warnings
	WarningLevel
	// InfoLevel for general informational messages
	InfoLevel
	// ErrorLevel for error messages
	ErrorLevel
	// CriticalLevel for critical failures
	CriticalLevel
)

// levelNames holds the wire names understood by the FireLogger client.
var levelNames = [...]string{
	DebugLevel:    "debug",
	WarningLevel:  "warning",
	InfoLevel:     "info",
	ErrorLevel:    "error",
	CriticalLevel: "critical",
}

// String returns the wire name of the level
func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "debug"
	}
	return levelNames[l]
}

// Valid reports whether l is one of the known levels
func (l Level) Valid() bool {
	return l >= DebugLevel && l <= CriticalLevel
}

// ParseLevel returns the level named s. Matching is exact, the same way
// the client spells levels on the wire.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), true
		}
	}
	return DebugLevel, false
}

// ParseLevelOrDefault returns the level named s, or DebugLevel.
func ParseLevelOrDefault(s string) Level {
	l, _ := ParseLevel(s)
	return l
}
