package domain

import "fmt"

// Level is the severity of an event or breadcrumb.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// ParseLevel matches s case-sensitively against the five known levels.
func ParseLevel(s string) (Level, bool) {
	switch l := Level(s); l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelFatal:
		return l, true
	}
	return "", false
}

// UnmarshalText rejects anything that is not a known level.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("unknown level %q", text)
	}
	*l = parsed
	return nil
}
