package logs

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelCritical is above slog.LevelError for failures that end the run.
const LevelCritical slog.Level = 12

// LevelChoices are the accepted names for verbosity flags, most verbose first.
var LevelChoices = []string{"debug", "info", "warning", "error", "critical"}

// ParseLevel converts one of LevelChoices, in any case, to a slog.Level.
func ParseLevel(value string) (slog.Level, error) {
	level := strings.ToLower(strings.TrimSpace(value))

	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical":
		return LevelCritical, nil
	}

	return slog.LevelInfo, fmt.Errorf("invalid level %q, must be one of %s", value, strings.Join(LevelChoices, ", "))
}

// LevelName returns the upper-case name used in rendered output.
func LevelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "CRITICAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// levelValue adapts a *slog.Level to pflag.Value.
type levelValue struct {
	level *slog.Level
}

func newLevelValue(level *slog.Level) *levelValue {
	return &levelValue{level: level}
}

func (v *levelValue) String() string {
	if v.level == nil {
		return ""
	}

	return strings.ToLower(LevelName(*v.level))
}

func (v *levelValue) Set(s string) error {
	level, err := ParseLevel(s)
	if err != nil {
		return err
	}

	*v.level = level

	return nil
}

func (v *levelValue) Type() string {
	return "level"
}

// replaceLevel renders the level attribute with LevelName so critical events
// do not show up as "ERROR+4".
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(level))
		}
	}

	return a
}
