// Package logging configures structured logging for go-sysctl. It
// wraps log/slog with a log spec that sets a base level plus
// per-component overrides, keyed on the "component" attribute.
package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is a log level. Values match slog's constants, with trace
// sitting below debug.
type Level int

const (
	LevelTrace Level = -8
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level: %q", s)
}

// ToSlog converts to the slog representation.
func (l Level) ToSlog() slog.Level {
	return slog.Level(l)
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Spec is a parsed log spec: "<base-level>[,<component>=<level>]...".
// Examples: "info", "warn,sysctl=debug", "info,sysctl=trace,cli=warn".
type Spec struct {
	BaseLevel  Level
	Components map[string]Level
}

// ParseSpec parses a log spec string. Empty means info with no
// overrides. A bare level is only valid as the first element.
func ParseSpec(s string) (Spec, error) {
	spec := Spec{
		BaseLevel:  LevelInfo,
		Components: make(map[string]Level),
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return spec, nil
	}
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		component, levelStr, ok := strings.Cut(part, "=")
		if ok {
			component = strings.TrimSpace(component)
			if component == "" {
				return spec, fmt.Errorf("empty component name in %q", part)
			}
			level, err := ParseLevel(levelStr)
			if err != nil {
				return spec, fmt.Errorf("component %q: %w", component, err)
			}
			spec.Components[component] = level
			continue
		}
		if i != 0 {
			return spec, fmt.Errorf("base level %q must come first", part)
		}
		level, err := ParseLevel(part)
		if err != nil {
			return spec, err
		}
		spec.BaseLevel = level
	}
	return spec, nil
}

// LevelFor returns the effective level for a component: its override
// if one exists, the base level otherwise.
func (s *Spec) LevelFor(component string) Level {
	if level, ok := s.Components[component]; ok {
		return level
	}
	return s.BaseLevel
}
