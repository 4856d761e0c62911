package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // dumps only
	LevelPhase               // driver + builder stages
	LevelDetail              // checker passes
	LevelDebug               // everything including modules
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case; "" means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames[:], s); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of the given scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePhase
	case LevelDetail:
		return scope <= ScopePass
	case LevelDebug:
		return true
	}
	return false
}

// Accepts reports whether a tracer at this level records ev. Heartbeats are
// always recorded; at LevelError only driver-level point events pass.
func (l Level) Accepts(ev *Event) bool {
	if l == LevelOff || ev == nil {
		return false
	}
	switch {
	case ev.Kind == KindHeartbeat:
		return true
	case l == LevelError:
		return ev.Kind == KindPoint && ev.Scope == ScopeDriver
	}
	return l.ShouldEmit(ev.Scope)
}
