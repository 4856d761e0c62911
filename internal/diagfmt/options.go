package diagfmt

import (
	"fmt"
	"path/filepath"

	"docl/internal/source"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // as registered in the file set
	PathModeAbsolute
	PathModeRelative // relative to Paths.BaseDir
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return fmt.Sprintf("PathMode(%d)", m)
}

// ParsePathMode accepts the names printed by PathMode.String.
func ParsePathMode(s string) (PathMode, error) {
	for i, name := range pathModeNames {
		if name == s {
			return PathMode(i), nil
		}
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

// Paths renders file locations.
type Paths struct {
	Mode    PathMode
	BaseDir string
}

// Format prints the path of f; unknown files render as "<unknown>".
func (p Paths) Format(f *source.File) string {
	if f == nil {
		return "<unknown>"
	}
	switch p.Mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if p.BaseDir == "" {
			break
		}
		if rel, err := filepath.Rel(p.BaseDir, f.Path); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return f.BaseName()
	}
	return f.Path
}

type PrettyOpts struct {
	Paths
	Color     bool
	Context   uint8 // source lines shown above the primary line
	ShowNotes bool
}

type JSONOpts struct {
	Paths
	IncludePositions bool
	IncludeNotes     bool
	Max              int // 0 means unlimited
}
