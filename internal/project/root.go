package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigName is the file that marks a project root.
const ConfigName = "docl.toml"

// Project is a discovered docl project. Config holds DefaultConfig when no
// docl.toml exists above the start directory; Root is then the start
// directory itself and ConfigPath is empty.
type Project struct {
	Root       string
	ConfigPath string
	Config     Config
}

// Discover searches startDir and its ancestors for docl.toml and loads the
// closest one.
func Discover(startDir string) (*Project, error) {
	if startDir == "" {
		startDir = "."
	}
	start, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for dir := start; ; {
		candidate := filepath.Join(dir, ConfigName)
		switch _, statErr := os.Stat(candidate); {
		case statErr == nil:
			cfg, err := LoadConfig(candidate)
			if err != nil {
				return nil, err
			}
			return &Project{Root: dir, ConfigPath: candidate, Config: cfg}, nil
		case !errors.Is(statErr, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return &Project{Root: start, Config: DefaultConfig()}, nil
}

// Found reports whether a docl.toml was located.
func (p *Project) Found() bool { return p.ConfigPath != "" }

// ModulePath maps a source file, absolute or relative to the working
// directory, to the module it declares. Files outside Root are rejected.
func (p *Project) ModulePath(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(p.Root, abs)
	if err != nil {
		return "", fmt.Errorf("%s is not inside %s: %w", file, p.Root, err)
	}
	return ModulePathFromFile(filepath.ToSlash(rel))
}
