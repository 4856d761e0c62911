package project

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"docl/internal/source"
)

// SourceExt is the extension of document source files.
const SourceExt = ".docl"

type ImportMeta struct {
	Path string // dotted module path
	Span source.Span
}

// ModuleMeta summarises one module of a program: its dotted path and the
// modules its units import from.
type ModuleMeta struct {
	Path    string
	Span    source.Span
	Imports []ImportMeta
}

// IsValidModuleIdent reports whether name can be one segment of a module path.
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidateModulePath checks a dotted module path such as "std.essential".
func ValidateModulePath(dotted string) error {
	if dotted == "" {
		return errors.New("empty module path")
	}
	for seg := range strings.SplitSeq(dotted, ".") {
		if !IsValidModuleIdent(seg) {
			return fmt.Errorf("invalid module path %q: bad segment %q", dotted, seg)
		}
	}
	return nil
}

// ModulePathFromFile maps a source path relative to the project root to its
// dotted module path: "site/parts.docl" becomes "site.parts".
func ModulePathFromFile(rel string) (string, error) {
	trimmed := strings.TrimLeft(strings.TrimSuffix(rel, SourceExt), `/\`)
	segs := strings.Split(strings.ReplaceAll(trimmed, `\`, "/"), "/")
	for _, seg := range segs {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid source path %q", rel)
		}
	}
	dotted := strings.Join(segs, ".")
	if err := ValidateModulePath(dotted); err != nil {
		return "", err
	}
	return dotted, nil
}
