package source

import (
	"bytes"
	"path/filepath"
	"slices"
)

// FileID indexes a FileSet.
type FileID uint32

// FileFlags record how a unit's content was normalised on the way in.
type FileFlags uint8

const (
	// FileVirtual marks units handed over from memory rather than read from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is the source text of one compilation unit.
type File struct {
	ID      FileID
	Path    string
	Module  string // dotted module path the unit belongs to
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	// LineStarts[i] is the byte offset where line i+1 begins.
	LineStarts []uint32
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeContent strips a UTF-8 BOM and turns every CRLF into LF. Lone CRs
// are kept.
func normalizeContent(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, 16)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return starts
}

// position maps a byte offset to its line and column.
func (f *File) position(off uint32) LineCol {
	i, found := slices.BinarySearch(f.LineStarts, off)
	if !found {
		i--
	}
	return LineCol{Line: uint32(i + 1), Col: off - f.LineStarts[i] + 1}
}

// GetLine returns the text of a 1-based line without its newline.
func (f *File) GetLine(line uint32) string {
	if line == 0 || int(line) > len(f.LineStarts) {
		return ""
	}
	start := int(f.LineStarts[line-1])
	end := len(f.Content)
	if int(line) < len(f.LineStarts) {
		end = int(f.LineStarts[line]) - 1
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// BaseName returns the last element of the file path.
func (f *File) BaseName() string {
	return filepath.Base(f.Path)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
