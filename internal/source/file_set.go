package source

import (
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"
)

// FileSet keeps the in-memory sources of every compilation unit so that spans
// can be mapped back to lines and columns for diagnostics.
type FileSet struct {
	files []File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 8),
		index: make(map[string]FileID),
	}
}

// Add stores a unit's source, normalizing BOM and CRLF, and returns a new
// FileID. Adding the same path twice creates a new version; lookups by path
// return the latest.
func (fileSet *FileSet) Add(path, module string, content []byte, flags FileFlags) FileID {
	content, normalized := normalizeContent(content)
	flags |= normalized

	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	clean := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:         id,
		Path:       clean,
		Module:     module,
		Content:    content,
		Hash:       sha256.Sum256(content),
		Flags:      flags,
		LineStarts: lineStarts(content),
	})
	fileSet.index[clean] = id
	return id
}

// AddVirtual adds a unit that has no backing file on disk.
func (fileSet *FileSet) AddVirtual(name, module string, content []byte) FileID {
	return fileSet.Add(name, module, content, FileVirtual)
}

// Get returns the file for id, or nil when id is unknown or the set is nil.
func (fileSet *FileSet) Get(id FileID) *File {
	if fileSet == nil || int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Len reports the number of stored file versions.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// GetLatest returns the latest file ID for the given path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.position(span.Start), f.position(span.End)
}
