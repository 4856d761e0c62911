package ast

import (
	"docl/internal/source"
)

// File is one compilation unit: its top-level declarations in source order.
type File struct {
	Span  source.Span
	Items []ItemID
}

// Files owns every compilation unit of a Builder.
type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

// New opens an empty unit covering sp.
func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp}))
}

// Get returns nil for NoFileID and for ids the arena never handed out.
func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}

// Push appends item to the declarations of file.
func (f *Files) Push(file FileID, item ItemID) {
	unit := f.Get(file)
	if unit == nil {
		panic("ast: push into unknown file")
	}
	unit.Items = append(unit.Items, item)
}

// Len is the number of units allocated so far.
func (f *Files) Len() int {
	return int(f.Arena.Len())
}
