package ast

import (
	"strings"

	"docl/internal/source"
)

// Name is one use site of a (possibly dotted) identifier. Two names with the
// same text are still different names; identity is the NameID.
type Name struct {
	Segments []source.StringID
	Span     source.Span
	Scope    ScopeSlot
}

// IsQualified reports whether the name has more than one segment.
func (n *Name) IsQualified() bool { return len(n.Segments) > 1 }

type Names struct {
	Arena *Arena[Name]
}

func NewNames(capHint uint) *Names {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Names{Arena: NewArena[Name](capHint)}
}

// New allocates a name use. segments must not be empty.
func (n *Names) New(span source.Span, segments []source.StringID) NameID {
	if len(segments) == 0 {
		panic("ast: empty name")
	}
	return NameID(n.Arena.Allocate(Name{
		Segments: append([]source.StringID(nil), segments...),
		Span:     span,
	}))
}

func (n *Names) Get(id NameID) *Name {
	return n.Arena.Get(uint32(id))
}

// Text joins the segments with dots.
func (n *Names) Text(id NameID, strs *source.Interner) string {
	name := n.Get(id)
	if name == nil {
		return ""
	}
	return JoinPath(name.Segments, strs)
}

// JoinPath renders a segment list as a dotted path.
func JoinPath(segments []source.StringID, strs *source.Interner) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		s, _ := strs.Lookup(seg)
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
