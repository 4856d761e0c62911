package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file. The zero Span
// stands for "no location", used by diagnostics about the program as a whole.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) IsZero() bool { return s == Span{} }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span holding both s and other. Spans of
// different files leave s unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Prefer returns primary unless it is the zero span.
func Prefer(primary, fallback Span) Span {
	if primary.IsZero() {
		return fallback
	}
	return primary
}
