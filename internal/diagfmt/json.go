package diagfmt

import (
	"encoding/json"
	"io"

	"docl/internal/diag"
	"docl/internal/source"
)

// LocationJSON is a byte range, with 1-based positions when requested.
type LocationJSON struct {
	File      string `json:"file"`
	Module    string `json:"module,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON. Count is the number of
// entries in Diagnostics; Truncated is set when Max cut the list short.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Truncated   bool             `json:"truncated,omitempty"`
}

type jsonWriter struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (jw jsonWriter) location(span source.Span) LocationJSON {
	file := jw.fs.Get(span.File)
	loc := LocationJSON{File: jw.opts.Format(file), StartByte: span.Start, EndByte: span.End}
	if file != nil {
		loc.Module = file.Module
	}
	if jw.opts.IncludePositions && file != nil {
		start, end := jw.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (jw jsonWriter) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: jw.location(d.Primary),
	}
	if !jw.opts.IncludeNotes {
		return out
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: jw.location(n.Span)})
	}
	return out
}

// BuildDiagnosticsOutput converts the bag, in its current order.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	var out DiagnosticsOutput
	if opts.Max > 0 && len(items) > opts.Max {
		items, out.Truncated = items[:opts.Max], true
	}
	jw := jsonWriter{fs: fs, opts: opts}
	out.Diagnostics = make([]DiagnosticJSON, 0, len(items))
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, jw.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the bag as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
