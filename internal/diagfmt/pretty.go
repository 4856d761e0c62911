package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"docl/internal/diag"
	"docl/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics in bag order (call bag.Sort() first):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  2 | const b = a
//	    |           ^
//
// followed by notes in the same shape when opts.ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		file := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			opts.Format(file), start.Line, start.Col,
			p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if file != nil {
			writeSnippet(w, p, file, start, end, opts.Context)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			nfile := fs.Get(note.Span.File)
			nstart, nend := fs.Resolve(note.Span)
			fmt.Fprintf(w, "%s %s:%d:%d: %s\n",
				p.note.Sprint("note:"),
				opts.Format(nfile), nstart.Line, nstart.Col,
				note.Msg,
			)
			if nfile != nil {
				writeSnippet(w, p, nfile, nstart, nend, 0)
			}
		}
	}
}

func writeSnippet(w io.Writer, p palette, f *source.File, start, end source.LineCol, context uint8) {
	first := start.Line
	if uint32(context) < first {
		first -= uint32(context)
	} else {
		first = 1
	}
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n",
			p.gutter.Sprintf("%*d |", gutterWidth, ln),
			expandTabs(f.GetLine(ln)),
		)
	}

	line := f.GetLine(start.Line)
	pad, width := caretColumns(line, start, end)
	fmt.Fprintf(w, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)),
	)
}

// caretColumns converts byte columns into display cells so the underline
// stays aligned under wide runes.
func caretColumns(line string, start, end source.LineCol) (pad, width int) {
	from := clampCol(line, start.Col)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(line, end.Col)
	}
	if to < from {
		to = from
	}
	pad = runewidth.StringWidth(expandTabs(line[:from]))
	width = runewidth.StringWidth(expandTabs(line[from:to]))
	if width < 1 {
		width = 1
	}
	return pad, width
}

func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	off := int(col - 1)
	if off > len(line) {
		return len(line)
	}
	return off
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
