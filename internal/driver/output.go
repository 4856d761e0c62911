package driver

import (
	"fmt"
	"io"
	"strings"

	"docl/internal/diag"
	"docl/internal/diagfmt"
	"docl/internal/source"
)

// OutputFormat selects how WriteDiagnostics renders a result.
type OutputFormat uint8

const (
	OutputPretty OutputFormat = iota
	OutputJSON
	OutputShort
)

func (f OutputFormat) String() string {
	switch f {
	case OutputPretty:
		return "pretty"
	case OutputJSON:
		return "json"
	case OutputShort:
		return "short"
	}
	return fmt.Sprintf("OutputFormat(%d)", f)
}

// ParseOutputFormat accepts pretty, json and short.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pretty":
		return OutputPretty, nil
	case "json":
		return OutputJSON, nil
	case "short":
		return OutputShort, nil
	}
	return 0, fmt.Errorf("unknown diagnostics format %q", s)
}

// WriteOptions configure WriteDiagnostics.
type WriteOptions struct {
	Format  OutputFormat
	Color   bool
	Notes   bool
	BaseDir string
}

// WriteDiagnostics renders the diagnostics of res, sorted and deduplicated.
// Without the program's file set the short form prints no locations and pretty output
// falls back to it.
func WriteDiagnostics(w io.Writer, res *Result, opts WriteOptions) error {
	if res == nil || res.Diagnostics == nil || res.Diagnostics.Len() == 0 {
		return nil
	}
	bag, fs := res.Diagnostics, res.FileSet
	bag.Dedup()
	bag.Sort()

	paths := diagfmt.Paths{BaseDir: opts.BaseDir}
	if opts.BaseDir != "" {
		paths.Mode = diagfmt.PathModeRelative
	}
	switch opts.Format {
	case OutputJSON:
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			Paths:            paths,
			IncludePositions: fs != nil,
			IncludeNotes:     opts.Notes,
		})
	case OutputPretty:
		if fs != nil {
			diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
				Paths:     paths,
				Color:     opts.Color,
				Context:   1,
				ShowNotes: opts.Notes,
			})
			return nil
		}
	}
	return writeShort(w, bag.Items(), fs, opts.Notes)
}

func writeShort(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, notes bool) error {
	if fs != nil {
		_, err := io.WriteString(w, diag.FormatShortDiagnostics(items, fs, notes)+"\n")
		return err
	}
	for _, d := range items {
		if _, err := fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code.ID(), d.Message); err != nil {
			return err
		}
		if !notes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  note: %s\n", n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}
