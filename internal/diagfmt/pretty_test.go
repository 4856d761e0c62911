package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"docl/internal/diag"
	"docl/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("pages/home.docl", "pages.home", []byte("const a = 1\nconst b = c\n"))
	bag := diag.NewBag(4)
	d := diag.NewError(diag.SemaUnresolvedSymbol, source.Span{File: file, Start: 22, End: 23}, "unresolved symbol `c`").
		WithNote(source.Span{File: file, Start: 6, End: 7}, "did you mean `a`?")
	bag.Add(d)
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})

	want := "pages/home.docl:2:11: ERROR SEM3003: unresolved symbol `c`\n" +
		"1 | const a = 1\n" +
		"2 | const b = c\n" +
		"  | " + strings.Repeat(" ", 10) + "^\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyNotesAndColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true, ShowNotes: true, Paths: Paths{Mode: PathModeBasename}})
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatal("expected ANSI escapes with colour enabled")
	}
	if !strings.Contains(out, "home.docl:1:7: did you mean `a`?") {
		t.Fatalf("note missing:\n%s", out)
	}
}

func TestCaretColumnsWideRunes(t *testing.T) {
	line := "x = \"世界\" y"
	pad, width := caretColumns(line, source.LineCol{Line: 1, Col: 14}, source.LineCol{Line: 1, Col: 15})
	if pad != 11 || width != 1 {
		t.Fatalf("pad=%d width=%d, want 11 and 1", pad, width)
	}
	pad, width = caretColumns(line, source.LineCol{Line: 1, Col: 6}, source.LineCol{Line: 1, Col: 12})
	if pad != 5 || width != 4 {
		t.Fatalf("pad=%d width=%d, want 5 and 4", pad, width)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SEM3003" {
		t.Fatalf("unexpected payload %+v", out)
	}
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 2 || loc.StartCol != 11 || len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("unexpected location %+v", loc)
	}
}

func TestJSONCarriesModuleAndTitle(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, source.Span{}, "second"))
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1, Paths: Paths{Mode: PathModeBasename}})
	if out.Count != 1 || !out.Truncated {
		t.Fatalf("count %d truncated %v", out.Count, out.Truncated)
	}
	d := out.Diagnostics[0]
	if d.Location.Module != "pages.home" || d.Location.File != "home.docl" {
		t.Fatalf("unexpected location %+v", d.Location)
	}
	if d.Title != diag.SemaUnresolvedSymbol.Title() || d.Severity != "error" {
		t.Fatalf("unexpected header %+v", d)
	}
	if d.Location.StartLine != 0 || d.Notes != nil {
		t.Fatalf("positions and notes were not requested: %+v", d)
	}
}

func TestPaths(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("/work/site/pages/home.docl", "pages.home", nil)
	f := fs.Get(id)
	tests := []struct {
		paths Paths
		want  string
	}{
		{Paths{}, "/work/site/pages/home.docl"},
		{Paths{Mode: PathModeBasename}, "home.docl"},
		{Paths{Mode: PathModeRelative, BaseDir: "/work/site"}, "pages/home.docl"},
		{Paths{Mode: PathModeRelative}, "/work/site/pages/home.docl"},
	}
	for _, tt := range tests {
		if got := tt.paths.Format(f); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.paths.Mode, got, tt.want)
		}
	}
	if got := (Paths{}).Format(nil); got != "<unknown>" {
		t.Fatalf("nil file rendered as %q", got)
	}
}

func TestParsePathMode(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, err := ParsePathMode(m.String())
		if err != nil || got != m {
			t.Fatalf("%s: got %v, %v", m, got, err)
		}
	}
	if _, err := ParsePathMode("nearest"); err == nil {
		t.Fatal("unknown mode accepted")
	}
}
