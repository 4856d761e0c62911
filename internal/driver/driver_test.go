package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/observ"
	"docl/internal/project"
	"docl/internal/sema"
	"docl/internal/source"
	"docl/internal/trace"
	"docl/internal/version"
)

// site builds a three-unit document whose entry point renders a greeting.
func site(name string) Program {
	b := ast.NewBuilder(ast.Hints{}, nil)
	prog := Program{Name: name, AST: b}
	add := func(module string, items ...ast.ItemID) {
		prog.Files = append(prog.Files, b.Unit(items...))
		prog.Modules = append(prog.Modules, module)
	}
	add(sema.DefaultRenderModule,
		b.Trait("Render", b.Field("render", b.NamedType("Render"), ast.NoExprID)),
		b.Struct("Text", []ast.FieldID{b.Field("value", b.BuiltinType(ast.BuiltinString), ast.NoExprID)}),
		b.Struct("Div", []ast.FieldID{b.Field("children", b.BuiltinType(ast.BuiltinChildren), ast.NoExprID)}),
	)
	add("site.parts",
		b.UseAll("std.essential"),
		b.Const("greeting", ast.NoTypeExprID, b.Init("Text", b.Positional(b.Str("hello")))),
	)
	add("site",
		b.Const("Main", ast.NoTypeExprID, b.InitWith("std.essential.Div", nil, b.Ref("site.parts.greeting"))),
	)
	return prog
}

// broken is a document without an entry point.
func broken(name string) Program {
	b := ast.NewBuilder(ast.Hints{}, nil)
	return Program{
		Name:    name,
		AST:     b,
		Files:   []ast.FileID{b.Unit(b.Const("x", ast.NoTypeExprID, b.Int("1")))},
		Modules: []string{"app"},
	}
}

func TestCompileSite(t *testing.T) {
	res, err := Compile(context.Background(), site("site"), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !res.OK() || res.Env == nil {
		t.Fatal("expected a built environment")
	}
	if res.Diagnostics.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics.Items())
	}
	if _, typ := res.Env.Entry(); res.Env.FormatType(typ) != "Div" {
		t.Fatalf("entry type = %s, want Div", res.Env.FormatType(typ))
	}
	wantLayers := [][]string{{"site", "std.essential"}, {"site.parts"}}
	if !reflect.DeepEqual(res.Layers, wantLayers) {
		t.Fatalf("layers = %v, want %v", res.Layers, wantLayers)
	}
	if len(res.Cycles) != 0 {
		t.Fatalf("unexpected cycles %v", res.Cycles)
	}
	if res.Digest.IsZero() {
		t.Fatal("digest should be set")
	}
	for _, phase := range []string{"modules", "add_modules", "generate_scopes", "resolve_names", "validate", "layers", "digest"} {
		if _, ok := res.Timings.Phase(phase); !ok {
			t.Errorf("missing timing for %s", phase)
		}
	}
}

func TestCompileFailure(t *testing.T) {
	extra := diag.BagReporter{Bag: diag.NewBag(8)}
	res, err := Compile(context.Background(), broken("app"), Options{Reporter: extra})
	if !errors.Is(err, diag.Sentinel(diag.SemaEntrypointNotFound)) {
		t.Fatalf("err = %v, want entry point not found", err)
	}
	if res.Err != err || res.Env != nil || res.OK() {
		t.Fatalf("unexpected result %+v", res)
	}
	if !res.Diagnostics.HasErrors() {
		t.Fatal("error should be in the result bag")
	}
	if extra.Bag.Len() != 1 || extra.Bag.Items()[0].Code != diag.SemaEntrypointNotFound {
		t.Fatalf("extra reporter saw %v", extra.Bag.Items())
	}
}

func TestLibraryBuildSkipsEntry(t *testing.T) {
	res, err := Compile(context.Background(), broken("lib"), Options{Library: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if item, _ := res.Env.Entry(); item.IsValid() {
		t.Fatalf("library build has entry %d", item)
	}
}

func TestModulesFromSources(t *testing.T) {
	prog := site("site")
	prog.Modules = nil
	prog.Sources = []string{"std/essential.docl", "site/parts.docl", "site.docl"}
	res, err := Compile(context.Background(), prog, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := res.Env.FindModule("site.parts"); !ok {
		t.Fatal("module site.parts should be derived from its source path")
	}

	prog = site("bad")
	prog.Modules = nil
	prog.Sources = []string{"std/essential.docl", "../parts.docl", "site.docl"}
	_, err = Compile(context.Background(), prog, Options{})
	if diag.CodeOf(err) != diag.ProjInvalidModulePath {
		t.Fatalf("err = %v, want invalid module path", err)
	}
}

func TestCompileHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Compile(ctx, site("site"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Env != nil {
		t.Fatal("no environment expected after cancellation")
	}
}

func TestCompileIsTraced(t *testing.T) {
	ring := trace.NewRingTracer(512, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := Compile(ctx, broken("app"), Options{}); err == nil {
		t.Fatal("expected failure")
	}

	var compileSpan, errorPoint bool
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Kind == trace.KindSpanBegin && ev.Name == "compile":
			compileSpan = true
		case ev.Kind == trace.KindPoint && ev.Name == "error":
			errorPoint = ev.Detail == diag.SemaEntrypointNotFound.ID()
		}
	}
	if !compileSpan || !errorPoint {
		t.Fatalf("compile span %v, error point %v", compileSpan, errorPoint)
	}
}

func TestTimingDiagnostic(t *testing.T) {
	res, err := Compile(context.Background(), site("site"), Options{Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	items := res.Diagnostics.Items()
	if len(items) != 1 || items[0].Severity != diag.SevInfo {
		t.Fatalf("expected one info diagnostic, got %v", items)
	}
	payload, ok := timingsFromDiagnostic(items[0])
	if !ok {
		t.Fatal("timing payload should decode")
	}
	if payload.Kind != "compile" || payload.Path != "site" || len(payload.Phases) != len(res.Timings.Phases) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestTimingDiagnosticSurvivesFullBag(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SemaEntrypointNotFound, source.Span{}, "x"))
	appendTimingDiagnostic(bag, timingPayload{Report: observ.Report{TotalMS: 1}})
	if bag.Len() != 2 || bag.Items()[1].Code != diag.ObsTimings {
		t.Fatalf("timing diagnostic dropped: %v", bag.Items())
	}
}

func TestCyclicImportsAreListed(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	prog := Program{
		AST: b,
		Files: []ast.FileID{
			b.Unit(b.Use("b.y"), b.Const("x", ast.NoTypeExprID, b.Int("1"))),
			b.Unit(b.Use("a.x"), b.Const("y", ast.NoTypeExprID, b.Int("2"))),
			b.Unit(b.Use("a.x"), b.Const("z", ast.NoTypeExprID, b.Ref("x"))),
		},
		Modules: []string{"a", "b", "c"},
	}
	res, err := Compile(context.Background(), prog, Options{Library: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(res.Cycles, want) {
		t.Fatalf("cycles = %v, want %v", res.Cycles, want)
	}
	if len(res.Layers) != 0 {
		t.Fatalf("layers = %v, want none", res.Layers)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := project.DefaultConfig()
	cfg.Compile.Jobs = 3
	cfg.Trace.Heartbeat = "250ms"
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Entry != "Main" || opts.Jobs != 3 || opts.Heartbeat != 250*time.Millisecond || opts.MaxDiagnostics != 64 {
		t.Fatalf("unexpected options %+v", opts)
	}

	cfg.Compile.Entry = ""
	if _, err := OptionsFromConfig(cfg); err == nil {
		t.Fatal("invalid config should be rejected")
	}
}

func TestDiscoverOptions(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, project.ConfigName), []byte("[compile]\nentry = \"Index\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts, p, err := DiscoverOptions(root)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Found() || opts.Entry != "Index" {
		t.Fatalf("entry = %q, project %+v", opts.Entry, p)
	}
}

func TestOpenTracer(t *testing.T) {
	cfg := project.DefaultConfig()
	tr, err := OpenTracer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("default config traces nothing")
	}

	cfg.Trace.Level = "phase"
	cfg.Trace.Mode = "ring"
	tr, err = OpenTracer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()
	if tr.Level() != trace.LevelPhase {
		t.Fatalf("level = %s, want phase", tr.Level())
	}
}

func TestWriteDiagnostics(t *testing.T) {
	res, _ := Compile(context.Background(), broken("app"), Options{})

	var short bytes.Buffer
	if err := WriteDiagnostics(&short, res, WriteOptions{Format: OutputShort}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(short.String(), "error "+diag.SemaEntrypointNotFound.ID()) {
		t.Fatalf("short output = %q", short.String())
	}

	var out bytes.Buffer
	if err := WriteDiagnostics(&out, res, WriteOptions{Format: OutputJSON}); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Code != diag.SemaEntrypointNotFound.ID() {
		t.Fatalf("unexpected json %s", out.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": OutputPretty, "JSON": OutputJSON, " short ": OutputShort} {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("xml should be rejected")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	res, err := Compile(context.Background(), site("site"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out", "site.snap")
	if err := WriteSnapshot(path, res.Env); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, BuildSnapshot(res.Env)) {
		t.Fatal("snapshot changed on disk")
	}
	if got.Analyzer != version.Version {
		t.Fatalf("analyzer = %q, want %q", got.Analyzer, version.Version)
	}
	if got.Entry != "site.Main" || got.EntryType != "Div" {
		t.Fatalf("entry = %s: %s", got.Entry, got.EntryType)
	}
	var greeting bool
	for _, n := range got.Names {
		if n.Text == "site.parts.greeting" {
			greeting = n.Kind == "constant" && n.Target == "site.parts.greeting"
		}
	}
	if !greeting {
		t.Fatalf("greeting reference missing from %+v", got.Names)
	}
}

func TestSnapshotSchemaIsChecked(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, &SnapshotData{Schema: snapshotSchema + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSnapshot(&buf); !errors.Is(err, ErrSnapshotSchema) {
		t.Fatalf("err = %v, want schema mismatch", err)
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	a, err := Compile(context.Background(), site("a"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(context.Background(), site("b"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Digest != b.Digest {
		t.Fatalf("digests differ: %s vs %s", a.Digest.Short(), b.Digest.Short())
	}
}

func TestCompileAll(t *testing.T) {
	progs := []Program{site("one"), broken("two"), site("three"), site("four")}
	shared := diag.NewBag(8)
	results, err := CompileAll(context.Background(), progs, Options{
		Jobs:      2,
		Heartbeat: time.Millisecond,
		Reporter:  diag.BagReporter{Bag: shared},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != len(progs) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Name != progs[i].Name {
			t.Fatalf("result %d is %s, want %s", i, r.Name, progs[i].Name)
		}
		if wantOK := i != 1; r.OK() != wantOK {
			t.Fatalf("%s: ok = %v, want %v", r.Name, r.OK(), wantOK)
		}
	}
	if shared.Len() != 1 || shared.Items()[0].Code != diag.SemaEntrypointNotFound {
		t.Fatalf("shared reporter saw %v", shared.Items())
	}
	if results[0].Digest != results[2].Digest {
		t.Fatal("identical programs should share a digest")
	}

	again, _ := CompileAll(context.Background(), []Program{site("one"), broken("two"), site("three"), site("four")}, Options{Jobs: 3})
	if BatchDigest(results) != BatchDigest(again) {
		t.Fatal("batch digest should not depend on scheduling")
	}
	swapped, _ := CompileAll(context.Background(), []Program{site("one"), site("two"), site("three"), site("four")}, Options{})
	if BatchDigest(results) == BatchDigest(swapped) {
		t.Fatal("a failing program should change the batch digest")
	}
}

func TestCompileAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompileAll(ctx, []Program{site("one"), site("two")}, Options{Jobs: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
