package env

import (
	"context"
	"sync"
	"testing"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/sema"
	"docl/internal/symbols"
	"docl/internal/trace"
)

type program struct {
	b     *ast.Builder
	paths []string
	files []ast.FileID
}

func newProgram() *program {
	return &program{b: ast.NewBuilder(ast.Hints{}, nil)}
}

func (p *program) unit(module string, items ...ast.ItemID) ast.FileID {
	file := p.b.Unit(items...)
	p.paths = append(p.paths, module)
	p.files = append(p.files, file)
	return file
}

func (p *program) essentials() {
	b := p.b
	p.unit(sema.DefaultRenderModule,
		b.Trait("Render", b.Field("render", b.NamedType("Render"), ast.NoExprID)),
		b.Struct("Text", []ast.FieldID{b.Field("value", b.BuiltinType(ast.BuiltinString), ast.NoExprID)}),
		b.Struct("Div", []ast.FieldID{b.Field("children", b.BuiltinType(ast.BuiltinChildren), ast.NoExprID)}),
	)
}

// site builds a two-module document whose entry point renders a greeting.
func (p *program) site() ast.ItemID {
	b := p.b
	p.essentials()
	p.unit("site.parts",
		b.UseAll("std.essential"),
		b.Const("greeting", ast.NoTypeExprID, b.Init("Text", b.Positional(b.Str("hello")))),
	)
	main := b.Const("Main", ast.NoTypeExprID, b.InitWith("std.essential.Div", nil, b.Ref("site.parts.greeting")))
	p.unit("site", main)
	return main
}

func (p *program) build(opts Options) (*Environment, error) {
	return Build(context.Background(), p.b, p.paths, p.files, opts)
}

func TestBuildSealsEnvironment(t *testing.T) {
	p := newProgram()
	main := p.site()
	e, err := p.build(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, typ := e.Entry()
	if entry != main {
		t.Fatalf("entry = %d, want %d", entry, main)
	}
	if got := e.FormatType(typ); got != "Div" {
		t.Fatalf("entry type = %s, want Div", got)
	}
	if e.EntryName() != DefaultEntry {
		t.Fatalf("entry name = %q", e.EntryName())
	}

	for _, path := range []string{"std", "std.essential", "site", "site.parts", ""} {
		if _, ok := e.FindModule(path); !ok {
			t.Errorf("module %q not found", path)
		}
	}
	for _, path := range []string{"nope", "site.nope", "std.essential.Text"} {
		if _, ok := e.FindModule(path); ok {
			t.Errorf("module %q should not exist", path)
		}
	}

	mod, _ := e.FindModule("site")
	elem, ok := e.Lookup(mod, "Main")
	if !ok || elem.Kind != symbols.ElemConstant || elem.Item != main {
		t.Fatalf("Main not declared in site: %+v", elem)
	}
	if e.Scope(mod).Parent != symbols.GlobalScopeID {
		t.Fatal("module scopes hang off the global scope")
	}
	if len(e.ResolvedNames()) == 0 {
		t.Fatal("expected resolved names")
	}
}

func TestFindModuleDoesNotIntern(t *testing.T) {
	p := newProgram()
	p.site()
	e, err := p.build(Options{})
	if err != nil {
		t.Fatal(err)
	}
	before := e.Strings().Len()
	e.FindModule("brand.new.module")
	e.Lookup(symbols.GlobalScopeID, "never_seen")
	if e.Strings().Len() != before {
		t.Fatal("read-only lookups must not intern")
	}
}

func TestStagesAreTraced(t *testing.T) {
	p := newProgram()
	p.site()
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := Build(ctx, p.b, p.paths, p.files, Options{}); err != nil {
		t.Fatal(err)
	}

	var begun []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			begun = append(begun, ev.Name)
		}
	}
	want := []string{"add_modules", "generate_scopes", "resolve_names", "validate"}
	if len(begun) != len(want) {
		t.Fatalf("stages = %v, want %v", begun, want)
	}
	for i := range want {
		if begun[i] != want[i] {
			t.Fatalf("stages = %v, want %v", begun, want)
		}
	}
}

func TestAddModulesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		code  diag.Code
	}{
		{"count mismatch", []string{"a"}, diag.ScopeModuleCountMismatch},
		{"empty path", []string{"a", ""}, diag.ScopeEmptyModulePath},
		{"empty segment", []string{"a", "b..c"}, diag.ScopeEmptyModulePath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder(ast.Hints{}, nil)
			files := []ast.FileID{b.Unit(), b.Unit()}
			bag := diag.NewBag(4)
			_, err := New(b, Options{Reporter: diag.BagReporter{Bag: bag}}).AddModules(context.Background(), tt.paths, files)
			if got := diag.CodeOf(err); got != tt.code {
				t.Fatalf("got %s (%v), want %s", got.ID(), err, tt.code.ID())
			}
			if bag.Len() != 1 {
				t.Fatalf("expected one reported diagnostic, got %d", bag.Len())
			}
		})
	}
}

func TestSpentStagePanics(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	c := New(b, Options{})
	if _, err := c.AddModules(context.Background(), nil, nil); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("advancing a spent stage should panic")
		}
	}()
	_, _ = c.AddModules(context.Background(), nil, nil)
}

func TestFailuresStopTheBuild(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *program)
		opts  Options
		code  diag.Code
	}{
		{
			name: "unresolved name",
			build: func(p *program) {
				p.unit("app", p.b.Const("Main", ast.NoTypeExprID, p.b.Ref("missing")))
			},
			code: diag.SemaUnresolvedSymbol,
		},
		{
			name: "missing entry",
			build: func(p *program) {
				p.essentials()
				p.unit("app", p.b.Const("Index", ast.NoTypeExprID, p.b.Int("1")))
			},
			code: diag.SemaEntrypointNotFound,
		},
		{
			name: "custom entry name",
			build: func(p *program) {
				p.site()
			},
			opts: Options{Entry: "Index"},
			code: diag.SemaEntrypointNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProgram()
			tt.build(p)
			env, err := p.build(tt.opts)
			if env != nil {
				t.Fatal("no environment may escape a failed build")
			}
			if got := diag.CodeOf(err); got != tt.code {
				t.Fatalf("got %s (%v), want %s", got.ID(), err, tt.code.ID())
			}
		})
	}
}

func TestLibrarySkipsEntry(t *testing.T) {
	p := newProgram()
	p.essentials()
	p.unit("widgets", p.b.Const("answer", ast.NoTypeExprID, p.b.Int("42")))
	e, err := p.build(Options{Library: true})
	if err != nil {
		t.Fatal(err)
	}
	if entry, _ := e.Entry(); entry.IsValid() {
		t.Fatalf("library build has entry %d", entry)
	}
}

func TestUnitsOfOneModuleShareItsScope(t *testing.T) {
	p := newProgram()
	p.essentials()
	p.unit("site", p.b.Const("title", ast.NoTypeExprID, p.b.Str("Home")))
	p.unit("site", p.b.Const("Main", ast.NoTypeExprID, p.b.Init("std.essential.Text", p.b.Positional(p.b.Ref("title")))))
	e, err := p.build(Options{})
	if err != nil {
		t.Fatal(err)
	}
	units := e.Units()
	if units[1].Module != units[2].Module {
		t.Fatalf("units of one module got scopes %d and %d", units[1].Module, units[2].Module)
	}
}

func TestResolutionIsDeterministic(t *testing.T) {
	type row struct {
		name ast.NameID
		kind symbols.ResolvedKind
		item ast.ItemID
	}
	run := func() []row {
		p := newProgram()
		p.site()
		e, err := p.build(Options{})
		if err != nil {
			t.Fatal(err)
		}
		var rows []row
		for _, id := range e.ResolvedNames() {
			r, _ := e.Resolved(id)
			rows = append(rows, row{id, r.Kind, r.Elem.Item})
		}
		return rows
	}
	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("resolved %d names, then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestConcurrentReads(t *testing.T) {
	p := newProgram()
	main := p.site()
	e, err := p.build(Options{})
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			if _, ok := e.FindModule("site.parts"); !ok {
				t.Error("module lookup failed")
			}
			if typ, ok := e.ConstType(main); !ok || e.FormatType(typ) != "Div" {
				t.Error("entry type lookup failed")
			}
		})
	}
	wg.Wait()
}

func TestLabels(t *testing.T) {
	p := newProgram()
	p.site()
	e, err := p.build(Options{})
	if err != nil {
		t.Fatal(err)
	}
	labels := map[string]bool{}
	for _, id := range e.ResolvedNames() {
		r, _ := e.Resolved(id)
		labels[e.Label(r)] = true
	}
	for _, want := range []string{"std.essential.Div", "std.essential.Text", "site.parts.greeting"} {
		if !labels[want] {
			t.Errorf("missing label %q in %v", want, labels)
		}
	}
}
