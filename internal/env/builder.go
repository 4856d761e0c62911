package env

import (
	"context"
	"fmt"
	"strings"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/sema"
	"docl/internal/source"
	"docl/internal/symbols"
	"docl/internal/trace"
)

// DefaultEntry is the entry-point constant name used when Options.Entry is empty.
const DefaultEntry = "Main"

// Options configure environment construction.
type Options struct {
	Reporter diag.Reporter
	Hints    symbols.Hints

	Entry        string // DefaultEntry when empty
	RenderModule string // sema.DefaultRenderModule when empty
	RenderTrait  string // sema.DefaultRenderTrait when empty

	// Library skips the entry-point check, for programs that are only
	// imported by others.
	Library bool
}

// state is the environment under construction. Exactly one stage value owns
// it at a time.
type state struct {
	ast      *ast.Builder
	opts     Options
	reporter diag.Reporter

	table    *symbols.Table
	units    []symbols.Unit
	resolved map[ast.NameID]symbols.Resolved
	sema     *sema.Result
}

// stage is embedded by every builder state and hands the shared state over
// exactly once.
type stage struct {
	st *state
}

func (s *stage) take(next string) *state {
	if s.st == nil {
		panic(fmt.Sprintf("env: stage already advanced (calling %s)", next))
	}
	st := s.st
	s.st = nil
	return st
}

// Constructed holds an empty environment over an AST forest.
type Constructed struct{ stage }

// ModulesAdded has every compilation unit paired with its module scope.
type ModulesAdded struct{ stage }

// ScopesGenerated has every scope-sensitive AST node bound to its scope.
type ScopesGenerated struct{ stage }

// NamesResolved has declarations registered, imports applied and every used
// name resolved.
type NamesResolved struct{ stage }

// Validated has passed the semantic checks; only Build remains.
type Validated struct{ stage }

// New starts building an environment over b.
func New(b *ast.Builder, opts Options) *Constructed {
	if b == nil {
		panic("env: nil AST builder")
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	if opts.Entry == "" {
		opts.Entry = DefaultEntry
	}
	return &Constructed{stage{&state{
		ast:      b,
		opts:     opts,
		reporter: reporter,
		table:    symbols.NewTable(opts.Hints, b.Strings),
	}}}
}

// AddModules pairs files[i] with the module named by the dotted paths[i].
// Paths may repeat; files of the same module share its scope.
func (c *Constructed) AddModules(ctx context.Context, paths []string, files []ast.FileID) (*ModulesAdded, error) {
	st := c.take("AddModules")
	ctx, span := trace.Start(ctx, trace.ScopePhase, "add_modules")
	defer span.End("")

	if len(paths) != len(files) {
		err := diag.ReportError(st.reporter, diag.ScopeModuleCountMismatch, source.Span{},
			fmt.Sprintf("%d module path(s) given for %d compilation unit(s)", len(paths), len(files))).Err()
		span.WithExtra("code", diag.CodeOf(err).ID())
		return nil, err
	}
	st.units = make([]symbols.Unit, 0, len(files))
	for i, p := range paths {
		if err := checkModulePath(p); err != "" {
			e := diag.ReportError(st.reporter, diag.ScopeEmptyModulePath, st.fileSpan(files[i]),
				fmt.Sprintf("module path %q for compilation unit %d %s", p, i+1, err)).Err()
			span.WithExtra("code", diag.CodeOf(e).ID())
			return nil, e
		}
		module := st.table.AddModule(st.ast.Path(p))
		st.units = append(st.units, symbols.Unit{File: files[i], Module: module})
		trace.Point(ctx, trace.ScopeModule, "module:"+p, "")
	}
	span.WithExtra("units", fmt.Sprint(len(st.units)))
	return &ModulesAdded{stage{st}}, nil
}

func checkModulePath(p string) string {
	if strings.TrimSpace(p) == "" {
		return "is empty"
	}
	for seg := range strings.SplitSeq(p, ".") {
		if seg == "" {
			return "has an empty segment"
		}
	}
	return ""
}

func (st *state) fileSpan(id ast.FileID) source.Span {
	if f := st.ast.Files.Get(id); f != nil {
		return f.Span
	}
	return source.Span{}
}

// GenerateScopes creates the lexical scopes of every unit, settles ambiguous
// struct inits and stamps each name use with its scope.
func (m *ModulesAdded) GenerateScopes(ctx context.Context) *ScopesGenerated {
	st := m.take("GenerateScopes")
	_, span := trace.Start(ctx, trace.ScopePhase, "generate_scopes")
	st.table.GenerateScopes(st.ast, st.units)
	span.WithExtra("scopes", fmt.Sprint(st.table.Scopes.Len())).End("")
	return &ScopesGenerated{stage{st}}
}

// ResolveNames registers declarations, materialises imports and resolves
// every collected name use.
func (s *ScopesGenerated) ResolveNames(ctx context.Context) (*NamesResolved, error) {
	st := s.take("ResolveNames")
	ctx, span := trace.Start(ctx, trace.ScopePhase, "resolve_names")
	defer span.End("")

	r := symbols.NewResolver(st.table, st.ast, st.units, symbols.ResolverOptions{Reporter: st.reporter})
	passes := []struct {
		name string
		fn   func() error
	}{
		{"register_declarations", r.RegisterDeclarations},
		{"resolve_imports", r.ResolveImports},
		{"resolve_names", r.ResolveNames},
	}
	for _, p := range passes {
		_, ps := trace.Start(ctx, trace.ScopePass, p.name)
		err := p.fn()
		if err != nil {
			code := diag.CodeOf(err).ID()
			ps.WithExtra("code", code).End("failed")
			span.WithExtra("code", code)
			return nil, err
		}
		ps.End("")
	}
	st.resolved = r.Resolved()
	span.WithExtra("names", fmt.Sprint(len(st.resolved)))
	return &NamesResolved{stage{st}}, nil
}

// Validate runs the semantic checks: cycles, types, conformance, struct-init
// binding and, unless building a library, the entry point.
func (n *NamesResolved) Validate(ctx context.Context) (*Validated, error) {
	st := n.take("Validate")
	ctx, span := trace.Start(ctx, trace.ScopePhase, "validate")
	defer span.End("")

	entry := st.opts.Entry
	if st.opts.Library {
		entry = ""
	}
	res, err := sema.Check(ctx, st.ast, st.units, sema.Options{
		Reporter:     st.reporter,
		Table:        st.table,
		Resolved:     st.resolved,
		Entry:        entry,
		RenderModule: st.opts.RenderModule,
		RenderTrait:  st.opts.RenderTrait,
	})
	if err != nil {
		span.WithExtra("code", diag.CodeOf(err).ID())
		return nil, err
	}
	st.sema = res
	return &Validated{stage{st}}, nil
}

// Build seals the environment. The scope graph must be structurally sound at
// this point; a broken graph is a bug in an earlier stage and panics.
func (v *Validated) Build() *Environment {
	st := v.take("Build")
	if err := st.table.Validate(); err != nil {
		panic(fmt.Errorf("env: inconsistent scope graph: %w", err))
	}
	return &Environment{
		ast:      st.ast,
		table:    st.table,
		units:    st.units,
		resolved: st.resolved,
		sema:     st.sema,
		entry:    st.opts.Entry,
	}
}

// Build runs every stage in order over files paired with module paths.
func Build(ctx context.Context, b *ast.Builder, paths []string, files []ast.FileID, opts Options) (*Environment, error) {
	added, err := New(b, opts).AddModules(ctx, paths, files)
	if err != nil {
		return nil, err
	}
	resolved, err := added.GenerateScopes(ctx).ResolveNames(ctx)
	if err != nil {
		return nil, err
	}
	validated, err := resolved.Validate(ctx)
	if err != nil {
		return nil, err
	}
	return validated.Build(), nil
}
