package driver

import (
	"context"
	"fmt"
	"time"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/env"
	"docl/internal/observ"
	"docl/internal/project"
	"docl/internal/source"
	"docl/internal/trace"
)

// Program is one document to analyse: an AST forest and the module every
// compilation unit belongs to.
type Program struct {
	Name  string
	AST   *ast.Builder
	Files []ast.FileID

	// Modules[i] is the dotted module path of Files[i]. When empty the paths
	// are derived from Sources, the project-relative source file names.
	Modules []string
	Sources []string

	FileSet *source.FileSet // optional, only used to render diagnostics
}

// Options control a compilation.
type Options struct {
	Entry        string
	RenderModule string
	RenderTrait  string
	Library      bool

	MaxDiagnostics int
	Jobs           int           // CompileAll workers; 0 means GOMAXPROCS
	Heartbeat      time.Duration // CompileAll liveness events; 0 disables

	// Reporter sees every diagnostic in addition to the result bag.
	Reporter diag.Reporter
	// Timings appends a per-stage timing report to the diagnostics.
	Timings bool
}

// OptionsFromConfig maps docl.toml onto compile options.
func OptionsFromConfig(cfg project.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	opts := Options{
		Entry:          cfg.Compile.Entry,
		RenderModule:   cfg.Compile.RenderModule,
		RenderTrait:    cfg.Compile.RenderTrait,
		MaxDiagnostics: cfg.Compile.MaxDiagnostics,
		Jobs:           cfg.Compile.Jobs,
	}
	tc, err := cfg.Trace.TracerConfig()
	if err != nil {
		return Options{}, err
	}
	opts.Heartbeat = tc.Heartbeat
	return opts, nil
}

// DiscoverOptions loads the docl.toml governing dir, falling back to the
// defaults outside any project.
func DiscoverOptions(dir string) (Options, *project.Project, error) {
	p, err := project.Discover(dir)
	if err != nil {
		return Options{}, nil, err
	}
	opts, err := OptionsFromConfig(p.Config)
	if err != nil {
		return Options{}, nil, err
	}
	return opts, p, nil
}

// OpenTracer builds the tracer described by the [trace] table.
func OpenTracer(cfg project.Config) (trace.Tracer, error) {
	tc, err := cfg.Trace.TracerConfig()
	if err != nil {
		return nil, err
	}
	return trace.New(tc)
}

// Result is everything a compilation produced. Env is nil when Err is set.
type Result struct {
	Name        string
	Env         *env.Environment
	Diagnostics *diag.Bag
	FileSet     *source.FileSet
	Timings     observ.Report

	// Layers groups module paths so that every module imports only modules
	// of earlier layers. Modules on an import cycle are left out of Layers
	// and listed in Cycles.
	Layers [][]string
	Cycles []string

	// Digest fingerprints the resolution snapshot of a successful build.
	Digest project.Digest

	Err error
}

// OK reports whether the program compiled.
func (r *Result) OK() bool { return r != nil && r.Err == nil }

const defaultMaxDiagnostics = 64

// Compile runs the whole analysis over prog. The returned result is never
// nil; its Err matches the returned error.
func Compile(ctx context.Context, prog Program, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile")
	defer span.End("")
	if prog.Name != "" {
		span.WithExtra("program", prog.Name)
	}

	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = defaultMaxDiagnostics
	}
	res := &Result{Name: prog.Name, Diagnostics: diag.NewBag(limit), FileSet: prog.FileSet}
	var reporter diag.Reporter = diag.BagReporter{Bag: res.Diagnostics}
	if opts.Reporter != nil {
		reporter = diag.MultiReporter{reporter, opts.Reporter}
	}

	timer := observ.NewTimer()
	res.Err = compile(ctx, timer, prog, opts, reporter, res)
	res.Timings = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Diagnostics, timingPayload{Kind: "compile", Path: prog.Name, Report: res.Timings})
	}

	if res.Err != nil {
		code := diag.CodeOf(res.Err).ID()
		trace.Point(ctx, trace.ScopeDriver, "error", code)
		span.WithExtra("code", code)
		res.Env = nil
	}
	return res, res.Err
}

func compile(ctx context.Context, timer *observ.Timer, prog Program, opts Options, reporter diag.Reporter, res *Result) error {
	if prog.AST == nil {
		panic("driver: program without AST")
	}
	var modules []string
	err := timer.Measure("modules", func() (err error) {
		modules, err = prog.modulePaths(reporter)
		return err
	})
	if err != nil {
		return err
	}

	c := env.New(prog.AST, env.Options{
		Reporter:     reporter,
		Entry:        opts.Entry,
		RenderModule: opts.RenderModule,
		RenderTrait:  opts.RenderTrait,
		Library:      opts.Library,
	})

	var added *env.ModulesAdded
	if err = stage(ctx, timer, "add_modules", func() (err error) {
		added, err = c.AddModules(ctx, modules, prog.Files)
		return err
	}); err != nil {
		return err
	}
	var scoped *env.ScopesGenerated
	if err = stage(ctx, timer, "generate_scopes", func() error {
		scoped = added.GenerateScopes(ctx)
		return nil
	}); err != nil {
		return err
	}
	var named *env.NamesResolved
	if err = stage(ctx, timer, "resolve_names", func() (err error) {
		named, err = scoped.ResolveNames(ctx)
		return err
	}); err != nil {
		return err
	}
	var valid *env.Validated
	if err = stage(ctx, timer, "validate", func() (err error) {
		valid, err = named.Validate(ctx)
		return err
	}); err != nil {
		return err
	}
	res.Env = valid.Build()

	_ = timer.Measure("layers", func() error {
		res.Layers, res.Cycles = moduleLayers(res.Env)
		return nil
	})
	return timer.Measure("digest", func() error {
		data, err := Snapshot(res.Env)
		if err != nil {
			return err
		}
		res.Digest = project.DigestOf(data)
		return nil
	})
}

// stage runs fn as a timed phase unless ctx is already done.
func stage(ctx context.Context, timer *observ.Timer, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return timer.Measure(name, fn)
}

func (p Program) modulePaths(reporter diag.Reporter) ([]string, error) {
	if len(p.Modules) > 0 || len(p.Sources) == 0 {
		return p.Modules, nil
	}
	out := make([]string, len(p.Sources))
	for i, src := range p.Sources {
		mod, err := project.ModulePathFromFile(src)
		if err != nil {
			return nil, diag.ReportError(reporter, diag.ProjInvalidModulePath, p.fileSpan(i),
				fmt.Sprintf("cannot derive a module path from %q", src)).
				WithNote(source.Span{}, err.Error()).Err()
		}
		out[i] = mod
	}
	return out, nil
}

func (p Program) fileSpan(i int) source.Span {
	if i >= len(p.Files) {
		return source.Span{}
	}
	if f := p.AST.Files.Get(p.Files[i]); f != nil {
		return f.Span
	}
	return source.Span{}
}
