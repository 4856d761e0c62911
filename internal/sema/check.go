package sema

import (
	"context"
	"fmt"
	"strings"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
	"docl/internal/symbols"
	"docl/internal/trace"
	"docl/internal/types"
)

const (
	DefaultRenderModule = "std.essential"
	DefaultRenderTrait  = "Render"
)

// Options configure a semantic pass over one resolved environment.
type Options struct {
	Reporter diag.Reporter
	Table    *symbols.Table
	Resolved map[ast.NameID]symbols.Resolved
	Types    *types.Interner

	// Entry names the top-level constant validated as the program entry
	// point. Empty skips the check.
	Entry        string
	RenderModule string // dotted module path; DefaultRenderModule when empty
	RenderTrait  string // DefaultRenderTrait when empty
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	TypeInterner *types.Interner
	ExprTypes    map[ast.ExprID]types.TypeID
	ConstTypes   map[ast.ItemID]types.TypeID
	FieldTypes   map[ast.FieldID]types.TypeID

	// Access holds the member chain of every name that resolved to an
	// instance access.
	Access map[ast.NameID][]TypedElement
	// Members holds the member chain of every field-access expression.
	Members map[ast.ExprID][]TypedElement
	// Chains holds the field replaced by every chaining invocation.
	Chains map[ast.ExprID]TypedElement
	Inits  map[ast.ExprID]InitBinding

	Entry     ast.ItemID
	EntryType types.TypeID
}

// Check assigns a type to every declaration and expression of units, runs
// both cycle detectors and validates the entry point. The first violation is
// reported and returned.
func Check(ctx context.Context, builder *ast.Builder, units []symbols.Unit, opts Options) (*Result, error) {
	if builder == nil || opts.Table == nil {
		panic("sema: Check needs an AST and a symbol table")
	}
	res := &Result{
		ExprTypes:  make(map[ast.ExprID]types.TypeID),
		ConstTypes: make(map[ast.ItemID]types.TypeID),
		FieldTypes: make(map[ast.FieldID]types.TypeID),
		Access:     make(map[ast.NameID][]TypedElement),
		Members:    make(map[ast.ExprID][]TypedElement),
		Chains:     make(map[ast.ExprID]TypedElement),
		Inits:      make(map[ast.ExprID]InitBinding),
	}
	if opts.Types != nil {
		res.TypeInterner = opts.Types
	} else {
		res.TypeInterner = types.NewInterner()
	}
	if opts.RenderModule == "" {
		opts.RenderModule = DefaultRenderModule
	}
	if opts.RenderTrait == "" {
		opts.RenderTrait = DefaultRenderTrait
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	resolved := opts.Resolved
	if resolved == nil {
		resolved = map[ast.NameID]symbols.Resolved{}
	}

	checker := typeChecker{
		builder:    builder,
		table:      opts.Table,
		resolved:   resolved,
		types:      res.TypeInterner,
		reporter:   reporter,
		units:      units,
		opts:       opts,
		result:     res,
		constState: make(map[ast.ItemID]constEvalState),
		fieldState: make(map[ast.FieldID]constEvalState),
		assumed:    make(map[conformPair]struct{}),
	}
	if err := checker.run(ctx); err != nil {
		return res, err
	}
	return res, nil
}

type typeChecker struct {
	builder  *ast.Builder
	table    *symbols.Table
	resolved map[ast.NameID]symbols.Resolved
	types    *types.Interner
	reporter diag.Reporter
	units    []symbols.Unit
	opts     Options
	result   *Result

	structs []ast.ItemID
	traits  []ast.ItemID

	constState map[ast.ItemID]constEvalState
	fieldState map[ast.FieldID]constEvalState
	evalStack  []evalFrame

	assumed map[conformPair]struct{}
	render  renderTarget
}

func (tc *typeChecker) run(ctx context.Context) error {
	passes := []struct {
		name string
		fn   func() error
	}{
		{"declare_types", tc.declareTypes},
		{"struct_cycles", tc.checkStructCycles},
		{"check_items", tc.checkItems},
		{"entrypoint", tc.checkEntrypoint},
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	for _, p := range passes {
		span := trace.Begin(tracer, trace.ScopePass, p.name, parent)
		err := p.fn()
		if err != nil {
			span.WithExtra("code", diag.CodeOf(err).ID())
		}
		span.End("")
		if err != nil {
			return err
		}
	}
	return nil
}

// checkItems types every constant and field default, in unit order.
func (tc *typeChecker) checkItems() error {
	for _, u := range tc.units {
		for _, id := range tc.builder.Files.Get(u.File).Items {
			item := tc.builder.Items.Get(id)
			switch item.Kind {
			case ast.ItemConst:
				if _, err := tc.ensureConstTyped(id); err != nil {
					return err
				}
			case ast.ItemStruct:
				s, _ := tc.builder.Items.Struct(id)
				for _, fid := range s.Fields {
					if _, err := tc.ensureFieldChecked(fid); err != nil {
						return err
					}
				}
				for _, attr := range s.Attrs {
					if _, err := tc.ensureConstTyped(attr); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (tc *typeChecker) str(id source.StringID) string {
	s, _ := tc.table.Strings.Lookup(id)
	return s
}

func (tc *typeChecker) typeLabel(id types.TypeID) string {
	return tc.types.Format(id, tc.table.Strings)
}

func (tc *typeChecker) exprSpan(id ast.ExprID) source.Span {
	if e := tc.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

// declLabel renders a struct, trait or constant name.
func (tc *typeChecker) declLabel(id ast.ItemID) string {
	name, _ := tc.builder.Items.DeclName(id)
	return tc.str(name)
}

func (tc *typeChecker) fieldLabel(fid ast.FieldID) string {
	f := tc.builder.Items.Field(fid)
	if f == nil {
		return "?"
	}
	if f.Owner.IsValid() {
		return tc.declLabel(f.Owner) + "." + tc.str(f.Name)
	}
	return tc.str(f.Name)
}

func (tc *typeChecker) errorf(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...))
}

func splitPath(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}
