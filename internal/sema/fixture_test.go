package sema

import (
	"context"
	"testing"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/symbols"
	"docl/internal/types"
)

type fixture struct {
	b     *ast.Builder
	table *symbols.Table
	units []symbols.Unit
	bag   *diag.Bag
	opts  Options
}

func newFixture() *fixture {
	b := ast.NewBuilder(ast.Hints{}, nil)
	return &fixture{
		b:     b,
		table: symbols.NewTable(symbols.Hints{}, b.Strings),
		bag:   diag.NewBag(16),
	}
}

func (f *fixture) unit(module string, items ...ast.ItemID) ast.FileID {
	file := f.b.Unit(items...)
	f.units = append(f.units, symbols.Unit{File: file, Module: f.table.AddModule(f.b.Path(module))})
	return file
}

// essentials declares a minimal render module:
//
//	trait Render(render: Render)
//	struct Text(value: String)
//	struct Div(children: Children)
func (f *fixture) essentials() {
	b := f.b
	f.unit(DefaultRenderModule,
		b.Trait("Render", b.Field("render", b.NamedType("Render"), ast.NoExprID)),
		b.Struct("Text", []ast.FieldID{b.Field("value", b.BuiltinType(ast.BuiltinString), ast.NoExprID)}),
		b.Struct("Div", []ast.FieldID{b.Field("children", b.BuiltinType(ast.BuiltinChildren), ast.NoExprID)}),
	)
}

func (f *fixture) intType() ast.TypeExprID    { return f.b.BuiltinType(ast.BuiltinInt) }
func (f *fixture) stringType() ast.TypeExprID { return f.b.BuiltinType(ast.BuiltinString) }

// field declares a field without a default.
func (f *fixture) field(name string, typ ast.TypeExprID) ast.FieldID {
	return f.b.Field(name, typ, ast.NoExprID)
}

func (f *fixture) check() (*Result, error) {
	f.table.GenerateScopes(f.b, f.units)
	reporter := diag.BagReporter{Bag: f.bag}
	r := symbols.NewResolver(f.table, f.b, f.units, symbols.ResolverOptions{Reporter: reporter})
	if err := r.RegisterDeclarations(); err != nil {
		return nil, err
	}
	if err := r.ResolveImports(); err != nil {
		return nil, err
	}
	if err := r.ResolveNames(); err != nil {
		return nil, err
	}
	opts := f.opts
	opts.Reporter = reporter
	opts.Table = f.table
	opts.Resolved = r.Resolved()
	return Check(context.Background(), f.b, f.units, opts)
}

func (f *fixture) mustCheck(t *testing.T) *Result {
	t.Helper()
	res, err := f.check()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
	}
	return res
}

func (f *fixture) expectCode(t *testing.T, want diag.Code) *diag.Error {
	t.Helper()
	_, err := f.check()
	if err == nil {
		t.Fatalf("expected %s, got success", want.ID())
	}
	if got := diag.CodeOf(err); got != want {
		t.Fatalf("expected %s, got %s (%v)", want.ID(), got.ID(), err)
	}
	if f.bag.Len() != 1 {
		t.Fatalf("expected exactly one reported diagnostic, got %d", f.bag.Len())
	}
	de, _ := err.(*diag.Error)
	return de
}

func (f *fixture) value(t *testing.T, constID ast.ItemID) ast.ExprID {
	t.Helper()
	c, ok := f.b.Items.Const(constID)
	if !ok {
		t.Fatalf("item %d is not a constant", constID)
	}
	return c.Value
}

func (f *fixture) constType(t *testing.T, res *Result, constID ast.ItemID) types.TypeID {
	t.Helper()
	typ, ok := res.ConstTypes[constID]
	if !ok {
		t.Fatalf("constant %d was not typed", constID)
	}
	return typ
}

func (f *fixture) structType(t *testing.T, res *Result, item ast.ItemID) types.TypeID {
	t.Helper()
	typ, ok := res.TypeInterner.ByItem(item)
	if !ok {
		t.Fatalf("declaration %d has no type", item)
	}
	return typ
}
