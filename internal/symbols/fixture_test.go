package symbols

import (
	"testing"

	"docl/internal/ast"
	"docl/internal/diag"
)

type fixture struct {
	b     *ast.Builder
	table *Table
	units []Unit
	bag   *diag.Bag
}

func newFixture() *fixture {
	b := ast.NewBuilder(ast.Hints{}, nil)
	return &fixture{
		b:     b,
		table: NewTable(Hints{}, b.Strings),
		bag:   diag.NewBag(16),
	}
}

func (f *fixture) unit(module string, items ...ast.ItemID) ast.FileID {
	file := f.b.Unit(items...)
	f.units = append(f.units, Unit{File: file, Module: f.table.AddModule(f.b.Path(module))})
	return file
}

func (f *fixture) run() (*Resolver, error) {
	f.table.GenerateScopes(f.b, f.units)
	r := NewResolver(f.table, f.b, f.units, ResolverOptions{Reporter: diag.BagReporter{Bag: f.bag}})
	if err := r.RegisterDeclarations(); err != nil {
		return r, err
	}
	if err := r.ResolveImports(); err != nil {
		return r, err
	}
	return r, r.ResolveNames()
}

func (f *fixture) mustRun(t *testing.T) *Resolver {
	t.Helper()
	r, err := f.run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func (f *fixture) expectCode(t *testing.T, want diag.Code) {
	t.Helper()
	_, err := f.run()
	if err == nil {
		t.Fatalf("expected %s, got success", want.ID())
	}
	if got := diag.CodeOf(err); got != want {
		t.Fatalf("expected %s, got %s (%v)", want.ID(), got.ID(), err)
	}
	if f.bag.Len() != 1 || f.bag.Items()[0].Code != want {
		t.Fatalf("expected the error to be reported once, bag has %d items", f.bag.Len())
	}
}

// valueName returns the name used by a constant whose value is a plain name.
func (f *fixture) valueName(t *testing.T, constID ast.ItemID) ast.NameID {
	t.Helper()
	c, ok := f.b.Items.Const(constID)
	if !ok {
		t.Fatalf("item %d is not a constant", constID)
	}
	data, ok := f.b.Exprs.Name(c.Value)
	if !ok {
		t.Fatalf("constant %d value is not a name", constID)
	}
	return data.Name
}

func (f *fixture) resolvedValue(t *testing.T, r *Resolver, constID ast.ItemID) Resolved {
	t.Helper()
	res, ok := r.Resolved()[f.valueName(t, constID)]
	if !ok {
		t.Fatalf("name used by constant %d was not resolved", constID)
	}
	return res
}
