package symbols

import (
	"docl/internal/ast"
	"docl/internal/source"
)

// Desugarer settles `a.b.c(x)` nodes the grammar cannot classify: either a
// constructor call of struct `c` in module `a.b`, or setting field `c` on
// the value `a.b`.
type Desugarer struct {
	table *Table
	ast   *ast.Builder
	units map[ScopeID][]ast.FileID
}

func NewDesugarer(table *Table, b *ast.Builder, units []Unit) *Desugarer {
	byModule := make(map[ScopeID][]ast.FileID, len(units))
	for _, u := range units {
		byModule[u.Module] = append(byModule[u.Module], u.File)
	}
	return &Desugarer{table: table, ast: b, units: byModule}
}

// Desugar rewrites the struct init at id into a chaining invocation when it
// cannot be a constructor call, and reports whether it did. Anything that is
// not a struct init is left alone, so running it twice changes nothing.
func (d *Desugarer) Desugar(id ast.ExprID) bool {
	data, ok := d.ast.Exprs.StructInit(id)
	if !ok || d.isConstructor(data) {
		return false
	}
	name := d.ast.Names.Get(data.Name)
	segments := append([]source.StringID(nil), name.Segments...)
	span := name.Span
	var value ast.ExprID
	if len(data.Args) == 1 {
		value = data.Args[0].Value
	}

	prefix, field := segments[:len(segments)-1], segments[len(segments)-1]
	receiver := d.ast.Exprs.NewName(span, d.ast.Names.New(span, prefix))
	d.ast.Exprs.ReplaceWithChain(id, ast.ExprChainData{
		Receiver:  receiver,
		Field:     field,
		FieldSpan: span,
		Value:     value,
	})
	return true
}

func (d *Desugarer) isConstructor(data *ast.ExprStructInitData) bool {
	if data.HasContent || len(data.Args) > 1 {
		return true
	}
	if len(data.Args) == 1 && data.Args[0].Label != source.NoStringID {
		return true
	}
	segments := d.ast.Names.Get(data.Name).Segments
	if len(segments) == 1 {
		return true
	}
	return d.declaresStruct(segments[:len(segments)-1], segments[len(segments)-1])
}

// declaresStruct reports whether module path holds a top-level struct named
// name. Declarations are not registered yet at this point, so the module's
// units are inspected directly.
func (d *Desugarer) declaresStruct(path []source.StringID, name source.StringID) bool {
	mod, ok := d.table.FindModule(path)
	if !ok {
		return false
	}
	for _, fid := range d.units[mod] {
		for _, item := range d.ast.Files.Get(fid).Items {
			if s, ok := d.ast.Items.Struct(item); ok && s.Name == name {
				return true
			}
		}
	}
	return false
}
