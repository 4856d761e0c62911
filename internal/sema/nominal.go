package sema

import (
	"fmt"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
	"docl/internal/types"
)

// declareTypes registers every struct and trait before resolving any member
// type, so fields may name declarations that appear later.
func (tc *typeChecker) declareTypes() error {
	for _, u := range tc.units {
		for _, id := range tc.builder.Files.Get(u.File).Items {
			item := tc.builder.Items.Get(id)
			switch item.Kind {
			case ast.ItemStruct:
				s, _ := tc.builder.Items.Struct(id)
				tc.types.RegisterStruct(id, s.Name, source.Prefer(s.NameSpan, item.Span))
				tc.structs = append(tc.structs, id)
			case ast.ItemTrait:
				t, _ := tc.builder.Items.Trait(id)
				tc.types.RegisterTrait(id, t.Name, source.Prefer(t.NameSpan, item.Span))
				tc.traits = append(tc.traits, id)
			}
		}
	}
	for _, id := range tc.traits {
		if err := tc.declareTraitMembers(id); err != nil {
			return err
		}
	}
	for _, id := range tc.structs {
		if err := tc.declareStructMembers(id); err != nil {
			return err
		}
	}
	return nil
}

func (tc *typeChecker) declareTraitMembers(id ast.ItemID) error {
	t, _ := tc.builder.Items.Trait(id)
	typeID := tc.mustTypeOf(id)
	fields := make([]types.Member, 0, len(t.Fields))
	for _, fid := range t.Fields {
		f := tc.builder.Items.Field(fid)
		ft, err := tc.resolveTypeExpr(f.Type)
		if err != nil {
			return err
		}
		tc.result.FieldTypes[fid] = ft
		fields = append(fields, types.Member{Name: f.Name, Type: ft, Field: fid})
	}
	tc.types.SetMembers(typeID, fields, nil)
	return nil
}

// declareStructMembers resolves field types and records attributes; attribute
// types stay unresolved until something reads them.
func (tc *typeChecker) declareStructMembers(id ast.ItemID) error {
	s, _ := tc.builder.Items.Struct(id)
	typeID := tc.mustTypeOf(id)
	children := tc.types.Builtins().Children
	fields := make([]types.Member, 0, len(s.Fields))
	for i, fid := range s.Fields {
		f := tc.builder.Items.Field(fid)
		ft, err := tc.resolveTypeExpr(f.Type)
		if err != nil {
			return err
		}
		if ft == children && i != len(s.Fields)-1 {
			return tc.errorf(diag.SemaChildrenNotLast, f.Span,
				"field `%s` has type `Children` but is not the last field of `%s`", tc.str(f.Name), tc.str(s.Name)).Err()
		}
		tc.result.FieldTypes[fid] = ft
		fields = append(fields, types.Member{Name: f.Name, Type: ft, Field: fid, HasDefault: f.HasDefault()})
	}
	attrs := make([]types.Member, 0, len(s.Attrs))
	for _, attr := range s.Attrs {
		c, ok := tc.builder.Items.Const(attr)
		if !ok {
			panic(fmt.Sprintf("sema: attribute %d of `%s` is not a constant", attr, tc.str(s.Name)))
		}
		attrs = append(attrs, types.Member{Name: c.Name, Attr: attr})
	}
	tc.types.SetMembers(typeID, fields, attrs)
	return nil
}

func (tc *typeChecker) mustTypeOf(item ast.ItemID) types.TypeID {
	id, ok := tc.types.ByItem(item)
	if !ok {
		panic(fmt.Sprintf("sema: declaration %d has no registered type", item))
	}
	return id
}

func (tc *typeChecker) resolveTypeExpr(id ast.TypeExprID) (types.TypeID, error) {
	te := tc.builder.Types.Get(id)
	if te == nil {
		panic(fmt.Sprintf("sema: invalid type expression %d", id))
	}
	switch te.Kind {
	case ast.TypeBuiltin:
		return tc.types.FromBuiltin(te.Builtin), nil
	case ast.TypeNamed:
		res, ok := tc.resolved[te.Name]
		if !ok {
			panic(fmt.Sprintf("sema: type name %d was never resolved", te.Name))
		}
		if !res.IsType() {
			return types.NoTypeID, tc.errorf(diag.SemaNotAType, te.Span,
				"`%s` is a %s, not a type", tc.builder.Names.Text(te.Name, tc.table.Strings), res.Kind).Err()
		}
		return tc.mustTypeOf(res.Elem.Item), nil
	}
	panic(fmt.Sprintf("sema: unexpected type expression kind %d", te.Kind))
}

// memberType returns the type of a struct or trait member, typing attributes
// on first use.
func (tc *typeChecker) memberType(m types.Member) (types.TypeID, error) {
	if m.IsAttribute() {
		return tc.ensureConstTyped(m.Attr)
	}
	return m.Type, nil
}
