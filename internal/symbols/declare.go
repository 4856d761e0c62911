package symbols

import (
	"fmt"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
)

// RegisterDeclarations walks every unit once, binding constants, structs,
// traits, fields and `self` into their scopes. Name uses in type and
// expression positions and all `use` items are collected for later stages.
func (r *Resolver) RegisterDeclarations() error {
	for _, u := range r.units {
		file := r.ast.Files.Get(u.File)
		if file == nil {
			panic(fmt.Sprintf("symbols: unknown file %d", u.File))
		}
		for _, id := range file.Items {
			if err := r.declareItem(u.Module, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) declare(scope ScopeID, name source.StringID, elem DeclaredElement) error {
	prev, ok := r.table.Declare(scope, name, elem)
	if ok {
		return nil
	}
	return r.errorf(diag.SemaDuplicateSymbol, elem.Span, "`%s` is already declared in this scope", r.str(name)).
		WithNote(prev.Span, "previous declaration here").
		Err()
}

func (r *Resolver) declareItem(scope ScopeID, id ast.ItemID) error {
	item := r.ast.Items.Get(id)
	switch item.Kind {
	case ast.ItemImport:
		if r.table.Scope(scope).Kind != ScopeModule {
			panic("symbols: import outside module scope")
		}
		r.imports = append(r.imports, pendingImport{scope: scope, item: id})
		return nil

	case ast.ItemConst:
		c, _ := r.ast.Items.Const(id)
		elem := DeclaredElement{Kind: ElemConstant, Item: id, Span: source.Prefer(c.NameSpan, item.Span)}
		if err := r.declare(scope, c.Name, elem); err != nil {
			return err
		}
		r.collectType(c.Type)
		return r.collectExpr(c.Value)

	case ast.ItemStruct:
		s, _ := r.ast.Items.Struct(id)
		span := source.Prefer(s.NameSpan, item.Span)
		if err := r.declare(scope, s.Name, DeclaredElement{Kind: ElemStruct, Item: id, Span: span}); err != nil {
			return err
		}
		body := ScopeID(s.Body.MustGet())
		if err := r.declare(body, r.selfName, DeclaredElement{Kind: ElemSelf, Item: id, Span: span}); err != nil {
			return err
		}
		for _, fid := range s.Fields {
			f := r.ast.Items.Field(fid)
			elem := DeclaredElement{Kind: ElemField, Item: id, Field: fid, Span: source.Prefer(f.Span, item.Span)}
			if err := r.declare(body, f.Name, elem); err != nil {
				return err
			}
			r.collectType(f.Type)
			if err := r.collectExpr(f.Default); err != nil {
				return err
			}
		}
		for _, attr := range s.Attrs {
			if err := r.declareItem(body, attr); err != nil {
				return err
			}
		}
		return nil

	case ast.ItemTrait:
		t, _ := r.ast.Items.Trait(id)
		if err := r.declare(scope, t.Name, DeclaredElement{Kind: ElemTrait, Item: id, Span: source.Prefer(t.NameSpan, item.Span)}); err != nil {
			return err
		}
		seen := make(map[source.StringID]source.Span, len(t.Fields))
		for _, fid := range t.Fields {
			f := r.ast.Items.Field(fid)
			if prev, dup := seen[f.Name]; dup {
				return r.errorf(diag.SemaDuplicateSymbol, f.Span, "trait `%s` declares `%s` twice", r.str(t.Name), r.str(f.Name)).
					WithNote(prev, "previous declaration here").
					Err()
			}
			seen[f.Name] = f.Span
			if f.HasDefault() {
				return r.errorf(diag.SemaTraitFieldDefault, f.Span, "trait field `%s.%s` cannot have a default value", r.str(t.Name), r.str(f.Name)).Err()
			}
			r.collectType(f.Type)
		}
		return nil
	}
	panic(fmt.Sprintf("symbols: unexpected item kind %s", item.Kind))
}

func (r *Resolver) collectType(id ast.TypeExprID) {
	if !id.IsValid() {
		return
	}
	te := r.ast.Types.Get(id)
	if te.Kind == ast.TypeNamed {
		r.typeNames = append(r.typeNames, nameUse{name: te.Name, role: RoleType})
	}
}

func (r *Resolver) useExpr(name ast.NameID, role NameRole) {
	r.exprNames = append(r.exprNames, nameUse{name: name, role: role})
}

func (r *Resolver) collectExpr(id ast.ExprID) error {
	if !id.IsValid() {
		return nil
	}
	expr := r.ast.Exprs.Get(id)
	switch expr.Kind {
	case ast.ExprLit:
		return nil
	case ast.ExprName:
		data, _ := r.ast.Exprs.Name(id)
		r.useExpr(data.Name, RoleValue)
		return nil
	case ast.ExprStructInit:
		data, _ := r.ast.Exprs.StructInit(id)
		r.useExpr(data.Name, RoleStruct)
		for _, arg := range data.Args {
			if err := r.collectExpr(arg.Value); err != nil {
				return err
			}
		}
		for _, c := range data.Content {
			if err := r.collectExpr(c); err != nil {
				return err
			}
		}
		return nil
	case ast.ExprChain:
		data, _ := r.ast.Exprs.Chain(id)
		if err := r.collectExpr(data.Receiver); err != nil {
			return err
		}
		return r.collectExpr(data.Value)
	case ast.ExprField:
		data, _ := r.ast.Exprs.FieldAccess(id)
		return r.collectExpr(data.Receiver)
	case ast.ExprBlock:
		data, _ := r.ast.Exprs.Block(id)
		scope := ScopeID(data.Scope.MustGet())
		for _, c := range data.Consts {
			if err := r.declareItem(scope, c); err != nil {
				return err
			}
		}
		return r.collectExpr(data.Result)
	case ast.ExprBinary:
		data, _ := r.ast.Exprs.Binary(id)
		if err := r.collectExpr(data.Left); err != nil {
			return err
		}
		return r.collectExpr(data.Right)
	case ast.ExprUnary:
		data, _ := r.ast.Exprs.Unary(id)
		return r.collectExpr(data.Operand)
	}
	panic(fmt.Sprintf("symbols: unexpected expression kind %s", expr.Kind))
}
