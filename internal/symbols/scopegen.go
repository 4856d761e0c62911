package symbols

import (
	"fmt"

	"docl/internal/ast"
)

type scopeGen struct {
	table *Table
	ast   *ast.Builder
	sugar *Desugarer
}

// GenerateScopes creates the child scopes of struct bodies, blocks and
// struct-init content, and stamps every scope-sensitive node with the scope
// it occurs in. Struct inits are desugared right before their children are
// visited, so rewritten nodes get their scopes like any other.
func (t *Table) GenerateScopes(b *ast.Builder, units []Unit) {
	g := &scopeGen{table: t, ast: b, sugar: NewDesugarer(t, b, units)}
	for _, u := range units {
		file := b.Files.Get(u.File)
		if file == nil {
			panic(fmt.Sprintf("symbols: unknown file %d", u.File))
		}
		for _, item := range file.Items {
			g.item(u.Module, item)
		}
	}
}

func (g *scopeGen) item(scope ScopeID, id ast.ItemID) {
	item := g.ast.Items.Get(id)
	switch item.Kind {
	case ast.ItemConst:
		c, _ := g.ast.Items.Const(id)
		g.typeExpr(scope, c.Type)
		g.expr(scope, c.Value)
	case ast.ItemStruct:
		s, _ := g.ast.Items.Struct(id)
		body := g.table.AddChildScope(scope, ScopeStruct)
		g.table.Scope(body).Owner = id
		s.Body.Assign(uint32(body))
		for _, fid := range s.Fields {
			f := g.ast.Items.Field(fid)
			g.typeExpr(body, f.Type)
			g.expr(body, f.Default)
		}
		for _, attr := range s.Attrs {
			g.item(body, attr)
		}
	case ast.ItemTrait:
		t, _ := g.ast.Items.Trait(id)
		for _, fid := range t.Fields {
			f := g.ast.Items.Field(fid)
			g.typeExpr(scope, f.Type)
			g.expr(scope, f.Default)
		}
	case ast.ItemImport:
	}
}

func (g *scopeGen) name(scope ScopeID, id ast.NameID) {
	g.ast.Names.Get(id).Scope.Assign(uint32(scope))
}

func (g *scopeGen) typeExpr(scope ScopeID, id ast.TypeExprID) {
	if !id.IsValid() {
		return
	}
	if te := g.ast.Types.Get(id); te.Kind == ast.TypeNamed {
		g.name(scope, te.Name)
	}
}

// expr copies payloads before recursing: desugaring nested nodes appends to
// the expression arenas and may move them.
func (g *scopeGen) expr(scope ScopeID, id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	g.sugar.Desugar(id)

	switch g.ast.Exprs.Get(id).Kind {
	case ast.ExprLit:
	case ast.ExprName:
		data, _ := g.ast.Exprs.Name(id)
		g.name(scope, data.Name)
	case ast.ExprStructInit:
		ptr, _ := g.ast.Exprs.StructInit(id)
		data := *ptr
		g.name(scope, data.Name)
		for _, arg := range data.Args {
			g.expr(scope, arg.Value)
		}
		if data.HasContent {
			content := g.table.AddChildScope(scope, ScopeContent)
			ptr, _ = g.ast.Exprs.StructInit(id)
			ptr.ContentScope.Assign(uint32(content))
			for _, c := range data.Content {
				g.expr(content, c)
			}
		}
	case ast.ExprChain:
		data, _ := g.ast.Exprs.Chain(id)
		receiver, value := data.Receiver, data.Value
		g.expr(scope, receiver)
		g.expr(scope, value)
	case ast.ExprField:
		data, _ := g.ast.Exprs.FieldAccess(id)
		g.expr(scope, data.Receiver)
	case ast.ExprBlock:
		ptr, _ := g.ast.Exprs.Block(id)
		block := g.table.AddChildScope(scope, ScopeBlock)
		ptr.Scope.Assign(uint32(block))
		data := *ptr
		for _, c := range data.Consts {
			g.item(block, c)
		}
		g.expr(block, data.Result)
	case ast.ExprBinary:
		data, _ := g.ast.Exprs.Binary(id)
		left, right := data.Left, data.Right
		g.expr(scope, left)
		g.expr(scope, right)
	case ast.ExprUnary:
		data, _ := g.ast.Exprs.Unary(id)
		g.expr(scope, data.Operand)
	}
}
