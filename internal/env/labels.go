package env

import (
	"strings"

	"docl/internal/ast"
	"docl/internal/symbols"
)

// ModuleOf returns the module enclosing scope, or the global scope.
func (e *Environment) ModuleOf(scope symbols.ScopeID) symbols.ScopeID {
	return e.table.ModuleOf(scope)
}

// DeclLabel renders a declaration as "module.Name". Nested constants carry
// their enclosing module only.
func (e *Environment) DeclLabel(item ast.ItemID) string {
	name, _ := e.ast.Items.DeclName(item)
	text, _ := e.table.Strings.Lookup(name)
	scope, ok := e.table.DeclScope(item)
	if !ok {
		return text
	}
	mod := e.table.ModuleOf(scope)
	if mod == symbols.GlobalScopeID {
		return text
	}
	return e.table.ModuleName(mod) + "." + text
}

// FieldLabel renders a field as "module.Owner.field".
func (e *Environment) FieldLabel(id ast.FieldID) string {
	f := e.ast.Items.Field(id)
	if f == nil {
		return "?"
	}
	text, _ := e.table.Strings.Lookup(f.Name)
	if !f.Owner.IsValid() {
		return text
	}
	return e.DeclLabel(f.Owner) + "." + text
}

// Label renders the target of a resolution.
func (e *Environment) Label(r symbols.Resolved) string {
	switch r.Kind {
	case symbols.ResolvedModule:
		return e.table.ModuleName(r.Module)
	case symbols.ResolvedConstant, symbols.ResolvedStruct, symbols.ResolvedTrait:
		return e.DeclLabel(r.Elem.Item)
	case symbols.ResolvedField:
		return e.FieldLabel(r.Elem.Field)
	case symbols.ResolvedSelf:
		return e.DeclLabel(r.Elem.Item) + ".self"
	case symbols.ResolvedInstanceAccess:
		var sb strings.Builder
		sb.WriteString(e.Label(symbols.Resolved{Kind: rootKind(r.Elem.Kind), Elem: r.Elem}))
		for _, m := range r.Members {
			text, _ := e.table.Strings.Lookup(m)
			sb.WriteByte('.')
			sb.WriteString(text)
		}
		return sb.String()
	}
	return "<invalid>"
}

func rootKind(k symbols.ElementKind) symbols.ResolvedKind {
	switch k {
	case symbols.ElemConstant:
		return symbols.ResolvedConstant
	case symbols.ElemField:
		return symbols.ResolvedField
	case symbols.ElemSelf:
		return symbols.ResolvedSelf
	}
	return symbols.ResolvedInvalid
}
