package env

import (
	"slices"
	"strings"

	"docl/internal/ast"
	"docl/internal/sema"
	"docl/internal/source"
	"docl/internal/symbols"
	"docl/internal/types"
)

// Environment is the sealed result of a successful build. Nothing mutates it
// afterwards, so any number of goroutines may read it concurrently. Lookups
// that take text never intern new strings.
type Environment struct {
	ast      *ast.Builder
	table    *symbols.Table
	units    []symbols.Unit
	resolved map[ast.NameID]symbols.Resolved
	sema     *sema.Result
	entry    string
}

// AST returns the syntax forest the environment was built over. READONLY.
func (e *Environment) AST() *ast.Builder { return e.ast }

// Strings returns the identifier interner. READONLY.
func (e *Environment) Strings() *source.Interner { return e.table.Strings }

// Units returns the compilation units in the order they were added.
func (e *Environment) Units() []symbols.Unit { return slices.Clone(e.units) }

// Modules returns every module scope in registration order, including the
// implicit prefixes of nested module paths.
func (e *Environment) Modules() []symbols.ScopeID { return slices.Clone(e.table.Modules()) }

// ModuleName renders the dotted path of a module scope.
func (e *Environment) ModuleName(id symbols.ScopeID) string { return e.table.ModuleName(id) }

// FindModule looks a dotted module path up from the global scope.
func (e *Environment) FindModule(dotted string) (symbols.ScopeID, bool) {
	if dotted == "" {
		return symbols.GlobalScopeID, true
	}
	var path []source.StringID
	for seg := range strings.SplitSeq(dotted, ".") {
		id, ok := e.table.Strings.Find(seg)
		if !ok {
			return symbols.NoScopeID, false
		}
		path = append(path, id)
	}
	return e.table.FindModule(path)
}

// Scope returns the scope for id and panics on invalid ids. READONLY.
func (e *Environment) Scope(id symbols.ScopeID) *symbols.Scope { return e.table.Scope(id) }

// ScopeCount returns the number of scopes in the graph, global scope included.
func (e *Environment) ScopeCount() int { return e.table.Scopes.Len() }

// Lookup reports the binding declared or imported directly in scope under name.
func (e *Environment) Lookup(scope symbols.ScopeID, name string) (symbols.DeclaredElement, bool) {
	id, ok := e.table.Strings.Find(name)
	if !ok {
		return symbols.DeclaredElement{}, false
	}
	return e.table.Lookup(scope, id)
}

// Resolved returns what the name use id stands for.
func (e *Environment) Resolved(id ast.NameID) (symbols.Resolved, bool) {
	r, ok := e.resolved[id]
	return r, ok
}

// ResolvedNames returns every resolved name use in ascending id order.
func (e *Environment) ResolvedNames() []ast.NameID {
	ids := make([]ast.NameID, 0, len(e.resolved))
	for id := range e.resolved {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Types returns the type interner. READONLY.
func (e *Environment) Types() *types.Interner { return e.sema.TypeInterner }

// FormatType renders a type for messages.
func (e *Environment) FormatType(t types.TypeID) string {
	return e.sema.TypeInterner.Format(t, e.table.Strings)
}

// ConstType returns the type of a constant or attribute.
func (e *Environment) ConstType(item ast.ItemID) (types.TypeID, bool) {
	t, ok := e.sema.ConstTypes[item]
	return t, ok
}

// FieldType returns the declared type of a struct or trait field.
func (e *Environment) FieldType(field ast.FieldID) (types.TypeID, bool) {
	t, ok := e.sema.FieldTypes[field]
	return t, ok
}

// ExprType returns the type of an expression.
func (e *Environment) ExprType(expr ast.ExprID) (types.TypeID, bool) {
	t, ok := e.sema.ExprTypes[expr]
	return t, ok
}

// Access returns the typed member chain of a name that resolved to an
// instance access.
func (e *Environment) Access(id ast.NameID) ([]sema.TypedElement, bool) {
	chain, ok := e.sema.Access[id]
	return chain, ok
}

// Init returns how the arguments of a struct-init expression bind to fields.
func (e *Environment) Init(expr ast.ExprID) (sema.InitBinding, bool) {
	b, ok := e.sema.Inits[expr]
	return b, ok
}

// DeclScope returns the scope a declaration lives in.
func (e *Environment) DeclScope(item ast.ItemID) (symbols.ScopeID, bool) {
	return e.table.DeclScope(item)
}

// EntryName returns the configured entry-point name.
func (e *Environment) EntryName() string { return e.entry }

// Entry returns the validated entry-point constant and its type. Both are
// zero for library builds.
func (e *Environment) Entry() (ast.ItemID, types.TypeID) {
	return e.sema.Entry, e.sema.EntryType
}
