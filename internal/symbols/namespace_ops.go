package symbols

import (
	"docl/internal/ast"
	"docl/internal/source"
)

// Declare binds name in scope. On conflict it returns the existing element
// and false without touching the scope.
func (t *Table) Declare(scope ScopeID, name source.StringID, elem DeclaredElement) (DeclaredElement, bool) {
	s := t.Scopes.Get(scope)
	if prev, ok := s.Declared[name]; ok {
		return prev, false
	}
	s.Declared[name] = elem
	s.order = append(s.order, name)
	switch elem.Kind {
	case ElemConstant, ElemStruct, ElemTrait:
		if _, seen := t.declScope[elem.Item]; !seen {
			t.declScope[elem.Item] = scope
		}
	}
	return elem, true
}

// importElement binds name unless scope already has a binding for it.
func (t *Table) importElement(scope ScopeID, name source.StringID, elem DeclaredElement) bool {
	s := t.Scopes.Get(scope)
	if _, ok := s.Declared[name]; ok {
		return false
	}
	s.Declared[name] = elem
	s.order = append(s.order, name)
	s.imported[name] = struct{}{}
	return true
}

// importModule binds a module name unless one is already present.
func (t *Table) importModule(scope ScopeID, name source.StringID, module ScopeID) bool {
	s := t.Scopes.Get(scope)
	if _, ok := s.Modules[name]; ok {
		return false
	}
	s.Modules[name] = module
	return true
}

// addWildcard records a `use m.*`; it reports false when m is already
// wildcard-imported into scope.
func (t *Table) addWildcard(scope, module ScopeID) bool {
	s := t.Scopes.Get(scope)
	if s.HasWildcard(module) {
		return false
	}
	s.Wildcards = append(s.Wildcards, module)
	return true
}

// TopLevelConstants returns constants declared (not imported) directly in a
// module scope under name, in module registration order.
func (t *Table) TopLevelConstants(name source.StringID) []ast.ItemID {
	var out []ast.ItemID
	for _, mod := range t.modules {
		s := t.Scopes.Get(mod)
		e, ok := s.Declared[name]
		if !ok || e.Kind != ElemConstant || s.IsImported(name) {
			continue
		}
		out = append(out, e.Item)
	}
	return out
}
