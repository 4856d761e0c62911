package symbols

import (
	"fmt"
	"strings"

	"docl/internal/ast"
	"docl/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes uint }

// Table is the scope graph of one environment.
type Table struct {
	Scopes  *Scopes
	Strings *source.Interner

	modules   []ScopeID          // module scopes in registration order
	modPath   map[string]ScopeID // path cache, keyed by joined StringIDs
	declScope map[ast.ItemID]ScopeID
}

// NewTable builds a fresh table and allocates its global scope.
// If strs is nil, a fresh interner is allocated.
func NewTable(h Hints, strs *source.Interner) *Table {
	if strs == nil {
		strs = source.NewInterner()
	}
	t := &Table{
		Scopes:    NewScopes(h.Scopes),
		Strings:   strs,
		modPath:   make(map[string]ScopeID),
		declScope: make(map[ast.ItemID]ScopeID),
	}
	if global := t.Scopes.New(ScopeGlobal, NoScopeID); global != GlobalScopeID {
		panic(fmt.Sprintf("symbols: global scope allocated as %d", global))
	}
	return t
}

// Scope returns the scope for id and panics on invalid ids.
func (t *Table) Scope(id ScopeID) *Scope {
	return t.Scopes.Get(id)
}

// AddChildScope appends a lexical scope under parent.
func (t *Table) AddChildScope(parent ScopeID, kind ScopeKind) ScopeID {
	if !kind.IsLexical() {
		panic(fmt.Sprintf("symbols: %s scope is not lexical", kind))
	}
	t.Scopes.Get(parent) // validates parent
	return t.Scopes.New(kind, parent)
}

func pathKey(path []source.StringID) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%d", seg)
	}
	return b.String()
}

// AddModule registers a module path and returns its scope. Missing prefixes
// are created on the way; registering a known path returns the existing
// scope. Every module scope's parent is the global scope.
func (t *Table) AddModule(path []source.StringID) ScopeID {
	if len(path) == 0 {
		panic("symbols: empty module path")
	}
	if id, ok := t.modPath[pathKey(path)]; ok {
		return id
	}
	holder := GlobalScopeID
	var id ScopeID
	for i := range path {
		key := pathKey(path[:i+1])
		if existing, ok := t.modPath[key]; ok {
			holder, id = existing, existing
			continue
		}
		id = t.Scopes.New(ScopeModule, GlobalScopeID)
		t.Scopes.Get(id).Path = append([]source.StringID(nil), path[:i+1]...)
		t.Scopes.Get(holder).Modules[path[i]] = id
		t.modPath[key] = id
		t.modules = append(t.modules, id)
		holder = id
	}
	return id
}

// FindModule walks the module map from the global scope one segment at a
// time. An empty path denotes the global scope.
func (t *Table) FindModule(path []source.StringID) (ScopeID, bool) {
	cur := GlobalScopeID
	for _, seg := range path {
		next, ok := t.Scopes.Get(cur).Modules[seg]
		if !ok {
			return NoScopeID, false
		}
		cur = next
	}
	return cur, true
}

// Modules returns every module scope in registration order. READONLY.
func (t *Table) Modules() []ScopeID {
	return t.modules
}

// ModuleOf returns the module enclosing scope, or the global scope.
func (t *Table) ModuleOf(scope ScopeID) ScopeID {
	for cur := scope; cur.IsValid(); {
		s := t.Scopes.Get(cur)
		if s.Kind == ScopeModule || s.Kind == ScopeGlobal {
			return cur
		}
		cur = s.Parent
	}
	return GlobalScopeID
}

// ModuleName renders the dotted path of a module scope.
func (t *Table) ModuleName(scope ScopeID) string {
	s := t.Scopes.Get(scope)
	if s.Kind == ScopeGlobal {
		return "<global>"
	}
	return ast.JoinPath(s.Path, t.Strings)
}

// DeclScope returns the scope a struct, trait or constant was declared in.
// Imports do not change it.
func (t *Table) DeclScope(item ast.ItemID) (ScopeID, bool) {
	id, ok := t.declScope[item]
	return id, ok
}

// Lookup reports the binding of name declared or imported directly in scope.
func (t *Table) Lookup(scope ScopeID, name source.StringID) (DeclaredElement, bool) {
	e, ok := t.Scopes.Get(scope).Declared[name]
	return e, ok
}
