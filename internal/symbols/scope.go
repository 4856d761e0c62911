package symbols

import (
	"docl/internal/ast"
	"docl/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal
	ScopeModule
	ScopeStruct  // struct body: fields, attributes and `self`
	ScopeBlock   // `{ const ...; result }`
	ScopeContent // trailing content of a struct init
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeModule:
		return "module"
	case ScopeStruct:
		return "struct"
	case ScopeBlock:
		return "block"
	case ScopeContent:
		return "content"
	default:
		return "invalid"
	}
}

// IsLexical reports whether the scope inherits bindings from its syntactic
// parent. Modules do not: their parent is always the global scope.
func (k ScopeKind) IsLexical() bool {
	return k == ScopeStruct || k == ScopeBlock || k == ScopeContent
}

// Namespace holds the bindings of one scope.
type Namespace struct {
	Modules   map[source.StringID]ScopeID
	Declared  map[source.StringID]DeclaredElement
	Wildcards []ScopeID

	// order keeps declared names in insertion order for deterministic walks.
	order    []source.StringID
	imported map[source.StringID]struct{}
}

func newNamespace() Namespace {
	return Namespace{
		Modules:  make(map[source.StringID]ScopeID),
		Declared: make(map[source.StringID]DeclaredElement),
		imported: make(map[source.StringID]struct{}),
	}
}

// IsImported reports whether name was materialised by a `use` rather than
// declared in the scope itself.
func (ns *Namespace) IsImported(name source.StringID) bool {
	_, ok := ns.imported[name]
	return ok
}

// Names returns declared and imported names in insertion order.
func (ns *Namespace) Names() []source.StringID {
	return ns.order
}

// HasWildcard reports whether scope is already wildcard-imported.
func (ns *Namespace) HasWildcard(scope ScopeID) bool {
	for _, w := range ns.Wildcards {
		if w == scope {
			return true
		}
	}
	return false
}

// Scope is one node of the scope graph.
type Scope struct {
	ID     ScopeID
	Kind   ScopeKind
	Parent ScopeID
	// Path is the dotted module path for module scopes.
	Path []source.StringID
	// Owner is the struct whose body this is, for struct scopes.
	Owner ast.ItemID
	Namespace
}
