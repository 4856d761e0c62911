package symbols

import (
	"fmt"

	"docl/internal/ast"
)

// Scopes is the arena of the scope graph. Ids are 1-based like the AST
// arenas, so the first scope allocated, the global scope, gets id 1.
type Scopes struct {
	arena *ast.Arena[Scope]
}

func NewScopes(capHint uint) *Scopes {
	return &Scopes{arena: ast.NewArena[Scope](max(capHint, 32))}
}

// New allocates a scope under parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID) ScopeID {
	id := ScopeID(s.arena.Allocate(Scope{
		Kind:      kind,
		Parent:    parent,
		Namespace: newNamespace(),
	}))
	s.arena.Get(uint32(id)).ID = id
	return id
}

// Get returns the scope for id. Scope ids never come from user input, so an
// unknown id is a bug and panics.
func (s *Scopes) Get(id ScopeID) *Scope {
	sc := s.arena.Get(uint32(id))
	if sc == nil {
		panic(fmt.Sprintf("symbols: invalid scope id %d", id))
	}
	return sc
}

func (s *Scopes) Len() int { return int(s.arena.Len()) }

// All returns every scope; All()[i] has id i+1. READONLY.
func (s *Scopes) All() []Scope { return s.arena.Slice() }
