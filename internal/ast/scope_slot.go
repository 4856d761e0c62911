package ast

import "fmt"

// ScopeSlot records the scope a node was placed in. It is filled once by the
// scope generation pass and only read afterwards. Re-assigning the same value
// is accepted so that a tree can be analysed by several environments, which
// all allocate scopes in the same deterministic order.
type ScopeSlot struct {
	id uint32
}

// Assign stores id. It panics on 0 or when a different id is already stored.
func (s *ScopeSlot) Assign(id uint32) {
	if id == 0 {
		panic("ast: assigning the empty scope to a scope slot")
	}
	if s.id != 0 && s.id != id {
		panic(fmt.Sprintf("ast: scope slot already holds scope %d, refusing %d", s.id, id))
	}
	s.id = id
}

// Get returns the stored scope id and whether it was assigned.
func (s ScopeSlot) Get() (uint32, bool) {
	return s.id, s.id != 0
}

// MustGet returns the stored scope id and panics if the slot is empty.
func (s ScopeSlot) MustGet() uint32 {
	if s.id == 0 {
		panic("ast: reading an unassigned scope slot")
	}
	return s.id
}
