package symbols

import (
	"fmt"

	"docl/internal/ast"
	"docl/internal/source"
)

// ElementKind tags a DeclaredElement.
type ElementKind uint8

const (
	ElemInvalid ElementKind = iota
	ElemStruct
	ElemTrait
	ElemConstant
	ElemField
	ElemSelf // synthetic `self` of a struct body; Item is the struct
)

func (k ElementKind) String() string {
	switch k {
	case ElemStruct:
		return "struct"
	case ElemTrait:
		return "trait"
	case ElemConstant:
		return "constant"
	case ElemField:
		return "field"
	case ElemSelf:
		return "self"
	default:
		return "invalid"
	}
}

// DeclaredElement is a binding stored in a scope. Two elements denote the
// same declaration iff Kind, Item and Field match; Span is informational.
type DeclaredElement struct {
	Kind  ElementKind
	Item  ast.ItemID
	Field ast.FieldID
	Span  source.Span
}

// Same reports declaration identity.
func (e DeclaredElement) Same(other DeclaredElement) bool {
	return e.Kind == other.Kind && e.Item == other.Item && e.Field == other.Field
}

// IsValue reports whether the element denotes a value rather than a type.
func (e DeclaredElement) IsValue() bool {
	return e.Kind == ElemConstant || e.Kind == ElemField || e.Kind == ElemSelf
}

// ResolvedKind tags a Resolved.
type ResolvedKind uint8

const (
	ResolvedInvalid ResolvedKind = iota
	ResolvedModule
	ResolvedConstant
	ResolvedStruct
	ResolvedTrait
	ResolvedField
	ResolvedSelf
	ResolvedInstanceAccess
)

func (k ResolvedKind) String() string {
	switch k {
	case ResolvedModule:
		return "module"
	case ResolvedConstant:
		return "constant"
	case ResolvedStruct:
		return "struct"
	case ResolvedTrait:
		return "trait"
	case ResolvedField:
		return "field"
	case ResolvedSelf:
		return "self"
	case ResolvedInstanceAccess:
		return "instance access"
	default:
		return "invalid"
	}
}

// Resolved is what a name use stands for.
//
// For ResolvedInstanceAccess, Elem is the value the access starts from
// (a constant, field or self) and Members lists the member names still to
// be looked up once the value's type is known.
type Resolved struct {
	Kind    ResolvedKind
	Module  ScopeID
	Elem    DeclaredElement
	Members []source.StringID
}

func resolvedFromElement(e DeclaredElement) Resolved {
	r := Resolved{Elem: e}
	switch e.Kind {
	case ElemStruct:
		r.Kind = ResolvedStruct
	case ElemTrait:
		r.Kind = ResolvedTrait
	case ElemConstant:
		r.Kind = ResolvedConstant
	case ElemField:
		r.Kind = ResolvedField
	case ElemSelf:
		r.Kind = ResolvedSelf
	default:
		panic(fmt.Sprintf("symbols: cannot resolve to element kind %s", e.Kind))
	}
	return r
}

func resolvedModule(scope ScopeID) Resolved {
	return Resolved{Kind: ResolvedModule, Module: scope}
}

// Same reports whether two resolutions denote the same target.
func (r Resolved) Same(other Resolved) bool {
	if r.Kind != other.Kind {
		return false
	}
	switch r.Kind {
	case ResolvedModule:
		return r.Module == other.Module
	case ResolvedInstanceAccess:
		if !r.Elem.Same(other.Elem) || len(r.Members) != len(other.Members) {
			return false
		}
		for i := range r.Members {
			if r.Members[i] != other.Members[i] {
				return false
			}
		}
		return true
	default:
		return r.Elem.Same(other.Elem)
	}
}

// IsValue reports whether the resolution can appear in expression position.
func (r Resolved) IsValue() bool {
	switch r.Kind {
	case ResolvedConstant, ResolvedField, ResolvedSelf, ResolvedInstanceAccess:
		return true
	}
	return false
}

// IsType reports whether the resolution can appear in type position.
func (r Resolved) IsType() bool {
	return r.Kind == ResolvedStruct || r.Kind == ResolvedTrait
}
