package ast

import (
	"docl/internal/source"
)

type TypeExprKind uint8

const (
	TypeBuiltin TypeExprKind = iota + 1
	TypeNamed
)

// Builtin enumerates the primitive type keywords.
type Builtin uint8

const (
	BuiltinInt Builtin = iota + 1
	BuiltinFloat
	BuiltinBool
	BuiltinString
	BuiltinChildren
)

func (b Builtin) String() string {
	switch b {
	case BuiltinInt:
		return "Int"
	case BuiltinFloat:
		return "Float"
	case BuiltinBool:
		return "Bool"
	case BuiltinString:
		return "String"
	case BuiltinChildren:
		return "Children"
	default:
		return "invalid"
	}
}

// TypeExpr is a field or constant type annotation.
type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Builtin Builtin
	Name    NameID
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

func (t *TypeExprs) NewBuiltin(span source.Span, b Builtin) TypeExprID {
	return TypeExprID(t.Arena.Allocate(TypeExpr{Kind: TypeBuiltin, Span: span, Builtin: b}))
}

func (t *TypeExprs) NewNamed(span source.Span, name NameID) TypeExprID {
	return TypeExprID(t.Arena.Allocate(TypeExpr{Kind: TypeNamed, Span: span, Name: name}))
}

func (t *TypeExprs) Get(id TypeExprID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
