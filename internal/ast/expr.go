package ast

import (
	"docl/internal/source"
)

type ExprKind uint8

const (
	ExprLit ExprKind = iota + 1
	ExprName
	ExprStructInit
	ExprChain
	ExprField
	ExprBlock
	ExprBinary
	ExprUnary
)

func (k ExprKind) String() string {
	switch k {
	case ExprLit:
		return "literal"
	case ExprName:
		return "name"
	case ExprStructInit:
		return "struct init"
	case ExprChain:
		return "chaining invocation"
	case ExprField:
		return "field access"
	case ExprBlock:
		return "block"
	case ExprBinary:
		return "binary"
	case ExprUnary:
		return "unary"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	LitInt ExprLitKind = iota + 1
	LitFloat
	LitBool
	LitString
	LitBinary
	LitHex
)

type ExprLitData struct {
	Kind  ExprLitKind
	Value source.StringID
}

// ExprNameData is a use of a constant (or field, or self) by name.
type ExprNameData struct {
	Name NameID
}

// Arg is one struct-init parameter; Label is NoStringID for positional ones.
type Arg struct {
	Label source.StringID
	Span  source.Span
	Value ExprID
}

// ExprStructInitData is `Name(args) { content }`. The grammar produces this
// shape for `value.field(newValue)` too; the desugaring pass rewrites those.
type ExprStructInitData struct {
	Name         NameID
	Args         []Arg
	Content      []ExprID
	HasContent   bool
	ContentScope ScopeSlot
}

// ExprChainData is a chaining field mutation `Receiver.Field(Value)`. It
// evaluates to a copy of the receiver with one field replaced.
type ExprChainData struct {
	Receiver  ExprID
	Field     source.StringID
	FieldSpan source.Span
	Value     ExprID
}

// ExprFieldData is member access on an arbitrary receiver expression.
type ExprFieldData struct {
	Receiver ExprID
	Fields   []source.StringID
}

type ExprBlockData struct {
	Consts []ItemID
	Result ExprID
	Scope  ScopeSlot
}

type ExprBinaryOp uint8

const (
	OpAdd ExprBinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd
	OpOr
)

func (op ExprBinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryOp uint8

const (
	OpNeg ExprUnaryOp = iota + 1
	OpNot
)

func (op ExprUnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	default:
		return "?"
	}
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}
