package ast

import (
	"docl/internal/source"
)

// Exprs manages allocation of expressions and their per-kind payloads.
type Exprs struct {
	Arena       *Arena[Expr]
	Literals    *Arena[ExprLitData]
	Names       *Arena[ExprNameData]
	StructInits *Arena[ExprStructInitData]
	Chains      *Arena[ExprChainData]
	Fields      *Arena[ExprFieldData]
	Blocks      *Arena[ExprBlockData]
	Binaries    *Arena[ExprBinaryData]
	Unaries     *Arena[ExprUnaryData]
}

// NewExprs creates the expression arenas; capHint 0 picks 1<<8.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Literals:    NewArena[ExprLitData](capHint),
		Names:       NewArena[ExprNameData](capHint),
		StructInits: NewArena[ExprStructInitData](capHint),
		Chains:      NewArena[ExprChainData](capHint),
		Fields:      NewArena[ExprFieldData](capHint),
		Blocks:      NewArena[ExprBlockData](capHint),
		Binaries:    NewArena[ExprBinaryData](capHint),
		Unaries:     NewArena[ExprUnaryData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression header for id.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLitData{Kind: kind, Value: value}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewName(span source.Span, name NameID) ExprID {
	return e.new(ExprName, span, e.Names.Allocate(ExprNameData{Name: name}))
}

func (e *Exprs) Name(id ExprID) (*ExprNameData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprName {
		return nil, false
	}
	return e.Names.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewStructInit(span source.Span, data ExprStructInitData) ExprID {
	if len(data.Content) > 0 {
		data.HasContent = true
	}
	return e.new(ExprStructInit, span, e.StructInits.Allocate(data))
}

func (e *Exprs) StructInit(id ExprID) (*ExprStructInitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStructInit {
		return nil, false
	}
	return e.StructInits.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewChain(span source.Span, data ExprChainData) ExprID {
	return e.new(ExprChain, span, e.Chains.Allocate(data))
}

func (e *Exprs) Chain(id ExprID) (*ExprChainData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprChain {
		return nil, false
	}
	return e.Chains.Get(uint32(expr.Payload)), true
}

// ReplaceWithChain turns the expression at id into a chaining invocation in
// place; the ExprID stays valid for everyone holding it.
func (e *Exprs) ReplaceWithChain(id ExprID, data ExprChainData) {
	expr := e.Get(id)
	if expr == nil {
		panic("ast: ReplaceWithChain on invalid expression")
	}
	expr.Kind = ExprChain
	expr.Payload = PayloadID(e.Chains.Allocate(data))
}

func (e *Exprs) NewFieldAccess(span source.Span, receiver ExprID, fields []source.StringID) ExprID {
	return e.new(ExprField, span, e.Fields.Allocate(ExprFieldData{
		Receiver: receiver,
		Fields:   append([]source.StringID(nil), fields...),
	}))
}

func (e *Exprs) FieldAccess(id ExprID) (*ExprFieldData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprField {
		return nil, false
	}
	return e.Fields.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBlock(span source.Span, consts []ItemID, result ExprID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(ExprBlockData{
		Consts: append([]ItemID(nil), consts...),
		Result: result,
	}))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBlock {
		return nil, false
	}
	return e.Blocks.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}
