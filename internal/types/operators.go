package types

import "docl/internal/ast"

// BinaryResult types `left op right`. Int and Float mix and widen to Float;
// every other pairing needs identical operand types.
func (in *Interner) BinaryResult(op ast.ExprBinaryOp, left, right TypeID) (TypeID, bool) {
	if left != right {
		if !in.KindOf(left).IsNumeric() || !in.KindOf(right).IsNumeric() {
			return NoTypeID, false
		}
		left, right = in.builtins.Float, in.builtins.Float
	}
	kind := in.KindOf(left)
	switch op {
	case ast.OpAdd:
		if kind.IsNumeric() || kind == KindString {
			return left, true
		}
	case ast.OpSub, ast.OpMul, ast.OpDiv:
		if kind.IsNumeric() {
			return left, true
		}
	case ast.OpMod:
		if kind == KindInt {
			return left, true
		}
	case ast.OpEq, ast.OpNotEq:
		switch kind {
		case KindInt, KindFloat, KindBool, KindString:
			return in.builtins.Bool, true
		}
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		if kind.IsNumeric() || kind == KindString {
			return in.builtins.Bool, true
		}
	case ast.OpAnd, ast.OpOr:
		if kind == KindBool {
			return left, true
		}
	}
	return NoTypeID, false
}

// UnaryResult types `op operand`.
func (in *Interner) UnaryResult(op ast.ExprUnaryOp, operand TypeID) (TypeID, bool) {
	kind := in.KindOf(operand)
	switch op {
	case ast.OpNeg:
		if kind.IsNumeric() {
			return operand, true
		}
	case ast.OpNot:
		if kind == KindBool {
			return operand, true
		}
	}
	return NoTypeID, false
}

// LiteralType maps a literal kind to its type. Binary and hex literals are
// integers.
func (in *Interner) LiteralType(kind ast.ExprLitKind) TypeID {
	switch kind {
	case ast.LitInt, ast.LitBinary, ast.LitHex:
		return in.builtins.Int
	case ast.LitFloat:
		return in.builtins.Float
	case ast.LitBool:
		return in.builtins.Bool
	case ast.LitString:
		return in.builtins.String
	}
	return NoTypeID
}
