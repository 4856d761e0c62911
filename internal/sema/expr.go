package sema

import (
	"fmt"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
	"docl/internal/symbols"
	"docl/internal/types"
)

// TypedElementKind tags a TypedElement.
type TypedElementKind uint8

const (
	TypedField TypedElementKind = iota + 1
	TypedConstant
)

// TypedElement is one step of member access on a typed value: a field, or
// a constant declared in a struct body.
type TypedElement struct {
	Kind  TypedElementKind
	Field ast.FieldID
	Item  ast.ItemID
	Type  types.TypeID
}

// typeExpr returns the memoised type of an expression; an absent expression
// is Void.
func (tc *typeChecker) typeExpr(id ast.ExprID) (types.TypeID, error) {
	if !id.IsValid() {
		return tc.types.Builtins().Void, nil
	}
	if t, ok := tc.result.ExprTypes[id]; ok {
		return t, nil
	}
	t, err := tc.computeExprType(id)
	if err != nil {
		return types.NoTypeID, err
	}
	tc.result.ExprTypes[id] = t
	return t, nil
}

func (tc *typeChecker) computeExprType(id ast.ExprID) (types.TypeID, error) {
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		panic(fmt.Sprintf("sema: invalid expression %d", id))
	}
	switch expr.Kind {
	case ast.ExprLit:
		data, _ := tc.builder.Exprs.Literal(id)
		return tc.types.LiteralType(data.Kind), nil
	case ast.ExprName:
		data, _ := tc.builder.Exprs.Name(id)
		return tc.nameType(data.Name, expr.Span)
	case ast.ExprStructInit:
		data, _ := tc.builder.Exprs.StructInit(id)
		return tc.structInitType(id, data, expr.Span)
	case ast.ExprChain:
		data, _ := tc.builder.Exprs.Chain(id)
		return tc.chainType(id, data, expr.Span)
	case ast.ExprField:
		data, _ := tc.builder.Exprs.FieldAccess(id)
		recv, err := tc.typeExpr(data.Receiver)
		if err != nil {
			return types.NoTypeID, err
		}
		chain, t, err := tc.accessMembers(recv, data.Fields, expr.Span)
		if err != nil {
			return types.NoTypeID, err
		}
		tc.result.Members[id] = chain
		return t, nil
	case ast.ExprBlock:
		data, _ := tc.builder.Exprs.Block(id)
		for _, c := range data.Consts {
			if _, err := tc.ensureConstTyped(c); err != nil {
				return types.NoTypeID, err
			}
		}
		return tc.typeExpr(data.Result)
	case ast.ExprBinary:
		data, _ := tc.builder.Exprs.Binary(id)
		return tc.binaryType(data, expr.Span)
	case ast.ExprUnary:
		data, _ := tc.builder.Exprs.Unary(id)
		operand, err := tc.typeExpr(data.Operand)
		if err != nil {
			return types.NoTypeID, err
		}
		t, ok := tc.types.UnaryResult(data.Op, operand)
		if !ok {
			return types.NoTypeID, tc.errorf(diag.SemaInvalidUnaryOperand, expr.Span,
				"operator `%s` cannot be applied to `%s`", data.Op, tc.typeLabel(operand)).Err()
		}
		return t, nil
	}
	panic(fmt.Sprintf("sema: unexpected expression kind %s", expr.Kind))
}

func (tc *typeChecker) binaryType(data *ast.ExprBinaryData, span source.Span) (types.TypeID, error) {
	left, err := tc.typeExpr(data.Left)
	if err != nil {
		return types.NoTypeID, err
	}
	right, err := tc.typeExpr(data.Right)
	if err != nil {
		return types.NoTypeID, err
	}
	t, ok := tc.types.BinaryResult(data.Op, left, right)
	if !ok {
		return types.NoTypeID, tc.errorf(diag.SemaInvalidBinaryOperands, span,
			"operator `%s` cannot be applied to `%s` and `%s`", data.Op, tc.typeLabel(left), tc.typeLabel(right)).Err()
	}
	return t, nil
}

// nameType types a name in expression position.
func (tc *typeChecker) nameType(name ast.NameID, span source.Span) (types.TypeID, error) {
	res, ok := tc.resolved[name]
	if !ok {
		panic(fmt.Sprintf("sema: name %d was never resolved", name))
	}
	switch res.Kind {
	case symbols.ResolvedConstant, symbols.ResolvedField, symbols.ResolvedSelf:
		return tc.elementType(res.Elem)
	case symbols.ResolvedInstanceAccess:
		root, err := tc.elementType(res.Elem)
		if err != nil {
			return types.NoTypeID, err
		}
		chain, t, err := tc.accessMembers(root, res.Members, span)
		if err != nil {
			return types.NoTypeID, err
		}
		tc.result.Access[name] = chain
		return t, nil
	}
	return types.NoTypeID, tc.errorf(diag.SemaNotAValue, span,
		"`%s` is a %s, not a value", tc.builder.Names.Text(name, tc.table.Strings), res.Kind).Err()
}

func (tc *typeChecker) elementType(e symbols.DeclaredElement) (types.TypeID, error) {
	switch e.Kind {
	case symbols.ElemConstant:
		return tc.ensureConstTyped(e.Item)
	case symbols.ElemField:
		return tc.ensureFieldChecked(e.Field)
	case symbols.ElemSelf:
		return tc.mustTypeOf(e.Item), nil
	}
	panic(fmt.Sprintf("sema: %s is not a value element", e.Kind))
}

// accessMembers looks each name up on the type produced by the previous
// step, fields before attributes.
func (tc *typeChecker) accessMembers(recv types.TypeID, names []source.StringID, span source.Span) ([]TypedElement, types.TypeID, error) {
	chain := make([]TypedElement, 0, len(names))
	cur := recv
	for _, name := range names {
		m, ok := tc.types.Member(cur, name)
		if !ok {
			return nil, types.NoTypeID, tc.errorf(diag.SemaNoMember, span,
				"type `%s` has no member `%s`", tc.typeLabel(cur), tc.str(name)).Err()
		}
		mt, err := tc.memberType(m)
		if err != nil {
			return nil, types.NoTypeID, err
		}
		step := TypedElement{Type: mt}
		if m.IsAttribute() {
			step.Kind, step.Item = TypedConstant, m.Attr
		} else {
			step.Kind, step.Field = TypedField, m.Field
		}
		chain = append(chain, step)
		cur = mt
	}
	return chain, cur, nil
}

// chainType types `receiver.field(value)`: the value replaces one field of a
// copy of the receiver, so the expression has the receiver's type.
func (tc *typeChecker) chainType(id ast.ExprID, data *ast.ExprChainData, span source.Span) (types.TypeID, error) {
	recv, err := tc.typeExpr(data.Receiver)
	if err != nil {
		return types.NoTypeID, err
	}
	fieldSpan := source.Prefer(data.FieldSpan, span)
	m, ok := tc.types.Member(recv, data.Field)
	if !ok {
		return types.NoTypeID, tc.errorf(diag.SemaNoMember, fieldSpan,
			"type `%s` has no field `%s`", tc.typeLabel(recv), tc.str(data.Field)).Err()
	}
	if m.IsAttribute() {
		return types.NoTypeID, tc.errorf(diag.SemaAttributeNotSettable, fieldSpan,
			"`%s` is an attribute of `%s` and cannot be replaced", tc.str(data.Field), tc.typeLabel(recv)).Err()
	}
	label := tc.typeLabel(recv) + "." + tc.str(data.Field)
	if data.Value.IsValid() {
		vt, err := tc.typeExpr(data.Value)
		if err != nil {
			return types.NoTypeID, err
		}
		ok, err := tc.assignable(vt, m.Type)
		if err != nil {
			return types.NoTypeID, err
		}
		if !ok {
			return types.NoTypeID, tc.errorf(diag.SemaTypeMismatch, tc.exprSpan(data.Value),
				"value for field `%s` has type `%s`, expected `%s`", label, tc.typeLabel(vt), tc.typeLabel(m.Type)).Err()
		}
	} else if !m.HasDefault {
		return types.NoTypeID, tc.errorf(diag.SemaFieldNotSupplied, fieldSpan,
			"field `%s` has no default, so a value is required", label).Err()
	}
	tc.result.Chains[id] = TypedElement{Kind: TypedField, Field: m.Field, Type: m.Type}
	return recv, nil
}
