package sema

import (
	"errors"
	"fmt"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
	"docl/internal/symbols"
	"docl/internal/types"
)

// InitBinding records how a struct-init expression fills its struct.
type InitBinding struct {
	Struct ast.ItemID
	// Args[i] is the argument bound to the i-th field, or DefaultArg. The
	// trailing Children field is never bound from arguments.
	Args []int
	// Children reports whether the struct has a trailing Children field,
	// which receives the content block (or nothing).
	Children bool
}

func (tc *typeChecker) structInitType(id ast.ExprID, data *ast.ExprStructInitData, span source.Span) (types.TypeID, error) {
	res, ok := tc.resolved[data.Name]
	if !ok {
		panic(fmt.Sprintf("sema: struct name %d was never resolved", data.Name))
	}
	if res.Kind != symbols.ResolvedStruct {
		return types.NoTypeID, tc.errorf(diag.SemaNotAStruct, span,
			"`%s` is a %s, not a struct", tc.builder.Names.Text(data.Name, tc.table.Strings), res.Kind).Err()
	}
	st := tc.mustTypeOf(res.Elem.Item)
	info, _ := tc.types.Nominal(st)
	structName := tc.str(info.Name)

	for _, m := range info.Fields {
		if _, err := tc.ensureFieldChecked(m.Field); err != nil {
			return types.NoTypeID, err
		}
	}
	fields := info.Fields
	children := len(fields) > 0 && fields[len(fields)-1].Type == tc.types.Builtins().Children
	if children {
		fields = fields[:len(fields)-1]
	}

	if data.HasContent {
		if !children {
			return types.NoTypeID, tc.errorf(diag.SemaChildrenNotAllowed, span,
				"struct `%s` does not take content: its last field is not of type `Children`", structName).Err()
		}
		for i, c := range data.Content {
			ct, err := tc.typeExpr(c)
			if err != nil {
				return types.NoTypeID, err
			}
			what := fmt.Sprintf("content item %d of `%s`", i+1, structName)
			if err := tc.requireRenderable(ct, tc.exprSpan(c), what); err != nil {
				return types.NoTypeID, err
			}
		}
	}

	params := make([]Param, len(data.Args))
	for i, arg := range data.Args {
		t, err := tc.typeExpr(arg.Value)
		if err != nil {
			return types.NoTypeID, err
		}
		params[i] = Param{Label: arg.Label, Type: t}
	}
	slots := make([]Slot, len(fields))
	for i, m := range fields {
		slots[i] = Slot{Name: m.Name, Type: m.Type, HasDefault: m.HasDefault}
	}
	bound, err := Bind(slots, params, tc.assignable)
	if err != nil {
		var be *BindError
		if errors.As(err, &be) {
			return types.NoTypeID, tc.reportBind(be, structName, data, fields, params, span)
		}
		return types.NoTypeID, err
	}

	tc.result.Inits[id] = InitBinding{Struct: res.Elem.Item, Args: bound, Children: children}
	return st, nil
}

func (tc *typeChecker) argSpan(data *ast.ExprStructInitData, i int, fallback source.Span) source.Span {
	if i < 0 || i >= len(data.Args) {
		return fallback
	}
	arg := data.Args[i]
	return source.Prefer(arg.Span, source.Prefer(tc.exprSpan(arg.Value), fallback))
}

func (tc *typeChecker) reportBind(be *BindError, structName string, data *ast.ExprStructInitData, fields []types.Member, params []Param, span source.Span) error {
	switch be.Kind {
	case BindTooManyFields:
		return tc.errorf(diag.SemaTooManyFields, span,
			"struct `%s` takes at most %d argument(s), found %d", structName, be.Expected, be.Found).Err()
	case BindTypeMismatch:
		f := fields[be.Slot]
		return tc.errorf(diag.SemaTypeMismatch, tc.argSpan(data, be.Param, span),
			"argument for field `%s.%s` has type `%s`, expected `%s`",
			structName, tc.str(f.Name), tc.typeLabel(params[be.Param].Type), tc.typeLabel(f.Type)).Err()
	case BindFieldNotSupplied:
		f := fields[be.Slot]
		return tc.errorf(diag.SemaFieldNotSupplied, span,
			"field `%s.%s` is not supplied and has no default", structName, tc.str(f.Name)).Err()
	case BindUnknownField:
		return tc.errorf(diag.SemaUnknownField, tc.argSpan(data, be.Param, span),
			"struct `%s` has no field `%s` to bind", structName, tc.str(params[be.Param].Label)).Err()
	case BindFieldSuppliedTwice:
		label := params[be.Param].Label
		b := tc.errorf(diag.SemaFieldSuppliedTwice, tc.argSpan(data, be.Param, span),
			"field `%s.%s` is supplied twice", structName, tc.str(label))
		for i, p := range params[:be.Param] {
			if p.Label == label {
				b.WithNote(tc.argSpan(data, i, span), "first supplied here")
				break
			}
		}
		return b.Err()
	case BindMixedArguments:
		return tc.errorf(diag.SemaError, span,
			"struct `%s` mixes labelled and positional arguments", structName).Err()
	}
	panic(fmt.Sprintf("sema: unexpected bind error %s", be.Kind))
}
