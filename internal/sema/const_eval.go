package sema

import (
	"fmt"
	"strings"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
	"docl/internal/types"
)

type constEvalState uint8

const (
	constStateUnvisited constEvalState = iota
	constStateVisiting
	constStateDone
)

type evalKey struct {
	item  ast.ItemID
	field ast.FieldID
}

// evalFrame is one constant or field default currently being typed.
type evalFrame struct {
	key   evalKey
	label string
	span  source.Span
}

func (tc *typeChecker) pushFrame(key evalKey, label string, span source.Span) {
	tc.evalStack = append(tc.evalStack, evalFrame{key: key, label: label, span: span})
}

func (tc *typeChecker) popFrame() {
	tc.evalStack = tc.evalStack[:len(tc.evalStack)-1]
}

// ensureConstTyped returns the type of a constant (top-level, block-local or
// struct attribute), typing its value on first use. Re-entering a constant
// that is still being typed is a value cycle.
func (tc *typeChecker) ensureConstTyped(id ast.ItemID) (types.TypeID, error) {
	switch tc.constState[id] {
	case constStateDone:
		return tc.result.ConstTypes[id], nil
	case constStateVisiting:
		return types.NoTypeID, tc.reportValueCycle(evalKey{item: id}, tc.declLabel(id))
	}
	c, ok := tc.builder.Items.Const(id)
	if !ok {
		panic(fmt.Sprintf("sema: item %d is not a constant", id))
	}
	span := source.Prefer(c.NameSpan, tc.builder.Items.Get(id).Span)
	tc.constState[id] = constStateVisiting
	tc.pushFrame(evalKey{item: id}, tc.str(c.Name), span)

	declared := types.NoTypeID
	if c.Type.IsValid() {
		t, err := tc.resolveTypeExpr(c.Type)
		if err != nil {
			return types.NoTypeID, err
		}
		declared = t
	}
	valueType, err := tc.typeExpr(c.Value)
	if err != nil {
		return types.NoTypeID, err
	}
	result := valueType
	if declared.IsValid() {
		ok, err := tc.assignable(valueType, declared)
		if err != nil {
			return types.NoTypeID, err
		}
		if !ok {
			return types.NoTypeID, tc.errorf(diag.SemaTypeMismatch, tc.exprSpan(c.Value),
				"constant `%s` is declared as `%s` but its value has type `%s`",
				tc.str(c.Name), tc.typeLabel(declared), tc.typeLabel(valueType)).
				WithNote(span, "declared here").
				Err()
		}
		result = declared
	}

	tc.popFrame()
	tc.result.ConstTypes[id] = result
	tc.constState[id] = constStateDone
	return result, nil
}

// ensureFieldChecked returns a field's declared type after checking its
// default value, if any, against it.
func (tc *typeChecker) ensureFieldChecked(fid ast.FieldID) (types.TypeID, error) {
	declared, ok := tc.result.FieldTypes[fid]
	if !ok {
		panic(fmt.Sprintf("sema: field %d has no declared type", fid))
	}
	switch tc.fieldState[fid] {
	case constStateDone:
		return declared, nil
	case constStateVisiting:
		return types.NoTypeID, tc.reportValueCycle(evalKey{field: fid}, tc.fieldLabel(fid))
	}
	f := tc.builder.Items.Field(fid)
	if !f.HasDefault() {
		tc.fieldState[fid] = constStateDone
		return declared, nil
	}
	tc.fieldState[fid] = constStateVisiting
	tc.pushFrame(evalKey{field: fid}, tc.fieldLabel(fid), f.Span)

	valueType, err := tc.typeExpr(f.Default)
	if err != nil {
		return types.NoTypeID, err
	}
	ok, err = tc.assignable(valueType, declared)
	if err != nil {
		return types.NoTypeID, err
	}
	if !ok {
		return types.NoTypeID, tc.errorf(diag.SemaTypeMismatch, tc.exprSpan(f.Default),
			"default value of field `%s` has type `%s`, expected `%s`",
			tc.fieldLabel(fid), tc.typeLabel(valueType), tc.typeLabel(declared)).Err()
	}

	tc.popFrame()
	tc.fieldState[fid] = constStateDone
	return declared, nil
}

// reportValueCycle reports label re-entered while still on the evaluation
// stack; the note lists the path from its first entry.
func (tc *typeChecker) reportValueCycle(key evalKey, label string) error {
	start := len(tc.evalStack) - 1
	for start > 0 && tc.evalStack[start].key != key {
		start--
	}
	path := make([]string, 0, len(tc.evalStack)-start+1)
	for _, fr := range tc.evalStack[start:] {
		path = append(path, fr.label)
	}
	path = append(path, label)
	var span source.Span
	if len(tc.evalStack) > 0 {
		span = tc.evalStack[start].span
	}
	return tc.errorf(diag.SemaConstCycle, span, "`%s` depends on its own value", label).
		WithNote(span, "cycle: "+strings.Join(path, " -> ")).
		Err()
}
