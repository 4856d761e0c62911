package sema

import (
	"fmt"

	"docl/internal/source"
	"docl/internal/types"
)

// DefaultArg marks a slot that keeps its default value.
const DefaultArg = -1

// Slot is one bindable struct field.
type Slot struct {
	Name       source.StringID
	Type       types.TypeID
	HasDefault bool
}

// Param is one typed struct-init argument; Label is NoStringID when the
// argument is positional.
type Param struct {
	Label source.StringID
	Type  types.TypeID
}

// ConformFunc reports whether a value of type src fits a slot of type dst.
type ConformFunc func(src, dst types.TypeID) (bool, error)

type BindErrorKind uint8

const (
	BindTooManyFields BindErrorKind = iota + 1
	BindTypeMismatch
	BindFieldNotSupplied
	BindUnknownField
	BindFieldSuppliedTwice
	BindMixedArguments
)

func (k BindErrorKind) String() string {
	switch k {
	case BindTooManyFields:
		return "too many fields"
	case BindTypeMismatch:
		return "type mismatch"
	case BindFieldNotSupplied:
		return "field not supplied"
	case BindUnknownField:
		return "unknown field"
	case BindFieldSuppliedTwice:
		return "field supplied twice"
	case BindMixedArguments:
		return "mixed arguments"
	default:
		return "invalid"
	}
}

// BindError explains why an argument list does not fit a field list. Slot
// and Param index the inputs and are -1 when they do not apply; Expected and
// Found are set for BindTooManyFields.
type BindError struct {
	Kind     BindErrorKind
	Expected int
	Found    int
	Slot     int
	Param    int
}

func (e *BindError) Error() string {
	if e.Kind == BindTooManyFields {
		return fmt.Sprintf("%s: expected at most %d, found %d", e.Kind, e.Expected, e.Found)
	}
	return fmt.Sprintf("%s (slot %d, param %d)", e.Kind, e.Slot, e.Param)
}

func bindErr(kind BindErrorKind, slot, param int) *BindError {
	return &BindError{Kind: kind, Slot: slot, Param: param}
}

// Bind matches params against slots and returns, for every slot, the index
// of the argument it receives or DefaultArg. Arguments are either all
// labelled or all positional.
//
// Labelled arguments are matched by name. Positional arguments are consumed
// left to right; a slot is skipped in favour of its default only when the
// next argument does not fit it.
//
// A *BindError describes a mismatch; any other error comes from conform.
func Bind(slots []Slot, params []Param, conform ConformFunc) ([]int, error) {
	if len(params) > len(slots) {
		return nil, &BindError{Kind: BindTooManyFields, Expected: len(slots), Found: len(params), Slot: -1, Param: -1}
	}
	labelled := 0
	for _, p := range params {
		if p.Label != source.NoStringID {
			labelled++
		}
	}
	switch labelled {
	case 0:
		return bindPositional(slots, params, conform)
	case len(params):
		return bindLabelled(slots, params, conform)
	}
	return nil, bindErr(BindMixedArguments, -1, -1)
}

func bindLabelled(slots []Slot, params []Param, conform ConformFunc) ([]int, error) {
	byName := make(map[source.StringID]int, len(params))
	for i, p := range params {
		if _, dup := byName[p.Label]; dup {
			return nil, bindErr(BindFieldSuppliedTwice, -1, i)
		}
		byName[p.Label] = i
	}
	known := make(map[source.StringID]struct{}, len(slots))
	for _, s := range slots {
		known[s.Name] = struct{}{}
	}
	for i, p := range params {
		if _, ok := known[p.Label]; !ok {
			return nil, bindErr(BindUnknownField, -1, i)
		}
	}

	out := make([]int, len(slots))
	for si, s := range slots {
		pi, ok := byName[s.Name]
		if !ok {
			if !s.HasDefault {
				return nil, bindErr(BindFieldNotSupplied, si, -1)
			}
			out[si] = DefaultArg
			continue
		}
		fits, err := conform(params[pi].Type, s.Type)
		if err != nil {
			return nil, err
		}
		if !fits {
			return nil, bindErr(BindTypeMismatch, si, pi)
		}
		out[si] = pi
	}
	return out, nil
}

func bindPositional(slots []Slot, params []Param, conform ConformFunc) ([]int, error) {
	out := make([]int, len(slots))
	next := 0
	lastSkipped := -1
	for si, s := range slots {
		if next >= len(params) {
			if !s.HasDefault {
				return nil, bindErr(BindFieldNotSupplied, si, -1)
			}
			out[si] = DefaultArg
			continue
		}
		fits, err := conform(params[next].Type, s.Type)
		if err != nil {
			return nil, err
		}
		if !fits && s.HasDefault {
			out[si] = DefaultArg
			lastSkipped = si
			continue
		}
		if !fits {
			return nil, bindErr(BindTypeMismatch, si, next)
		}
		out[si] = next
		next++
	}
	if next < len(params) {
		// Only skipping a slot can leave an argument over: the count check
		// above guarantees room for every argument otherwise.
		if lastSkipped < 0 {
			panic(fmt.Sprintf("sema: %d argument(s) left after binding without a skipped field", len(params)-next))
		}
		return nil, bindErr(BindTypeMismatch, lastSkipped, next)
	}
	return out, nil
}
