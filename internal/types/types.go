package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// IsValid reports whether the id refers to an interned type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInt
	KindFloat
	KindBool
	KindString
	KindChildren
	KindStruct
	KindTrait
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindChildren:
		return "children"
	case KindStruct:
		return "struct"
	case KindTrait:
		return "trait"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsNominal reports whether values of this kind are declared by the user.
func (k Kind) IsNominal() bool { return k == KindStruct || k == KindTrait }

// IsNumeric reports whether arithmetic applies.
func (k Kind) IsNumeric() bool { return k == KindInt || k == KindFloat }

// Type is a compact descriptor. Payload indexes the nominal table for
// structs and traits and is zero otherwise.
type Type struct {
	Kind    Kind
	Payload uint32
}
