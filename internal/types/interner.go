package types

import (
	"fmt"

	"fortio.org/safecast"

	"docl/internal/ast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Invalid  TypeID
	Void     TypeID
	Int      TypeID
	Float    TypeID
	Bool     TypeID
	String   TypeID
	Children TypeID
}

// Interner hands out stable TypeIDs. Primitives are deduplicated by
// descriptor, structs and traits get one id per declaring item.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	nominals []NominalInfo
	byItem   map[ast.ItemID]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:  make(map[Type]TypeID, 16),
		byItem: make(map[ast.ItemID]TypeID, 32),
	}
	in.nominals = append(in.nominals, NominalInfo{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Children = in.Intern(Type{Kind: KindChildren})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// FromBuiltin maps a type keyword to its TypeID.
func (in *Interner) FromBuiltin(b ast.Builtin) TypeID {
	switch b {
	case ast.BuiltinInt:
		return in.builtins.Int
	case ast.BuiltinFloat:
		return in.builtins.Float
	case ast.BuiltinBool:
		return in.builtins.Bool
	case ast.BuiltinString:
		return in.builtins.String
	case ast.BuiltinChildren:
		return in.builtins.Children
	}
	return NoTypeID
}

// Intern ensures the provided primitive descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind of id, KindInvalid for unknown ids.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Len reports the number of interned types including the invalid sentinel.
func (in *Interner) Len() int { return len(in.types) }
