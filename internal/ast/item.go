package ast

import (
	"docl/internal/source"
)

type ItemKind uint8

const (
	ItemImport ItemKind = iota + 1
	ItemConst
	ItemStruct
	ItemTrait
)

func (k ItemKind) String() string {
	switch k {
	case ItemImport:
		return "import"
	case ItemConst:
		return "const"
	case ItemStruct:
		return "struct"
	case ItemTrait:
		return "trait"
	default:
		return "invalid"
	}
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// ImportItem is a `use` statement. Exactly one shape is populated:
//
//	use a.b.c        Path = [a b c]
//	use a.b.*        Path = [a b], Wildcard
//	use a.b.{c, d.e} Path = [a b], Group = [[c] [d e]]
type ImportItem struct {
	Path     []source.StringID
	Wildcard bool
	Group    [][]source.StringID
}

// ConstItem is a named constant; Type is optional.
type ConstItem struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeExprID
	Value    ExprID
}

// StructItem declares a struct with ordered fields and optional body
// attributes (constants declared inside the struct body).
type StructItem struct {
	Name     source.StringID
	NameSpan source.Span
	Fields   []FieldID
	Attrs    []ItemID
	Body     ScopeSlot
}

// TraitItem declares the fields a conforming type must expose.
type TraitItem struct {
	Name     source.StringID
	NameSpan source.Span
	Fields   []FieldID
}

// Field is a struct field or a trait requirement.
type Field struct {
	Name    source.StringID
	Span    source.Span
	Type    TypeExprID
	Default ExprID
	Owner   ItemID
}

// HasDefault reports whether the field carries a default value.
func (f *Field) HasDefault() bool { return f.Default.IsValid() }

type Items struct {
	Arena   *Arena[Item]
	Imports *Arena[ImportItem]
	Consts  *Arena[ConstItem]
	Structs *Arena[StructItem]
	Traits  *Arena[TraitItem]
	Fields  *Arena[Field]
}

// NewItems creates per-kind payload arenas; capHint 0 picks 1<<7.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Imports: NewArena[ImportItem](capHint),
		Consts:  NewArena[ConstItem](capHint),
		Structs: NewArena[StructItem](capHint),
		Traits:  NewArena[TraitItem](capHint),
		Fields:  NewArena[Field](capHint),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the item header for id.
func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewImport(span source.Span, imp ImportItem) ItemID {
	return i.new(ItemImport, span, i.Imports.Allocate(imp))
}

func (i *Items) NewConst(span source.Span, c ConstItem) ItemID {
	return i.new(ItemConst, span, i.Consts.Allocate(c))
}

// NewStruct allocates a struct and stamps the owner on its fields.
func (i *Items) NewStruct(span source.Span, s StructItem) ItemID {
	id := i.new(ItemStruct, span, i.Structs.Allocate(s))
	i.adoptFields(id, s.Fields)
	return id
}

// NewTrait allocates a trait and stamps the owner on its fields.
func (i *Items) NewTrait(span source.Span, t TraitItem) ItemID {
	id := i.new(ItemTrait, span, i.Traits.Allocate(t))
	i.adoptFields(id, t.Fields)
	return id
}

func (i *Items) adoptFields(owner ItemID, fields []FieldID) {
	for _, fid := range fields {
		if f := i.Field(fid); f != nil {
			f.Owner = owner
		}
	}
}

func (i *Items) NewField(f Field) FieldID {
	return FieldID(i.Fields.Allocate(f))
}

func (i *Items) Field(id FieldID) *Field {
	return i.Fields.Get(uint32(id))
}

func (i *Items) Import(id ItemID) (*ImportItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemImport {
		return nil, false
	}
	return i.Imports.Get(uint32(item.Payload)), true
}

func (i *Items) Const(id ItemID) (*ConstItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemConst {
		return nil, false
	}
	return i.Consts.Get(uint32(item.Payload)), true
}

func (i *Items) Struct(id ItemID) (*StructItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemStruct {
		return nil, false
	}
	return i.Structs.Get(uint32(item.Payload)), true
}

func (i *Items) Trait(id ItemID) (*TraitItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemTrait {
		return nil, false
	}
	return i.Traits.Get(uint32(item.Payload)), true
}

// DeclName returns the declared name of a const, struct or trait item.
func (i *Items) DeclName(id ItemID) (source.StringID, source.Span) {
	item := i.Get(id)
	if item == nil {
		return source.NoStringID, source.Span{}
	}
	switch item.Kind {
	case ItemConst:
		c, _ := i.Const(id)
		return c.Name, source.Prefer(c.NameSpan, item.Span)
	case ItemStruct:
		s, _ := i.Struct(id)
		return s.Name, source.Prefer(s.NameSpan, item.Span)
	case ItemTrait:
		t, _ := i.Trait(id)
		return t.Name, source.Prefer(t.NameSpan, item.Span)
	}
	return source.NoStringID, item.Span
}
