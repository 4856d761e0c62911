package types

import (
	"fmt"

	"fortio.org/safecast"

	"docl/internal/ast"
	"docl/internal/source"
)

// Member is a named, typed slot of a nominal type: a struct field, a struct
// attribute, or a trait requirement.
type Member struct {
	Name       source.StringID
	Type       TypeID
	Field      ast.FieldID // zero for attributes
	Attr       ast.ItemID  // zero for fields
	HasDefault bool
}

// IsAttribute reports whether the member is a constant declared in a struct body.
func (m Member) IsAttribute() bool { return m.Attr.IsValid() }

// NominalInfo stores metadata for a struct or trait type.
type NominalInfo struct {
	Name   source.StringID
	Item   ast.ItemID
	Decl   source.Span
	Fields []Member
	Attrs  []Member
}

func (in *Interner) registerNominal(kind Kind, item ast.ItemID, name source.StringID, decl source.Span) TypeID {
	if id, ok := in.byItem[item]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.nominals))
	if err != nil {
		panic(fmt.Errorf("nominal table overflow: %w", err))
	}
	in.nominals = append(in.nominals, NominalInfo{Name: name, Item: item, Decl: decl})
	id := in.internRaw(Type{Kind: kind, Payload: slot})
	in.byItem[item] = id
	return id
}

// RegisterStruct returns the TypeID for a struct declaration, allocating it
// on first use.
func (in *Interner) RegisterStruct(item ast.ItemID, name source.StringID, decl source.Span) TypeID {
	return in.registerNominal(KindStruct, item, name, decl)
}

// RegisterTrait returns the TypeID for a trait declaration, allocating it on
// first use.
func (in *Interner) RegisterTrait(item ast.ItemID, name source.StringID, decl source.Span) TypeID {
	return in.registerNominal(KindTrait, item, name, decl)
}

// ByItem returns the type registered for a declaration.
func (in *Interner) ByItem(item ast.ItemID) (TypeID, bool) {
	id, ok := in.byItem[item]
	return id, ok
}

func (in *Interner) nominal(id TypeID) *NominalInfo {
	tt, ok := in.Lookup(id)
	if !ok || !tt.Kind.IsNominal() {
		return nil
	}
	if int(tt.Payload) >= len(in.nominals) {
		return nil
	}
	return &in.nominals[tt.Payload]
}

// Nominal returns metadata for a struct or trait TypeID.
func (in *Interner) Nominal(id TypeID) (*NominalInfo, bool) {
	info := in.nominal(id)
	return info, info != nil
}

// SetMembers stores resolved fields and attributes.
func (in *Interner) SetMembers(id TypeID, fields, attrs []Member) {
	info := in.nominal(id)
	if info == nil {
		return
	}
	info.Fields = append([]Member(nil), fields...)
	info.Attrs = append([]Member(nil), attrs...)
}

// Field looks a field up by name.
func (in *Interner) Field(id TypeID, name source.StringID) (Member, bool) {
	info := in.nominal(id)
	if info == nil {
		return Member{}, false
	}
	for _, m := range info.Fields {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Member looks a name up among fields first, then attributes.
func (in *Interner) Member(id TypeID, name source.StringID) (Member, bool) {
	if m, ok := in.Field(id, name); ok {
		return m, true
	}
	info := in.nominal(id)
	if info == nil {
		return Member{}, false
	}
	for _, m := range info.Attrs {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Format renders a type for diagnostics.
func (in *Interner) Format(id TypeID, strs *source.Interner) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindVoid:
		return "Void"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindChildren:
		return "Children"
	case KindStruct, KindTrait:
		info := in.nominal(id)
		if info == nil || strs == nil {
			return tt.Kind.String()
		}
		name, _ := strs.Lookup(info.Name)
		return name
	}
	return tt.Kind.String()
}
