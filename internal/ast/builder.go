package ast

import (
	"strings"

	"docl/internal/source"
)

type Hints struct{ Files, Items, Names, Types, Exprs uint }

// Builder owns every arena of one syntax forest together with the string
// interner its identifiers live in.
type Builder struct {
	Strings *source.Interner
	Files   *Files
	Items   *Items
	Names   *Names
	Types   *TypeExprs
	Exprs   *Exprs
}

func NewBuilder(hints Hints, strs *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 6
	}
	if strs == nil {
		strs = source.NewInterner()
	}
	return &Builder{
		Strings: strs,
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Names:   NewNames(hints.Names),
		Types:   NewTypeExprs(hints.Types),
		Exprs:   NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	b.Files.Push(file, item)
}

// Ident interns a single identifier.
func (b *Builder) Ident(s string) source.StringID {
	return b.Strings.InternIdent(s)
}

// Path interns a dotted path such as "std.essential".
func (b *Builder) Path(dotted string) []source.StringID {
	if dotted == "" {
		return nil
	}
	parts := strings.Split(dotted, ".")
	out := make([]source.StringID, 0, len(parts))
	for _, p := range parts {
		out = append(out, b.Ident(p))
	}
	return out
}

// Name allocates a use site for a dotted name.
func (b *Builder) Name(sp source.Span, dotted string) NameID {
	return b.Names.New(sp, b.Path(dotted))
}

func (b *Builder) BuiltinType(kind Builtin) TypeExprID {
	return b.Types.NewBuiltin(source.Span{}, kind)
}

func (b *Builder) NamedType(dotted string) TypeExprID {
	return b.Types.NewNamed(source.Span{}, b.Name(source.Span{}, dotted))
}

func (b *Builder) Int(text string) ExprID {
	return b.Exprs.NewLiteral(source.Span{}, LitInt, b.Strings.Intern(text))
}

func (b *Builder) Float(text string) ExprID {
	return b.Exprs.NewLiteral(source.Span{}, LitFloat, b.Strings.Intern(text))
}

func (b *Builder) Bool(v bool) ExprID {
	text := "false"
	if v {
		text = "true"
	}
	return b.Exprs.NewLiteral(source.Span{}, LitBool, b.Strings.Intern(text))
}

func (b *Builder) Str(text string) ExprID {
	return b.Exprs.NewLiteral(source.Span{}, LitString, b.Strings.Intern(text))
}

// Ref is an expression naming a constant, field or `self`.
func (b *Builder) Ref(dotted string) ExprID {
	return b.Exprs.NewName(source.Span{}, b.Name(source.Span{}, dotted))
}

func (b *Builder) Positional(value ExprID) Arg {
	return Arg{Value: value}
}

func (b *Builder) Labelled(label string, value ExprID) Arg {
	return Arg{Label: b.Ident(label), Value: value}
}

// Init builds `name(args...)` without a content block.
func (b *Builder) Init(dotted string, args ...Arg) ExprID {
	return b.Exprs.NewStructInit(source.Span{}, ExprStructInitData{
		Name: b.Name(source.Span{}, dotted),
		Args: args,
	})
}

// InitWith builds `name(args...) { content... }`; the block is present even
// when content is empty.
func (b *Builder) InitWith(dotted string, args []Arg, content ...ExprID) ExprID {
	return b.Exprs.NewStructInit(source.Span{}, ExprStructInitData{
		Name:       b.Name(source.Span{}, dotted),
		Args:       args,
		Content:    content,
		HasContent: true,
	})
}

func (b *Builder) Member(receiver ExprID, fields ...string) ExprID {
	ids := make([]source.StringID, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, b.Ident(f))
	}
	return b.Exprs.NewFieldAccess(source.Span{}, receiver, ids)
}

func (b *Builder) Block(result ExprID, consts ...ItemID) ExprID {
	return b.Exprs.NewBlock(source.Span{}, consts, result)
}

func (b *Builder) Binary(op ExprBinaryOp, left, right ExprID) ExprID {
	return b.Exprs.NewBinary(source.Span{}, op, left, right)
}

func (b *Builder) Unary(op ExprUnaryOp, operand ExprID) ExprID {
	return b.Exprs.NewUnary(source.Span{}, op, operand)
}

// Const builds `const name: typ = value`; typ may be NoTypeExprID.
func (b *Builder) Const(name string, typ TypeExprID, value ExprID) ItemID {
	return b.Items.NewConst(source.Span{}, ConstItem{Name: b.Ident(name), Type: typ, Value: value})
}

func (b *Builder) Field(name string, typ TypeExprID, def ExprID) FieldID {
	return b.Items.NewField(Field{Name: b.Ident(name), Type: typ, Default: def})
}

func (b *Builder) Struct(name string, fields []FieldID, attrs ...ItemID) ItemID {
	return b.Items.NewStruct(source.Span{}, StructItem{Name: b.Ident(name), Fields: fields, Attrs: attrs})
}

func (b *Builder) Trait(name string, fields ...FieldID) ItemID {
	return b.Items.NewTrait(source.Span{}, TraitItem{Name: b.Ident(name), Fields: fields})
}

// Use builds `use a.b.c`.
func (b *Builder) Use(dotted string) ItemID {
	return b.Items.NewImport(source.Span{}, ImportItem{Path: b.Path(dotted)})
}

// UseAll builds `use a.b.*`.
func (b *Builder) UseAll(dotted string) ItemID {
	return b.Items.NewImport(source.Span{}, ImportItem{Path: b.Path(dotted), Wildcard: true})
}

// UseGroup builds `use prefix.{m1, m2...}`.
func (b *Builder) UseGroup(prefix string, members ...string) ItemID {
	group := make([][]source.StringID, 0, len(members))
	for _, m := range members {
		group = append(group, b.Path(m))
	}
	return b.Items.NewImport(source.Span{}, ImportItem{Path: b.Path(prefix), Group: group})
}

// Unit creates a file holding items in order.
func (b *Builder) Unit(items ...ItemID) FileID {
	file := b.NewFile(source.Span{})
	for _, it := range items {
		b.PushItem(file, it)
	}
	return file
}
