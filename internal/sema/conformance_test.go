package sema

import (
	"testing"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/types"
)

// conformanceFixture declares
//
//	struct S(field1: <t1>, field2: <t2>)
//	trait T(field1: Int, field2: String)
//	const t: T = S(<v1>, <v2>)
func conformanceFixture(t1, t2 ast.Builtin, v1, v2 func(b *ast.Builder) ast.ExprID) (*fixture, ast.ItemID) {
	f := newFixture()
	b := f.b
	c := b.Const("t", b.NamedType("T"), b.Init("S", b.Positional(v1(b)), b.Positional(v2(b))))
	f.unit("app",
		b.Struct("S", []ast.FieldID{
			f.field("field1", b.BuiltinType(t1)),
			f.field("field2", b.BuiltinType(t2)),
		}),
		b.Trait("T",
			f.field("field1", f.intType()),
			f.field("field2", f.stringType()),
		),
		c,
	)
	return f, c
}

func intLit(b *ast.Builder) ast.ExprID   { return b.Int("1") }
func strLit(b *ast.Builder) ast.ExprID   { return b.Str("x") }
func boolLit(b *ast.Builder) ast.ExprID  { return b.Bool(true) }
func floatLit(b *ast.Builder) ast.ExprID { return b.Float("1.5") }

func TestStructConformsToTrait(t *testing.T) {
	f, c := conformanceFixture(ast.BuiltinInt, ast.BuiltinString, intLit, strLit)
	res := f.mustCheck(t)
	trait := f.constType(t, res, c)
	if res.TypeInterner.KindOf(trait) != types.KindTrait {
		t.Fatalf("declared trait type should win, got %s", res.TypeInterner.KindOf(trait))
	}
	if got := res.ExprTypes[f.value(t, c)]; res.TypeInterner.KindOf(got) != types.KindStruct {
		t.Fatalf("initializer should keep its struct type, got %s", res.TypeInterner.KindOf(got))
	}
}

func TestChangingAFieldTypeBreaksConformance(t *testing.T) {
	tests := []struct {
		name   string
		t1, t2 ast.Builtin
		v1, v2 func(*ast.Builder) ast.ExprID
	}{
		{"first field", ast.BuiltinBool, ast.BuiltinString, boolLit, strLit},
		{"second field", ast.BuiltinInt, ast.BuiltinFloat, intLit, floatLit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := conformanceFixture(tt.t1, tt.t2, tt.v1, tt.v2)
			f.expectCode(t, diag.SemaTypeMismatch)
		})
	}
}

func TestMissingFieldBreaksConformance(t *testing.T) {
	f := newFixture()
	b := f.b
	f.unit("app",
		b.Struct("S", []ast.FieldID{f.field("field1", f.intType())}),
		b.Trait("T", f.field("field1", f.intType()), f.field("field2", f.stringType())),
		b.Const("t", b.NamedType("T"), b.Init("S", b.Positional(b.Int("1")))),
	)
	f.expectCode(t, diag.SemaTypeMismatch)
}

func TestEverythingConformsToEmptyTrait(t *testing.T) {
	f := newFixture()
	b := f.b
	f.unit("app",
		b.Trait("Any"),
		b.Struct("S", []ast.FieldID{f.field("v", f.intType())}),
		b.Const("i", b.NamedType("Any"), b.Int("1")),
		b.Const("s", b.NamedType("Any"), b.Str("text")),
		b.Const("v", b.NamedType("Any"), b.Init("S", b.Positional(b.Int("2")))),
	)
	f.mustCheck(t)
}

func TestPrimitiveDoesNotConformToNonEmptyTrait(t *testing.T) {
	f := newFixture()
	b := f.b
	f.unit("app",
		b.Trait("T", f.field("v", f.intType())),
		b.Const("t", b.NamedType("T"), b.Int("1")),
	)
	f.expectCode(t, diag.SemaTypeMismatch)
}

func TestAttributeSatisfiesTraitField(t *testing.T) {
	f := newFixture()
	b := f.b
	label := b.Const("label", ast.NoTypeExprID, b.Str("card"))
	f.unit("app",
		b.Struct("Card", []ast.FieldID{f.field("v", f.intType())}, label),
		b.Trait("Labelled", f.field("label", f.stringType())),
		b.Const("l", b.NamedType("Labelled"), b.Init("Card", b.Positional(b.Int("1")))),
	)
	res := f.mustCheck(t)
	if _, ok := res.ConstTypes[label]; !ok {
		t.Fatal("attribute should be typed while checking conformance")
	}
}

func TestTraitTypedFieldsConformRecursively(t *testing.T) {
	f := newFixture()
	b := f.b
	f.unit("app",
		b.Trait("Inner", f.field("v", f.intType())),
		b.Trait("Outer", f.field("inner", b.NamedType("Inner"))),
		b.Struct("I", []ast.FieldID{f.field("v", f.intType()), f.field("extra", f.stringType())}),
		b.Struct("O", []ast.FieldID{f.field("inner", b.NamedType("I"))}),
		b.Const("o", b.NamedType("Outer"),
			b.Init("O", b.Positional(b.Init("I", b.Positional(b.Int("1")), b.Positional(b.Str("x")))))),
	)
	f.mustCheck(t)
}

func TestTraitConformsToTrait(t *testing.T) {
	f := newFixture()
	b := f.b
	f.unit("app",
		b.Trait("Wide", f.field("a", f.intType()), f.field("b", f.intType())),
		b.Trait("Narrow", f.field("a", f.intType())),
		b.Struct("S", []ast.FieldID{f.field("a", f.intType()), f.field("b", f.intType())}),
		b.Const("w", b.NamedType("Wide"), b.Init("S", b.Positional(b.Int("1")), b.Positional(b.Int("2")))),
		b.Const("n", b.NamedType("Narrow"), b.Ref("w")),
	)
	f.mustCheck(t)
}

func TestSelfReferentialTraitsTerminate(t *testing.T) {
	f := newFixture()
	b := f.b
	f.unit("app",
		b.Trait("A", f.field("next", b.NamedType("A"))),
		b.Trait("B", f.field("next", b.NamedType("B"))),
		b.Struct("Holder", []ast.FieldID{f.field("node", b.NamedType("A"))},
			b.Const("asB", b.NamedType("B"), b.Ref("node"))),
	)
	f.mustCheck(t)
}

func TestRenderModuleStructsRenderNominally(t *testing.T) {
	f := newFixture()
	f.essentials()
	b := f.b
	f.unit("app",
		b.UseAll("std.essential"),
		b.Const("text", b.NamedType("Render"), b.Init("Text", b.Positional(b.Str("hi")))),
		b.Const("div", b.NamedType("Render"), b.InitWith("Div", nil)),
	)
	f.mustCheck(t)
}

func TestUserStructRendersStructurally(t *testing.T) {
	f := newFixture()
	f.essentials()
	b := f.b
	f.unit("app",
		b.UseAll("std.essential"),
		b.Struct("Card", []ast.FieldID{f.field("render", b.NamedType("Text"))}),
		b.Struct("Plain", []ast.FieldID{f.field("title", f.stringType())}),
		b.Const("card", b.NamedType("Render"), b.Init("Card", b.Positional(b.Init("Text", b.Positional(b.Str("hi")))))),
	)
	f.mustCheck(t)

	g := newFixture()
	g.essentials()
	b = g.b
	g.unit("app",
		b.UseAll("std.essential"),
		b.Struct("Plain", []ast.FieldID{g.field("title", g.stringType())}),
		b.Const("plain", b.NamedType("Render"), b.Init("Plain", b.Positional(b.Str("x")))),
	)
	g.expectCode(t, diag.SemaTypeMismatch)
}

func TestRenderStructsOutsideRenderModuleAreStructural(t *testing.T) {
	f := newFixture()
	f.essentials()
	b := f.b
	// Same shape as std.essential.Text, but declared elsewhere.
	f.unit("lookalike", b.Struct("Text", []ast.FieldID{f.field("value", f.stringType())}))
	f.unit("app",
		b.Use("std.essential.Render"),
		b.Use("lookalike.Text"),
		b.Const("t", b.NamedType("Render"), b.Init("Text", b.Positional(b.Str("hi")))),
	)
	f.expectCode(t, diag.SemaTypeMismatch)
}
