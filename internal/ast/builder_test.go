package ast

import (
	"testing"

	"docl/internal/source"
)

func TestBuilderUnitKeepsOrder(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	c1 := b.Const("a", NoTypeExprID, b.Int("1"))
	c2 := b.Const("b", NoTypeExprID, b.Ref("a"))
	file := b.Unit(c1, c2)

	got := b.Files.Get(file).Items
	if len(got) != 2 || got[0] != c1 || got[1] != c2 {
		t.Fatalf("unexpected items: %v", got)
	}
	name, _ := b.Items.DeclName(c2)
	if b.Strings.MustLookup(name) != "b" {
		t.Fatalf("decl name = %q", b.Strings.MustLookup(name))
	}
	if b.Files.Len() != 1 || b.Files.Get(NoFileID) != nil {
		t.Fatalf("files: len %d, zero id resolved", b.Files.Len())
	}
}

func TestStructAdoptsFields(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	f := b.Field("x", b.BuiltinType(BuiltinInt), NoExprID)
	s := b.Struct("Point", []FieldID{f})
	if owner := b.Items.Field(f).Owner; owner != s {
		t.Fatalf("owner = %d, want %d", owner, s)
	}
	if _, ok := b.Items.Trait(s); ok {
		t.Fatal("struct reported as trait")
	}
}

func TestNameTextAndIdentity(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	n1 := b.Name(zeroSpan(), "std.essential.Render")
	n2 := b.Name(zeroSpan(), "std.essential.Render")
	if n1 == n2 {
		t.Fatal("distinct uses must have distinct ids")
	}
	if got := b.Names.Text(n1, b.Strings); got != "std.essential.Render" {
		t.Fatalf("text = %q", got)
	}
	if !b.Names.Get(n1).IsQualified() {
		t.Fatal("expected qualified name")
	}
}

func TestReplaceWithChainKeepsID(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	init := b.Init("value.field", b.Positional(b.Int("3")))
	recv := b.Ref("value")
	b.Exprs.ReplaceWithChain(init, ExprChainData{Receiver: recv, Field: b.Ident("field")})

	if _, ok := b.Exprs.StructInit(init); ok {
		t.Fatal("expression still a struct init")
	}
	chain, ok := b.Exprs.Chain(init)
	if !ok {
		t.Fatal("expression is not a chain")
	}
	if chain.Receiver != recv || b.Strings.MustLookup(chain.Field) != "field" {
		t.Fatalf("unexpected chain %+v", chain)
	}
}

func TestInitWithMarksContent(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	empty := b.InitWith("Page", nil)
	data, _ := b.Exprs.StructInit(empty)
	if !data.HasContent || len(data.Content) != 0 {
		t.Fatalf("unexpected content flags %+v", data)
	}
	plain := b.Init("Page")
	data, _ = b.Exprs.StructInit(plain)
	if data.HasContent {
		t.Fatal("plain init must not have content")
	}
}

func TestScopeSlot(t *testing.T) {
	var slot ScopeSlot
	if _, ok := slot.Get(); ok {
		t.Fatal("fresh slot reported assigned")
	}
	slot.Assign(4)
	slot.Assign(4)
	if slot.MustGet() != 4 {
		t.Fatalf("got %d", slot.MustGet())
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on conflicting assignment")
		}
	}()
	slot.Assign(5)
}

func zeroSpan() source.Span { return source.Span{} }
