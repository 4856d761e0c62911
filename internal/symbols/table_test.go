package symbols

import (
	"testing"

	"docl/internal/source"
)

func TestAddModuleIsIdempotent(t *testing.T) {
	strs := source.NewInterner()
	table := NewTable(Hints{}, strs)
	path := []source.StringID{strs.Intern("std"), strs.Intern("essential")}

	first := table.AddModule(path)
	second := table.AddModule(path)
	if first != second {
		t.Fatalf("same path created two scopes: %d and %d", first, second)
	}
	std, ok := table.FindModule(path[:1])
	if !ok {
		t.Fatal("prefix module not registered")
	}
	if table.AddModule(path[:1]) != std {
		t.Fatal("prefix module re-created")
	}
	if got := len(table.Modules()); got != 2 {
		t.Fatalf("expected 2 module scopes, got %d", got)
	}
	if table.Scope(first).Parent != GlobalScopeID || table.Scope(std).Parent != GlobalScopeID {
		t.Fatal("module scopes must hang off the global scope")
	}
	if name := table.ModuleName(first); name != "std.essential" {
		t.Fatalf("ModuleName = %q", name)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFindModule(t *testing.T) {
	strs := source.NewInterner()
	table := NewTable(Hints{}, strs)
	a, b, c := strs.Intern("a"), strs.Intern("b"), strs.Intern("c")
	ab := table.AddModule([]source.StringID{a, b})

	tests := []struct {
		name string
		path []source.StringID
		want ScopeID
		ok   bool
	}{
		{"empty is global", nil, GlobalScopeID, true},
		{"nested", []source.StringID{a, b}, ab, true},
		{"missing tail", []source.StringID{a, c}, NoScopeID, false},
		{"missing head", []source.StringID{b}, NoScopeID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.FindModule(tt.path)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("FindModule = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScopeLookupPanicsOnInvalidID(t *testing.T) {
	table := NewTable(Hints{}, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	table.Scope(99)
}

func TestChildScopes(t *testing.T) {
	table := NewTable(Hints{}, nil)
	mod := table.AddModule([]source.StringID{table.Strings.Intern("m")})
	body := table.AddChildScope(mod, ScopeStruct)
	block := table.AddChildScope(body, ScopeBlock)
	if table.Scope(block).Parent != body || table.Scope(body).Parent != mod {
		t.Fatal("lexical scopes must keep their syntactic parent")
	}
	if table.ModuleOf(block) != mod {
		t.Fatalf("ModuleOf = %d, want %d", table.ModuleOf(block), mod)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
