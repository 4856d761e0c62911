package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docl/internal/diag"
	"docl/internal/trace"
)

func TestDecodeConfigOverDefaults(t *testing.T) {
	const doc = `
[compile]
entry = "Index"
jobs = 4

[trace]
level = "detail"
mode = "both"
output = "trace.ndjson"
heartbeat = "250ms"
`
	cfg, err := DecodeConfig(strings.NewReader(doc), "docl.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Compile.Entry != "Index" || cfg.Compile.Jobs != 4 {
		t.Fatalf("compile section not decoded: %+v", cfg.Compile)
	}
	if cfg.Compile.RenderModule != "std.essential" || cfg.Compile.MaxDiagnostics != 64 {
		t.Fatalf("defaults lost: %+v", cfg.Compile)
	}

	tc, err := cfg.Trace.TracerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if tc.Level != trace.LevelDetail || tc.Mode != trace.ModeBoth || tc.Format != trace.FormatAuto {
		t.Fatalf("unexpected tracer config %+v", tc)
	}
	if tc.OutputPath != "trace.ndjson" || tc.Heartbeat != 250*time.Millisecond {
		t.Fatalf("unexpected tracer config %+v", tc)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code diag.Code
	}{
		{"syntax", "[compile\nentry = 1", diag.ProjConfigInvalid},
		{"unknown key", "[compile]\nentrypoint = \"Main\"", diag.ProjConfigInvalid},
		{"empty entry", "[compile]\nentry = \"\"", diag.ProjConfigInvalid},
		{"dotted entry", "[compile]\nentry = \"a.b\"", diag.ProjConfigInvalid},
		{"render module", "[compile]\nrender_module = \"std..essential\"", diag.ProjInvalidModulePath},
		{"negative limit", "[compile]\nmax_diagnostics = -1", diag.ProjConfigInvalid},
		{"trace level", "[trace]\nlevel = \"loud\"", diag.ProjUnknownTraceLevel},
		{"trace mode", "[trace]\nmode = \"file\"", diag.ProjUnknownTraceMode},
		{"trace format", "[trace]\nformat = \"xml\"", diag.ProjConfigInvalid},
		{"heartbeat", "[trace]\nheartbeat = \"often\"", diag.ProjConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeConfig(strings.NewReader(tt.doc), "docl.toml")
			if got := diag.CodeOf(err); got != tt.code {
				t.Fatalf("got %s (%v), want %s", got.ID(), err, tt.code.ID())
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "site", "parts")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigName), []byte("[compile]\nrender_trait = \"View\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Found() || p.Root != root || p.ConfigPath != filepath.Join(root, ConfigName) {
		t.Fatalf("unexpected project %+v", p)
	}
	if p.Config.Compile.RenderTrait != "View" {
		t.Fatalf("render trait = %q", p.Config.Compile.RenderTrait)
	}

	mod, err := p.ModulePath(filepath.Join(nested, "hero.docl"))
	if err != nil || mod != "site.parts.hero" {
		t.Fatalf("ModulePath = %q, %v", mod, err)
	}
	if _, err := p.ModulePath(filepath.Join(filepath.Dir(root), "outside.docl")); err == nil {
		t.Fatal("file outside the root was accepted")
	}

	if _, err := LoadConfig(filepath.Join(root, "missing.toml")); diag.CodeOf(err) != diag.ProjConfigNotFound {
		t.Fatalf("missing file gave %v", err)
	}
}

func TestDiscoverWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	p, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.Found() || p.Root != dir {
		t.Fatalf("unexpected project %+v", p)
	}
	if p.Config.Compile.RenderTrait != DefaultConfig().Compile.RenderTrait {
		t.Fatalf("defaults not applied: %+v", p.Config.Compile)
	}
}

func TestDiscoverReportsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigName), []byte("[compile]\nbogus = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Discover(dir); diag.CodeOf(err) != diag.ProjConfigInvalid {
		t.Fatalf("got %v", err)
	}
}

func TestModulePathFromFile(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"site/parts.docl", "site.parts", true},
		{"/std/essential.docl", "std.essential", true},
		{`site\index.docl`, "site.index", true},
		{"main", "main", true},
		{"a//b.docl", "", false},
		{"../escape.docl", "", false},
		{"1st/page.docl", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ModulePathFromFile(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ModulePathFromFile(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestDigest(t *testing.T) {
	a := DigestOf([]byte("a"))
	if a != DigestOf([]byte("a")) || a == DigestOf([]byte("b")) {
		t.Fatal("digest must depend on content only")
	}
	if Combine(a) == Combine(a, a) {
		t.Fatal("combine must depend on deps")
	}
	if len(a.String()) != 64 || len(a.Short()) != 12 || a.IsZero() {
		t.Fatalf("unexpected digest rendering %s", a)
	}
}
