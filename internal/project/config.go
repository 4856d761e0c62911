package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"

	"docl/internal/diag"
	"docl/internal/source"
	"docl/internal/trace"
)

// Config is the content of docl.toml.
type Config struct {
	Compile CompileConfig `toml:"compile"`
	Trace   TraceConfig   `toml:"trace"`
}

type CompileConfig struct {
	Entry          string `toml:"entry"`
	RenderModule   string `toml:"render_module"`
	RenderTrait    string `toml:"render_trait"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"` // 0 means GOMAXPROCS
}

type TraceConfig struct {
	Level     string `toml:"level"`
	Mode      string `toml:"mode"`
	Output    string `toml:"output"`
	Format    string `toml:"format"`
	RingSize  int    `toml:"ring_size"`
	Heartbeat string `toml:"heartbeat"` // Go duration, empty disables
}

// DefaultConfig is used for every key docl.toml leaves out.
func DefaultConfig() Config {
	return Config{
		Compile: CompileConfig{
			Entry:          "Main",
			RenderModule:   "std.essential",
			RenderTrait:    "Render",
			MaxDiagnostics: 64,
		},
		Trace: TraceConfig{
			Level:  "off",
			Mode:   "stream",
			Output: "-",
			Format: "auto",
		},
	}
}

// LoadConfig reads and validates the configuration at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, configError(diag.ProjConfigNotFound, "%s: configuration not found", path)
		}
		return Config{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeConfig(f, path)
}

// DecodeConfig decodes a docl.toml document over DefaultConfig and validates
// the result. name only labels diagnostics.
func DecodeConfig(r io.Reader, name string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return Config{}, configError(diag.ProjConfigInvalid, "%s:%d: %s", name, perr.Position.Line, perr.Message)
		}
		return Config{}, configError(diag.ProjConfigInvalid, "%s: %v", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, configError(diag.ProjConfigInvalid, "%s: unknown key %q", name, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value; the first problem is returned as a *diag.Error.
func (c Config) Validate() error {
	cc := c.Compile
	if !isIdent(cc.Entry) {
		return configError(diag.ProjConfigInvalid, "compile.entry %q is not an identifier", cc.Entry)
	}
	if err := ValidateModulePath(cc.RenderModule); err != nil {
		return configError(diag.ProjInvalidModulePath, "compile.render_module: %v", err)
	}
	if !isIdent(cc.RenderTrait) {
		return configError(diag.ProjConfigInvalid, "compile.render_trait %q is not an identifier", cc.RenderTrait)
	}
	if cc.MaxDiagnostics < 0 {
		return configError(diag.ProjConfigInvalid, "compile.max_diagnostics must not be negative, got %d", cc.MaxDiagnostics)
	}
	if cc.Jobs < 0 {
		return configError(diag.ProjConfigInvalid, "compile.jobs must not be negative, got %d", cc.Jobs)
	}
	_, err := c.Trace.TracerConfig()
	return err
}

// TracerConfig converts the [trace] section into a trace.Config.
func (t TraceConfig) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(t.Level)
	if err != nil {
		return trace.Config{}, configError(diag.ProjUnknownTraceLevel, "trace.level: %v", err)
	}
	mode, err := trace.ParseMode(t.Mode)
	if err != nil {
		return trace.Config{}, configError(diag.ProjUnknownTraceMode, "trace.mode: %v", err)
	}
	format, err := trace.ParseFormat(t.Format)
	if err != nil {
		return trace.Config{}, configError(diag.ProjConfigInvalid, "trace.format: %v", err)
	}
	if t.RingSize < 0 {
		return trace.Config{}, configError(diag.ProjConfigInvalid, "trace.ring_size must not be negative, got %d", t.RingSize)
	}
	var heartbeat time.Duration
	if t.Heartbeat != "" {
		heartbeat, err = time.ParseDuration(t.Heartbeat)
		if err != nil || heartbeat < 0 {
			return trace.Config{}, configError(diag.ProjConfigInvalid, "trace.heartbeat %q is not a duration", t.Heartbeat)
		}
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: t.Output,
		RingSize:   t.RingSize,
		Heartbeat:  heartbeat,
	}, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func configError(code diag.Code, format string, args ...any) error {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	return diag.ReportError(nil, code, source.Span{}, msg).Err()
}
