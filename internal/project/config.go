// Package project loads udonc.toml and turns it into compiler inputs:
// reference assemblies, the node catalog and driver options.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"udonc/internal/catalog"
	"udonc/internal/trace"
	"udonc/internal/typename"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Config mirrors udonc.toml. Path and Root are empty for defaults that were
// not read from a file.
type Config struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Compiler   CompilerConfig   `toml:"compiler"`
	Catalog    CatalogConfig    `toml:"catalog"`
	References ReferencesConfig `toml:"references"`
	Output     OutputConfig     `toml:"output"`
}

type CompilerConfig struct {
	Verbose            bool   `toml:"verbose"`
	TraceLevel         string `toml:"trace_level"`
	PrimitiveNamespace string `toml:"primitive_namespace"`
	WriteSyncSlot      bool   `toml:"write_sync_slot"`
	MaxDiagnostics     int    `toml:"max_diagnostics"`
}

type CatalogConfig struct {
	Path      string `toml:"path"` // YAML/JSON definitions; empty = builtin
	Collision string `toml:"collision"`
	Cache     bool   `toml:"cache"`
}

type ReferencesConfig struct {
	Builtin bool     `toml:"builtin"`
	Paths   []string `toml:"paths"` // extra TOML assembly manifests
}

type OutputConfig struct {
	Format string `toml:"format"`
	Suffix string `toml:"suffix"`
}

// Default returns the configuration used when no udonc.toml exists.
func Default() Config {
	return Config{
		Compiler: CompilerConfig{
			TraceLevel:         "off",
			PrimitiveNamespace: typename.DefaultPrimitiveNamespace,
			MaxDiagnostics:     100,
		},
		Catalog: CatalogConfig{
			Collision: catalog.CollisionOverwrite.String(),
			Cache:     true,
		},
		References: ReferencesConfig{Builtin: true},
		Output: OutputConfig{
			Format: FormatYAML,
			Suffix: ".asset",
		},
	}
}

// LoadFile reads path on top of Default; keys missing from the file keep
// their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, err
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds udonc.toml above startDir and loads it. Without one it
// returns Default and found=false.
func Discover(startDir string) (cfg Config, found bool, err error) {
	path, err := FindConfig(startDir)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	cfg, err = LoadFile(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := trace.ParseLevel(c.Compiler.TraceLevel); err != nil {
		return fmt.Errorf("[compiler].trace_level: %w", err)
	}
	if c.Compiler.MaxDiagnostics < 0 {
		return fmt.Errorf("[compiler].max_diagnostics must not be negative, got %d", c.Compiler.MaxDiagnostics)
	}
	if _, err := catalog.ParseCollision(c.Catalog.Collision); err != nil {
		return fmt.Errorf("[catalog].collision: %w", err)
	}
	switch c.Output.Format {
	case FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("[output].format must be %s or %s, got %q", FormatYAML, FormatJSON, c.Output.Format)
	}
	if strings.TrimSpace(c.Output.Suffix) == "" {
		return errors.New("[output].suffix must not be empty")
	}
	return nil
}

// TraceLevel is the parsed [compiler].trace_level; invalid values are off.
func (c Config) TraceLevel() trace.Level {
	lvl, err := trace.ParseLevel(c.Compiler.TraceLevel)
	if err != nil {
		return trace.LevelOff
	}
	return lvl
}

// Collision is the parsed [catalog].collision.
func (c Config) Collision() catalog.Collision {
	policy, err := catalog.ParseCollision(c.Catalog.Collision)
	if err != nil {
		return catalog.CollisionOverwrite
	}
	return policy
}

// Resolve makes a config-relative path absolute against Root.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// Resolver returns the type name resolver for [compiler].primitive_namespace.
func (c Config) Resolver() typename.Resolver {
	return typename.Resolver{PrimitiveNamespace: c.Compiler.PrimitiveNamespace}
}
