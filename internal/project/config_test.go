package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonc/internal/catalog"
	"udonc/internal/trace"
)

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, trace.LevelOff, cfg.TraceLevel())
	assert.Equal(t, catalog.CollisionOverwrite, cfg.Collision())
	assert.Equal(t, "System", cfg.Resolver().PrimitiveNamespace)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, ".asset", cfg.Output.Suffix)
	assert.True(t, cfg.References.Builtin)
	assert.True(t, cfg.Catalog.Cache)
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "")
	nested := filepath.Join(root, "Assets", "Scripts")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	require.NoError(t, err)
	want, err := filepath.Abs(filepath.Join(root, ConfigName))
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestFindConfigMissing(t *testing.T) {
	_, err := FindConfig(t.TempDir())
	if err != nil {
		// a udonc.toml above the temp dir would make this test meaningless
		require.ErrorIs(t, err, ErrConfigNotFound)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigName)
	writeFile(t, path, `
[compiler]
verbose = true
trace_level = "detail"
primitive_namespace = ""
write_sync_slot = true

[catalog]
path = "defs/nodes.yaml"
collision = "reject"

[output]
format = "json"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Compiler.Verbose)
	assert.Equal(t, trace.LevelDetail, cfg.TraceLevel())
	assert.Equal(t, "", cfg.Resolver().PrimitiveNamespace)
	assert.True(t, cfg.Compiler.WriteSyncSlot)
	assert.Equal(t, 100, cfg.Compiler.MaxDiagnostics, "untouched keys keep defaults")
	assert.Equal(t, catalog.CollisionReject, cfg.Collision())
	assert.True(t, cfg.Catalog.Cache)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, ".asset", cfg.Output.Suffix)

	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Root)
	assert.Equal(t, filepath.Join(abs, "defs", "nodes.yaml"), cfg.Resolve(cfg.Catalog.Path))
	assert.Equal(t, "/abs/x.yaml", cfg.Resolve("/abs/x.yaml"))
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", "[compiler", "failed to parse TOML"},
		{"unknown key", "[compiler]\ncolour = true", "unknown keys: compiler.colour"},
		{"trace level", "[compiler]\ntrace_level = \"loud\"", "[compiler].trace_level"},
		{"negative limit", "[compiler]\nmax_diagnostics = -1", "[compiler].max_diagnostics"},
		{"collision", "[catalog]\ncollision = \"merge\"", "[catalog].collision"},
		{"format", "[output]\nformat = \"xml\"", "[output].format"},
		{"suffix", "[output]\nsuffix = \" \"", "[output].suffix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigName)
			writeFile(t, path, tt.text)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "[output]\nsuffix = \".json\"\n")

	cfg, found, err := Discover(filepath.Join(root))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ".json", cfg.Output.Suffix)

	broken := t.TempDir()
	writeFile(t, filepath.Join(broken, ConfigName), "[output]\nformat = 1\n")
	_, found, err = Discover(broken)
	require.Error(t, err)
	assert.True(t, found)
}

func TestAssemblies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "refs", "game.toml"), `
name = "Game.Scripts"
location = "Library/Game.Scripts.dll"

[[types]]
namespace = "Game"
name = "Door"
kind = "class"
`)
	cfg := Default()
	cfg.Root = root
	cfg.References.Paths = []string{"refs/game.toml"}

	all, err := cfg.Assemblies()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	last := all[len(all)-1]
	assert.Equal(t, "Game.Scripts", last.Name)
	require.Len(t, last.Types, 1)
	assert.Equal(t, "Game.Door", last.Types[0].FullName())

	cfg.References.Builtin = false
	only, err := cfg.Assemblies()
	require.NoError(t, err)
	assert.Len(t, only, 1)

	cfg.References.Paths = []string{"refs/missing.toml"}
	_, err = cfg.Assemblies()
	require.Error(t, err)
}

func TestCatalogFromConfig(t *testing.T) {
	cfg := Default()
	cacheDir := t.TempDir()

	cat, err := cfg.BuildCatalog(cacheDir)
	require.NoError(t, err)
	_, ok := cat.Lookup("Variable_SystemInt32")
	assert.True(t, ok)

	// second build is served from the cache written by the first
	enum, err := cfg.Enumerator(cacheDir)
	require.NoError(t, err)
	cached, ok := enum.(*catalog.Cached)
	require.True(t, ok, "got %T", enum)
	_, err = cached.Definitions()
	require.NoError(t, err)
	assert.True(t, cached.Hit)

	cfg.Catalog.Cache = false
	enum, err = cfg.Enumerator(cacheDir)
	require.NoError(t, err)
	_, isCached := enum.(*catalog.Cached)
	assert.False(t, isCached)
}

func TestCatalogFromDefinitionsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "nodes.yaml"), `
definitions:
  - fullName: Variable_Door
    name: Door Variable
    type: Game.Door
`)
	cfg := Default()
	cfg.Root = root
	cfg.Catalog.Path = "nodes.yaml"
	cfg.Catalog.Cache = false

	cat, err := cfg.BuildCatalog("")
	require.NoError(t, err)
	require.NoError(t, cat.Err())
	assert.Equal(t, 1, cat.Len())

	cfg.Catalog.Path = "missing.yaml"
	cat, err = cfg.BuildCatalog("")
	require.NoError(t, err)
	assert.True(t, errors.Is(cat.Err(), os.ErrNotExist), "got %v", cat.Err())
}
