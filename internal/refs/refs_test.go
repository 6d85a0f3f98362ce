package refs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsableFiltersDynamicAndLocationless(t *testing.T) {
	all := []Assembly{
		{Name: "a", Location: "/lib/a.dll"},
		{Name: "dyn", Location: "/lib/dyn.dll", Dynamic: true},
		{Name: "mem", Location: "  "},
		{Name: "b", Location: "/lib/b.dll"},
	}
	got := Usable(all)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}

func TestBuiltinIsUsable(t *testing.T) {
	all := Builtin()
	assert.Len(t, Usable(all), len(all))

	found := map[string]TypeDef{}
	for _, a := range all {
		for _, td := range a.Types {
			found[td.FullName()] = td
		}
	}
	for _, name := range []string{"System.Int32", "System.String", "UnityEngine.Transform", "UnityEngine.SerializeField", "UdonSharp.UdonSharpBehaviour"} {
		assert.Contains(t, found, name)
	}
	assert.Equal(t, KindAttribute, found["UnityEngine.SerializeField"].Kind)
	assert.True(t, found["UnityEngine.Mathf"].Static)
	assert.Equal(t, 2, found["System.Collections.Generic.Dictionary"].Arity)
}

func TestNamespacesIncludeParents(t *testing.T) {
	a := Assembly{Types: []TypeDef{{Namespace: "VRC.Udon.Common", Name: "X"}, {Name: "Global"}}}
	assert.Equal(t, []string{"VRC", "VRC.Udon", "VRC.Udon.Common"}, a.Namespaces())
}

func TestSplitArity(t *testing.T) {
	name, n := SplitArity("Dictionary`2")
	assert.Equal(t, "Dictionary", name)
	assert.Equal(t, 2, n)

	name, n = SplitArity("Plain")
	assert.Equal(t, "Plain", name)
	assert.Zero(t, n)
}

func TestParseManifest(t *testing.T) {
	src := `
name = "Game.Scripts"
location = "Library/Game.Scripts.dll"

[[types]]
namespace = "Game"
name = "Door"

[[types]]
namespace = "Game"
name = "Registry` + "`" + `1"
kind = "class"

[[types]]
namespace = "Game"
name = "DoorState"
kind = "enum"
`
	a, err := ParseManifest([]byte(src), "game.toml")
	require.NoError(t, err)
	assert.Equal(t, "Game.Scripts", a.Name)
	require.Len(t, a.Types, 3)
	assert.Equal(t, KindClass, a.Types[0].Kind)
	assert.Equal(t, 1, a.Types[1].Arity)
	assert.Equal(t, "Registry", a.Types[1].Name)
	assert.Equal(t, KindEnum, a.Types[2].Kind)
}

func TestParseManifestErrors(t *testing.T) {
	_, err := ParseManifest([]byte("[[types]]\nname = \"X\"\nkind = \"record\"\n"), "m.toml")
	assert.True(t, errors.Is(err, ErrBadManifest))

	_, err = ParseManifest([]byte("bogus = 1\n"), "m.toml")
	assert.True(t, errors.Is(err, ErrBadManifest))

	_, err = ParseManifest([]byte("name = \n"), "m.toml")
	assert.Error(t, err)
}

func TestLoadManifestDefaultsName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Extra.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[types]]\nname = \"Thing\"\n"), 0o644))

	all, err := LoadAll([]string{path})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Extra", all[0].Name)
	assert.Empty(t, Usable(all), "manifest without location is not offered")
}
