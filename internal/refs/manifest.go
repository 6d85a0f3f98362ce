package refs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrBadManifest is wrapped by every manifest validation failure.
var ErrBadManifest = errors.New("invalid assembly manifest")

// manifest is the on-disk TOML shape:
//
//	name = "Game.Scripts"
//	location = "Library/ScriptAssemblies/Game.Scripts.dll"
//	dynamic = false
//
//	[[types]]
//	namespace = "Game"
//	name = "Door"
//	kind = "class"
type manifest struct {
	Name     string         `toml:"name"`
	Location string         `toml:"location"`
	Dynamic  bool           `toml:"dynamic"`
	Types    []manifestType `toml:"types"`
}

type manifestType struct {
	Namespace string `toml:"namespace"`
	Name      string `toml:"name"`
	Kind      string `toml:"kind"`
	Arity     int    `toml:"arity"`
	Static    bool   `toml:"static"`
}

// LoadManifest reads an assembly manifest from disk.
func LoadManifest(path string) (Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Assembly{}, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return ParseManifest(data, path)
}

// ParseManifest decodes manifest bytes; path is used for messages and as the
// default assembly name.
func ParseManifest(data []byte, path string) (Assembly, error) {
	var m manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return Assembly{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Assembly{}, fmt.Errorf("%w %s: unknown key %q", ErrBadManifest, path, undecoded[0].String())
	}

	a := Assembly{Name: m.Name, Location: m.Location, Dynamic: m.Dynamic}
	if a.Name == "" {
		base := filepath.Base(path)
		a.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	for i, mt := range m.Types {
		if mt.Name == "" {
			return Assembly{}, fmt.Errorf("%w %s: types[%d] has no name", ErrBadManifest, path, i)
		}
		kind, ok := ParseKind(mt.Kind)
		if !ok {
			return Assembly{}, fmt.Errorf("%w %s: types[%d] has unknown kind %q", ErrBadManifest, path, i, mt.Kind)
		}
		name, arity := SplitArity(mt.Name)
		if mt.Arity > 0 {
			arity = mt.Arity
		}
		a.Types = append(a.Types, TypeDef{
			Namespace: mt.Namespace,
			Name:      name,
			Kind:      kind,
			Arity:     arity,
			Static:    mt.Static,
		})
	}
	return a, nil
}

// LoadAll loads every manifest in paths, stopping at the first error.
func LoadAll(paths []string) ([]Assembly, error) {
	out := make([]Assembly, 0, len(paths))
	for _, p := range paths {
		a, err := LoadManifest(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
