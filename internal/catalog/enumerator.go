package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Digest identifies the content an enumeration was produced from.
type Digest [32]byte

// Keyed is an enumerator whose output is fully determined by a digest;
// only keyed enumerators can be cached.
type Keyed interface {
	Enumerator
	Key() (Digest, error)
}

// Static enumerates a fixed slice.
type Static []Entry

func (s Static) Definitions() ([]Entry, error) {
	return append([]Entry(nil), s...), nil
}

// definitionFile is the on-disk layout of a definition file.
type definitionFile struct {
	Definitions []Entry `yaml:"definitions" json:"definitions"`
}

// FileEnumerator reads definitions from a YAML (.yaml, .yml) or JSON (.json)
// file.
type FileEnumerator struct {
	Path string
}

func (f FileEnumerator) read() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return data, nil
}

func (f FileEnumerator) Definitions() ([]Entry, error) {
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return decodeDefinitions(f.Path, data)
}

// Key hashes the file content together with its format.
func (f FileEnumerator) Key() (Digest, error) {
	data, err := f.read()
	if err != nil {
		return Digest{}, err
	}
	h := sha256.New()
	_, _ = h.Write([]byte(strings.ToLower(filepath.Ext(f.Path))))
	_, _ = h.Write(data)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

func decodeDefinitions(path string, data []byte) ([]Entry, error) {
	var doc definitionFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported definition format %q", path, ext)
	}
	for i, e := range doc.Definitions {
		if e.FullName == "" {
			return nil, fmt.Errorf("%s: definition #%d has no fullName", path, i+1)
		}
	}
	return doc.Definitions, nil
}
