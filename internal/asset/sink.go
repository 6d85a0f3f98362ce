package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"udonc/internal/graph"
)

// Format selects the asset encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts yaml|json; "" is yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown asset format %q (expected yaml|json)", s)
	}
}

// Sink stores the graph compiled from source and returns where it went.
type Sink interface {
	Write(source string, g *graph.Graph) (string, error)
}

// FileSink writes "<source><Suffix>" next to the source file.
type FileSink struct {
	Format Format
	Suffix string // "" = DefaultSuffix
}

// PathFor returns the asset path for a source file.
func (s FileSink) PathFor(source string) string {
	suffix := s.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return source + suffix
}

func (s FileSink) Write(source string, g *graph.Graph) (string, error) {
	if g == nil {
		return "", errors.New("asset: nil graph")
	}
	doc, err := FromGraph(g, "")
	if err != nil {
		return "", err
	}
	data, err := Encode(doc, s.Format)
	if err != nil {
		return "", err
	}
	path := s.PathFor(source)
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("asset: %w", err)
	}
	return path, nil
}

// Encode serializes doc in format.
func Encode(doc Document, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("asset: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("asset: encode yaml: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("asset: encode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("asset: unknown format %q", format)
	}
	return buf.Bytes(), nil
}

// Decode reads an asset document written by Encode.
func Decode(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("asset: decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("asset: decode json: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("asset: unknown format %q", format)
	}
	return doc, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over path.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// MemorySink keeps documents in memory, keyed by asset path. Not safe for
// concurrent writers.
type MemorySink struct {
	Suffix string
	Docs   map[string]Document
}

func (m *MemorySink) Write(source string, g *graph.Graph) (string, error) {
	if g == nil {
		return "", errors.New("asset: nil graph")
	}
	doc, err := FromGraph(g, "")
	if err != nil {
		return "", err
	}
	if m.Docs == nil {
		m.Docs = make(map[string]Document)
	}
	path := FileSink{Suffix: m.Suffix}.PathFor(source)
	m.Docs[path] = doc
	return path, nil
}
