// Package asset persists compiled graphs as graph program assets next to
// their sources.
package asset

import (
	"fmt"

	"udonc/internal/graph"
)

// Layout of nodes on the editor canvas: one column, fixed spacing.
const (
	ColumnX    = 0
	RowSpacing = 120
)

// DefaultSuffix is appended to the source path to name its asset.
const DefaultSuffix = ".asset"

// Document is the top level of an asset file.
type Document struct {
	GraphData GraphData `yaml:"graphData" json:"graphData"`
}

type GraphData struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Nodes       []NodeData `yaml:"nodes" json:"nodes"`
}

type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// NodeData is one graph node. NodeUIDs and FlowUIDs hold data and flow
// connections; variable nodes have none, so they are always empty lists.
type NodeData struct {
	FullName   string   `yaml:"fullName" json:"fullName"`
	UID        string   `yaml:"uid" json:"uid"`
	Position   Position `yaml:"position" json:"position"`
	NodeUIDs   []string `yaml:"nodeUIDs" json:"nodeUIDs"`
	FlowUIDs   []string `yaml:"flowUIDs" json:"flowUIDs"`
	NodeValues []Value  `yaml:"nodeValues" json:"nodeValues"`
}

// Value is a serialized slot: a runtime type name and the value itself.
// An empty slot has an empty type and a nil value.
type Value struct {
	Type  string `yaml:"type" json:"type"`
	Value any    `yaml:"value" json:"value"`
}

// Value type names.
const (
	TypeString = "System.String"
	TypeBool   = "System.Boolean"
	// TypeSyntax prefixes the syntax kind of an initializer slot.
	TypeSyntax = "Syntax."
)

// FromGraph converts g into its asset document.
func FromGraph(g *graph.Graph, description string) (Document, error) {
	doc := Document{GraphData: GraphData{
		Name:        g.Name,
		Description: description,
		Nodes:       make([]NodeData, 0, len(g.Nodes)),
	}}
	for i, n := range g.Nodes {
		values := make([]Value, 0, len(n.Slots))
		for j, s := range n.Slots {
			v, err := encodeSlot(s.Value)
			if err != nil {
				return Document{}, fmt.Errorf("node %d (%s) slot %d: %w", i, n.FullName, j, err)
			}
			values = append(values, v)
		}
		doc.GraphData.Nodes = append(doc.GraphData.Nodes, NodeData{
			FullName:   n.FullName,
			UID:        n.UID.String(),
			Position:   Position{X: ColumnX, Y: float64(i * RowSpacing)},
			NodeUIDs:   []string{},
			FlowUIDs:   []string{},
			NodeValues: values,
		})
	}
	return doc, nil
}

func encodeSlot(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, nil
	case string:
		return Value{Type: TypeString, Value: x}, nil
	case bool:
		return Value{Type: TypeBool, Value: x}, nil
	case graph.Syntax:
		return Value{Type: TypeSyntax + x.Kind, Value: x.Text}, nil
	default:
		return Value{}, fmt.Errorf("unsupported slot value %T", v)
	}
}
