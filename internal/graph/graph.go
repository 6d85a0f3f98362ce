// Package graph is the in-memory node graph the lowering engine writes.
package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"udonc/internal/catalog"
)

// MinSlots is the property count every variable node is padded to:
// value, name, public, synced, sync mode.
const MinSlots = 5

var (
	ErrUnknownNode = errors.New("unknown node handle")
	ErrSlotRange   = errors.New("slot index out of range")
)

// Syntax is an initializer kept as source: the syntax kind name and the
// exact text ("NumericLiteralExpression", "0").
type Syntax struct {
	Kind string
	Text string
}

func (s Syntax) String() string { return s.Text }

// Slot is one property of a node; a nil Value is an unset slot.
type Slot struct {
	Value any
}

// Node is an instance of a catalog definition.
type Node struct {
	UID      uuid.UUID
	FullName string
	Slots    []Slot
}

// Graph is an ordered list of nodes.
type Graph struct {
	Name  string
	Nodes []Node
}

// NodeHandle addresses a node of one Builder.
type NodeHandle int

const NoNode NodeHandle = -1

// UIDGenerator supplies node UIDs.
type UIDGenerator interface {
	NewUID() uuid.UUID
}

// RandomUIDs issues version 4 UUIDs.
type RandomUIDs struct{}

func (RandomUIDs) NewUID() uuid.UUID { return uuid.New() }

// SequentialUIDs issues name-based UUIDs derived from a counter, so the
// same build produces the same UIDs. Safe for concurrent use.
type SequentialUIDs struct {
	Namespace uuid.UUID

	mu sync.Mutex
	n  uint64
}

func (s *SequentialUIDs) NewUID() uuid.UUID {
	s.mu.Lock()
	s.n++
	n := s.n
	s.mu.Unlock()
	return uuid.NewSHA1(s.Namespace, []byte(fmt.Sprintf("node-%d", n)))
}

// Builder appends nodes and fills their slots. Every node is addressed by
// the handle CreateNode returned.
type Builder struct {
	graph Graph
	uids  UIDGenerator
}

// NewBuilder starts an empty graph; nil uids means RandomUIDs.
func NewBuilder(name string, uids UIDGenerator) *Builder {
	if uids == nil {
		uids = RandomUIDs{}
	}
	return &Builder{graph: Graph{Name: name}, uids: uids}
}

// CreateNode appends a node with one empty slot per definition parameter.
func (b *Builder) CreateNode(entry catalog.Entry) NodeHandle {
	b.graph.Nodes = append(b.graph.Nodes, Node{
		UID:      b.uids.NewUID(),
		FullName: entry.FullName,
		Slots:    make([]Slot, entry.Arity()),
	})
	return NodeHandle(len(b.graph.Nodes) - 1)
}

func (b *Builder) node(h NodeHandle) (*Node, error) {
	if h < 0 || int(h) >= len(b.graph.Nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, h)
	}
	return &b.graph.Nodes[h], nil
}

// PadSlots grows the node to at least n slots; existing slots are kept.
func (b *Builder) PadSlots(h NodeHandle, n int) error {
	nd, err := b.node(h)
	if err != nil {
		return err
	}
	for len(nd.Slots) < n {
		nd.Slots = append(nd.Slots, Slot{})
	}
	return nil
}

// SetSlot stores v in slot i.
func (b *Builder) SetSlot(h NodeHandle, i int, v any) error {
	nd, err := b.node(h)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(nd.Slots) {
		return fmt.Errorf("%w: slot %d of %s (%d slots)", ErrSlotRange, i, nd.FullName, len(nd.Slots))
	}
	nd.Slots[i].Value = v
	return nil
}

// Node returns the node addressed by h.
func (b *Builder) Node(h NodeHandle) (*Node, bool) {
	nd, err := b.node(h)
	return nd, err == nil
}

// Len is the number of nodes created so far.
func (b *Builder) Len() int { return len(b.graph.Nodes) }

// Graph returns the graph under construction.
func (b *Builder) Graph() *Graph { return &b.graph }
