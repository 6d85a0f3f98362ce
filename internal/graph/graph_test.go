package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonc/internal/catalog"
)

var intVariable = catalog.Entry{
	FullName:   "Variable_SystemInt32",
	Parameters: []catalog.Parameter{{Name: "value"}, {Name: "name"}},
}

func TestCreateNodeHandles(t *testing.T) {
	b := NewBuilder("test", nil)
	first := b.CreateNode(intVariable)
	second := b.CreateNode(catalog.Entry{FullName: "Variable_UnityEngineTransform"})
	assert.Equal(t, NodeHandle(0), first)
	assert.Equal(t, NodeHandle(1), second)
	assert.Equal(t, 2, b.Len())

	n, ok := b.Node(first)
	require.True(t, ok)
	assert.Equal(t, "Variable_SystemInt32", n.FullName)
	assert.Len(t, n.Slots, 2)
	assert.NotEqual(t, uuid.Nil, n.UID)

	n2, _ := b.Node(second)
	assert.NotEqual(t, n.UID, n2.UID)
	assert.Empty(t, n2.Slots)

	_, ok = b.Node(NoNode)
	assert.False(t, ok)
}

func TestPadSlotsIdempotent(t *testing.T) {
	b := NewBuilder("test", nil)
	h := b.CreateNode(intVariable)
	require.NoError(t, b.SetSlot(h, 1, "Count"))
	require.NoError(t, b.PadSlots(h, MinSlots))
	require.NoError(t, b.PadSlots(h, MinSlots))
	require.NoError(t, b.PadSlots(h, 3))

	n, _ := b.Node(h)
	require.Len(t, n.Slots, MinSlots)
	assert.Equal(t, "Count", n.Slots[1].Value)
	assert.Nil(t, n.Slots[4].Value)
}

func TestSetSlotErrors(t *testing.T) {
	b := NewBuilder("test", nil)
	h := b.CreateNode(intVariable)
	assert.ErrorIs(t, b.SetSlot(h, 2, true), ErrSlotRange)
	assert.ErrorIs(t, b.SetSlot(h, -1, true), ErrSlotRange)
	assert.ErrorIs(t, b.SetSlot(NodeHandle(7), 0, true), ErrUnknownNode)
	assert.ErrorIs(t, b.PadSlots(NodeHandle(7), MinSlots), ErrUnknownNode)
}

func TestSequentialUIDsDeterministic(t *testing.T) {
	ns := uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
	build := func() []uuid.UUID {
		b := NewBuilder("test", &SequentialUIDs{Namespace: ns})
		b.CreateNode(intVariable)
		b.CreateNode(intVariable)
		var out []uuid.UUID
		for _, n := range b.Graph().Nodes {
			out = append(out, n.UID)
		}
		return out
	}
	a, c := build(), build()
	assert.Equal(t, a, c)
	assert.NotEqual(t, a[0], a[1])
}
