package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/hypercontext/hypergraph"
)

func tok(index uint64, width int) hypergraph.Token {
	return hypergraph.Token{Index: hypergraph.VertexIndex(index), Width: width}
}

func TestDirectedKey(t *testing.T) {
	up := UpKey(tok(3, 2), 1)
	down := DownKey(tok(3, 2), 1)

	assert.Equal(t, Up, up.Direction)
	assert.Equal(t, Down, down.Direction)
	assert.NotEqual(t, up, down, "orientation is part of the key")
	assert.Equal(t, "up[3@2@1]", up.String())
}

func TestTraceCache_Edges(t *testing.T) {
	c := New(tok(1, 1))
	assert.Equal(t, tok(1, 1), c.Start)

	sub := hypergraph.SubLocation{PatternID: 1, SubIndex: 2}
	c.AddBottomEdge(5, 0, DownKey(tok(2, 1), 0), sub)
	c.AddTopEdge(2, 0, UpKey(tok(5, 3), 0))

	pc, ok := c.Entry(5, 0)
	require.True(t, ok)
	got, ok := pc.Bottom[DownKey(tok(2, 1), 0)]
	require.True(t, ok)
	assert.Equal(t, sub, got)

	pc, ok = c.Entry(2, 0)
	require.True(t, ok)
	_, ok = pc.Top[UpKey(tok(5, 3), 0)]
	assert.True(t, ok)

	assert.True(t, c.HasVertex(5))
	assert.False(t, c.HasVertex(99))
	assert.Equal(t, 2, c.VertexCount())
	assert.Equal(t, []hypergraph.VertexIndex{2, 5}, c.Vertices())
}

func TestTraceCache_RepetitionIsNoOp(t *testing.T) {
	c := New(tok(1, 1))

	first := hypergraph.SubLocation{PatternID: 1, SubIndex: 0}
	second := hypergraph.SubLocation{PatternID: 2, SubIndex: 3}
	key := DownKey(tok(2, 1), 4)

	c.AddBottomEdge(7, 4, key, first)
	c.AddBottomEdge(7, 4, key, second) // revisit: must not overwrite

	pc, ok := c.Entry(7, 4)
	require.True(t, ok)
	assert.Equal(t, first, pc.Bottom[key])
	assert.Len(t, pc.Bottom, 1)

	c.AddTopEdge(7, 4, UpKey(tok(9, 5), 4))
	c.AddTopEdge(7, 4, UpKey(tok(9, 5), 4))
	assert.Len(t, pc.Top, 1)
}

func TestTraceCache_Positions(t *testing.T) {
	c := New(tok(1, 1))
	c.AddTopEdge(3, 5, UpKey(tok(4, 2), 5))
	c.AddTopEdge(3, 1, UpKey(tok(4, 2), 1))
	c.AddTopEdge(3, 3, UpKey(tok(4, 2), 3))

	assert.Equal(t, []int{1, 3, 5}, c.Positions(3))
	assert.Nil(t, c.Positions(42))
}
