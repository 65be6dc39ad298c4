package cache

import (
	"maps"
	"slices"

	"github.com/simon-lentz/hypercontext/hypergraph"
)

// PositionCache holds the directed edges recorded at one atom position
// inside one vertex: top edges go up to parents, bottom edges come down
// from children, keyed by the down key of the child that was entered.
type PositionCache struct {
	// Top is the set of outgoing up-edges, keyed by the parent's up key.
	Top map[DirectedKey]struct{}

	// Bottom maps the down key of an entered child to the sub-location
	// inside this vertex at which the descent happened.
	Bottom map[DirectedKey]hypergraph.SubLocation
}

// newPositionCache creates an empty position cache.
func newPositionCache() *PositionCache {
	return &PositionCache{
		Top:    make(map[DirectedKey]struct{}),
		Bottom: make(map[DirectedKey]hypergraph.SubLocation),
	}
}

// TraceCache maps vertex indices to their per-position caches. It is
// built during search and consumed by the insert engine's interval
// construction.
type TraceCache struct {
	// Start is the token the traversal started from (the first query
	// leaf).
	Start hypergraph.Token

	entries map[hypergraph.VertexIndex]map[int]*PositionCache
}

// New creates a trace cache rooted at the traversal's start token.
func New(start hypergraph.Token) *TraceCache {
	return &TraceCache{
		Start:   start,
		entries: make(map[hypergraph.VertexIndex]map[int]*PositionCache),
	}
}

// position returns (creating if needed) the cache for a vertex position.
func (c *TraceCache) position(index hypergraph.VertexIndex, pos int) *PositionCache {
	byPos, ok := c.entries[index]
	if !ok {
		byPos = make(map[int]*PositionCache)
		c.entries[index] = byPos
	}
	pc, ok := byPos[pos]
	if !ok {
		pc = newPositionCache()
		byPos[pos] = pc
	}
	return pc
}

// AddBottomEdge records a top-down step: entering the child addressed
// by sub inside the vertex at the given position. Re-adding an existing
// edge is a no-op.
func (c *TraceCache) AddBottomEdge(index hypergraph.VertexIndex, pos int, child DirectedKey, sub hypergraph.SubLocation) {
	pc := c.position(index, pos)
	if _, ok := pc.Bottom[child]; ok {
		return
	}
	pc.Bottom[child] = sub
}

// AddTopEdge records a bottom-up step: the vertex at the given position
// was raised into the parent addressed by the up key. Re-adding an
// existing edge is a no-op.
func (c *TraceCache) AddTopEdge(index hypergraph.VertexIndex, pos int, parent DirectedKey) {
	pc := c.position(index, pos)
	pc.Top[parent] = struct{}{}
}

// Entry returns the position cache of a vertex at one position.
func (c *TraceCache) Entry(index hypergraph.VertexIndex, pos int) (*PositionCache, bool) {
	byPos, ok := c.entries[index]
	if !ok {
		return nil, false
	}
	pc, ok := byPos[pos]
	return pc, ok
}

// Positions returns the recorded atom positions of a vertex in
// ascending order.
func (c *TraceCache) Positions(index hypergraph.VertexIndex) []int {
	byPos, ok := c.entries[index]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(byPos))
}

// HasVertex reports whether any position of the vertex was visited.
func (c *TraceCache) HasVertex(index hypergraph.VertexIndex) bool {
	_, ok := c.entries[index]
	return ok
}

// VertexCount returns the number of distinct vertices visited.
func (c *TraceCache) VertexCount() int {
	return len(c.entries)
}

// Vertices returns the visited vertex indices in ascending order.
func (c *TraceCache) Vertices() []hypergraph.VertexIndex {
	return slices.Sorted(maps.Keys(c.entries))
}
