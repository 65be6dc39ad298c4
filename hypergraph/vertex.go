package hypergraph

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"sync"
)

// Vertex is an immutable snapshot of one vertex.
//
// Snapshots are deep copies taken under the vertex's read lock; they are
// independent of subsequent store mutations. The exported fields are
// safe to read directly; pattern and parent access goes through
// accessor methods that preserve immutability.
type Vertex struct {
	Key   Key
	Index VertexIndex
	Width int

	children map[PatternID]Pattern
	parents  map[VertexIndex]Parent
}

// Token returns the token addressing this vertex.
func (v Vertex) Token() Token {
	return Token{Index: v.Index, Width: v.Width}
}

// IsAtomic reports whether the vertex is an atom (width 1, no
// decompositions).
func (v Vertex) IsAtomic() bool {
	return len(v.children) == 0
}

// PatternCount returns the number of alternative decompositions.
func (v Vertex) PatternCount() int {
	return len(v.children)
}

// Pattern returns the decomposition with the given id.
func (v Vertex) Pattern(id PatternID) (Pattern, bool) {
	p, ok := v.children[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Patterns iterates the decompositions in ascending pattern-id order.
//
// The yielded patterns must not be mutated.
func (v Vertex) Patterns() iter.Seq2[PatternID, Pattern] {
	ids := slices.Sorted(maps.Keys(v.children))
	return func(yield func(PatternID, Pattern) bool) {
		for _, id := range ids {
			if !yield(id, v.children[id]) {
				return
			}
		}
	}
}

// PatternSet returns all decompositions as a deep-copied slice in
// ascending pattern-id order.
func (v Vertex) PatternSet() []Pattern {
	ids := slices.Sorted(maps.Keys(v.children))
	out := make([]Pattern, 0, len(ids))
	for _, id := range ids {
		out = append(out, v.children[id].Clone())
	}
	return out
}

// ParentCount returns the number of distinct parent vertices.
func (v Vertex) ParentCount() int {
	return len(v.parents)
}

// Parent returns the back-edge entry for the given parent vertex.
func (v Vertex) Parent(index VertexIndex) (Parent, bool) {
	p, ok := v.parents[index]
	if !ok {
		return Parent{}, false
	}
	return Parent{Width: p.Width, Positions: slices.Clone(p.Positions)}, true
}

// Parents iterates parent back-edges in ascending parent-width order,
// breaking ties by parent index. This is the order in which the search
// engine explores ancestors (smallest enclosing parent first).
func (v Vertex) Parents() iter.Seq2[VertexIndex, Parent] {
	indices := slices.SortedFunc(maps.Keys(v.parents), func(a, b VertexIndex) int {
		if c := cmp.Compare(v.parents[a].Width, v.parents[b].Width); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return func(yield func(VertexIndex, Parent) bool) {
		for _, idx := range indices {
			if !yield(idx, v.parents[idx]) {
				return
			}
		}
	}
}

// parentData is the mutable back-edge record inside a slot.
type parentData struct {
	width     int
	positions map[PatternIndex]struct{}
}

// vertexData is the mutable vertex record. It is only accessed while
// holding the owning slot's lock.
type vertexData struct {
	key           Key
	self          Token
	children      map[PatternID]Pattern
	parents       map[VertexIndex]*parentData
	nextPatternID PatternID
}

// slot pairs a vertex record with its lock. Slots are created once and
// live for the lifetime of the store; the map shard only ever grows.
type slot struct {
	mu   sync.RWMutex
	data vertexData
}

// newVertexData creates an empty record for a freshly allocated vertex.
func newVertexData(key Key, self Token) vertexData {
	return vertexData{
		key:           key,
		self:          self,
		children:      make(map[PatternID]Pattern),
		parents:       make(map[VertexIndex]*parentData),
		nextPatternID: 1,
	}
}

// addPattern registers a decomposition under the next pattern id.
// Caller holds the slot write lock.
func (d *vertexData) addPattern(p Pattern) PatternID {
	id := d.nextPatternID
	d.nextPatternID++
	d.children[id] = p.Clone()
	return id
}

// addParent records one occurrence of this vertex inside a parent.
// Caller holds the slot write lock.
func (d *vertexData) addParent(parent Token, id PatternID, subIndex int) {
	entry, ok := d.parents[parent.Index]
	if !ok {
		entry = &parentData{width: parent.Width, positions: make(map[PatternIndex]struct{})}
		d.parents[parent.Index] = entry
	}
	entry.width = parent.Width
	entry.positions[PatternIndex{PatternID: id, SubIndex: subIndex}] = struct{}{}
}

// removeParent removes one occurrence; the whole entry is dropped when
// its position set empties. Caller holds the slot write lock.
func (d *vertexData) removeParent(parent VertexIndex, id PatternID, subIndex int) {
	entry, ok := d.parents[parent]
	if !ok {
		return
	}
	delete(entry.positions, PatternIndex{PatternID: id, SubIndex: subIndex})
	if len(entry.positions) == 0 {
		delete(d.parents, parent)
	}
}

// snapshot deep-copies the record into a public Vertex.
// Caller holds at least the slot read lock.
func (d *vertexData) snapshot() Vertex {
	children := make(map[PatternID]Pattern, len(d.children))
	for id, p := range d.children {
		children[id] = p.Clone()
	}
	parents := make(map[VertexIndex]Parent, len(d.parents))
	for idx, entry := range d.parents {
		positions := make([]PatternIndex, 0, len(entry.positions))
		for pi := range entry.positions {
			positions = append(positions, pi)
		}
		slices.SortFunc(positions, func(a, b PatternIndex) int {
			if c := cmp.Compare(a.PatternID, b.PatternID); c != 0 {
				return c
			}
			return cmp.Compare(a.SubIndex, b.SubIndex)
		})
		parents[idx] = Parent{Width: entry.width, Positions: positions}
	}
	return Vertex{
		Key:      d.key,
		Index:    d.self.Index,
		Width:    d.self.Width,
		children: children,
		parents:  parents,
	}
}
