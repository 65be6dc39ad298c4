package path

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/hypercontext/hypergraph"
)

// buildNestedStore creates a store with a two-level decomposition:
// ab = [a b], abc = [ab c].
func buildNestedStore(t *testing.T) (*hypergraph.HyperGraph, hypergraph.Token, hypergraph.PatternID, hypergraph.Pattern) {
	t.Helper()
	g := hypergraph.New()
	tokens := g.InsertAtoms([]hypergraph.Atom{'a', 'b', 'c'})
	ab, err := g.InsertPattern(hypergraph.Pattern{tokens[0], tokens[1]})
	require.NoError(t, err)
	abc, id, err := g.InsertPatternWithID(hypergraph.Pattern{ab, tokens[2]})
	require.NoError(t, err)
	return g, abc, id, hypergraph.Pattern{ab, tokens[2]}
}

func TestRolePath_AppendPop(t *testing.T) {
	p := NewRolePath(1)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 1, p.RootEntry)

	loc := hypergraph.ChildLocation{Parent: hypergraph.Token{Index: 3, Width: 2}, PatternID: 1, SubIndex: 0}
	p.Append(loc)
	assert.Equal(t, 1, p.Depth())

	leaf, ok := p.Leaf()
	require.True(t, ok)
	assert.Equal(t, loc, leaf)

	popped, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, loc, popped)
	assert.True(t, p.IsEmpty())

	_, ok = p.Pop()
	assert.False(t, ok)
}

func TestRolePath_LeafMoves(t *testing.T) {
	g, abc, id, _ := buildNestedStore(t)

	p := NewRolePath(0)
	p.Append(abc.At(id).Child(0))

	// [ab c]: sub 0 -> sub 1 -> border.
	assert.True(t, p.CanAdvanceLeaf(g))
	assert.True(t, p.AdvanceLeaf(g))
	assert.False(t, p.CanAdvanceLeaf(g))
	assert.False(t, p.AdvanceLeaf(g))

	leaf, _ := p.Leaf()
	assert.Equal(t, 1, leaf.SubIndex, "failed advance must not move the path")

	assert.True(t, p.CanRetractLeaf(g))
	assert.True(t, p.RetractLeaf(g))
	assert.False(t, p.CanRetractLeaf(g))
	assert.False(t, p.RetractLeaf(g))
}

func TestRolePath_Borders(t *testing.T) {
	g, abc, id, _ := buildNestedStore(t)

	p := NewRolePath(0)
	p.Append(abc.At(id).Child(0))
	assert.True(t, p.AtPatternHeads())
	assert.False(t, p.AtPatternTails(g))

	p.AdvanceLeaf(g)
	assert.False(t, p.AtPatternHeads())
	assert.True(t, p.AtPatternTails(g))
}

func TestIndexRangePath_AdvanceEnd_RaisesAcrossBorders(t *testing.T) {
	g, abc, id, _ := buildNestedStore(t)

	// Descend into ab at entry 0, leaf at 'a'.
	p := NewIndexRangePath(abc.At(id), 0)
	abToken, ok := p.EndToken(g)
	require.True(t, ok)
	p.End.Append(abToken.At(1).Child(0))

	// a -> b within ab.
	require.True(t, p.AdvanceEnd(g))
	tok, ok := p.EndToken(g)
	require.True(t, ok)
	assert.Equal(t, "b", g.TokenString(tok))

	// b is the last leaf of ab: the raise pops to the root and advances
	// the root entry to c.
	require.True(t, p.AdvanceEnd(g))
	assert.True(t, p.End.IsEmpty())
	assert.Equal(t, 1, p.End.RootEntry)
	tok, ok = p.EndToken(g)
	require.True(t, ok)
	assert.Equal(t, "c", g.TokenString(tok))

	// Root exhausted.
	assert.False(t, p.CanAdvanceEnd(g))
	assert.False(t, p.AdvanceEnd(g))
}

// TestAdvanceContract verifies CanAdvance(p) <=> Advance(clone) advances
// over every reachable end-path state of a randomized store.
func TestAdvanceContract(t *testing.T) {
	g := hypergraph.New()
	atoms := g.InsertAtoms([]hypergraph.Atom{'a', 'b', 'c', 'd'})

	f := fuzz.NewWithSeed(7)
	var picks []byte
	f.NilChance(0).NumElements(2, 4).Fuzz(&picks)

	// A few layered patterns give nested reachable states.
	lo := make(hypergraph.Pattern, 0, len(picks))
	for _, b := range picks {
		lo = append(lo, atoms[int(b)%len(atoms)])
	}
	low, err := g.InsertPattern(lo)
	require.NoError(t, err)
	root, id, err := g.InsertPatternWithID(hypergraph.Pattern{low, atoms[0], low})
	require.NoError(t, err)

	p := NewIndexRangePath(root.At(id), 0)
	tok, ok := p.EndToken(g)
	require.True(t, ok)
	p.End.Append(tok.At(1).Child(0))

	for steps := 0; steps < 64; steps++ {
		can := p.CanAdvanceEnd(g)
		clone := p.Clone()
		did := clone.AdvanceEnd(g)
		require.Equal(t, can, did, "CanAdvance and Advance disagree at step %d (%+v)", steps, p.End)
		if !did {
			break
		}
		p = clone
	}
	assert.False(t, p.CanAdvanceEnd(g), "walk must terminate at the root border")
}

func TestIndexRangePath_Offsets(t *testing.T) {
	g, abc, id, _ := buildNestedStore(t)

	// Span b..c, offsets [1, 3): start descends into ab at sub 1, end at
	// root entry 1 (c, the span's last token).
	p := NewIndexRangePath(abc.At(id), 0)
	abToken := g.ExpectPatternAt(abc.At(id))[0]
	p.Start.Append(abToken.At(1).Child(1))
	p.End.RootEntry = 1

	assert.Equal(t, 1, p.StartOffset(g))
	assert.Equal(t, 3, p.EndOffset(g))
}

func TestWithPositions(t *testing.T) {
	g, abc, id, _ := buildNestedStore(t)

	p := NewIndexRangePath(abc.At(id), 0)
	abToken := g.ExpectPatternAt(abc.At(id))[0]
	p.End.Append(abToken.At(1).Child(1))

	annotated := EndPositions(g, p)
	require.Len(t, annotated, 1)
	assert.Equal(t, 1, annotated[0].EntryPos, "entering 'b' inside ab at absolute position 1")

	assert.Nil(t, WithPositions(0, g, NewRolePath(0)), "empty path yields no annotations")
}

func TestCheckpointed_CommitRollback(t *testing.T) {
	g, abc, id, _ := buildNestedStore(t)
	_ = g

	base := Cursor[IndexRangePath]{Path: NewIndexRangePath(abc.At(id), 0), AtomPos: 0}
	cp := NewCheckpointed(base)
	assert.Equal(t, Matched, cp.Committed.State)

	cp.Speculative.AtomPos = 2
	cp.ToCandidate()
	assert.Equal(t, Candidate, cp.Speculative.State)
	assert.Equal(t, 0, cp.Committed.AtomPos, "checkpoint frozen during speculation")

	cp.Commit()
	assert.Equal(t, Matched, cp.Committed.State)
	assert.Equal(t, 2, cp.Committed.AtomPos)

	cp.Speculative.AtomPos = 5
	cp.ToCandidate()
	cp.Rollback()
	assert.Equal(t, Mismatched, cp.Speculative.State)
	assert.Equal(t, 2, cp.Speculative.AtomPos, "rollback restores the checkpoint position")
	assert.Equal(t, 2, cp.Committed.AtomPos)
}

func TestCheckpointed_CloneIndependence(t *testing.T) {
	base := Cursor[PatternRangePath]{Path: NewPatternRangePath(hypergraph.Pattern{{Index: 1, Width: 1}, {Index: 2, Width: 1}})}
	cp := NewCheckpointed(base)
	clone := cp.Clone()

	cp.Speculative.AtomPos = 9
	cp.Speculative.Path.End.RootEntry = 1
	assert.Equal(t, 0, clone.Speculative.AtomPos)
	assert.Equal(t, 0, clone.Speculative.Path.End.RootEntry)
}

func TestPatternRangePath_Exhausted(t *testing.T) {
	p := NewPatternRangePath(hypergraph.Pattern{{Index: 1, Width: 1}, {Index: 2, Width: 1}})
	assert.False(t, p.Exhausted())
	p.End.RootEntry = 1
	assert.True(t, p.Exhausted())

	p.End.Append(hypergraph.ChildLocation{Parent: hypergraph.Token{Index: 2, Width: 1}})
	assert.False(t, p.Exhausted(), "non-empty end path keeps the query unexhausted")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "candidate", Candidate.String())
	assert.Equal(t, "mismatched", Mismatched.String())
	assert.Equal(t, "exhausted", Exhausted.String())
}
