package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/hypercontext/hypergraph"
)

// env1 builds the classic test store:
// ab = [a b], bc = [b c], abc = [ab c], ghi = [g h i].
type env1 struct {
	g                   *hypergraph.HyperGraph
	a, b, c             hypergraph.Token
	gh, h, i            hypergraph.Token
	ab, bc, abc, ghiTok hypergraph.Token
}

func newEnv1(t *testing.T) *env1 {
	t.Helper()
	g := hypergraph.New(hypergraph.WithValidation())
	toks := g.InsertAtoms([]hypergraph.Atom{'a', 'b', 'c', 'g', 'h', 'i'})
	a, b, c, gg, h, i := toks[0], toks[1], toks[2], toks[3], toks[4], toks[5]

	ab, err := g.InsertPattern(hypergraph.Pattern{a, b})
	require.NoError(t, err)
	bc, err := g.InsertPattern(hypergraph.Pattern{b, c})
	require.NoError(t, err)
	abc, err := g.InsertPattern(hypergraph.Pattern{ab, c})
	require.NoError(t, err)
	ghi, err := g.InsertPattern(hypergraph.Pattern{gg, h, i})
	require.NoError(t, err)

	return &env1{g: g, a: a, b: b, c: c, gh: gg, h: h, i: i, ab: ab, bc: bc, abc: abc, ghiTok: ghi}
}

func TestFindAncestor_EmptyQuery(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	_, err := s.FindAncestor(nil)
	assert.ErrorIs(t, err, hypergraph.ErrEmptyPatterns)
}

func TestFindAncestor_SingleIndex(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	_, err := s.FindAncestor(hypergraph.Pattern{e.a})
	var single *hypergraph.SingleIndexError
	require.ErrorAs(t, err, &single)
	assert.True(t, single.Found.Index.Equal(e.a))
	require.Len(t, single.Found.Path, 1)
	assert.True(t, single.Found.Path[0].Equal(e.a))
}

func TestFindAncestor_ExactMatch(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	resp, err := s.FindAncestor(hypergraph.Pattern{e.a, e.b, e.c})
	require.NoError(t, err)

	assert.True(t, resp.QueryExhausted())
	assert.True(t, resp.IsFullToken())
	assert.True(t, resp.RootToken().Equal(e.abc))
	assert.Equal(t, EntireRoot, resp.End.Coverage)
}

func TestFindAncestor_CompoundQuery(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	// [ab c] matches abc through the compound token.
	resp, err := s.FindAncestor(hypergraph.Pattern{e.ab, e.c})
	require.NoError(t, err)
	assert.True(t, resp.QueryExhausted())
	assert.True(t, resp.RootToken().Equal(e.abc))
}

func TestFindAncestor_NotFound(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	// x and y are fresh atoms with no parents at all.
	x := e.g.InsertAtom('x')
	y := e.g.InsertAtom('y')
	_, err := s.FindAncestor(hypergraph.Pattern{x, y})
	assert.ErrorIs(t, err, hypergraph.ErrNotFound)

	var state *ErrorState
	require.ErrorAs(t, err, &state)
	assert.Nil(t, state.Found)
}

func TestFindAncestor_RangeInsideRoot(t *testing.T) {
	// yz and xxabyzw as in the infix environment; searching [a b y]
	// matches a range inside xxabyzw, descending into yz.
	g := hypergraph.New(hypergraph.WithValidation())
	toks := g.InsertAtoms([]hypergraph.Atom{'a', 'b', 'w', 'x', 'y', 'z'})
	a, b, w, x, y, z := toks[0], toks[1], toks[2], toks[3], toks[4], toks[5]

	yz, err := g.InsertPattern(hypergraph.Pattern{y, z})
	require.NoError(t, err)
	root, err := g.InsertPattern(hypergraph.Pattern{x, x, a, b, yz, w})
	require.NoError(t, err)

	s := New(g)
	resp, err := s.FindAncestor(hypergraph.Pattern{a, b, y})
	require.NoError(t, err)

	assert.True(t, resp.QueryExhausted())
	assert.False(t, resp.IsFullToken())
	assert.Equal(t, Range, resp.End.Coverage)
	assert.True(t, resp.RootToken().Equal(root))
	assert.Equal(t, 2, resp.End.Path.StartOffset(g))
	assert.Equal(t, 5, resp.End.Path.EndOffset(g))
}

func TestFindAncestor_PrefixCoverage(t *testing.T) {
	g := hypergraph.New()
	toks := g.InsertAtoms([]hypergraph.Atom{'a', 'b', 'c', 'd'})
	a, b, c, d := toks[0], toks[1], toks[2], toks[3]

	root, err := g.InsertPattern(hypergraph.Pattern{a, b, c, d})
	require.NoError(t, err)

	s := New(g)
	resp, err := s.FindAncestor(hypergraph.Pattern{a, b})
	require.NoError(t, err)

	assert.True(t, resp.QueryExhausted())
	assert.Equal(t, Prefix, resp.End.Coverage)
	assert.True(t, resp.RootToken().Equal(root))
	assert.Equal(t, 0, resp.End.Path.StartOffset(g))
	assert.Equal(t, 2, resp.End.Path.EndOffset(g))
}

func TestFindAncestor_PostfixCoverage(t *testing.T) {
	g := hypergraph.New()
	toks := g.InsertAtoms([]hypergraph.Atom{'a', 'b', 'c', 'd'})
	a, b, c, d := toks[0], toks[1], toks[2], toks[3]

	root, err := g.InsertPattern(hypergraph.Pattern{a, b, c, d})
	require.NoError(t, err)

	s := New(g)
	resp, err := s.FindAncestor(hypergraph.Pattern{c, d})
	require.NoError(t, err)

	assert.True(t, resp.QueryExhausted())
	assert.Equal(t, Postfix, resp.End.Coverage)
	assert.True(t, resp.RootToken().Equal(root))
}

func TestFindAncestor_TripleRepeat(t *testing.T) {
	// Graph contains ab, abab, ababab; [ab ab ab] must resolve to the
	// full ababab, not stop at the partial abab match.
	g := hypergraph.New(hypergraph.WithValidation())
	toks := g.InsertAtoms([]hypergraph.Atom{'a', 'b'})
	a, b := toks[0], toks[1]

	ab, err := g.InsertPattern(hypergraph.Pattern{a, b})
	require.NoError(t, err)
	abab, err := g.InsertPattern(hypergraph.Pattern{ab, ab})
	require.NoError(t, err)
	ababab, err := g.InsertPattern(hypergraph.Pattern{ab, ab, ab})
	require.NoError(t, err)
	_ = abab

	s := New(g)
	resp, err := s.FindAncestor(hypergraph.Pattern{ab, ab, ab})
	require.NoError(t, err)

	assert.True(t, resp.QueryExhausted())
	assert.True(t, resp.IsFullToken())
	assert.True(t, resp.RootToken().Equal(ababab))
}

func TestFindAncestor_Consecutive(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	query := hypergraph.Pattern{e.gh, e.h, e.i, e.a, e.b, e.c}
	first, err := s.FindAncestor(query)
	require.NoError(t, err)

	// First search: ghi matched entirely, query not exhausted.
	assert.True(t, first.IsFullToken())
	assert.True(t, first.RootToken().Equal(e.ghiTok))
	assert.False(t, first.QueryExhausted())

	checkpoint := first.End.Cursor.Committed
	assert.Equal(t, 3, checkpoint.AtomPos, "checkpoint after matching ghi")
	assert.Equal(t, 2, checkpoint.Path.End.RootEntry, "checkpoint end at last matched token 'i'")

	candidate := first.End.Cursor.Speculative
	assert.Equal(t, 4, candidate.AtomPos, "candidate advanced beyond checkpoint")
	assert.Equal(t, 3, candidate.Path.End.RootEntry, "candidate points at first unmatched token 'a'")

	// Second search resumes from the returned cursor.
	second, err := s.FindAncestorFrom(first)
	require.NoError(t, err)

	assert.True(t, second.QueryExhausted())
	assert.True(t, second.IsFullToken())
	assert.True(t, second.RootToken().Equal(e.abc))
	assert.Equal(t, 6, second.End.Cursor.Committed.AtomPos)
	assert.Equal(t, 5, second.End.Cursor.Committed.Path.End.RootEntry)
}

func TestFindParent_Basics(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	// Single-token query short-circuits.
	_, err := s.FindParent(hypergraph.Pattern{e.bc})
	var single *hypergraph.SingleIndexError
	require.ErrorAs(t, err, &single)
	assert.True(t, single.Found.Index.Equal(e.bc))

	// [b c] finds the direct parent bc.
	resp, err := s.FindParent(hypergraph.Pattern{e.b, e.c})
	require.NoError(t, err)
	assert.True(t, resp.QueryExhausted())
	assert.Equal(t, EntireRoot, resp.End.Coverage)
	assert.True(t, resp.RootToken().Equal(e.bc))

	// [ab c] finds abc.
	resp, err = s.FindParent(hypergraph.Pattern{e.ab, e.c})
	require.NoError(t, err)
	assert.True(t, resp.QueryExhausted())
	assert.True(t, resp.RootToken().Equal(e.abc))
}

func TestFindParent_SingleTokenPrefixCompound_NoMatch(t *testing.T) {
	// Parent search over [a, bc] stays unmatched: the narrowest parent
	// batch of 'a' (ab) cannot exhaust the query, and parent search
	// does not widen the batch.
	e := newEnv1(t)
	s := New(e.g)

	_, err := s.FindParent(hypergraph.Pattern{e.a, e.bc})
	assert.ErrorIs(t, err, hypergraph.ErrNotFound)
}

func TestFindSequence(t *testing.T) {
	e := newEnv1(t)
	s := New(e.g)

	resp, err := s.FindSequence("abc")
	require.NoError(t, err)
	assert.True(t, resp.QueryExhausted())
	assert.True(t, resp.RootToken().Equal(e.abc))

	_, err = s.FindSequence("aqc")
	assert.ErrorIs(t, err, hypergraph.ErrUnknownAtom)
}

func TestResponse_TraceCacheCoverage(t *testing.T) {
	// Property: every vertex referenced by the end path has a cache
	// entry, and every bottom edge addresses a real child location.
	e := newEnv1(t)
	s := New(e.g)

	resp, err := s.FindAncestor(hypergraph.Pattern{e.a, e.b, e.c})
	require.NoError(t, err)

	p := resp.End.Path
	referenced := []hypergraph.VertexIndex{p.RootToken().Index}
	for _, loc := range p.Start.Locations {
		referenced = append(referenced, loc.Parent.Index)
	}
	for _, loc := range p.End.Locations {
		referenced = append(referenced, loc.Parent.Index)
	}

	for _, index := range referenced {
		require.True(t, resp.Cache.HasVertex(index), "no cache entry for vertex %d", index)
		v := e.g.ExpectVertex(index)
		for _, pos := range resp.Cache.Positions(index) {
			pc, ok := resp.Cache.Entry(index, pos)
			require.True(t, ok)
			for _, sub := range pc.Bottom {
				pattern, ok := v.Pattern(sub.PatternID)
				require.True(t, ok, "bottom edge addresses unknown pattern %d of vertex %d", sub.PatternID, index)
				assert.Less(t, sub.SubIndex, len(pattern), "bottom edge sub-index escapes pattern")
			}
		}
	}
}

func TestSearch_RoundTripAfterInsertPattern(t *testing.T) {
	// Property: insert a pattern, search it, get the same token back.
	g := hypergraph.New()
	atoms := g.InsertAtoms([]hypergraph.Atom{'p', 'q', 'r', 's'})

	patterns := []hypergraph.Pattern{
		{atoms[0], atoms[1]},
		{atoms[1], atoms[2], atoms[3]},
		{atoms[0], atoms[1], atoms[2], atoms[3]},
	}
	s := New(g)
	for _, p := range patterns {
		tok, err := g.InsertPattern(p)
		require.NoError(t, err)

		resp, err := s.FindAncestor(p)
		require.NoError(t, err)
		assert.True(t, resp.QueryExhausted(), "pattern %s", p)
		assert.True(t, resp.IsFullToken(), "pattern %s", p)
		assert.True(t, resp.RootToken().Equal(tok), "pattern %s", p)
	}
}

func TestErrorState_Unwrap(t *testing.T) {
	err := &ErrorState{Reason: hypergraph.ErrNotFound}
	assert.True(t, errors.Is(err, hypergraph.ErrNotFound))
	assert.Contains(t, err.Error(), "not found")

	withFound := &ErrorState{Reason: hypergraph.ErrNotFound, Found: &Response{}}
	assert.Contains(t, withFound.Error(), "best partial")
}

func TestNew_NilGraphPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
