package read

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/search"
)

func requireValid(t *testing.T, g *hypergraph.HyperGraph) {
	t.Helper()
	res, err := g.Validate(t.Context())
	require.NoError(t, err)
	require.True(t, res.OK(), res.String())
}

// tokenByString resolves the vertex covering the given atom string via
// an exact search.
func tokenByString(t *testing.T, g *hypergraph.HyperGraph, s string) hypergraph.Token {
	t.Helper()
	atoms := make([]hypergraph.Atom, 0, len(s))
	for _, c := range s {
		atoms = append(atoms, hypergraph.Atom(c))
	}
	tokens, err := g.AtomTokens(atoms)
	require.NoError(t, err)
	if len(tokens) == 1 {
		return tokens[0]
	}
	resp, err := search.New(g).FindAncestor(hypergraph.Pattern(tokens))
	require.NoError(t, err)
	require.True(t, resp.QueryExhausted() && resp.IsFullToken(), "no exact token for %q", s)
	return resp.RootToken()
}

// decompositionStrings renders every decomposition of a token as child
// atom strings.
func decompositionStrings(t *testing.T, g *hypergraph.HyperGraph, tok hypergraph.Token) [][]string {
	t.Helper()
	v := g.ExpectVertex(tok.Index)
	var out [][]string
	for _, p := range v.PatternSet() {
		row := make([]string, len(p))
		for i, c := range p {
			row[i] = g.TokenString(c)
		}
		out = append(out, row)
	}
	return out
}

func TestReadText_Empty(t *testing.T) {
	r := New(hypergraph.New())
	_, ok := r.ReadText("")
	assert.False(t, ok)
}

func TestReadText_SingleAtom(t *testing.T) {
	g := hypergraph.New()
	r := New(g)

	tok, ok := r.ReadText("a")
	require.True(t, ok)
	assert.Equal(t, 1, tok.Width)
	assert.Equal(t, "a", g.TokenString(tok))
}

func TestReadText_SimpleSequence(t *testing.T) {
	g := hypergraph.New(hypergraph.WithValidation())
	r := New(g)

	tok, ok := r.ReadText("abc")
	require.True(t, ok)
	assert.Equal(t, 3, tok.Width)
	assert.Equal(t, "abc", g.TokenString(tok))
	requireValid(t, g)
}

func TestReadText_Repetition_abcabcabc(t *testing.T) {
	// "abc" repeated three times exercises the overlap expansion:
	// the root decomposes both as [abc abcabc] and [abcabc abc].
	g := hypergraph.New(hypergraph.WithValidation())
	r := New(g)

	root, ok := r.ReadText("abcabcabc")
	require.True(t, ok)
	assert.Equal(t, 9, root.Width)
	assert.Equal(t, "abcabcabc", g.TokenString(root))
	requireValid(t, g)

	abc := tokenByString(t, g, "abc")
	abcabc := tokenByString(t, g, "abcabc")
	assert.Equal(t, 3, abc.Width)
	assert.Equal(t, 6, abcabc.Width)

	assert.ElementsMatch(t, [][]string{{"a", "b", "c"}}, decompositionStrings(t, g, abc))
	assert.ElementsMatch(t, [][]string{{"abc", "abc"}}, decompositionStrings(t, g, abcabc))
	assert.ElementsMatch(t, [][]string{
		{"abcabc", "abc"},
		{"abc", "abcabc"},
	}, decompositionStrings(t, g, root))
}

func TestReadText_Repetition_xyzxyzxyz(t *testing.T) {
	g := hypergraph.New(hypergraph.WithValidation())
	r := New(g)

	root, ok := r.ReadText("xyzxyzxyz")
	require.True(t, ok)
	assert.Equal(t, 9, root.Width)
	requireValid(t, g)

	xyz := tokenByString(t, g, "xyz")
	xyzxyz := tokenByString(t, g, "xyzxyz")
	assert.ElementsMatch(t, [][]string{{"x", "y", "z"}}, decompositionStrings(t, g, xyz))
	assert.ElementsMatch(t, [][]string{{"xyz", "xyz"}}, decompositionStrings(t, g, xyzxyz))
	assert.ElementsMatch(t, [][]string{
		{"xyzxyz", "xyz"},
		{"xyz", "xyzxyz"},
	}, decompositionStrings(t, g, root))
}

func TestReadText_KnownPrefixReused(t *testing.T) {
	// A second read over a known prefix reuses the existing structure.
	g := hypergraph.New(hypergraph.WithValidation())
	r := New(g)

	first, ok := r.ReadText("abc")
	require.True(t, ok)

	second, ok := r.ReadText("abc")
	require.True(t, ok)
	assert.True(t, first.Equal(second), "re-reading the same text yields the same root")
	requireValid(t, g)
}

func TestReadSequence_MixedKnownUnknown(t *testing.T) {
	g := hypergraph.New(hypergraph.WithValidation())
	r := New(g)

	// Pre-intern "ab" so a later read alternates known/unknown runs.
	_, ok := r.ReadText("ab")
	require.True(t, ok)

	root, ok := r.ReadText("abxy")
	require.True(t, ok)
	assert.Equal(t, 4, root.Width)
	assert.Equal(t, "abxy", g.TokenString(root))
	requireValid(t, g)
}

func TestReadText_Normalization(t *testing.T) {
	g := hypergraph.New()
	r := New(g)

	// "é" as a precomposed rune and as e + combining acute normalize to
	// the same atom sequence.
	first, ok := r.ReadText("café")
	require.True(t, ok)
	second, ok := r.ReadText("café")
	require.True(t, ok)

	assert.True(t, first.Equal(second), "NFC normalization must unify the inputs")
}

func TestBandChain(t *testing.T) {
	var chain BandChain
	_, ok := chain.Last()
	assert.False(t, ok)

	chain = chain.Append(hypergraph.Token{Index: 1, Width: 3})
	chain = chain.Append(hypergraph.Token{Index: 2, Width: 6})

	last, ok := chain.Last()
	require.True(t, ok)
	assert.Equal(t, 9, last.End, "band end bounds accumulate")
	assert.Equal(t, 3, chain[0].End)
}

func TestReadCtx_OverlapLinksRecorded(t *testing.T) {
	g := hypergraph.New()
	r := New(g)

	ctx := &readCtx{reader: r}
	atoms := make([]hypergraph.Atom, 0, 9)
	for _, c := range "abcabcabc" {
		atoms = append(atoms, hypergraph.Atom(c))
	}
	_, ok := ctx.run(atoms)
	require.True(t, ok)

	require.NotEmpty(t, ctx.links, "overlap fold must record links")
	link := ctx.links[0]
	assert.Equal(t, 6, link.Complement.Width)
	assert.Equal(t, 3, link.Overlap.Width)
}

func TestNew_NilGraphPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
