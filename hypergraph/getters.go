package hypergraph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// GetVertex returns a snapshot of the vertex with the given index.
func (g *HyperGraph) GetVertex(index VertexIndex) (Vertex, error) {
	if g == nil {
		return Vertex{}, ErrNilGraph
	}
	s, ok := g.slotForIndex(index)
	if !ok {
		return Vertex{}, ErrUnknownIndex
	}
	s.mu.RLock()
	v := s.data.snapshot()
	s.mu.RUnlock()
	return v, nil
}

// ExpectVertex returns a snapshot of the vertex with the given index,
// panicking if it does not exist. Use for indices the caller knows to
// be valid (e.g. tokens previously returned by the store); a miss is a
// programmer error.
func (g *HyperGraph) ExpectVertex(index VertexIndex) Vertex {
	v, err := g.GetVertex(index)
	if err != nil {
		panic(fmt.Sprintf("hypergraph: expected vertex %d: %v", index, err))
	}
	return v
}

// GetVertexByKey returns a snapshot of the vertex with the given
// content-addressed key.
func (g *HyperGraph) GetVertexByKey(key Key) (Vertex, error) {
	if g == nil {
		return Vertex{}, ErrNilGraph
	}
	s, ok := g.slotForKey(key)
	if !ok {
		return Vertex{}, ErrUnknownIndex
	}
	s.mu.RLock()
	v := s.data.snapshot()
	s.mu.RUnlock()
	return v, nil
}

// GetPatternAt returns a snapshot of the decomposition addressed by the
// location.
func (g *HyperGraph) GetPatternAt(loc PatternLocation) (Pattern, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	s, ok := g.slotForIndex(loc.Parent.Index)
	if !ok {
		return nil, ErrUnknownIndex
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.data.children) == 0 {
		return nil, ErrNoChildPatterns
	}
	p, ok := s.data.children[loc.PatternID]
	if !ok {
		return nil, ErrNoTokenPatterns
	}
	return p.Clone(), nil
}

// ExpectPatternAt returns the decomposition at the location, panicking
// if absent. A miss is a programmer error: locations are only produced
// by the store and by search traversals over it.
func (g *HyperGraph) ExpectPatternAt(loc PatternLocation) Pattern {
	p, err := g.GetPatternAt(loc)
	if err != nil {
		panic(fmt.Sprintf("hypergraph: expected pattern at %s: %v", loc, err))
	}
	return p
}

// ChildAt returns the token at a child location.
func (g *HyperGraph) ChildAt(loc ChildLocation) (Token, error) {
	p, err := g.GetPatternAt(loc.PatternLocation())
	if err != nil {
		return Token{}, err
	}
	if loc.SubIndex < 0 || loc.SubIndex >= len(p) {
		return Token{}, ErrInvalidPatternRange
	}
	return p[loc.SubIndex], nil
}

// ResolveToken re-reads a token against the store, returning it with
// the vertex's actual width. Guards callers against stale widths.
func (g *HyperGraph) ResolveToken(t Token) (Token, error) {
	if g == nil {
		return Token{}, ErrNilGraph
	}
	return g.resolveToken(t)
}

// AtomToken returns the token of an interned atom.
func (g *HyperGraph) AtomToken(a Atom) (Token, error) {
	if g == nil {
		return Token{}, ErrNilGraph
	}
	g.mu.RLock()
	key, ok := g.atomKeys[a]
	g.mu.RUnlock()
	if !ok {
		return Token{}, ErrUnknownAtom
	}
	s, ok := g.slotForKey(key)
	if !ok {
		return Token{}, ErrUnknownAtom
	}
	s.mu.RLock()
	tok := s.data.self
	s.mu.RUnlock()
	return tok, nil
}

// AtomTokens resolves a whole sequence of atoms, failing with
// [ErrUnknownAtom] on the first miss.
func (g *HyperGraph) AtomTokens(seq []Atom) ([]Token, error) {
	tokens := make([]Token, len(seq))
	for i, a := range seq {
		tok, err := g.AtomToken(a)
		if err != nil {
			return nil, err
		}
		tokens[i] = tok
	}
	return tokens, nil
}

// KnownAtom reports whether the atom has been interned.
func (g *HyperGraph) KnownAtom(a Atom) bool {
	if g == nil {
		return false
	}
	g.mu.RLock()
	_, ok := g.atomKeys[a]
	g.mu.RUnlock()
	return ok
}

// AtomOf returns the atom represented by an atomic vertex.
func (g *HyperGraph) AtomOf(index VertexIndex) (Atom, bool) {
	if g == nil {
		return 0, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	key, ok := g.byIndex[index]
	if !ok {
		return 0, false
	}
	a, ok := g.atoms[key]
	return a, ok
}

// TokenString renders the atom string covered by a token by expanding
// its lowest-id decomposition recursively. Intended for debugging and
// test assertions.
func (g *HyperGraph) TokenString(tok Token) string {
	var sb strings.Builder
	g.writeTokenString(&sb, tok)
	return sb.String()
}

func (g *HyperGraph) writeTokenString(sb *strings.Builder, tok Token) {
	if a, ok := g.AtomOf(tok.Index); ok {
		sb.WriteRune(rune(a))
		return
	}
	v, err := g.GetVertex(tok.Index)
	if err != nil {
		sb.WriteString("?")
		return
	}
	for _, p := range v.PatternSet() {
		for _, c := range p {
			g.writeTokenString(sb, c)
		}
		return // lowest-id decomposition only
	}
	sb.WriteString("?")
}

// Vertices returns snapshots of every vertex, sorted by index.
//
// The result is a point-in-time view assembled shard by shard; vertices
// created concurrently with the call may or may not be included.
func (g *HyperGraph) Vertices() []Vertex {
	if g == nil {
		return nil
	}
	var out []Vertex
	for i := range g.shards {
		sh := &g.shards[i]
		sh.mu.RLock()
		slots := make([]*slot, 0, len(sh.slots))
		for _, s := range sh.slots {
			slots = append(slots, s)
		}
		sh.mu.RUnlock()
		for _, s := range slots {
			s.mu.RLock()
			out = append(out, s.data.snapshot())
			s.mu.RUnlock()
		}
	}
	slices.SortFunc(out, func(a, b Vertex) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return out
}
