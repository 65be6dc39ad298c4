package search

import (
	"github.com/simon-lentz/hypercontext/cache"
	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/path"
)

// lowestPattern returns the lowest-id decomposition of a compound
// token. Descent is deterministic: every decomposition of a vertex
// covers the same atom sequence, so leaf comparison is insensitive to
// the choice, and the lowest id makes traces reproducible.
func (s *Search) lowestPattern(tok hypergraph.Token) (hypergraph.PatternID, hypergraph.Pattern) {
	v := s.graph.ExpectVertex(tok.Index)
	for id, p := range v.Patterns() {
		return id, p
	}
	return 0, nil
}

// descendQueryToAtom pushes descent locations until the query cursor's
// end token is atomic.
func (s *Search) descendQueryToAtom(c *path.Cursor[path.PatternRangePath]) {
	for {
		tok, ok := c.Path.EndToken(s.graph)
		if !ok || tok.Width == 1 {
			return
		}
		id, _ := s.lowestPattern(tok)
		c.Path.End.Append(tok.At(id).Child(0))
	}
}

// advanceQueryAtom moves the speculative query cursor to the next leaf
// atom. Returns false if the query pattern is exhausted.
func (s *Search) advanceQueryAtom(c *path.Cursor[path.PatternRangePath]) bool {
	if !c.Path.AdvanceEnd(s.graph) {
		return false
	}
	s.descendQueryToAtom(c)
	c.AtomPos++
	return true
}

// queryAtom returns the atomic token under the speculative query
// cursor.
func (s *Search) queryAtom(c *path.Cursor[path.PatternRangePath]) (hypergraph.Token, bool) {
	tok, ok := c.Path.EndToken(s.graph)
	if !ok || tok.Width != 1 {
		return hypergraph.Token{}, false
	}
	return tok, true
}

// descendGraphToAtom pushes descent locations on the graph cursor until
// its end token is atomic, recording one bottom edge per step.
func (s *Search) descendGraphToAtom(c *path.Cursor[path.IndexRangePath], tc *cache.TraceCache) {
	for {
		tok, ok := c.Path.EndToken(s.graph)
		if !ok || tok.Width == 1 {
			return
		}
		id, p := s.lowestPattern(tok)
		loc := tok.At(id).Child(0)
		tc.AddBottomEdge(tok.Index, 0, cache.DownKey(p[0], c.AtomPos), loc.SubLocation())
		c.Path.End.Append(loc)
	}
}

// advanceGraphAtom moves the speculative graph cursor to the next leaf
// atom, recording trace edges for root-entry steps and descents.
// Returns false if the root decomposition is exhausted.
func (s *Search) advanceGraphAtom(c *path.Cursor[path.IndexRangePath], tc *cache.TraceCache) bool {
	if !c.Path.AdvanceEnd(s.graph) {
		return false
	}
	if c.Path.End.IsEmpty() {
		// A raise propagated to the root: record the down edge into the
		// entry token.
		root := c.Path.RootPattern(s.graph)
		e := c.Path.End.RootEntry
		tc.AddBottomEdge(
			c.Path.RootToken().Index,
			root.WidthBefore(e),
			cache.DownKey(root[e], c.AtomPos),
			hypergraph.SubLocation{PatternID: c.Path.Root.Location.PatternID, SubIndex: e},
		)
	}
	s.descendGraphToAtom(c, tc)
	c.AtomPos++
	return true
}

// graphAtom returns the atomic token under the speculative graph
// cursor.
func (s *Search) graphAtom(c *path.Cursor[path.IndexRangePath]) (hypergraph.Token, bool) {
	tok, ok := c.Path.EndToken(s.graph)
	if !ok || tok.Width != 1 {
		return hypergraph.Token{}, false
	}
	return tok, true
}

// normalizeQueryEnd pops end-path levels sitting at their pattern
// tails, so a span ending on a token boundary is represented at the
// highest such boundary. Applied to the speculative cursor just before
// committing.
func (s *Search) normalizeQueryEnd(p *path.PatternRangePath) {
	for {
		leaf, ok := p.End.Leaf()
		if !ok {
			return
		}
		pattern := s.graph.ExpectPatternAt(leaf.PatternLocation())
		if leaf.SubIndex != len(pattern)-1 {
			return
		}
		p.End.Pop()
	}
}

// normalizeGraphEnd is normalizeQueryEnd for the graph side.
func (s *Search) normalizeGraphEnd(p *path.IndexRangePath) {
	for {
		leaf, ok := p.End.Leaf()
		if !ok {
			return
		}
		pattern := s.graph.ExpectPatternAt(leaf.PatternLocation())
		if leaf.SubIndex != len(pattern)-1 {
			return
		}
		p.End.Pop()
	}
}
