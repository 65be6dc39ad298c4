package path

import (
	"github.com/simon-lentz/hypercontext/hypergraph"
)

// PatternRangePath addresses a span of the query: its root is a literal
// pattern rather than a stored decomposition.
type PatternRangePath struct {
	// Pattern is the literal root pattern (the query).
	Pattern hypergraph.Pattern

	// Start and End are the role paths bounding the span.
	Start RolePath
	End   RolePath
}

// NewPatternRangePath creates a query path covering the first token:
// both roles enter at it.
func NewPatternRangePath(pattern hypergraph.Pattern) PatternRangePath {
	return PatternRangePath{
		Pattern: pattern.Clone(),
		Start:   NewRolePath(0),
		End:     NewRolePath(0),
	}
}

// Clone returns an independent copy.
func (p PatternRangePath) Clone() PatternRangePath {
	return PatternRangePath{
		Pattern: p.Pattern.Clone(),
		Start:   p.Start.Clone(),
		End:     p.End.Clone(),
	}
}

// Exhausted reports whether the end role has consumed the entire root
// pattern: the end entry sits at the last token with an empty end path.
func (p PatternRangePath) Exhausted() bool {
	return p.End.RootEntry >= len(p.Pattern)-1 && p.End.IsEmpty()
}

// EndToken returns the token under the end role at its current depth.
func (p PatternRangePath) EndToken(r Resolver) (hypergraph.Token, bool) {
	if leaf, ok := p.End.Leaf(); ok {
		pattern := r.ExpectPatternAt(leaf.PatternLocation())
		if leaf.SubIndex >= len(pattern) {
			return hypergraph.Token{}, false
		}
		return pattern[leaf.SubIndex], true
	}
	if p.End.RootEntry >= len(p.Pattern) {
		return hypergraph.Token{}, false
	}
	return p.Pattern[p.End.RootEntry], true
}

// AdvanceEnd moves the end role to the next leaf position, raising
// across pattern borders and advancing the root entry when a border
// propagates all the way up. Returns false when the root pattern is
// exhausted; the path is unchanged in that case.
func (p *PatternRangePath) AdvanceEnd(r Resolver) bool {
	if !p.CanAdvanceEnd(r) {
		return false
	}
	for {
		if p.End.IsEmpty() {
			p.End.RootEntry++
			return true
		}
		if p.End.AdvanceLeaf(r) {
			return true
		}
		p.End.Pop()
	}
}

// CanAdvanceEnd reports whether AdvanceEnd would advance.
func (p PatternRangePath) CanAdvanceEnd(r Resolver) bool {
	for _, loc := range p.End.Locations {
		pattern := r.ExpectPatternAt(loc.PatternLocation())
		if loc.SubIndex+1 < len(pattern) {
			return true
		}
	}
	return p.End.RootEntry+1 < len(p.Pattern)
}

// IndexRoot names the root of a graph-side path: one decomposition of
// a stored vertex.
type IndexRoot struct {
	Location hypergraph.PatternLocation
}

// IndexRangePath addresses a span inside the store: its root is a
// decomposition location, and the two role paths descend from entries
// of that decomposition.
type IndexRangePath struct {
	Root  IndexRoot
	Start RolePath
	End   RolePath
}

// NewIndexRangePath creates a graph path rooted at the given
// decomposition, with both roles entering at the given sub-index.
func NewIndexRangePath(loc hypergraph.PatternLocation, entry int) IndexRangePath {
	return IndexRangePath{
		Root:  IndexRoot{Location: loc},
		Start: NewRolePath(entry),
		End:   NewRolePath(entry),
	}
}

// Clone returns an independent copy.
func (p IndexRangePath) Clone() IndexRangePath {
	return IndexRangePath{
		Root:  p.Root,
		Start: p.Start.Clone(),
		End:   p.End.Clone(),
	}
}

// RootToken returns the vertex owning the root decomposition.
func (p IndexRangePath) RootToken() hypergraph.Token {
	return p.Root.Location.Parent
}

// RootPattern resolves the root decomposition.
func (p IndexRangePath) RootPattern(r Resolver) hypergraph.Pattern {
	return r.ExpectPatternAt(p.Root.Location)
}

// EndToken returns the token under the end role at its current depth.
func (p IndexRangePath) EndToken(r Resolver) (hypergraph.Token, bool) {
	if leaf, ok := p.End.Leaf(); ok {
		pattern := r.ExpectPatternAt(leaf.PatternLocation())
		if leaf.SubIndex >= len(pattern) {
			return hypergraph.Token{}, false
		}
		return pattern[leaf.SubIndex], true
	}
	root := p.RootPattern(r)
	if p.End.RootEntry >= len(root) {
		return hypergraph.Token{}, false
	}
	return root[p.End.RootEntry], true
}

// CanAdvanceEnd reports whether AdvanceEnd would advance.
func (p IndexRangePath) CanAdvanceEnd(r Resolver) bool {
	for _, loc := range p.End.Locations {
		pattern := r.ExpectPatternAt(loc.PatternLocation())
		if loc.SubIndex+1 < len(pattern) {
			return true
		}
	}
	return p.End.RootEntry+1 < len(p.RootPattern(r))
}

// AdvanceEnd moves the end role to the next leaf position, raising
// across borders. Returns false when the root decomposition is
// exhausted; the path is unchanged in that case.
func (p *IndexRangePath) AdvanceEnd(r Resolver) bool {
	if !p.CanAdvanceEnd(r) {
		return false
	}
	for {
		if p.End.IsEmpty() {
			p.End.RootEntry++
			return true
		}
		if p.End.AdvanceLeaf(r) {
			return true
		}
		p.End.Pop()
	}
}

// StartOffset computes the absolute atom offset of the span start
// within the root vertex.
func (p IndexRangePath) StartOffset(r Resolver) int {
	root := p.RootPattern(r)
	offset := root.WidthBefore(p.Start.RootEntry)
	for _, loc := range p.Start.Locations {
		pattern := r.ExpectPatternAt(loc.PatternLocation())
		offset += pattern.WidthBefore(loc.SubIndex)
	}
	return offset
}

// EndOffset computes the absolute atom offset just past the end role's
// current token within the root vertex.
func (p IndexRangePath) EndOffset(r Resolver) int {
	root := p.RootPattern(r)
	offset := root.WidthBefore(p.End.RootEntry)
	for _, loc := range p.End.Locations {
		pattern := r.ExpectPatternAt(loc.PatternLocation())
		offset += pattern.WidthBefore(loc.SubIndex)
	}
	if tok, ok := p.EndToken(r); ok {
		offset += tok.Width
	}
	return offset
}

// IndexStartPath is a single-role view of a graph path: only the start
// border is tracked, addressing a postfix of the root.
type IndexStartPath struct {
	Root IndexRoot
	Path RolePath
}

// IndexEndPath is a single-role view of a graph path: only the end
// border is tracked, addressing a prefix of the root.
type IndexEndPath struct {
	Root IndexRoot
	Path RolePath
}

// StartPath projects the range path onto its start role.
func (p IndexRangePath) StartPath() IndexStartPath {
	return IndexStartPath{Root: p.Root, Path: p.Start.Clone()}
}

// EndPath projects the range path onto its end role.
func (p IndexRangePath) EndPath() IndexEndPath {
	return IndexEndPath{Root: p.Root, Path: p.End.Clone()}
}
