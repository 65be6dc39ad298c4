package hypergraph

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/simon-lentz/hypercontext/internal/trace"
)

// InsertAtom interns an atom, returning its width-1 token.
//
// InsertAtom is idempotent per atom: inserting the same atom twice
// returns the same token.
func (g *HyperGraph) InsertAtom(a Atom) Token {
	key := atomKey(a)

	// Fast path: already interned.
	if s, ok := g.slotForKey(key); ok {
		s.mu.RLock()
		tok := s.data.self
		s.mu.RUnlock()
		return tok
	}

	sh := g.shardFor(key)
	sh.mu.Lock()
	if s, ok := sh.slots[key]; ok {
		// Another goroutine interned it between our check and the lock.
		sh.mu.Unlock()
		s.mu.RLock()
		tok := s.data.self
		s.mu.RUnlock()
		return tok
	}

	index := g.allocIndex()
	tok := Token{Index: index, Width: 1}

	// Register the index maps before the slot becomes visible, so a
	// token observed through the map always resolves via byIndex.
	g.mu.Lock()
	g.byIndex[index] = key
	g.atomKeys[a] = key
	g.atoms[key] = a
	g.mu.Unlock()

	sh.slots[key] = &slot{data: newVertexData(key, tok)}
	sh.mu.Unlock()

	trace.Debug(context.Background(), g.cfg.logger, "atom interned",
		slog.String("atom", a.String()),
		slog.Uint64("index", uint64(index)),
	)

	return tok
}

// InsertAtoms interns a sequence of atoms, returning their tokens in
// order.
func (g *HyperGraph) InsertAtoms(seq []Atom) []Token {
	tokens := make([]Token, len(seq))
	for i, a := range seq {
		tokens[i] = g.InsertAtom(a)
	}
	return tokens
}

// InsertPattern creates a new vertex from a pattern of length >= 2 and
// returns its token.
//
// A pattern of length 1 yields the single token unchanged; length 0 is
// an error ([ErrEmptyPatterns]). Patterns are not interned by content:
// distinct calls produce distinct vertices unless callers route through
// the insert engine.
func (g *HyperGraph) InsertPattern(p Pattern) (Token, error) {
	tok, _, err := g.InsertPatternWithID(p)
	return tok, err
}

// InsertPatternWithID creates a new vertex from a pattern and also
// returns the id of the created decomposition, so the caller can
// address it. For a length-1 pattern the returned id is 0 (no
// decomposition was created).
func (g *HyperGraph) InsertPatternWithID(p Pattern) (Token, PatternID, error) {
	if g == nil {
		return Token{}, 0, ErrNilGraph
	}
	switch len(p) {
	case 0:
		return Token{}, 0, ErrEmptyPatterns
	case 1:
		tok, err := g.resolveToken(p[0])
		return tok, 0, err
	}

	resolved, width, err := g.resolvePattern(p)
	if err != nil {
		return Token{}, 0, err
	}

	index := g.allocIndex()
	key := vertexKey(index)
	tok := Token{Index: index, Width: width}

	data := newVertexData(key, tok)
	id := data.addPattern(resolved)

	g.mu.Lock()
	g.byIndex[index] = key
	g.mu.Unlock()

	sh := g.shardFor(key)
	sh.mu.Lock()
	sh.slots[key] = &slot{data: data}
	sh.mu.Unlock()

	g.addPatternParents(tok, resolved, id, 0)

	trace.Debug(context.Background(), g.cfg.logger, "pattern vertex created",
		slog.Uint64("index", uint64(index)),
		slog.Int("width", width),
		slog.Int("children", len(resolved)),
	)

	g.maybeValidate(tok.Index)
	return tok, id, nil
}

// AddPatternWithUpdate adds an alternative decomposition to an existing
// vertex. The new pattern must have the same total width as the vertex.
func (g *HyperGraph) AddPatternWithUpdate(tok Token, p Pattern) (PatternID, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	if len(p) < 2 {
		if len(p) == 0 {
			return 0, ErrEmptyPatterns
		}
		return 0, ErrInvalidPatternRange
	}

	resolved, width, err := g.resolvePattern(p)
	if err != nil {
		return 0, err
	}

	s, ok := g.slotForIndex(tok.Index)
	if !ok {
		return 0, ErrUnknownIndex
	}

	s.mu.Lock()
	self := s.data.self
	if width != self.Width {
		s.mu.Unlock()
		return 0, &WidthMismatchError{Vertex: self, Want: self.Width, Got: width}
	}
	id := s.data.addPattern(resolved)
	s.mu.Unlock()

	g.addPatternParents(self, resolved, id, 0)

	g.maybeValidate(tok.Index)
	return id, nil
}

// AddUniquePattern adds a decomposition unless an equal one already
// exists, returning the decomposition's id and whether it was newly
// created. The insert engine routes alternative decompositions through
// this to keep decomposition sets duplicate-free.
func (g *HyperGraph) AddUniquePattern(tok Token, p Pattern) (PatternID, bool, error) {
	if g == nil {
		return 0, false, ErrNilGraph
	}

	resolved, _, err := g.resolvePattern(p)
	if err != nil {
		return 0, false, err
	}

	v, err := g.GetVertex(tok.Index)
	if err != nil {
		return 0, false, err
	}
	for id, existing := range v.Patterns() {
		if existing.Equal(resolved) {
			return id, false, nil
		}
	}

	id, err := g.AddPatternWithUpdate(tok, resolved)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ReplaceInPattern substitutes the sub-range [start, end) of a
// decomposition with a replacement pattern of equal width.
//
// The substitution happens in place: back-edges of removed children are
// dropped, back-edges of inserted children are added, and sub-indices
// of the pattern's tail are shifted. This is the sole in-place mutator
// of existing decompositions.
func (g *HyperGraph) ReplaceInPattern(loc PatternLocation, start, end int, repl Pattern) error {
	if g == nil {
		return ErrNilGraph
	}
	if len(repl) == 0 {
		return ErrEmptyPatterns
	}

	resolvedRepl, _, err := g.resolvePattern(repl)
	if err != nil {
		return err
	}

	s, ok := g.slotForIndex(loc.Parent.Index)
	if !ok {
		return ErrUnknownIndex
	}

	if err := g.replaceInPatternLocked(s, loc, start, end, resolvedRepl); err != nil {
		return err
	}
	g.maybeValidate(loc.Parent.Index)
	return nil
}

// replaceInPatternLocked performs the substitution under the parent
// slot's write lock. Parent first, then children in ascending index
// order.
func (g *HyperGraph) replaceInPatternLocked(s *slot, loc PatternLocation, start, end int, resolvedRepl Pattern) error {
	replWidth := resolvedRepl.Width()

	s.mu.Lock()
	defer s.mu.Unlock()

	self := s.data.self
	pattern, ok := s.data.children[loc.PatternID]
	if !ok {
		return ErrNoTokenPatterns
	}
	if err := pattern.checkRange(start, end); err != nil {
		return err
	}
	if start == end {
		return ErrEmptyRange
	}

	replaced := pattern[start:end]
	if w := replaced.Width(); w != replWidth {
		return &WidthMismatchError{Vertex: self, Want: w, Got: replWidth}
	}

	oldEnd := end
	newEnd := start + len(resolvedRepl)

	next := make(Pattern, 0, len(pattern)-len(replaced)+len(resolvedRepl))
	next = append(next, pattern[:start]...)
	next = append(next, resolvedRepl...)
	next = append(next, pattern[end:]...)

	// Per-child back-edge adjustments, grouped so each child slot is
	// locked exactly once.
	type adjust struct {
		remove []PatternIndex
		add    []PatternIndex
	}
	adjusts := make(map[VertexIndex]*adjust)
	edit := func(index VertexIndex) *adjust {
		a, ok := adjusts[index]
		if !ok {
			a = &adjust{}
			adjusts[index] = a
		}
		return a
	}

	for i, c := range replaced {
		edit(c.Index).remove = append(edit(c.Index).remove,
			PatternIndex{PatternID: loc.PatternID, SubIndex: start + i})
	}
	for j := end; j < len(pattern); j++ {
		c := pattern[j]
		edit(c.Index).remove = append(edit(c.Index).remove,
			PatternIndex{PatternID: loc.PatternID, SubIndex: j})
		edit(c.Index).add = append(edit(c.Index).add,
			PatternIndex{PatternID: loc.PatternID, SubIndex: j - oldEnd + newEnd})
	}
	for k, c := range resolvedRepl {
		edit(c.Index).add = append(edit(c.Index).add,
			PatternIndex{PatternID: loc.PatternID, SubIndex: start + k})
	}

	s.data.children[loc.PatternID] = next

	indices := make([]VertexIndex, 0, len(adjusts))
	for index := range adjusts {
		indices = append(indices, index)
	}
	slices.SortFunc(indices, func(a, b VertexIndex) int { return cmp.Compare(a, b) })

	for _, index := range indices {
		cs, ok := g.slotForIndex(index)
		if !ok {
			continue
		}
		a := adjusts[index]
		cs.mu.Lock()
		for _, pi := range a.remove {
			cs.data.removeParent(self.Index, pi.PatternID, pi.SubIndex)
		}
		for _, pi := range a.add {
			cs.data.addParent(self, pi.PatternID, pi.SubIndex)
		}
		cs.mu.Unlock()
	}

	trace.Debug(context.Background(), g.cfg.logger, "pattern range replaced",
		slog.Uint64("parent", uint64(self.Index)),
		slog.Int("pattern_id", int(loc.PatternID)),
		slog.Int("start", start),
		slog.Int("end", end),
	)

	return nil
}

// InsertRangeIn factors the sub-range [start, end) of a decomposition
// into a fresh child vertex, updating the parent pattern in place.
//
// A range covering the full pattern is rejected with [ErrUnnecessary]
// (it would re-create the same vertex); use [HyperGraph.TryInsertRangeIn]
// to receive the parent token instead.
func (g *HyperGraph) InsertRangeIn(loc PatternLocation, start, end int) (Token, error) {
	tok, full, err := g.TryInsertRangeIn(loc, start, end)
	if err != nil {
		return Token{}, err
	}
	if full {
		return Token{}, ErrUnnecessary
	}
	return tok, nil
}

// InsertRangeInOrDefault is [HyperGraph.InsertRangeIn] that returns the
// parent token instead of [ErrUnnecessary] when the range covers the
// whole pattern.
func (g *HyperGraph) InsertRangeInOrDefault(loc PatternLocation, start, end int) (Token, error) {
	tok, full, err := g.TryInsertRangeIn(loc, start, end)
	if err != nil {
		return Token{}, err
	}
	if full {
		return g.resolveToken(loc.Parent)
	}
	return tok, nil
}

// TryInsertRangeIn is [HyperGraph.InsertRangeIn] that tolerates a range
// covering the whole pattern: in that case the parent token is returned
// with full=true and no mutation is performed.
func (g *HyperGraph) TryInsertRangeIn(loc PatternLocation, start, end int) (Token, bool, error) {
	if g == nil {
		return Token{}, false, ErrNilGraph
	}

	pattern, err := g.GetPatternAt(loc)
	if err != nil {
		return Token{}, false, err
	}
	if err := pattern.checkRange(start, end); err != nil {
		return Token{}, false, err
	}

	inner := pattern[start:end]
	switch {
	case len(inner) == 0:
		return Token{}, false, ErrEmptyRange
	case len(inner) == 1:
		return inner[0], false, nil
	case len(pattern) > len(inner):
		c, err := g.InsertPattern(Pattern(inner).Clone())
		if err != nil {
			return Token{}, false, err
		}
		if err := g.ReplaceInPattern(loc, start, end, Pattern{c}); err != nil {
			return Token{}, false, err
		}
		return c, false, nil
	default:
		parent, err := g.resolveToken(loc.Parent)
		if err != nil {
			return Token{}, false, err
		}
		return parent, true, nil
	}
}

// resolveToken re-reads the actual width of a token's vertex, guarding
// against stale widths carried by the caller.
func (g *HyperGraph) resolveToken(t Token) (Token, error) {
	s, ok := g.slotForIndex(t.Index)
	if !ok {
		return Token{}, ErrUnknownIndex
	}
	s.mu.RLock()
	tok := s.data.self
	s.mu.RUnlock()
	return tok, nil
}

// resolvePattern resolves every token of a pattern against the store
// and returns the corrected pattern plus its total width.
func (g *HyperGraph) resolvePattern(p Pattern) (Pattern, int, error) {
	resolved := make(Pattern, len(p))
	width := 0
	for i, t := range p {
		tok, err := g.resolveToken(t)
		if err != nil {
			return nil, 0, err
		}
		resolved[i] = tok
		width += tok.Width
	}
	return resolved, width, nil
}

// addPatternParents adds a back-edge to every child of a pattern,
// locking children in ascending index order. Positions start at the
// given offset within the decomposition.
func (g *HyperGraph) addPatternParents(parent Token, p Pattern, id PatternID, start int) {
	type occurrence struct {
		index VertexIndex
		subs  []int
	}
	grouped := make(map[VertexIndex]*occurrence)
	for i, c := range p {
		o, ok := grouped[c.Index]
		if !ok {
			o = &occurrence{index: c.Index}
			grouped[c.Index] = o
		}
		o.subs = append(o.subs, start+i)
	}

	order := make([]VertexIndex, 0, len(grouped))
	for index := range grouped {
		order = append(order, index)
	}
	slices.SortFunc(order, func(a, b VertexIndex) int { return cmp.Compare(a, b) })

	for _, index := range order {
		s, ok := g.slotForIndex(index)
		if !ok {
			continue
		}
		o := grouped[index]
		s.mu.Lock()
		for _, sub := range o.subs {
			s.data.addParent(parent, id, sub)
		}
		s.mu.Unlock()
	}
}
