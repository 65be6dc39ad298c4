package search

import (
	"context"
	"log/slog"

	"github.com/simon-lentz/hypercontext/cache"
	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/internal/trace"
	"github.com/simon-lentz/hypercontext/path"
)

// Search runs ancestor and parent queries over a store.
//
// Search is stateless between calls and safe for concurrent use; every
// operation works on per-vertex snapshots and a per-operation trace
// cache.
type Search struct {
	graph *hypergraph.HyperGraph
	cfg   config
}

// Option configures search construction behavior.
type Option func(*config)

// config holds internal configuration for a Search.
type config struct {
	logger *slog.Logger
}

// WithLogger enables debug logging for search operations.
//
// Pass nil to disable logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// New creates a search engine bound to the given store.
//
// Panics if graph is nil (programmer error).
func New(graph *hypergraph.HyperGraph, opts ...Option) *Search {
	if graph == nil {
		panic("search.New: nil graph")
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Search{graph: graph, cfg: cfg}
}

// Graph returns the underlying store.
func (s *Search) Graph() *hypergraph.HyperGraph {
	return s.graph
}

// mode selects the traversal policy.
type mode uint8

const (
	// ancestorMode explores parents transitively until the queue drains.
	ancestorMode mode = iota

	// parentMode considers only the narrowest direct parents of the
	// start token and accepts only query-exhausted matches.
	parentMode
)

// FindAncestor finds the largest ancestor vertex whose decompositions
// contain the query as a contiguous subsequence.
//
// A single-token query returns [hypergraph.SingleIndexError]; an empty
// query returns [hypergraph.ErrEmptyPatterns]; no match at all returns
// an [ErrorState] wrapping [hypergraph.ErrNotFound].
func (s *Search) FindAncestor(query hypergraph.Pattern) (*Response, error) {
	op := trace.Begin(context.Background(), s.cfg.logger, "hypercontext.search.find_ancestor",
		slog.Int("query_len", len(query)),
	)
	resp, err := s.find(query, ancestorMode)
	op.End(err)
	return resp, err
}

// FindParent finds the largest matching direct parent of the query's
// first token. Only the narrowest parent batch is considered and only
// query-exhausted matches are accepted.
func (s *Search) FindParent(query hypergraph.Pattern) (*Response, error) {
	op := trace.Begin(context.Background(), s.cfg.logger, "hypercontext.search.find_parent",
		slog.Int("query_len", len(query)),
	)
	resp, err := s.find(query, parentMode)
	op.End(err)
	return resp, err
}

// FindSequence resolves a text to atom tokens and runs FindAncestor
// over them. Unknown atoms fail with [hypergraph.ErrUnknownAtom].
func (s *Search) FindSequence(text string) (*Response, error) {
	atoms := make([]hypergraph.Atom, 0, len(text))
	for _, r := range text {
		atoms = append(atoms, hypergraph.Atom(r))
	}
	tokens, err := s.graph.AtomTokens(atoms)
	if err != nil {
		return nil, &ErrorState{Reason: err}
	}
	return s.FindAncestor(hypergraph.Pattern(tokens))
}

// FindAncestorFrom resumes an ancestor search from the cursor of a
// previous response whose query was not exhausted. The candidate
// (speculatively advanced) cursor seeds the new start position.
func (s *Search) FindAncestorFrom(prev *Response) (*Response, error) {
	if prev == nil {
		return nil, &ErrorState{Reason: hypergraph.ErrNotFound}
	}
	if prev.QueryExhausted() {
		return prev, nil
	}

	cur := prev.End.Cursor
	seed := cur.Speculative
	if seed.AtomPos <= cur.Committed.AtomPos {
		// No probe was taken; advance one leaf ourselves.
		seed = cur.Committed.Clone()
		if !s.advanceQueryAtom(&seed) {
			return prev, nil
		}
	}

	start, ok := s.queryAtom(&seed)
	if !ok {
		return nil, &ErrorState{Reason: hypergraph.ErrNotFound}
	}

	qc := path.NewCheckpointed(seed)
	return s.run(qc, start, ancestorMode)
}

// find validates the query and runs the traversal.
func (s *Search) find(query hypergraph.Pattern, m mode) (*Response, error) {
	switch len(query) {
	case 0:
		return nil, &ErrorState{Reason: hypergraph.ErrEmptyPatterns}
	case 1:
		tok, err := s.graph.ResolveToken(query[0])
		if err != nil {
			return nil, &ErrorState{Reason: err}
		}
		return nil, &ErrorState{Reason: &hypergraph.SingleIndexError{
			Found: hypergraph.IndexWithPath{Index: tok, Path: []hypergraph.Token{tok}},
		}}
	}

	resolved := make(hypergraph.Pattern, len(query))
	for i, t := range query {
		tok, err := s.graph.ResolveToken(t)
		if err != nil {
			return nil, &ErrorState{Reason: err}
		}
		resolved[i] = tok
	}

	// The committed query cursor starts with the first token consumed.
	qcur := path.Cursor[path.PatternRangePath]{
		Path:    path.NewPatternRangePath(resolved),
		AtomPos: resolved[0].Width,
	}
	qc := path.NewCheckpointed(qcur)

	return s.run(qc, resolved[0], m)
}

// run drains the priority queue until a query-exhausted match emerges,
// falling back to the widest partial match.
func (s *Search) run(qc path.Checkpointed[path.PatternRangePath], start hypergraph.Token, m mode) (*Response, error) {
	tc := cache.New(start)
	q := newQueue()
	s.enqueueStart(q, tc, start, qc, m)

	var best *Response
	bestWidth := -1

	for {
		st, ok := q.pop()
		if !ok {
			break
		}
		res, matched := s.compareCandidate(st, tc, q, m)
		if res == nil {
			continue
		}
		if matched {
			// Smallest-width candidates run first, so the first
			// query-exhausted match is the tightest.
			return res, nil
		}
		if m == parentMode {
			// Parent search accepts only query-exhausted matches.
			continue
		}
		if w := res.End.Cursor.Committed.AtomPos; w > bestWidth {
			best, bestWidth = res, w
		}
	}

	if best != nil {
		return best, nil
	}
	return nil, &ErrorState{Reason: hypergraph.ErrNotFound}
}

// enqueueStart seeds the queue with the parents of the start token.
func (s *Search) enqueueStart(q *queue, tc *cache.TraceCache, start hypergraph.Token, qc path.Checkpointed[path.PatternRangePath], m mode) {
	v := s.graph.ExpectVertex(start.Index)

	minWidth := -1
	for _, parent := range v.Parents() {
		if minWidth < 0 || parent.Width < minWidth {
			minWidth = parent.Width
		}
	}

	for parentIndex, parent := range v.Parents() {
		if m == parentMode && parent.Width != minWidth {
			// Parent search stops at the narrowest batch; widening it
			// is a deliberate non-goal (kept aligned with the long
			// disabled wider-batch traversal).
			continue
		}
		ptok := hypergraph.Token{Index: parentIndex, Width: parent.Width}
		for _, pos := range parent.Positions {
			loc := ptok.At(pos.PatternID)
			pattern := s.graph.ExpectPatternAt(loc)

			gcur := path.Cursor[path.IndexRangePath]{
				Path:    path.NewIndexRangePath(loc, pos.SubIndex),
				AtomPos: qc.Committed.AtomPos,
			}
			gc := path.NewCheckpointed(gcur)

			tc.AddBottomEdge(ptok.Index, pattern.WidthBefore(pos.SubIndex),
				cache.DownKey(start, qc.Committed.AtomPos-start.Width),
				hypergraph.SubLocation{PatternID: pos.PatternID, SubIndex: pos.SubIndex})

			q.push(&parentState{
				graph: gc,
				query: qc.Clone(),
				width: parent.Width,
				root:  parentIndex,
				pid:   pos.PatternID,
				entry: pos.SubIndex,
			})
		}
	}
}

// enqueueRaised pushes the parent batch of a consumed root, raising the
// matched span one level. The start path gains the old root as its new
// outermost descent step.
func (s *Search) enqueueRaised(q *queue, tc *cache.TraceCache, gcCommitted path.Cursor[path.IndexRangePath], qc path.Checkpointed[path.PatternRangePath]) bool {
	old := gcCommitted.Path
	rootTok := old.RootToken()
	v := s.graph.ExpectVertex(rootTok.Index)

	raised := false
	for parentIndex, parent := range v.Parents() {
		ptok := hypergraph.Token{Index: parentIndex, Width: parent.Width}
		for _, pos := range parent.Positions {
			startLocs := make([]hypergraph.ChildLocation, 0, len(old.Start.Locations)+1)
			startLocs = append(startLocs, hypergraph.ChildLocation{
				Parent:    rootTok,
				PatternID: old.Root.Location.PatternID,
				SubIndex:  old.Start.RootEntry,
			})
			startLocs = append(startLocs, old.Start.Locations...)

			np := path.IndexRangePath{
				Root:  path.IndexRoot{Location: ptok.At(pos.PatternID)},
				Start: path.RolePath{RootEntry: pos.SubIndex, Locations: startLocs},
				End:   path.NewRolePath(pos.SubIndex),
			}

			gc := path.NewCheckpointed(path.Cursor[path.IndexRangePath]{
				Path:    np,
				AtomPos: gcCommitted.AtomPos,
			})

			tc.AddTopEdge(rootTok.Index, old.StartOffset(s.graph),
				cache.UpKey(ptok, gcCommitted.AtomPos))

			q.push(&parentState{
				graph: gc,
				query: path.NewCheckpointed(qc.Committed.Clone()),
				width: parent.Width,
				root:  parentIndex,
				pid:   pos.PatternID,
				entry: pos.SubIndex,
			})
			raised = true
		}
	}
	return raised
}

// compareCandidate runs the comparison state machine for one candidate.
// It returns (nil, false) when the candidate was raised or is a dead
// end, (response, true) on a query-exhausted match, and
// (response, false) for partial results.
func (s *Search) compareCandidate(st *parentState, tc *cache.TraceCache, q *queue, m mode) (*Response, bool) {
	qc := st.query
	gc := st.graph

	for {
		if !qc.Speculative.Path.CanAdvanceEnd(s.graph) {
			// Query exhausted on a committed position.
			qc.Exhaust()
			return s.buildResponse(tc, gc.Committed, qc, QueryExhausted), true
		}

		qc.ToCandidate()
		gc.ToCandidate()
		s.advanceQueryAtom(&qc.Speculative)

		if !gc.Speculative.Path.CanAdvanceEnd(s.graph) {
			// Graph root consumed while the query continues: raise the
			// match to the root's parents.
			if m == ancestorMode && s.enqueueRaised(q, tc, gc.Committed, qc) {
				return nil, false
			}
			// No parents available: the state itself is the result,
			// with the probe retained on the speculative cursor.
			return s.buildResponse(tc, gc.Committed, qc, ChildExhausted), false
		}
		s.advanceGraphAtom(&gc.Speculative, tc)

		qa, qok := s.queryAtom(&qc.Speculative)
		ga, gok := s.graphAtom(&gc.Speculative)
		if qok && gok && qa.Equal(ga) {
			s.normalizeQueryEnd(&qc.Speculative.Path)
			s.normalizeGraphEnd(&gc.Speculative.Path)
			qc.Commit()
			gc.Commit()
			continue
		}

		// Leaf mismatch: the checkpoint is the match.
		qc.Rollback()
		gc.Rollback()
		return s.buildResponse(tc, gc.Committed, qc, Mismatch), false
	}
}

// buildResponse assembles a Response from a committed graph cursor and
// the query cursor pair.
func (s *Search) buildResponse(tc *cache.TraceCache, gcCommitted path.Cursor[path.IndexRangePath], qc path.Checkpointed[path.PatternRangePath], reason Reason) *Response {
	p := gcCommitted.Path
	root := p.RootPattern(s.graph)

	startAtHead := p.Start.RootEntry == 0 && p.Start.AtPatternHeads()
	endAtTail := p.End.IsEmpty() && p.End.RootEntry == len(root)-1

	var coverage Coverage
	switch {
	case startAtHead && endAtTail:
		coverage = EntireRoot
	case startAtHead:
		coverage = Prefix
	case endAtTail:
		coverage = Postfix
	default:
		coverage = Range
	}

	return &Response{
		Cache: tc,
		End: MatchResult{
			Coverage: coverage,
			Reason:   reason,
			Path:     p.Clone(),
			Cursor:   qc.Clone(),
		},
	}
}
