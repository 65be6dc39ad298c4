package insert

import (
	"context"
	"errors"
	"log/slog"

	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/internal/trace"
	"github.com/simon-lentz/hypercontext/search"
)

// Insert extends the index with query sequences.
//
// Insert is stateless between calls; idempotence is provided by the
// leading search ([Insert.Insert] of an already-indexed pattern returns
// the existing token).
type Insert struct {
	graph  *hypergraph.HyperGraph
	search *search.Search
	cfg    config
}

// Option configures insert construction behavior.
type Option func(*config)

// config holds internal configuration for an Insert.
type config struct {
	logger *slog.Logger
}

// WithLogger enables debug logging for insert operations.
//
// Pass nil to disable logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// New creates an insert engine bound to the given store.
//
// Panics if graph is nil (programmer error).
func New(graph *hypergraph.HyperGraph, opts ...Option) *Insert {
	if graph == nil {
		panic("insert.New: nil graph")
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Insert{
		graph:  graph,
		search: search.New(graph),
		cfg:    cfg,
	}
}

// Graph returns the underlying store.
func (ins *Insert) Graph() *hypergraph.HyperGraph {
	return ins.graph
}

// Insert extends the index with the query, returning a token covering
// the whole query such that a fresh search for the same sequence
// returns an exact full-token match.
//
// Recovery semantics:
//   - a single-token query returns the existing token;
//   - a query that already names a vertex returns that vertex's token;
//   - a query with no ancestor at all is interned as a fresh vertex.
//
// Failures are wrapped in [search.ErrorState] carrying the best partial
// response available.
func (ins *Insert) Insert(query hypergraph.Pattern) (hypergraph.Token, error) {
	op := trace.Begin(context.Background(), ins.cfg.logger, "hypercontext.insert.insert",
		slog.Int("query_len", len(query)),
	)
	tok, err := ins.insert(query)
	op.End(err)
	return tok, err
}

func (ins *Insert) insert(query hypergraph.Pattern) (hypergraph.Token, error) {
	resp, err := ins.search.FindAncestor(query)
	if err != nil {
		var single *hypergraph.SingleIndexError
		switch {
		case errors.As(err, &single):
			// The query already is a full token.
			return single.Found.Index, nil
		case errors.Is(err, hypergraph.ErrNotFound):
			// Nothing to split: intern the query directly.
			return ins.graph.InsertPattern(query)
		default:
			return hypergraph.Token{}, err
		}
	}

	// Perfect match: the root token covers the query exactly.
	if resp.QueryExhausted() && resp.IsFullToken() {
		return resp.RootToken(), nil
	}

	matched, err := ins.InsertInit(resp, InitIntervalFrom(resp, ins.graph))
	if err != nil {
		return hypergraph.Token{}, &search.ErrorState{Reason: err, Found: resp}
	}

	if resp.QueryExhausted() {
		return matched, nil
	}

	// The query extends beyond the matched range: insert the remainder
	// and compose. Progress is guaranteed because the match consumed at
	// least the first query token.
	rest, err := ins.remainder(query, resp.End.Cursor.Committed.AtomPos)
	if err != nil {
		return hypergraph.Token{}, &search.ErrorState{Reason: err, Found: resp}
	}

	restTok, err := ins.insert(rest)
	if err != nil {
		return hypergraph.Token{}, err
	}

	final, err := ins.findOrCreate(hypergraph.Pattern{matched, restTok})
	if err != nil {
		return hypergraph.Token{}, &search.ErrorState{Reason: err, Found: resp}
	}
	return final, nil
}

// InsertInit materializes the interval's target range as a single
// token, running the split and join phases over the found root.
//
// The response argument provides extraction context (the originating
// search); the interval names the range. Exposed for the read driver.
func (ins *Insert) InsertInit(resp *search.Response, init InitInterval) (hypergraph.Token, error) {
	attrs := []slog.Attr{
		slog.String("mode", init.Mode.String()),
		slog.Int("start", init.StartBound),
		slog.Int("end", init.EndBound),
	}
	if resp != nil {
		attrs = append(attrs, slog.String("coverage", resp.End.Coverage.String()))
	}
	op := trace.Begin(context.Background(), ins.cfg.logger, "hypercontext.insert.insert_init", attrs...)

	iv := buildInterval(ins.graph, init)
	splits, err := ins.runSplits(iv)
	if err != nil {
		op.End(err)
		return hypergraph.Token{}, err
	}
	tok, err := ins.joinRoot(iv, splits)
	op.End(err)
	return tok, err
}

// SplitAt splits a stored vertex at an inner atom offset, returning
// tokens for its left and right halves and registering the [left right]
// partition as an alternative decomposition. Offsets at the borders are
// invalid.
func (ins *Insert) SplitAt(tok hypergraph.Token, offset int) (hypergraph.Token, hypergraph.Token, error) {
	resolved, err := ins.graph.ResolveToken(tok)
	if err != nil {
		return hypergraph.Token{}, hypergraph.Token{}, err
	}
	if offset <= 0 || offset >= resolved.Width {
		return hypergraph.Token{}, hypergraph.Token{}, hypergraph.ErrInvalidPatternRange
	}

	iv := &IntervalGraph{
		init:    InitInterval{Mode: RootInfix},
		offsets: make(map[hypergraph.VertexIndex][]int),
		widths:  make(map[hypergraph.VertexIndex]int),
	}
	iv.trace(ins.graph, resolved, offset)

	splits, err := ins.runSplits(iv)
	if err != nil {
		return hypergraph.Token{}, hypergraph.Token{}, err
	}
	res, ok := splits[splitKey{index: resolved.Index, offset: offset}]
	if !ok {
		return hypergraph.Token{}, hypergraph.Token{}, hypergraph.ErrInvalidPatternRange
	}
	return res.left, res.right, nil
}

// remainder re-expresses the query's unconsumed tail (atoms from pos
// onward) as a token sequence, splitting the query token the position
// falls inside when necessary.
func (ins *Insert) remainder(query hypergraph.Pattern, pos int) (hypergraph.Pattern, error) {
	i, inner := query.OffsetAt(pos)
	if inner == 0 {
		return query[i:].Clone(), nil
	}
	_, right, err := ins.SplitAt(query[i], inner)
	if err != nil {
		return nil, err
	}
	rest := hypergraph.Pattern{right}
	rest = append(rest, query[i+1:]...)
	return rest, nil
}
