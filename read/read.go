package read

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/insert"
	"github.com/simon-lentz/hypercontext/internal/trace"
	"github.com/simon-lentz/hypercontext/search"
)

// Reader drives search and insert over a left-to-right atom stream.
//
// A Reader is bound to one store and is safe for concurrent use; all
// per-read state lives in a per-call context.
type Reader struct {
	graph  *hypergraph.HyperGraph
	ins    *insert.Insert
	search *search.Search
	cfg    config
}

// Option configures reader construction behavior.
type Option func(*config)

// config holds internal configuration for a Reader.
type config struct {
	logger *slog.Logger
}

// WithLogger enables debug logging for read operations.
//
// Pass nil to disable logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// New creates a reader bound to the given store.
//
// Panics if graph is nil (programmer error).
func New(graph *hypergraph.HyperGraph, opts ...Option) *Reader {
	if graph == nil {
		panic("read.New: nil graph")
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reader{
		graph:  graph,
		ins:    insert.New(graph),
		search: search.New(graph),
		cfg:    cfg,
	}
}

// Graph returns the underlying store.
func (r *Reader) Graph() *hypergraph.HyperGraph {
	return r.graph
}

// ReadText NFC-normalizes the text, interns its runes as atoms, and
// reads the resulting sequence. Returns false for empty input.
func (r *Reader) ReadText(text string) (hypergraph.Token, bool) {
	normalized := norm.NFC.String(text)
	atoms := make([]hypergraph.Atom, 0, len(normalized))
	for _, c := range normalized {
		atoms = append(atoms, hypergraph.Atom(c))
	}
	return r.ReadSequence(atoms)
}

// ReadSequence reads an atom stream, producing a single root token
// covering it. Returns false for empty input.
func (r *Reader) ReadSequence(atoms []hypergraph.Atom) (hypergraph.Token, bool) {
	op := trace.Begin(context.Background(), r.cfg.logger, "hypercontext.read.read_sequence",
		slog.Int("atoms", len(atoms)),
	)

	ctx := &readCtx{reader: r}
	tok, ok := ctx.run(atoms)

	op.End(nil, slog.Bool("ok", ok), slog.Int("bands", len(ctx.chain)))
	return tok, ok
}

// readCtx is the per-call state of one read: the band chain and the
// overlap links discovered while folding.
type readCtx struct {
	reader *Reader
	chain  BandChain
	links  []OverlapLink
}

// run segments the stream and folds the block tokens.
func (c *readCtx) run(atoms []hypergraph.Atom) (hypergraph.Token, bool) {
	blocks := c.segment(atoms)
	if len(blocks) == 0 {
		return hypergraph.Token{}, false
	}

	root := blocks[0]
	c.chain = c.chain.Append(root)
	for _, block := range blocks[1:] {
		root = c.fold(root, block)
		c.chain = c.chain.Append(block)
	}
	return root, true
}

// segment splits the stream into alternating unknown/known runs and
// converts each run into one block token. Unknown atoms are interned
// on sight, so a repeated novel atom starts a known run.
func (c *readCtx) segment(atoms []hypergraph.Atom) []hypergraph.Token {
	g := c.reader.graph

	var blocks []hypergraph.Token
	var run []hypergraph.Token
	runKnown := false

	flush := func() {
		if len(run) == 0 {
			return
		}
		blocks = append(blocks, c.blockToken(run, runKnown))
		run = nil
	}

	for _, a := range atoms {
		known := g.KnownAtom(a)
		if len(run) > 0 && known != runKnown {
			flush()
		}
		runKnown = known
		run = append(run, g.InsertAtom(a))
	}
	flush()
	return blocks
}

// blockToken reduces one run to a single token. Known runs go through
// the insert engine so existing structure is reused; unknown runs are
// interned as a fresh vertex.
func (c *readCtx) blockToken(run []hypergraph.Token, known bool) hypergraph.Token {
	if len(run) == 1 {
		return run[0]
	}
	pattern := hypergraph.Pattern(run)
	if known {
		if tok, err := c.reader.ins.Insert(pattern); err == nil {
			return tok
		}
	}
	tok, err := c.reader.graph.InsertPattern(pattern)
	if err != nil {
		// Run tokens were just interned; a failure here means the store
		// lost an invariant.
		panic("read: block interning failed: " + err.Error())
	}
	return tok
}

// fold composes the accumulated root with the next band, stitching the
// band decomposition and any complement decomposition onto the new
// root.
func (c *readCtx) fold(root, band hypergraph.Token) hypergraph.Token {
	ins := c.reader.ins
	g := c.reader.graph

	next, err := ins.Insert(hypergraph.Pattern{root, band})
	if err != nil {
		var single *hypergraph.SingleIndexError
		if errors.As(err, &single) {
			return single.Found.Index
		}
		// Keep the widest covered prefix; the band stays a sibling
		// decomposition root.
		return root
	}

	// The chain decomposition [root band] is always present.
	if _, _, err := g.AddUniquePattern(next, hypergraph.Pattern{root, band}); err == nil {
		c.complement(next, root, band)
	}

	return next
}

// complement checks each [head tail] decomposition of the band for an
// overlap: when root+head already names a token, the complement
// decomposition [complement tail] is added to the new root and the
// link recorded.
func (c *readCtx) complement(next, root, band hypergraph.Token) {
	g := c.reader.graph
	v, err := g.GetVertex(band.Index)
	if err != nil {
		return
	}
	for _, p := range v.PatternSet() {
		if len(p) != 2 {
			continue
		}
		head, tail := p[0], p[1]
		comp, ok := c.existingToken(hypergraph.Pattern{root, head})
		if !ok {
			continue
		}
		if _, _, err := g.AddUniquePattern(next, hypergraph.Pattern{comp, tail}); err != nil {
			continue
		}
		c.links = append(c.links, OverlapLink{
			Band:       len(c.chain),
			Complement: comp,
			Overlap:    head,
		})
	}
}

// existingToken resolves a sequence to an existing vertex without
// creating anything.
func (c *readCtx) existingToken(seq hypergraph.Pattern) (hypergraph.Token, bool) {
	resp, err := c.reader.search.FindAncestor(seq)
	if err != nil {
		var single *hypergraph.SingleIndexError
		if errors.As(err, &single) {
			return single.Found.Index, true
		}
		return hypergraph.Token{}, false
	}
	if resp.QueryExhausted() && resp.IsFullToken() {
		return resp.RootToken(), true
	}
	return hypergraph.Token{}, false
}
