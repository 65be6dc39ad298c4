// Package hypercontext provides a persistent, content-addressed index of
// token sequences organized as a hypergraph.
//
// Every distinct subsequence that has ever been observed becomes a named
// vertex, and every observed composition is preserved as an alternative
// child decomposition of its enclosing vertex. Three operations are
// offered over the index: search (locate the largest ancestor vertex
// whose decompositions contain a query as a contiguous subsequence),
// insert (extend the index so a subsequent search for the same sequence
// returns an exact full-token match), and read (drive search/insert from
// a left-to-right stream, producing a single root token covering the
// stream).
//
// # Architecture Overview
//
// The module is organized into layers with strict dependency ordering:
//
//	Foundation tier (no internal dependencies):
//	  - diag: Structured diagnostics with stable error codes
//
//	Core library tier:
//	  - hypergraph: Vertex store, tokens, patterns, locations, mutation ops
//	  - path: Rooted role paths, movers, and cursor state machine
//	  - cache: Per-operation trace cache of visited directed edges
//	  - search: Bottom-up ancestor search over the store
//	  - insert: Interval/split/join pipeline extending the store
//	  - read: Left-to-right stream driver over search and insert
//
//	Adapter tier:
//	  - adapter/json: Snapshot (de)serialization with JSONC input support
//
// # Entry Points
//
// Building and querying a store:
//
//	import (
//	    "github.com/simon-lentz/hypercontext/hypergraph"
//	    "github.com/simon-lentz/hypercontext/search"
//	)
//
//	g := hypergraph.New()
//	atoms := g.InsertAtoms([]hypergraph.Atom{'a', 'b', 'c'})
//	abc, err := g.InsertPattern(hypergraph.Pattern(atoms))
//
//	s := search.New(g)
//	resp, err := s.FindAncestor(hypergraph.Pattern(atoms))
//
// Extending the index:
//
//	import "github.com/simon-lentz/hypercontext/insert"
//
//	ins := insert.New(g)
//	token, err := ins.Insert(query)
//
// Reading a stream:
//
//	import "github.com/simon-lentz/hypercontext/read"
//
//	r := read.New(g)
//	root, ok := r.ReadText("abcabcabc")
//
// # Subpackages
//
// See the individual package documentation for detailed usage:
//
//   - [github.com/simon-lentz/hypercontext/diag]: Structured diagnostics
//   - [github.com/simon-lentz/hypercontext/hypergraph]: Vertex store
//   - [github.com/simon-lentz/hypercontext/path]: Paths and cursors
//   - [github.com/simon-lentz/hypercontext/cache]: Trace cache
//   - [github.com/simon-lentz/hypercontext/search]: Ancestor search
//   - [github.com/simon-lentz/hypercontext/insert]: Insert pipeline
//   - [github.com/simon-lentz/hypercontext/read]: Stream read driver
//   - [github.com/simon-lentz/hypercontext/adapter/json]: JSON snapshots
package hypercontext
