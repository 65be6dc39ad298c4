package insert

import (
	"cmp"
	"slices"

	"github.com/simon-lentz/hypercontext/cache"
	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/search"
)

// RootMode classifies how the target range sits inside the root.
type RootMode uint8

const (
	// RootComplete: the range covers the whole root; nothing to split.
	RootComplete RootMode = iota

	// RootPrefix: the range starts at the root's left border.
	RootPrefix

	// RootPostfix: the range reaches the root's right border.
	RootPostfix

	// RootInfix: the range is bordered on both sides.
	RootInfix
)

// String returns the mode label.
func (m RootMode) String() string {
	switch m {
	case RootComplete:
		return "complete"
	case RootPrefix:
		return "prefix"
	case RootPostfix:
		return "postfix"
	case RootInfix:
		return "infix"
	default:
		return "unknown"
	}
}

// InitInterval names the sub-range of a found root that insertion must
// materialize as a single token.
type InitInterval struct {
	// Root is the decomposition the search matched into.
	Root hypergraph.PatternLocation

	// Cache is the trace cache of the originating search.
	Cache *cache.TraceCache

	// StartBound and EndBound delimit the target range in absolute atom
	// offsets within the root vertex.
	StartBound int
	EndBound   int

	// Mode classifies the range against the root borders.
	Mode RootMode
}

// InitIntervalFrom derives the interval from a search response.
func InitIntervalFrom(resp *search.Response, r Resolver) InitInterval {
	p := resp.End.Path
	start := p.StartOffset(r)
	end := p.EndOffset(r)
	width := p.RootToken().Width

	var mode RootMode
	switch {
	case start == 0 && end == width:
		mode = RootComplete
	case start == 0:
		mode = RootPrefix
	case end == width:
		mode = RootPostfix
	default:
		mode = RootInfix
	}

	return InitInterval{
		Root:       p.Root.Location,
		Cache:      resp.Cache,
		StartBound: start,
		EndBound:   end,
		Mode:       mode,
	}
}

// splitKey identifies one required split position: a vertex and an atom
// offset strictly inside it.
type splitKey struct {
	index  hypergraph.VertexIndex
	offset int
}

// splitResult is the outcome of one split: tokens covering the left
// and right halves of the vertex around the offset.
type splitResult struct {
	left  hypergraph.Token
	right hypergraph.Token
}

// splitMap accumulates computed splits, bottom-up.
type splitMap map[splitKey]splitResult

// IntervalGraph is the pre-computed plan of which vertices must be
// split where. Offsets are traced from the root bounds down through
// every decomposition; a position that does not align with an existing
// pattern boundary recurses into the child it falls inside (an inner
// split). Leaves are the deepest traced positions; the split phase
// walks all traced vertices in ascending width rather than starting
// from the leaves.
type IntervalGraph struct {
	init InitInterval

	// offsets maps each traced vertex to the ascending atom offsets at
	// which it must split, together with the vertex width for ordering.
	offsets map[hypergraph.VertexIndex][]int
	widths  map[hypergraph.VertexIndex]int

	// leaves are the traced positions with no further inner splits.
	leaves []splitKey
}

// buildInterval performs split tracing for the interval bounds.
func buildInterval(r Resolver, init InitInterval) *IntervalGraph {
	iv := &IntervalGraph{
		init:    init,
		offsets: make(map[hypergraph.VertexIndex][]int),
		widths:  make(map[hypergraph.VertexIndex]int),
	}

	if init.Mode == RootComplete {
		return iv
	}

	root := init.Root.Parent

	switch init.Mode {
	case RootPrefix, RootPostfix:
		// The root itself splits at the inner bound; tracing the root
		// vertex covers every alternative decomposition it carries.
		for _, bound := range []int{init.StartBound, init.EndBound} {
			if bound > 0 && bound < root.Width {
				iv.trace(r, root, bound)
			}
		}
	default:
		// Infix: the root's matched decomposition is partitioned by the
		// join phase; only bounds falling inside its children require
		// child splits.
		rootPattern := r.ExpectPatternAt(init.Root)
		for _, bound := range []int{init.StartBound, init.EndBound} {
			if bound <= 0 || bound >= root.Width {
				continue
			}
			i, inner := rootPattern.OffsetAt(bound)
			if inner != 0 {
				iv.trace(r, rootPattern[i], inner)
			}
		}
	}

	slices.SortFunc(iv.leaves, func(a, b splitKey) int {
		if c := cmp.Compare(iv.widths[a.index], iv.widths[b.index]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.index, b.index); c != 0 {
			return c
		}
		return cmp.Compare(a.offset, b.offset)
	})
	return iv
}

// trace records a required split of tok at the given inner offset and
// recurses into children wherever the offset does not align with an
// existing boundary in one of tok's decompositions.
func (iv *IntervalGraph) trace(r Resolver, tok hypergraph.Token, offset int) {
	if offset <= 0 || offset >= tok.Width {
		return
	}
	if slices.Contains(iv.offsets[tok.Index], offset) {
		return
	}
	iv.offsets[tok.Index] = append(iv.offsets[tok.Index], offset)
	slices.Sort(iv.offsets[tok.Index])
	iv.widths[tok.Index] = tok.Width

	v := r.ExpectVertex(tok.Index)
	clean := true
	for _, p := range v.PatternSet() {
		if i, inner := p.OffsetAt(offset); inner != 0 {
			clean = false
			iv.trace(r, p[i], inner)
		}
	}
	if clean {
		iv.leaves = append(iv.leaves, splitKey{index: tok.Index, offset: offset})
	}
}

// ordered returns the traced vertices in ascending width order, the
// order in which the frontier processes them.
func (iv *IntervalGraph) ordered() []hypergraph.VertexIndex {
	out := make([]hypergraph.VertexIndex, 0, len(iv.offsets))
	for index := range iv.offsets {
		out = append(out, index)
	}
	slices.SortFunc(out, func(a, b hypergraph.VertexIndex) int {
		if c := cmp.Compare(iv.widths[a], iv.widths[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}
