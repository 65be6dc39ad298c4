package insert

import (
	"fmt"

	"github.com/simon-lentz/hypercontext/hypergraph"
)

// Resolver is the store capability surface the split and join phases
// need. *hypergraph.HyperGraph satisfies it.
type Resolver interface {
	ExpectVertex(hypergraph.VertexIndex) hypergraph.Vertex
	ExpectPatternAt(hypergraph.PatternLocation) hypergraph.Pattern
}

// runSplits processes the traced vertices bottom-up (ascending width),
// computing the left/right split tokens for every required offset.
// Child splits are always available when a parent needs them because
// widths strictly decrease downward.
func (ins *Insert) runSplits(iv *IntervalGraph) (splitMap, error) {
	splits := make(splitMap)
	for _, index := range iv.ordered() {
		tok := hypergraph.Token{Index: index, Width: iv.widths[index]}
		for _, offset := range iv.offsets[index] {
			res, err := ins.computeSplit(tok, offset, splits)
			if err != nil {
				return nil, err
			}
			splits[splitKey{index: index, offset: offset}] = res
		}
	}
	return splits, nil
}

// computeSplit partitions one vertex around an atom offset. For every
// decomposition the offset either aligns with a boundary (clean) or
// falls inside a child whose own split has already been computed
// (inner). The resulting [left right] partition is registered as an
// alternative decomposition of the vertex unless it duplicates an
// existing one.
func (ins *Insert) computeSplit(tok hypergraph.Token, offset int, splits splitMap) (splitResult, error) {
	if offset <= 0 || offset >= tok.Width {
		return splitResult{}, hypergraph.ErrInvalidPatternRange
	}

	v := ins.graph.ExpectVertex(tok.Index)

	var leftSeqs, rightSeqs []hypergraph.Pattern
	for _, p := range v.PatternSet() {
		i, inner := p.OffsetAt(offset)
		if inner == 0 {
			leftSeqs = append(leftSeqs, p[:i].Clone())
			rightSeqs = append(rightSeqs, p[i:].Clone())
			continue
		}
		child, ok := splits[splitKey{index: p[i].Index, offset: inner}]
		if !ok {
			return splitResult{}, fmt.Errorf("%w: missing child split %s@%d", hypergraph.ErrInternal, p[i], inner)
		}
		left := append(p[:i].Clone(), child.left)
		right := append(hypergraph.Pattern{child.right}, p[i+1:]...)
		leftSeqs = append(leftSeqs, left)
		rightSeqs = append(rightSeqs, right)
	}

	left, err := ins.mergeHalf(leftSeqs)
	if err != nil {
		return splitResult{}, err
	}
	right, err := ins.mergeHalf(rightSeqs)
	if err != nil {
		return splitResult{}, err
	}

	// Register the partition as an alternative decomposition; an equal
	// existing decomposition is reused unchanged.
	if _, _, err := ins.graph.AddUniquePattern(tok, hypergraph.Pattern{left, right}); err != nil {
		return splitResult{}, err
	}

	return splitResult{left: left, right: right}, nil
}

// mergeHalf reduces the per-decomposition sequences of one half to a
// single token: an existing single token is used directly; otherwise
// the first sequence names a vertex and the remaining sequences become
// its alternative decompositions.
func (ins *Insert) mergeHalf(seqs []hypergraph.Pattern) (hypergraph.Token, error) {
	// Prefer a half that already is a single token.
	for _, seq := range seqs {
		if len(seq) == 1 {
			return seq[0], nil
		}
	}

	tok, err := ins.findOrCreate(seqs[0])
	if err != nil {
		return hypergraph.Token{}, err
	}
	for _, seq := range seqs[1:] {
		if _, _, err := ins.graph.AddUniquePattern(tok, seq); err != nil {
			return hypergraph.Token{}, err
		}
	}
	return tok, nil
}
