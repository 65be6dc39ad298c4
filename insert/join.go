package insert

import (
	"errors"

	"github.com/simon-lentz/hypercontext/hypergraph"
)

// joinRoot assembles the target token for the interval's range after
// all child splits are available.
func (ins *Insert) joinRoot(iv *IntervalGraph, splits splitMap) (hypergraph.Token, error) {
	init := iv.init
	root := init.Root.Parent

	switch init.Mode {
	case RootComplete:
		return root, nil
	case RootPrefix:
		res, err := ins.splitWith(root, init.EndBound, splits)
		if err != nil {
			return hypergraph.Token{}, err
		}
		return res.left, nil
	case RootPostfix:
		res, err := ins.splitWith(root, init.StartBound, splits)
		if err != nil {
			return hypergraph.Token{}, err
		}
		return res.right, nil
	default:
		return ins.joinInfix(iv, splits)
	}
}

// splitWith computes (or reuses) the root-level split at an offset.
func (ins *Insert) splitWith(tok hypergraph.Token, offset int, splits splitMap) (splitResult, error) {
	if res, ok := splits[splitKey{index: tok.Index, offset: offset}]; ok {
		return res, nil
	}
	res, err := ins.computeSplit(tok, offset, splits)
	if err != nil {
		return splitResult{}, err
	}
	splits[splitKey{index: tok.Index, offset: offset}] = res
	return res, nil
}

// joinInfix materializes an inner range of the root's matched
// decomposition: the fully covered token run merges into a run token,
// boundary tokens contribute their inner halves, the enclosing wrapper
// is factored into the root pattern in place, and overlap-preserving
// alternates are stitched onto the wrapper.
func (ins *Insert) joinInfix(iv *IntervalGraph, splits splitMap) (hypergraph.Token, error) {
	init := iv.init
	pattern := ins.graph.ExpectPatternAt(init.Root)

	i, innerS := pattern.OffsetAt(init.StartBound)
	j, innerE := pattern.OffsetAt(init.EndBound)

	// Left boundary: the range may begin inside pattern[i].
	var leftSplit, rightSplit *splitResult
	if innerS != 0 {
		res, ok := splits[splitKey{index: pattern[i].Index, offset: innerS}]
		if !ok {
			return hypergraph.Token{}, hypergraph.ErrInvalidPatternRange
		}
		leftSplit = &res
	}
	if innerE != 0 {
		res, ok := splits[splitKey{index: pattern[j].Index, offset: innerE}]
		if !ok {
			return hypergraph.Token{}, hypergraph.ErrInvalidPatternRange
		}
		rightSplit = &res
	}

	// Clean token range: factor it into the pattern directly.
	if leftSplit == nil && rightSplit == nil {
		tok, full, err := ins.graph.TryInsertRangeIn(init.Root, i, j)
		if err != nil {
			return hypergraph.Token{}, err
		}
		if full {
			return init.Root.Parent, nil
		}
		return tok, nil
	}

	runStart := i
	if leftSplit != nil {
		runStart = i + 1
	}
	run := pattern[runStart:j].Clone()

	// Merge the covered run into a single token when it spans several
	// children.
	var runTok *hypergraph.Token
	switch {
	case len(run) == 1:
		runTok = &run[0]
	case len(run) > 1:
		tok, err := ins.findOrCreate(run)
		if err != nil {
			return hypergraph.Token{}, err
		}
		runTok = &tok
	}

	// Target: inner halves of the boundaries around the run.
	targetSeq := hypergraph.Pattern{}
	if leftSplit != nil {
		targetSeq = append(targetSeq, leftSplit.right)
	}
	if runTok != nil {
		targetSeq = append(targetSeq, *runTok)
	}
	if rightSplit != nil {
		targetSeq = append(targetSeq, rightSplit.left)
	}
	target, err := ins.findOrCreate(targetSeq)
	if err != nil {
		return hypergraph.Token{}, err
	}

	// Wrapper: the full tokens enclosing the range, with the run
	// merged. Factored into the root pattern in place.
	wrapperSeq := hypergraph.Pattern{}
	if leftSplit != nil {
		wrapperSeq = append(wrapperSeq, pattern[i])
	}
	if runTok != nil {
		wrapperSeq = append(wrapperSeq, *runTok)
	}
	if rightSplit != nil {
		wrapperSeq = append(wrapperSeq, pattern[j])
	}

	wrapperEnd := j
	if rightSplit != nil {
		wrapperEnd = j + 1
	}

	if len(wrapperSeq) < 2 {
		// The range lies inside a single child: the child's own splits
		// already materialized the target.
		return target, nil
	}

	wrapper, err := ins.findOrCreate(wrapperSeq)
	if err != nil {
		return hypergraph.Token{}, err
	}
	if !wrapper.Equal(init.Root.Parent) {
		if err := ins.graph.ReplaceInPattern(init.Root, i, wrapperEnd, hypergraph.Pattern{wrapper}); err != nil {
			return hypergraph.Token{}, err
		}
	}

	// Overlap-preserving alternate: target plus the outer halves.
	altSeq := hypergraph.Pattern{}
	if leftSplit != nil {
		altSeq = append(altSeq, leftSplit.left)
	}
	altSeq = append(altSeq, target)
	if rightSplit != nil {
		altSeq = append(altSeq, rightSplit.right)
	}
	if len(altSeq) >= 2 {
		if _, _, err := ins.graph.AddUniquePattern(wrapper, altSeq); err != nil {
			return hypergraph.Token{}, err
		}
	}

	return target, nil
}

// findOrCreate resolves a token sequence to an existing vertex via an
// exact-match search, creating a fresh vertex otherwise. A length-1
// sequence is its own token.
func (ins *Insert) findOrCreate(seq hypergraph.Pattern) (hypergraph.Token, error) {
	switch len(seq) {
	case 0:
		return hypergraph.Token{}, hypergraph.ErrEmptyPatterns
	case 1:
		return seq[0], nil
	}

	resp, err := ins.search.FindAncestor(seq)
	if err != nil {
		var single *hypergraph.SingleIndexError
		if errors.As(err, &single) {
			return single.Found.Index, nil
		}
		if errors.Is(err, hypergraph.ErrNotFound) {
			return ins.graph.InsertPattern(seq)
		}
		return hypergraph.Token{}, err
	}
	if resp.QueryExhausted() && resp.IsFullToken() {
		return resp.RootToken(), nil
	}
	return ins.graph.InsertPattern(seq)
}
