package hypergraph

import (
	"slices"
	"strings"
)

// Pattern is an ordered sequence of tokens forming one decomposition.
//
// A stored pattern always has length >= 2; shorter sequences are
// rejected by the store ([HyperGraph.InsertPattern] returns the single
// token for length 1 and an error for length 0). Pattern values
// returned by getters are snapshots; mutating them does not affect the
// store.
type Pattern []Token

// Width returns the total atom width of the pattern.
func (p Pattern) Width() int {
	total := 0
	for _, t := range p {
		total += t.Width
	}
	return total
}

// Clone returns an independent copy of the pattern.
func (p Pattern) Clone() Pattern {
	return slices.Clone(p)
}

// Equal reports whether two patterns address the same token sequence.
//
// Token equality is index-only, matching [Token.Equal].
func (p Pattern) Equal(other Pattern) bool {
	if len(p) != len(other) {
		return false
	}
	for i, t := range p {
		if !t.Equal(other[i]) {
			return false
		}
	}
	return true
}

// String renders the pattern as a bracketed token list.
func (p Pattern) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, t := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// OffsetAt locates the absolute atom offset within the pattern.
//
// It returns the sub-index of the token containing the offset and the
// inner offset within that token. An inner offset of 0 means the atom
// offset aligns with the token boundary at that sub-index. Offsets must
// satisfy 0 <= offset <= p.Width(); an offset equal to the pattern
// width reports (len(p), 0).
func (p Pattern) OffsetAt(offset int) (subIndex, inner int) {
	acc := 0
	for i, t := range p {
		if offset < acc+t.Width {
			return i, offset - acc
		}
		acc += t.Width
	}
	return len(p), 0
}

// WidthBefore returns the summed width of tokens before subIndex.
func (p Pattern) WidthBefore(subIndex int) int {
	total := 0
	for _, t := range p[:subIndex] {
		total += t.Width
	}
	return total
}

// checkRange validates that [start, end) is a well-formed sub-range of
// the pattern. The empty range is permitted here; callers that forbid
// it check separately and report ErrEmptyRange.
func (p Pattern) checkRange(start, end int) error {
	if start < 0 || end > len(p) || start > end {
		return ErrInvalidPatternRange
	}
	return nil
}
