package hypergraph

import "fmt"

// PatternLocation addresses one alternative decomposition of a vertex.
type PatternLocation struct {
	Parent    Token
	PatternID PatternID
}

// String renders the location as parent#pattern.
func (l PatternLocation) String() string {
	return fmt.Sprintf("%s#%d", l.Parent, l.PatternID)
}

// Child combines the location with a sub-index, addressing a single
// child position inside the decomposition.
func (l PatternLocation) Child(subIndex int) ChildLocation {
	return ChildLocation{Parent: l.Parent, PatternID: l.PatternID, SubIndex: subIndex}
}

// SubLocation addresses a position within a decomposition, without
// naming the parent.
type SubLocation struct {
	PatternID PatternID
	SubIndex  int
}

// String renders the sub-location as pattern:sub.
func (l SubLocation) String() string {
	return fmt.Sprintf("%d:%d", l.PatternID, l.SubIndex)
}

// ChildLocation is the fundamental addressing primitive used by paths:
// a parent token, a pattern id, and a position within that pattern.
type ChildLocation struct {
	Parent    Token
	PatternID PatternID
	SubIndex  int
}

// PatternLocation projects the child location onto its decomposition.
func (l ChildLocation) PatternLocation() PatternLocation {
	return PatternLocation{Parent: l.Parent, PatternID: l.PatternID}
}

// SubLocation projects the child location onto its in-pattern position.
func (l ChildLocation) SubLocation() SubLocation {
	return SubLocation{PatternID: l.PatternID, SubIndex: l.SubIndex}
}

// String renders the location as parent#pattern:sub.
func (l ChildLocation) String() string {
	return fmt.Sprintf("%s#%d:%d", l.Parent, l.PatternID, l.SubIndex)
}

// PatternIndex records one occurrence of a child inside a parent: the
// decomposition id and the position within it.
type PatternIndex struct {
	PatternID PatternID
	SubIndex  int
}

// Parent is the snapshot of a parent back-edge set entry: the parent's
// width (for fast filtering during search) and every position at which
// the child occurs inside the parent's decompositions.
type Parent struct {
	Width     int
	Positions []PatternIndex
}

// HasPosition reports whether the child occurs at the given position.
func (p Parent) HasPosition(id PatternID, subIndex int) bool {
	for _, pi := range p.Positions {
		if pi.PatternID == id && pi.SubIndex == subIndex {
			return true
		}
	}
	return false
}
