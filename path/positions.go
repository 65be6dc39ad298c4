package path

import (
	"github.com/simon-lentz/hypercontext/hypergraph"
)

// Annotated pairs a child location with the absolute atom position at
// which the traversal entered it, so later trace and split phases can
// recover positions without re-walking the graph.
type Annotated struct {
	Location hypergraph.ChildLocation
	EntryPos int
}

// WithPositions walks an end path, computing the absolute atom position
// at which each nested child location was entered. The entryPosition is
// the absolute position of the root entry itself (typically
// RootPattern.WidthBefore(RootEntry) relative to the root vertex).
func WithPositions(entryPosition int, r Resolver, rp RolePath) []Annotated {
	if len(rp.Locations) == 0 {
		return nil
	}
	annotated := make([]Annotated, 0, len(rp.Locations))
	pos := entryPosition
	for _, loc := range rp.Locations {
		pattern := r.ExpectPatternAt(loc.PatternLocation())
		pos += pattern.WidthBefore(loc.SubIndex)
		annotated = append(annotated, Annotated{Location: loc, EntryPos: pos})
	}
	return annotated
}

// EndPositions annotates the end role of a graph path with absolute
// positions relative to the root vertex start.
func EndPositions(r Resolver, p IndexRangePath) []Annotated {
	root := p.RootPattern(r)
	return WithPositions(root.WidthBefore(p.End.RootEntry), r, p.End)
}

// StartPositions annotates the start role of a graph path with absolute
// positions relative to the root vertex start.
func StartPositions(r Resolver, p IndexRangePath) []Annotated {
	root := p.RootPattern(r)
	return WithPositions(root.WidthBefore(p.Start.RootEntry), r, p.Start)
}
