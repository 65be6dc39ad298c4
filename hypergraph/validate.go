package hypergraph

import (
	"context"
	"fmt"
	"strconv"

	"github.com/simon-lentz/hypercontext/diag"
)

// Validate checks every vertex against the store invariants and reports
// violations as diagnostics.
//
// Checked invariants:
//   - Width closure: every child pattern of a vertex sums to the vertex
//     width (E_WIDTH_MISMATCH).
//   - Child widths: every pattern entry carries the actual width of the
//     child vertex it addresses (E_CHILD_MISMATCH).
//   - Parent consistency: every back-edge (P, pid, i) addresses a
//     position in P that actually holds this vertex, and every pattern
//     entry has a matching back-edge (E_PARENT_INCONSISTENT).
//
// Return semantics follow the teacherly two-channel convention:
// (result, nil) means the walk completed — check result.OK(); a non-nil
// error reports an internal failure or context cancellation.
func (g *HyperGraph) Validate(ctx context.Context) (diag.Result, error) {
	if g == nil {
		return diag.OK(), ErrNilGraph
	}
	if ctx == nil {
		panic("hypergraph.Validate: nil context")
	}

	collector := diag.NewCollector(diag.NoLimit)

	for _, v := range g.Vertices() {
		if err := ctx.Err(); err != nil {
			return diag.OK(), err
		}
		g.validateVertexInto(v, collector)
	}

	return collector.Result(), nil
}

// validateVertexInto checks a single vertex snapshot.
func (g *HyperGraph) validateVertexInto(v Vertex, collector *diag.Collector) {
	for id, p := range v.Patterns() {
		if w := p.Width(); w != v.Width {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_WIDTH_MISMATCH,
				fmt.Sprintf("pattern %d of vertex %d has width %d, vertex width is %d", id, v.Index, w, v.Width)).
				WithVertex(uint64(v.Index)).
				WithDetail(diag.DetailKeyPatternID, strconv.Itoa(int(id))).
				WithExpectedGot(strconv.Itoa(v.Width), strconv.Itoa(w)).
				Build())
		}
		for i, c := range p {
			child, err := g.GetVertex(c.Index)
			if err != nil {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_INDEX,
					fmt.Sprintf("pattern %d of vertex %d references missing vertex %d", id, v.Index, c.Index)).
					WithVertex(uint64(v.Index)).
					WithDetail(diag.DetailKeyPatternID, strconv.Itoa(int(id))).
					WithDetail(diag.DetailKeySubIndex, strconv.Itoa(i)).
					Build())
				continue
			}
			if child.Width != c.Width {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_CHILD_MISMATCH,
					fmt.Sprintf("pattern %d of vertex %d carries width %d for child %d, actual width is %d", id, v.Index, c.Width, c.Index, child.Width)).
					WithVertex(uint64(v.Index)).
					WithDetail(diag.DetailKeyPatternID, strconv.Itoa(int(id))).
					WithExpectedGot(strconv.Itoa(child.Width), strconv.Itoa(c.Width)).
					Build())
			}
			parent, ok := child.Parent(v.Index)
			if !ok || !parent.HasPosition(id, i) {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_PARENT_INCONSISTENT,
					fmt.Sprintf("child %d at %d:%d of vertex %d has no matching back-edge", c.Index, id, i, v.Index)).
					WithVertex(uint64(c.Index)).
					WithDetails(diag.ChildPosition(
						strconv.FormatUint(uint64(v.Index), 10),
						strconv.Itoa(int(id)),
						strconv.Itoa(i))...).
					Build())
			}
		}
	}

	// Reverse direction: every back-edge must address this vertex.
	for parentIndex, parent := range v.parents {
		pv, err := g.GetVertex(parentIndex)
		if err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_INDEX,
				fmt.Sprintf("vertex %d has back-edge to missing parent %d", v.Index, parentIndex)).
				WithVertex(uint64(v.Index)).
				WithDetail(diag.DetailKeyParent, strconv.FormatUint(uint64(parentIndex), 10)).
				Build())
			continue
		}
		for _, pi := range parent.Positions {
			p, ok := pv.Pattern(pi.PatternID)
			if !ok || pi.SubIndex >= len(p) || !p[pi.SubIndex].Equal(v.Token()) {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_PARENT_INCONSISTENT,
					fmt.Sprintf("back-edge of vertex %d to %d at %d:%d does not address it", v.Index, parentIndex, pi.PatternID, pi.SubIndex)).
					WithVertex(uint64(v.Index)).
					WithDetails(diag.ChildPosition(
						strconv.FormatUint(uint64(parentIndex), 10),
						strconv.Itoa(int(pi.PatternID)),
						strconv.Itoa(pi.SubIndex))...).
					Build())
			}
		}
	}
}

// maybeValidate re-checks a single vertex after a mutation when the
// store was built [WithValidation]. A violation panics: an invariant of
// the store has been lost and continuing would corrupt results.
func (g *HyperGraph) maybeValidate(index VertexIndex) {
	if !g.cfg.validate {
		return
	}
	v, err := g.GetVertex(index)
	if err != nil {
		panic(fmt.Sprintf("hypergraph: validation of missing vertex %d: %v", index, err))
	}
	collector := diag.NewCollector(diag.NoLimit)
	g.validateVertexInto(v, collector)
	if res := collector.Result(); !res.OK() {
		panic(fmt.Sprintf("hypergraph: invariant lost at vertex %d:\n%s", index, res.String()))
	}
}
