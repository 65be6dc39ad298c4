package json

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/simon-lentz/hypercontext/diag"
	"github.com/simon-lentz/hypercontext/hypergraph"
)

// Error sentinels for internal adapter failures.
var (
	// ErrNilGraph indicates Encode was called with a nil store.
	ErrNilGraph = errors.New("json: nil *HyperGraph")
)

// vertexRecord is the wire form of one vertex.
type vertexRecord struct {
	Key           string                  `json:"key"`
	Index         uint64                  `json:"index"`
	Width         int                     `json:"width"`
	Atom          string                  `json:"atom,omitempty"`
	ChildPatterns map[string][]uint64     `json:"child_patterns,omitempty"`
	Parents       map[string]parentRecord `json:"parents,omitempty"`
}

// parentRecord is the wire form of one parent back-edge entry.
type parentRecord struct {
	Width     int      `json:"width"`
	Positions [][2]int `json:"positions"`
}

// snapshot is the wire form of a whole store.
type snapshot struct {
	Vertices []vertexRecord `json:"vertices"`
}

// Encode serializes the store to its snapshot form.
//
// Vertices are emitted in ascending index order; the output is
// deterministic for a given store state.
func Encode(g *hypergraph.HyperGraph) ([]byte, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	vertices := g.Vertices()
	records := make([]vertexRecord, 0, len(vertices))
	for _, v := range vertices {
		rec := vertexRecord{
			Key:   v.Key.String(),
			Index: uint64(v.Index),
			Width: v.Width,
		}
		if a, ok := g.AtomOf(v.Index); ok {
			rec.Atom = string(rune(a))
		}
		for id, p := range v.Patterns() {
			if rec.ChildPatterns == nil {
				rec.ChildPatterns = make(map[string][]uint64)
			}
			indices := make([]uint64, len(p))
			for i, c := range p {
				indices[i] = uint64(c.Index)
			}
			rec.ChildPatterns[strconv.Itoa(int(id))] = indices
		}
		for parentIndex, parent := range v.Parents() {
			if rec.Parents == nil {
				rec.Parents = make(map[string]parentRecord)
			}
			positions := make([][2]int, len(parent.Positions))
			for i, pi := range parent.Positions {
				positions[i] = [2]int{int(pi.PatternID), pi.SubIndex}
			}
			rec.Parents[strconv.FormatUint(uint64(parentIndex), 10)] = parentRecord{
				Width:     parent.Width,
				Positions: positions,
			}
		}
		records = append(records, rec)
	}

	return json.MarshalIndent(snapshot{Vertices: records}, "", "  ")
}

// Decode rebuilds a store from snapshot data.
//
// Input may be JSONC (comments and trailing commas are stripped).
// Return semantics follow the library convention: (graph, result, nil)
// means decoding completed — check result.OK() for content issues;
// a non-nil error reports malformed input or context cancellation.
// Records with content issues (dangling references, widths that do not
// close) are skipped and reported; the rest of the snapshot loads.
func Decode(ctx context.Context, data []byte, opts ...hypergraph.Option) (*hypergraph.HyperGraph, diag.Result, error) {
	if ctx == nil {
		panic("json.Decode: nil context")
	}

	var snap snapshot
	if err := json.Unmarshal(jsonc.ToJSON(data), &snap); err != nil {
		collector := diag.NewCollector(diag.NoLimit)
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_SNAPSHOT_SYNTAX, "malformed snapshot input").
			WithDetail(diag.DetailKeyFormat, "json").
			WithDetail(diag.DetailKeyDetail, err.Error()).
			Build())
		return nil, collector.Result(), fmt.Errorf("json: decode snapshot: %w", err)
	}

	collector := diag.NewCollector(diag.NoLimit)
	g := hypergraph.New(opts...)

	// Rebuild bottom-up: atoms first, then compound vertices in
	// ascending width order so children exist before their parents.
	records := slices.Clone(snap.Vertices)
	slices.SortFunc(records, func(a, b vertexRecord) int {
		if c := cmp.Compare(a.Width, b.Width); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	tokens := make(map[uint64]hypergraph.Token, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, diag.OK(), err
		}
		decodeRecord(g, rec, tokens, collector)
	}

	return g, collector.Result(), nil
}

// decodeRecord rebuilds one vertex, registering its new token under the
// snapshot index.
func decodeRecord(g *hypergraph.HyperGraph, rec vertexRecord, tokens map[uint64]hypergraph.Token, collector *diag.Collector) {
	if rec.Atom != "" {
		runes := []rune(rec.Atom)
		tokens[rec.Index] = g.InsertAtom(hypergraph.Atom(runes[0]))
		return
	}

	ids := make([]int, 0, len(rec.ChildPatterns))
	for idStr := range rec.ChildPatterns {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_SNAPSHOT_SYNTAX,
				fmt.Sprintf("vertex %d has non-numeric pattern id %q", rec.Index, idStr)).
				WithVertex(rec.Index).
				Build())
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var self hypergraph.Token
	created := false
	for _, id := range ids {
		indices := rec.ChildPatterns[strconv.Itoa(id)]
		pattern := make(hypergraph.Pattern, 0, len(indices))
		dangling := false
		for _, childIndex := range indices {
			child, ok := tokens[childIndex]
			if !ok {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_SNAPSHOT_REF,
					fmt.Sprintf("vertex %d references undefined vertex %d", rec.Index, childIndex)).
					WithVertex(rec.Index).
					WithDetail(diag.DetailKeyPatternID, strconv.Itoa(id)).
					Build())
				dangling = true
				break
			}
			pattern = append(pattern, child)
		}
		if dangling {
			continue
		}
		if w := pattern.Width(); w != rec.Width {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_SNAPSHOT_WIDTH,
				fmt.Sprintf("pattern %d of vertex %d has width %d, record says %d", id, rec.Index, w, rec.Width)).
				WithVertex(rec.Index).
				WithExpectedGot(strconv.Itoa(rec.Width), strconv.Itoa(w)).
				Build())
			continue
		}

		if !created {
			tok, err := g.InsertPattern(pattern)
			if err != nil {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_SNAPSHOT_SYNTAX,
					fmt.Sprintf("vertex %d pattern %d rejected: %v", rec.Index, id, err)).
					WithVertex(rec.Index).
					Build())
				continue
			}
			self = tok
			created = true
			continue
		}
		if _, err := g.AddPatternWithUpdate(self, pattern); err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_SNAPSHOT_WIDTH,
				fmt.Sprintf("vertex %d alternative pattern %d rejected: %v", rec.Index, id, err)).
				WithVertex(rec.Index).
				Build())
		}
	}

	if created {
		tokens[rec.Index] = self
	} else {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_SNAPSHOT_REF,
			fmt.Sprintf("vertex %d has no loadable decomposition", rec.Index)).
			WithVertex(rec.Index).
			Build())
	}
}
