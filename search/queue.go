package search

import (
	"cmp"
	"container/heap"

	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/path"
)

// parentState is one queued comparison candidate: a graph-side span
// rooted at a parent decomposition, paired with the query cursor state
// at which the candidate was created.
type parentState struct {
	// graph is the checkpointed graph cursor; its committed side has
	// consumed the span up to the candidate's entry.
	graph path.Checkpointed[path.IndexRangePath]

	// query is the checkpointed query cursor carried into the
	// comparison.
	query path.Checkpointed[path.PatternRangePath]

	// width is the candidate root's width, the queue ordering key.
	width int

	// order breaks width ties deterministically: root index, pattern
	// id, entry.
	root  hypergraph.VertexIndex
	pid   hypergraph.PatternID
	entry int
}

// queue is a min-heap over parent candidates, ordered by the parent
// token's width: the smallest enclosing ancestor wins ties. Deferred
// descent batches order after all parent candidates in the original
// design; descent here is deterministic (lowest pattern id), so the
// queue holds parent candidates only.
type queue struct {
	nodes nodeHeap
}

func newQueue() *queue {
	q := &queue{}
	heap.Init(&q.nodes)
	return q
}

func (q *queue) push(s *parentState) {
	heap.Push(&q.nodes, s)
}

func (q *queue) pop() (*parentState, bool) {
	if q.nodes.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.nodes).(*parentState), true
}

func (q *queue) empty() bool {
	return q.nodes.Len() == 0
}

// nodeHeap implements heap.Interface.
type nodeHeap []*parentState

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].width != h[j].width {
		return h[i].width < h[j].width
	}
	if h[i].root != h[j].root {
		return h[i].root < h[j].root
	}
	if h[i].pid != h[j].pid {
		return h[i].pid < h[j].pid
	}
	return cmp.Compare(h[i].entry, h[j].entry) < 0
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(*parentState)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
