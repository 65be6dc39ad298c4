package hypergraph

import (
	"sync"
	"sync/atomic"
)

// shardCount is the number of shards in the concurrent vertex map.
// Shard selection hashes the content-addressed key, so contention is
// spread uniformly regardless of insertion order.
const shardCount = 32

// shard is one bucket of the concurrent vertex map. The shard lock
// guards the map structure only; vertex records are guarded by their
// own slot locks.
type shard struct {
	mu    sync.RWMutex
	slots map[Key]*slot
}

// HyperGraph is the vertex store: the only component with global
// mutable state. Everything else in the module is pure over immutable
// snapshots of it.
//
// HyperGraph is safe for concurrent use. See the package documentation
// for the locking discipline.
type HyperGraph struct {
	cfg config

	shards [shardCount]shard

	// mu guards the secondary index maps below.
	mu       sync.RWMutex
	byIndex  map[VertexIndex]Key
	atomKeys map[Atom]Key
	atoms    map[Key]Atom

	// counter allocates vertex indices; the first allocated index is 1,
	// so the zero Token never addresses a vertex.
	counter atomic.Uint64
}

// New creates an empty store.
//
// Options configure logging ([WithLogger]) and post-mutation invariant
// checking ([WithValidation]).
func New(opts ...Option) *HyperGraph {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &HyperGraph{
		cfg:      cfg,
		byIndex:  make(map[VertexIndex]Key),
		atomKeys: make(map[Atom]Key),
		atoms:    make(map[Key]Atom),
	}
	for i := range g.shards {
		g.shards[i].slots = make(map[Key]*slot)
	}
	return g
}

// shardFor selects the shard owning a key.
func (g *HyperGraph) shardFor(key Key) *shard {
	// uuid bytes are uniformly distributed; the first byte suffices.
	return &g.shards[int(key[0])%shardCount]
}

// allocIndex allocates the next vertex index.
func (g *HyperGraph) allocIndex() VertexIndex {
	return VertexIndex(g.counter.Add(1))
}

// slotForKey returns the slot for a key, if present.
func (g *HyperGraph) slotForKey(key Key) (*slot, bool) {
	sh := g.shardFor(key)
	sh.mu.RLock()
	s, ok := sh.slots[key]
	sh.mu.RUnlock()
	return s, ok
}

// slotForIndex resolves an index through the secondary map.
func (g *HyperGraph) slotForIndex(index VertexIndex) (*slot, bool) {
	g.mu.RLock()
	key, ok := g.byIndex[index]
	g.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return g.slotForKey(key)
}

// VertexCount returns the number of vertices in the store.
func (g *HyperGraph) VertexCount() int {
	total := 0
	for i := range g.shards {
		sh := &g.shards[i]
		sh.mu.RLock()
		total += len(sh.slots)
		sh.mu.RUnlock()
	}
	return total
}

// AtomCount returns the number of interned atoms.
func (g *HyperGraph) AtomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.atomKeys)
}
