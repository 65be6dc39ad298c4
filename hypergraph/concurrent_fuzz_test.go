package hypergraph

import (
	"math/rand"
	"sync"
	"testing"
)

// FuzzHyperGraph_ConcurrentOperations tests that concurrent store
// operations don't cause panics or data races. Uses random seeds to
// drive operation sequences across multiple goroutines.
func FuzzHyperGraph_ConcurrentOperations(f *testing.F) {
	f.Add(int64(0), 4, 20)
	f.Add(int64(42), 8, 40)
	f.Add(int64(12345), 16, 30)
	f.Add(int64(-1), 32, 10)

	f.Fuzz(func(t *testing.T, seed int64, numWorkers, opsPerWorker int) {
		// Constrain inputs to reasonable ranges
		if numWorkers < 1 {
			numWorkers = 1
		}
		if numWorkers > 64 {
			numWorkers = 64
		}
		if opsPerWorker < 1 {
			opsPerWorker = 1
		}
		if opsPerWorker > 50 {
			opsPerWorker = 50
		}

		g := New()
		alphabet := []Atom{'a', 'b', 'c', 'd', 'e'}

		var wg sync.WaitGroup
		for w := range numWorkers {
			wg.Add(1)
			go func(workerID int) {
				defer wg.Done()
				// Each worker gets deterministic randomness based on seed and ID
				r := rand.New(rand.NewSource(seed + int64(workerID))) //nolint:gosec // fuzz test
				runFuzzOperations(t, g, r, alphabet, opsPerWorker)
			}(w)
		}
		wg.Wait()

		// Verify final store state is consistent.
		res, err := g.Validate(t.Context())
		if err != nil {
			t.Fatalf("Validate error: %v", err)
		}
		if !res.OK() {
			t.Errorf("store invariants violated after concurrent ops:\n%s", res.String())
		}
	})
}

// runFuzzOperations drives one worker's random operation mix.
func runFuzzOperations(t *testing.T, g *HyperGraph, r *rand.Rand, alphabet []Atom, ops int) {
	t.Helper()

	var local []Token
	for range ops {
		switch r.Intn(4) {
		case 0: // intern an atom
			local = append(local, g.InsertAtom(alphabet[r.Intn(len(alphabet))]))
		case 1: // insert a small pattern from local tokens
			if len(local) < 2 {
				continue
			}
			n := 2 + r.Intn(min(3, len(local)-1))
			p := make(Pattern, 0, n)
			for range n {
				p = append(p, local[r.Intn(len(local))])
			}
			tok, err := g.InsertPattern(p)
			if err != nil {
				t.Errorf("InsertPattern: %v", err)
				continue
			}
			local = append(local, tok)
		case 2: // read a random vertex snapshot
			if len(local) == 0 {
				continue
			}
			tok := local[r.Intn(len(local))]
			if _, err := g.GetVertex(tok.Index); err != nil {
				t.Errorf("GetVertex(%d): %v", tok.Index, err)
			}
		case 3: // resolve a random atom
			a := alphabet[r.Intn(len(alphabet))]
			if g.KnownAtom(a) {
				if _, err := g.AtomToken(a); err != nil {
					t.Errorf("AtomToken(%s): %v", a, err)
				}
			}
		}
	}
}
