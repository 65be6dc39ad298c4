package diag

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Collector provides concurrent issue collection with precomputed
// severity counts.
//
// Collector is thread-safe and can be used from multiple goroutines. It
// provides O(1) severity queries via precomputed counts that are updated
// during collection.
//
// Limit behavior: When the issue limit is reached, additional issues are
// dropped but [Collector.OK] is not affected. Use
// [Collector.LimitReached] to detect truncated results. This design
// allows callers to handle truncated results appropriately without
// forcing failure semantics.
//
// Create a Collector with [NewCollector], then use [Collector.Collect]
// to add issues and [Collector.Result] to get an immutable snapshot.
type Collector struct {
	mu           sync.RWMutex
	issues       []Issue
	limit        int
	limitReached bool
	droppedCount int

	// Precomputed severity counts for O(1) queries
	fatalCount   int
	errorCount   int
	warningCount int
	infoCount    int
	hintCount    int

	// Cached sorted result (invalidated on Collect)
	cachedResult *Result
}

// NoLimit is the sentinel value indicating unlimited issue collection.
// Use this constant with [NewCollector] for clarity:
//
//	c := diag.NewCollector(diag.NoLimit)
const NoLimit = 0

// NewCollector creates a collector with an optional issue limit.
//
// A limit of 0 means no limit (use [NoLimit] constant for clarity).
// Negative values are normalized to 0. When the limit is reached,
// additional issues are counted as dropped and can be queried via
// [Result.DroppedCount].
func NewCollector(limit int) *Collector {
	if limit < 0 {
		limit = 0
	}
	return &Collector{
		limit: limit,
	}
}

// Collect adds an issue to the collector.
//
// This method is thread-safe. If the limit is reached, the issue is
// counted as dropped but not stored.
//
// Collect panics if the issue is a zero value or is invalid. Use
// [NewIssue] and [IssueBuilder] to construct valid issues. This panic
// behavior catches programmer errors where issues are constructed via
// direct struct literals rather than the builder pattern.
func (c *Collector) Collect(issue Issue) {
	c.validateIssue(issue)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.collectLocked(issue)
}

// CollectAll adds multiple issues efficiently under a single lock.
//
// This is more efficient than calling [Collect] multiple times when
// adding many issues at once.
//
// Panics if any issue is invalid (see [Collect]).
func (c *Collector) CollectAll(issues []Issue) {
	// Validate all issues before acquiring lock
	for _, issue := range issues {
		c.validateIssue(issue)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, issue := range issues {
		c.collectLocked(issue)
	}
}

// Merge incorporates all issues from a Result under a single lock.
//
// Results are structurally guaranteed to contain only valid issues
// because the Result type has no public constructor accepting arbitrary
// issues. Therefore, Merge does not re-validate issues.
func (c *Collector) Merge(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for issue := range res.Issues() {
		c.collectLocked(issue)
	}
}

// validateIssue panics if the issue is invalid.
func (c *Collector) validateIssue(issue Issue) {
	if issue.IsZero() {
		panic("diag.Collector.Collect: zero-value Issue")
	}
	if !issue.IsValid() {
		panic(fmt.Sprintf("diag.Collector.Collect: invalid Issue (code=%s, message=%q)",
			issue.Code().String(), issue.Message()))
	}
}

// collectLocked adds an issue. Caller must hold c.mu.
func (c *Collector) collectLocked(issue Issue) {
	// Invalidate cached result
	c.cachedResult = nil

	// Check limit
	if c.limit > 0 && len(c.issues) >= c.limit {
		c.limitReached = true
		c.droppedCount++
		return
	}

	c.issues = append(c.issues, issue)

	switch issue.Severity() {
	case Fatal:
		c.fatalCount++
	case Error:
		c.errorCount++
	case Warning:
		c.warningCount++
	case Info:
		c.infoCount++
	case Hint:
		c.hintCount++
	}
}

// Result produces a sorted, immutable snapshot.
//
// The returned Result is independent of the Collector; subsequent
// Collect calls do not affect it. Results are cached until the next
// Collect call.
//
// Issues are sorted by provenance and code for deterministic output.
func (c *Collector) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedResult != nil {
		return *c.cachedResult
	}

	// Copy issues into a new slice for sorting (don't mutate c.issues)
	sorted := make([]Issue, len(c.issues))
	copy(sorted, c.issues)

	slices.SortFunc(sorted, compareIssues)

	result := newResult(sorted, c.limit, c.limitReached, c.droppedCount)
	c.cachedResult = &result
	return result
}

// compareIssues compares two issues for deterministic sorting.
//
// Ordering rules:
//  1. Vertex-backed issues before issues without vertex provenance
//  2. Vertex index (when both carry one), then position presence and value
//  3. Common tie-breakers: Code, Severity, Message, Hint
//  4. Final tie-breaker: Details (for a true total order)
//
// This function implements a total order over distinct issues, which
// guarantees deterministic output from Collector.Result() regardless of
// collection order or concurrency.
func compareIssues(a, b Issue) int {
	aVertex, aHas := a.Vertex()
	bVertex, bHas := b.Vertex()
	if aHas != bHas {
		if aHas {
			return -1 // vertex-backed sorts first
		}
		return 1
	}
	if aHas {
		if c := cmp.Compare(aVertex, bVertex); c != 0 {
			return c
		}
	}

	aPos, aHasPos := a.Position()
	bPos, bHasPos := b.Position()
	if aHasPos != bHasPos {
		if aHasPos {
			return -1
		}
		return 1
	}
	if aHasPos {
		if c := cmp.Compare(aPos, bPos); c != 0 {
			return c
		}
	}

	if c := cmp.Compare(a.code.value, b.code.value); c != 0 {
		return c
	}
	if c := cmp.Compare(a.severity, b.severity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.message, b.message); c != 0 {
		return c
	}
	if c := cmp.Compare(a.hint, b.hint); c != 0 {
		return c
	}

	return compareDetails(a.details, b.details)
}

// compareDetails compares two Detail slices lexicographically.
func compareDetails(a, b []Detail) int {
	minLen := min(len(a), len(b))
	for i := range minLen {
		if c := cmp.Compare(a[i].Key, b[i].Key); c != 0 {
			return c
		}
		if c := cmp.Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	// Shorter slice sorts first
	return cmp.Compare(len(a), len(b))
}

// HasFatal reports whether any Fatal issue has been collected.
//
// This is an O(1) operation using precomputed counts.
func (c *Collector) HasFatal() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fatalCount > 0
}

// HasErrors reports whether any Fatal or Error issue has been collected.
//
// This is an O(1) operation using precomputed counts.
func (c *Collector) HasErrors() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fatalCount > 0 || c.errorCount > 0
}

// OK reports whether no Fatal or Error issues have been collected.
//
// This is an O(1) operation using precomputed counts.
func (c *Collector) OK() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fatalCount == 0 && c.errorCount == 0
}

// Len returns the number of collected issues.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.issues)
}

// LimitReached reports whether the limit was reached.
func (c *Collector) LimitReached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limitReached
}

// DroppedCount returns how many issues were dropped after hitting the limit.
func (c *Collector) DroppedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.droppedCount
}
