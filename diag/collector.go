package diag

import (
	"fmt"
	"slices"
	"sync"

	"github.com/HeKe007/teo-parser/location"
)

// NoLimit means unlimited collection; pass to [NewCollector] for clarity.
const NoLimit = 0

// Collector accumulates issues during one analysis pass and produces a
// sorted, immutable [Result]. It is safe for concurrent use, though a single
// analysis pass in this analyzer is always single-threaded; concurrency
// safety here is so a caller running several independent analyses in
// parallel can each hold their own Collector without surprises.
type Collector struct {
	mu           sync.RWMutex
	issues       []Issue
	limit        int
	limitReached bool
	droppedCount int

	errorCount   int
	warningCount int
	unparsedCount int

	cachedResult *Result
}

// NewCollector creates a collector with an optional issue limit. A limit of
// 0 (or [NoLimit]) means unlimited; negative values are normalized to 0.
func NewCollector(limit int) *Collector {
	if limit < 0 {
		limit = 0
	}
	return &Collector{limit: limit}
}

// Collect adds one issue. Panics if the issue is zero or invalid — see
// [NewIssue].
func (c *Collector) Collect(issue Issue) {
	validateIssue(issue)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collectLocked(issue)
}

// CollectAll adds several issues under a single lock.
func (c *Collector) CollectAll(issues []Issue) {
	for _, issue := range issues {
		validateIssue(issue)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, issue := range issues {
		c.collectLocked(issue)
	}
}

func validateIssue(issue Issue) {
	if issue.IsZero() {
		panic("diag.Collector.Collect: zero-value Issue")
	}
	if !issue.IsValid() {
		panic(fmt.Sprintf("diag.Collector.Collect: invalid Issue (code=%s)", issue.Code()))
	}
}

func (c *Collector) collectLocked(issue Issue) {
	c.cachedResult = nil

	if c.limit > 0 && len(c.issues) >= c.limit {
		c.limitReached = true
		c.droppedCount++
		return
	}

	c.issues = append(c.issues, issue)
	switch issue.Severity() {
	case Error:
		c.errorCount++
	case Warning:
		c.warningCount++
	case Unparsed:
		c.unparsedCount++
	}
}

// Result produces a sorted, immutable snapshot, independent of further
// Collect calls. Cached until the next Collect.
//
// Issues are sorted by (source, span start, span end) first and tie-broken
// by code, severity, and message — the stable ordering required of
// diagnostic output regardless of collection order.
func (c *Collector) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedResult != nil {
		return *c.cachedResult
	}

	sorted := make([]Issue, len(c.issues))
	copy(sorted, c.issues)
	slices.SortFunc(sorted, compareIssues)

	result := newResult(sorted, c.limit, c.limitReached, c.droppedCount)
	c.cachedResult = &result
	return result
}

// compareIssues implements the total order diagnostics are sorted by:
// span geometry, then code, severity, message, hint, and finally details
// and related info so that no two distinct issues ever compare equal.
func compareIssues(a, b Issue) int {
	if cmp := location.Compare(a.span, b.span); cmp != 0 {
		return cmp
	}
	if a.code.value != b.code.value {
		if a.code.value < b.code.value {
			return -1
		}
		return 1
	}
	if a.severity != b.severity {
		if a.severity < b.severity {
			return -1
		}
		return 1
	}
	if a.message != b.message {
		if a.message < b.message {
			return -1
		}
		return 1
	}
	if a.hint != b.hint {
		if a.hint < b.hint {
			return -1
		}
		return 1
	}
	if cmp := compareDetails(a.details, b.details); cmp != 0 {
		return cmp
	}
	return compareRelated(a.related, b.related)
}

func compareDetails(a, b []Detail) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i].Key != b[i].Key {
			if a[i].Key < b[i].Key {
				return -1
			}
			return 1
		}
		if a[i].Value != b[i].Value {
			if a[i].Value < b[i].Value {
				return -1
			}
			return 1
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}

func compareRelated(a, b []location.RelatedInfo) int {
	n := min(len(a), len(b))
	for i := range n {
		if cmp := location.Compare(a[i].Span, b[i].Span); cmp != 0 {
			return cmp
		}
		if a[i].Message != b[i].Message {
			if a[i].Message < b[i].Message {
				return -1
			}
			return 1
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}

// OK reports whether no Error or Unparsed issue has been collected.
func (c *Collector) OK() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errorCount == 0 && c.unparsedCount == 0
}

// Len returns the number of collected issues (excluding dropped ones).
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.issues)
}

// LimitReached reports whether the configured limit truncated collection.
func (c *Collector) LimitReached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limitReached
}

// DroppedCount returns how many issues were dropped after the limit.
func (c *Collector) DroppedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.droppedCount
}
