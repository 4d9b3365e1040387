package diag

import (
	"fmt"
	"iter"
	"strings"
)

// SeverityCounts tallies issues by severity without a map allocation.
type SeverityCounts struct {
	Errors   int
	Warnings int
	Unparsed int
}

// Result is an immutable, sorted snapshot of diagnostics produced by a
// [Collector]. There is no public constructor accepting arbitrary issues,
// so every issue in a Result is guaranteed valid.
type Result struct {
	issues       []Issue
	limit        int
	limitReached bool
	droppedCount int

	errorCount    int
	warningCount  int
	unparsedCount int
}

func newResult(issues []Issue, limit int, limitReached bool, droppedCount int) Result {
	var errorCount, warningCount, unparsedCount int
	for _, issue := range issues {
		switch issue.Severity() {
		case Error:
			errorCount++
		case Warning:
			warningCount++
		case Unparsed:
			unparsedCount++
		}
	}
	return Result{
		issues:        issues,
		limit:         limit,
		limitReached:  limitReached,
		droppedCount:  droppedCount,
		errorCount:    errorCount,
		warningCount:  warningCount,
		unparsedCount: unparsedCount,
	}
}

// OK returns the empty, successful result.
func OK() Result { return newResult(nil, 0, false, 0) }

// OK reports whether no Error or Unparsed issue is present.
func (r Result) OK() bool { return r.errorCount == 0 && r.unparsedCount == 0 }

// HasErrors reports whether any Error issue is present.
func (r Result) HasErrors() bool { return r.errorCount > 0 }

// HasWarnings reports whether any Warning issue is present.
func (r Result) HasWarnings() bool { return r.warningCount > 0 }

// HasUnparsed reports whether any Unparsed issue is present.
func (r Result) HasUnparsed() bool { return r.unparsedCount > 0 }

// Len returns the number of issues.
func (r Result) Len() int { return len(r.issues) }

// LimitReached reports whether the collector's limit truncated output.
func (r Result) LimitReached() bool { return r.limitReached }

// DroppedCount returns how many issues were dropped after the limit.
func (r Result) DroppedCount() int { return r.droppedCount }

// SeverityCounts returns the per-severity tally.
func (r Result) SeverityCounts() SeverityCounts {
	return SeverityCounts{Errors: r.errorCount, Warnings: r.warningCount, Unparsed: r.unparsedCount}
}

// Issues iterates all issues without copying; do not mutate yielded values.
func (r Result) Issues() iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, issue := range r.issues {
			if !yield(issue) {
				return
			}
		}
	}
}

// IssuesSlice returns a deep copy of all issues.
func (r Result) IssuesSlice() []Issue {
	if len(r.issues) == 0 {
		return nil
	}
	out := make([]Issue, len(r.issues))
	for i, issue := range r.issues {
		out[i] = issue.Clone()
	}
	return out
}

// Errors iterates Error and Unparsed issues.
func (r Result) Errors() iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, issue := range r.issues {
			if issue.Severity().IsFailure() && !yield(issue) {
				return
			}
		}
	}
}

// BySeverity iterates issues at exactly the given severity.
func (r Result) BySeverity(severity Severity) iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, issue := range r.issues {
			if issue.Severity() == severity && !yield(issue) {
				return
			}
		}
	}
}

// Messages returns message strings from Error and Unparsed issues.
func (r Result) Messages() []string {
	if r.errorCount+r.unparsedCount == 0 {
		return nil
	}
	out := make([]string, 0, r.errorCount+r.unparsedCount)
	for _, issue := range r.issues {
		if issue.Severity().IsFailure() {
			out = append(out, issue.Message())
		}
	}
	return out
}

// String returns a short multi-line summary for debugging. Use a [Renderer]
// for formatted output with source excerpts.
func (r Result) String() string {
	if r.OK() {
		return "OK"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s)", r.errorCount+r.unparsedCount)
	if r.warningCount > 0 {
		fmt.Fprintf(&sb, ", %d warning(s)", r.warningCount)
	}
	if r.limitReached {
		fmt.Fprintf(&sb, " [limit reached, %d dropped]", r.droppedCount)
	}
	sb.WriteString("\n")
	for _, issue := range r.issues {
		if issue.Severity().IsFailure() {
			fmt.Fprintf(&sb, "  %s: %s\n", issue.Code(), issue.Message())
		}
	}
	return sb.String()
}
