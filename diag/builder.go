package diag

import (
	"fmt"

	"github.com/HeKe007/teo-parser/location"
)

// IssueBuilder fluently constructs [Issue] values. It is the only valid
// construction path outside this package.
//
//	issue := diag.NewIssue(diag.Error, diag.EUnresolvedReference, `unresolved reference "Foo"`).
//	    WithSpan(span).
//	    WithDetails(diag.NameAtPath("Foo", path)...).
//	    Build()
type IssueBuilder struct {
	issue Issue
}

// NewIssue starts building an issue with its required fields. Panics if
// code is zero or message is empty — these catch construction bugs at the
// call site instead of deferring failure to [Collector.Collect].
func NewIssue(severity Severity, code Code, message string) *IssueBuilder {
	if code.IsZero() {
		panic("diag.NewIssue: zero code")
	}
	if message == "" {
		panic("diag.NewIssue: empty message")
	}
	return &IssueBuilder{issue: Issue{severity: severity, code: code, message: message}}
}

// WithSpan sets the source span.
func (b *IssueBuilder) WithSpan(span location.Span) *IssueBuilder {
	b.issue.span = span
	return b
}

// WithHint sets a resolution suggestion.
func (b *IssueBuilder) WithHint(hint string) *IssueBuilder {
	b.issue.hint = hint
	return b
}

// WithRelated appends related locations, e.g. "previous definition here"
// for a duplicate-identifier diagnostic. Order matters for chains like
// import cycles: first argument is the first step.
func (b *IssueBuilder) WithRelated(related ...location.RelatedInfo) *IssueBuilder {
	b.issue.related = append(b.issue.related, related...)
	return b
}

// WithDetail appends a single key-value detail.
func (b *IssueBuilder) WithDetail(key, value string) *IssueBuilder {
	b.issue.details = append(b.issue.details, Detail{Key: key, Value: value})
	return b
}

// WithDetails appends key-value details.
func (b *IssueBuilder) WithDetails(details ...Detail) *IssueBuilder {
	b.issue.details = append(b.issue.details, details...)
	return b
}

// WithExpectedGot is shorthand for WithDetails(ExpectedGot(expected, got)...).
func (b *IssueBuilder) WithExpectedGot(expected, got string) *IssueBuilder {
	return b.WithDetails(ExpectedGot(expected, got)...)
}

// Build returns the constructed issue, deep-copying its slices so further
// use of the builder cannot mutate the result.
func (b *IssueBuilder) Build() Issue {
	result := b.issue
	if len(b.issue.related) > 0 {
		result.related = append([]location.RelatedInfo(nil), b.issue.related...)
	}
	if len(b.issue.details) > 0 {
		result.details = append([]Detail(nil), b.issue.details...)
	}
	if !result.IsValid() {
		panic(fmt.Sprintf("diag.IssueBuilder.Build: invalid issue (code=%s)", result.code))
	}
	return result
}
