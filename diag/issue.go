package diag

import "github.com/HeKe007/teo-parser/location"

// Issue is a single diagnostic. It is immutable after construction; build
// one with [NewIssue] and the fluent With* methods on [IssueBuilder]. Direct
// struct literal construction skips validity checks and will panic when
// collected.
type Issue struct {
	span     location.Span
	severity Severity
	code     Code
	message  string
	hint     string
	related  []location.RelatedInfo
	details  []Detail
}

func (i Issue) Severity() Severity { return i.severity }
func (i Issue) Code() Code         { return i.code }
func (i Issue) Message() string    { return i.message }
func (i Issue) Hint() string       { return i.hint }

// Span returns the source location. Check HasSpan or Span().IsZero().
func (i Issue) Span() location.Span { return i.span }

// HasSpan reports whether the issue carries a non-zero span.
func (i Issue) HasSpan() bool { return !i.span.IsZero() }

// IsZero reports whether the issue is a zero value.
func (i Issue) IsZero() bool {
	return i.code.IsZero() && i.message == "" && i.span.IsZero()
}

// IsValid reports whether the issue has the fields required to be
// collected. Code built via [IssueBuilder] is always valid; this exists for
// defensive checks in [Collector.Collect].
func (i Issue) IsValid() bool {
	return !i.code.IsZero() && i.message != ""
}

// Related returns a defensive copy of the related locations.
func (i Issue) Related() []location.RelatedInfo {
	if len(i.related) == 0 {
		return nil
	}
	cp := make([]location.RelatedInfo, len(i.related))
	copy(cp, i.related)
	return cp
}

// Details returns a defensive copy of the key-value details.
func (i Issue) Details() []Detail {
	if len(i.details) == 0 {
		return nil
	}
	cp := make([]Detail, len(i.details))
	copy(cp, i.details)
	return cp
}

// Clone returns a deep copy of the issue.
func (i Issue) Clone() Issue {
	clone := i
	if len(i.related) > 0 {
		clone.related = append([]location.RelatedInfo(nil), i.related...)
	}
	if len(i.details) > 0 {
		clone.details = append([]Detail(nil), i.details...)
	}
	return clone
}
