package diag

import (
	"testing"

	"github.com/HeKe007/teo-parser/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueBuilderRequiresCodeAndMessage(t *testing.T) {
	assert.Panics(t, func() { NewIssue(Error, Code{}, "boom") })
	assert.Panics(t, func() { NewIssue(Error, EUnresolvedReference, "") })
}

func TestCollectorSortsByStableOrder(t *testing.T) {
	src := location.MustNewSourceID("test://a.teo")
	c := NewCollector(NoLimit)

	c.Collect(NewIssue(Error, EUnresolvedReference, "second").
		WithSpan(location.Range(src, 2, 1, 2, 5)).Build())
	c.Collect(NewIssue(Error, EUnresolvedReference, "first").
		WithSpan(location.Range(src, 1, 1, 1, 5)).Build())

	res := c.Result()
	require.Equal(t, 2, res.Len())
	issues := res.IssuesSlice()
	assert.Equal(t, "first", issues[0].Message())
	assert.Equal(t, "second", issues[1].Message())
}

func TestCollectorLimit(t *testing.T) {
	c := NewCollector(1)
	c.Collect(NewIssue(Error, EInternal, "one").Build())
	c.Collect(NewIssue(Error, EInternal, "two").Build())

	res := c.Result()
	assert.Equal(t, 1, res.Len())
	assert.True(t, res.LimitReached())
	assert.Equal(t, 1, res.DroppedCount())
}

func TestCollectorPanicsOnZeroIssue(t *testing.T) {
	c := NewCollector(NoLimit)
	assert.Panics(t, func() { c.Collect(Issue{}) })
}

func TestResultOKAndSeverityCounts(t *testing.T) {
	c := NewCollector(NoLimit)
	assert.True(t, c.Result().OK())

	c.Collect(NewIssue(Warning, EBuiltinRedeclared, "warn").Build())
	res := c.Result()
	assert.True(t, res.OK())
	assert.True(t, res.HasWarnings())

	c.Collect(NewIssue(Error, EUnresolvedReference, "err").Build())
	res = c.Result()
	assert.False(t, res.OK())
	assert.True(t, res.HasErrors())
	counts := res.SeverityCounts()
	assert.Equal(t, 1, counts.Errors)
	assert.Equal(t, 1, counts.Warnings)
}

func TestRendererLSPDiagnosticSkipsSpanlessIssue(t *testing.T) {
	r := NewRenderer()
	issue := NewIssue(Error, EInternal, "no span").Build()
	assert.Nil(t, r.LSPDiagnostic(issue))
}

func TestRendererLSPDiagnosticApproximateFallback(t *testing.T) {
	src := location.MustNewSourceID("test://a.teo")
	r := NewRenderer(WithByteFallback(ByteFallbackApproximate))
	issue := NewIssue(Error, ETypeMismatch, "expect X found Y").
		WithSpan(location.Range(src, 3, 4, 3, 8)).
		WithExpectedGot("X", "Y").
		Build()

	d := r.LSPDiagnostic(issue)
	require.NotNil(t, d)
	assert.Equal(t, 2, d.Range.Start.Line)
	assert.Equal(t, 3, d.Range.Start.Character)
	assert.Equal(t, LSPSeverityError, d.Severity)
}

func TestFormatResultJSONOmitsEmptyLimit(t *testing.T) {
	r := NewRenderer()
	c := NewCollector(NoLimit)
	c.Collect(NewIssue(Error, EInternal, "x").Build())

	raw := r.FormatResultJSON(c.Result())
	assert.Contains(t, string(raw), `"issues"`)
	assert.NotContains(t, string(raw), `"limit"`)
}
