package parser

import (
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/grammar"
	"github.com/HeKe007/teo-parser/internal/ident"
	"github.com/HeKe007/teo-parser/location"
)

// Context threads the state one source's parse needs: the path allocator,
// the source identity, the diagnostics sink, and the availability stack
// `@[availability …]` blocks push onto.
type Context struct {
	alloc             *ast.Allocator
	sourceID          location.SourceID
	source            []byte
	collector         *diag.Collector
	availabilityStack []ast.Availability

	// nested accumulates declarations parsed while inside a Namespace or
	// HandlerGroup body. Those containers only keep their members' Paths
	// (ast.Namespace.Members, ast.HandlerGroup.Handlers); the full nodes
	// are flushed into Source.Children here so every node stays reachable
	// by path without Source.Children needing to nest.
	nested []ast.Node
}

func (c *Context) addNested(n ast.Node) {
	if n != nil {
		c.nested = append(c.nested, n)
	}
}

func newContext(numericSourceID uint32, sourceID location.SourceID, source []byte, collector *diag.Collector) *Context {
	return &Context{
		alloc:             ast.NewAllocator(numericSourceID),
		sourceID:          sourceID,
		source:            source,
		collector:         collector,
		availabilityStack: []ast.Availability{ast.AvailabilityDefault},
	}
}

// text returns n's verbatim source text, or "" for a nil node.
func (c *Context) text(n grammar.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.source)
}

// fieldText reads the text of n's field-named child fieldName,
// NFC-normalized: field-named children are identifiers and keywords
// (declaration names, config keywords, method names), which must compare
// in canonical form during lookup. Verbatim literal text goes through
// text() directly.
func (c *Context) fieldText(n grammar.Node, fieldName string) string {
	if n == nil {
		return ""
	}
	return ident.Normalize(c.text(n.ChildByFieldName(fieldName)))
}

func (c *Context) pushAvailability(a ast.Availability) {
	c.availabilityStack = append(c.availabilityStack, a)
}

func (c *Context) popAvailability() {
	if len(c.availabilityStack) <= 1 {
		return
	}
	c.availabilityStack = c.availabilityStack[:len(c.availabilityStack)-1]
}

// currentAvailability is the top of the stack: the availability any
// declaration parsed right now should be tagged with.
func (c *Context) currentAvailability() ast.Availability {
	return c.availabilityStack[len(c.availabilityStack)-1]
}

// insertUnparsed records a lexical region that matched no rule. Not fatal:
// parsing continues past it.
func (c *Context) insertUnparsed(span location.Span) {
	c.collector.Collect(diag.NewIssue(diag.Unparsed, diag.EUnparsedRegion, "unparsed region").
		WithSpan(span).Build())
}

// insertError records a hard parse-time diagnostic against span.
func (c *Context) insertError(span location.Span, code diag.Code, message string) {
	c.collector.Collect(diag.NewIssue(diag.Error, code, message).WithSpan(span).Build())
}
