package parser

import (
	"github.com/HeKe007/teo-parser/grammar"
	"github.com/HeKe007/teo-parser/location"
)

// spanOf converts a grammar.Node's extent into a location.Span. Points are
// zero-based (row, column) per grammar.Point's tree-sitter-derived
// convention; Span.Position is one-based, so both line and column are
// shifted by one. Byte offsets come straight from the node.
func spanOf(source location.SourceID, n grammar.Node) location.Span {
	if n == nil {
		return location.Span{}
	}
	start := n.StartPoint()
	end := n.EndPoint()
	return location.RangeWithBytes(
		source,
		start.Row+1, start.Column+1, n.StartByte(),
		end.Row+1, end.Column+1, n.EndByte(),
	)
}

// pointSpanAt builds a zero-width span at the start of n, used for
// diagnostics that reference a node's position without its full extent.
func pointSpanAt(source location.SourceID, n grammar.Node) location.Span {
	if n == nil {
		return location.Span{}
	}
	start := n.StartPoint()
	pos := location.NewPosition(start.Row+1, start.Column+1, n.StartByte())
	return location.Span{Source: source, Start: pos, End: pos}
}
