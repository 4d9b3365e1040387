// Package grammar defines the boundary between the parser and whatever
// concrete grammar tool produced the parse tree it walks. The parser
// never imports a specific grammar implementation directly; it consumes
// Node and Source, so any PEG/tree-sitter/hand-rolled grammar can be
// plugged in by implementing these two interfaces.
package grammar

// Point is a zero-based (row, column) position, mirroring tree-sitter's
// own point representation so adapters need no translation.
type Point struct {
	Row, Column int
}

// Node is one node of an external parse tree. Implementations wrap a
// concrete grammar tool's node type (see grammar/treesitter for the
// tree-sitter adapter).
type Node interface {
	// Kind is the grammar rule name the node was produced from (a
	// tree-sitter node type, an ANTLR rule name, …).
	Kind() string

	// IsNamed reports whether the grammar marks this node as a named
	// rule production rather than an anonymous token.
	IsNamed() bool

	// IsError reports whether the grammar tool could not match any rule
	// for this region.
	IsError() bool

	// IsMissing reports whether the grammar tool synthesized this node
	// to recover from a missing required token.
	IsMissing() bool

	StartByte() int
	EndByte() int
	StartPoint() Point
	EndPoint() Point

	ChildCount() int
	Child(i int) Node

	NamedChildCount() int
	NamedChild(i int) Node

	// ChildByFieldName returns the child stored under the given field
	// name, or nil if absent. Not every grammar tool names fields.
	ChildByFieldName(name string) Node

	// Content returns the verbatim source text this node spans.
	Content(source []byte) string
}

// Source is a parsed document: its root node plus the original bytes the
// node spans refer to.
type Source interface {
	RootNode() Node
	Content() []byte
}

// Children returns all children of n as a slice, in source order.
func Children(n Node) []Node {
	if n == nil {
		return nil
	}
	count := n.ChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// NamedChildren returns only n's named children, in source order.
func NamedChildren(n Node) []Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}
