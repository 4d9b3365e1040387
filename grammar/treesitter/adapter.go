// Package treesitter adapts github.com/smacker/go-tree-sitter parse trees
// to the grammar.Node/grammar.Source interfaces. It carries no grammar of
// its own — callers supply the *sitter.Language for the schema DSL, a
// separate tree-sitter grammar definition built and maintained outside
// this module.
package treesitter

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/HeKe007/teo-parser/grammar"
)

type node struct {
	n      *sitter.Node
	source []byte
}

// Wrap adapts a *sitter.Node into a grammar.Node. It returns nil for a
// nil input so absent optional children translate cleanly.
func Wrap(n *sitter.Node, source []byte) grammar.Node {
	if n == nil {
		return nil
	}
	return node{n: n, source: source}
}

func (nd node) Kind() string { return nd.n.Type() }

func (nd node) IsNamed() bool { return nd.n.IsNamed() }

// IsError reports whether tree-sitter could not match this region to any
// grammar rule; tree-sitter surfaces these as nodes of type "ERROR".
func (nd node) IsError() bool { return nd.n.Type() == "ERROR" }

func (nd node) IsMissing() bool { return nd.n.IsMissing() }

func (nd node) StartByte() int { return int(nd.n.StartByte()) }
func (nd node) EndByte() int   { return int(nd.n.EndByte()) }

func (nd node) StartPoint() grammar.Point {
	p := nd.n.StartPoint()
	return grammar.Point{Row: int(p.Row), Column: int(p.Column)}
}

func (nd node) EndPoint() grammar.Point {
	p := nd.n.EndPoint()
	return grammar.Point{Row: int(p.Row), Column: int(p.Column)}
}

func (nd node) ChildCount() int { return int(nd.n.ChildCount()) }

func (nd node) Child(i int) grammar.Node { return Wrap(nd.n.Child(i), nd.source) }

func (nd node) NamedChildCount() int { return int(nd.n.NamedChildCount()) }

func (nd node) NamedChild(i int) grammar.Node { return Wrap(nd.n.NamedChild(i), nd.source) }

func (nd node) ChildByFieldName(name string) grammar.Node {
	return Wrap(nd.n.ChildByFieldName(name), nd.source)
}

func (nd node) Content(source []byte) string { return nd.n.Content(source) }

type source struct {
	tree    *sitter.Tree
	content []byte
}

func (s source) RootNode() grammar.Node { return Wrap(s.tree.RootNode(), s.content) }
func (s source) Content() []byte        { return s.content }

// Parse runs lang over content and returns its tree through the
// grammar.Source boundary. The caller owns the returned tree's lifetime;
// Parse does not retain the parser across calls.
func Parse(ctx context.Context, lang *sitter.Language, content []byte) (grammar.Source, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	return source{tree: tree, content: content}, nil
}
