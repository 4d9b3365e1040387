package parser

import "github.com/HeKe007/teo-parser/grammar"

// fakeNode is a hand-built grammar.Node fixture. The concrete grammar tool
// is out of scope for this module (DESIGN.md), so parser tests exercise the
// dispatch logic against a minimal fake tree rather than a real tree-sitter
// parse.
type fakeNode struct {
	kind      string
	named     bool
	isErr     bool
	isMissing bool
	text      string
	children  []*fakeNode
	fields    map[string]*fakeNode
}

func leaf(kind, text string) *fakeNode {
	return &fakeNode{kind: kind, named: true, text: text}
}

func (n *fakeNode) withField(name string, child *fakeNode) *fakeNode {
	if n.fields == nil {
		n.fields = map[string]*fakeNode{}
	}
	n.fields[name] = child
	return n
}

func (n *fakeNode) withChildren(children ...*fakeNode) *fakeNode {
	n.children = append(n.children, children...)
	return n
}

func (n *fakeNode) Kind() string    { return n.kind }
func (n *fakeNode) IsNamed() bool   { return n.named }
func (n *fakeNode) IsError() bool   { return n.isErr }
func (n *fakeNode) IsMissing() bool { return n.isMissing }
func (n *fakeNode) StartByte() int  { return 0 }
func (n *fakeNode) EndByte() int    { return 0 }

func (n *fakeNode) StartPoint() grammar.Point { return grammar.Point{} }
func (n *fakeNode) EndPoint() grammar.Point   { return grammar.Point{} }

func (n *fakeNode) ChildCount() int { return len(n.children) }

func (n *fakeNode) Child(i int) grammar.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *fakeNode) NamedChildCount() int {
	count := 0
	for _, c := range n.children {
		if c.named {
			count++
		}
	}
	return count
}

func (n *fakeNode) NamedChild(i int) grammar.Node {
	idx := 0
	for _, c := range n.children {
		if !c.named {
			continue
		}
		if idx == i {
			return c
		}
		idx++
	}
	return nil
}

func (n *fakeNode) ChildByFieldName(name string) grammar.Node {
	if n.fields == nil {
		return nil
	}
	child, ok := n.fields[name]
	if !ok {
		return nil
	}
	return child
}

func (n *fakeNode) Content(source []byte) string { return n.text }

// fakeSource is a grammar.Source over a single fakeNode root.
type fakeSource struct {
	root    *fakeNode
	content []byte
}

func (s *fakeSource) RootNode() grammar.Node { return s.root }
func (s *fakeSource) Content() []byte        { return s.content }
