package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/grammar"
	"github.com/HeKe007/teo-parser/typesys"
)

// stubNode is a hand-built grammar.Node fixture, mirroring the parser
// package's own test fake: the concrete grammar tool is out of scope, so
// loader tests drive the pipeline with synthetic trees keyed by file
// content.
type stubNode struct {
	kind     string
	text     string
	children []*stubNode
	fields   map[string]*stubNode
}

func stubLeaf(kind, text string) *stubNode { return &stubNode{kind: kind, text: text} }

func (n *stubNode) withField(name string, child *stubNode) *stubNode {
	if n.fields == nil {
		n.fields = map[string]*stubNode{}
	}
	n.fields[name] = child
	return n
}

func (n *stubNode) withChildren(children ...*stubNode) *stubNode {
	n.children = append(n.children, children...)
	return n
}

func (n *stubNode) Kind() string                  { return n.kind }
func (n *stubNode) IsNamed() bool                 { return true }
func (n *stubNode) IsError() bool                 { return false }
func (n *stubNode) IsMissing() bool               { return false }
func (n *stubNode) StartByte() int                { return 0 }
func (n *stubNode) EndByte() int                  { return 0 }
func (n *stubNode) StartPoint() grammar.Point     { return grammar.Point{} }
func (n *stubNode) EndPoint() grammar.Point       { return grammar.Point{} }
func (n *stubNode) ChildCount() int               { return len(n.children) }
func (n *stubNode) NamedChildCount() int          { return len(n.children) }
func (n *stubNode) Content(source []byte) string  { return n.text }

func (n *stubNode) Child(i int) grammar.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *stubNode) NamedChild(i int) grammar.Node { return n.Child(i) }

func (n *stubNode) ChildByFieldName(name string) grammar.Node {
	child, ok := n.fields[name]
	if !ok {
		return nil
	}
	return child
}

type stubSource struct {
	root    *stubNode
	content []byte
}

func (s *stubSource) RootNode() grammar.Node { return s.root }
func (s *stubSource) Content() []byte        { return s.content }

// stubSyntax maps file content to a prebuilt tree.
type stubSyntax struct {
	trees map[string]*stubNode
}

func (s *stubSyntax) Parse(_ context.Context, content []byte) (grammar.Source, error) {
	root, ok := s.trees[string(content)]
	if !ok {
		root = &stubNode{kind: "source_file"}
	}
	return &stubSource{root: root, content: content}, nil
}

func importDecl(path string) *stubNode {
	return (&stubNode{kind: "import_declaration"}).
		withField("path", stubLeaf("string_literal", `"`+path+`"`))
}

func constantDecl(name string, value *stubNode) *stubNode {
	return (&stubNode{kind: "constant_declaration"}).
		withField("name", stubLeaf("identifier", name)).
		withField("value", value)
}

func TestParseResolvesAcrossImportCycle(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.teo")
	bPath := filepath.Join(dir, "b.teo")
	require.NoError(t, os.WriteFile(aPath, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(bPath, []byte("b"), 0o600))

	syntax := &stubSyntax{trees: map[string]*stubNode{
		// a.teo: import "b.teo"; const A = B;
		"a": (&stubNode{kind: "source_file"}).withChildren(
			importDecl("b.teo"),
			constantDecl("A", stubLeaf("identifier_path", "B")),
		),
		// b.teo: import "a.teo"; const B = 1;
		"b": (&stubNode{kind: "source_file"}).withChildren(
			importDecl("a.teo"),
			constantDecl("B", stubLeaf("int_literal", "1")),
		),
	}}

	analysis, result, err := Parse(context.Background(), aPath, Options{Syntax: syntax})
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.False(t, result.HasErrors(), "cycle must resolve cleanly: %s", result.String())

	require.Len(t, analysis.Schema.Sources, 2)

	mainSrc := analysis.Schema.Sources[0]
	require.Len(t, mainSrc.Children, 1)
	constant, ok := mainSrc.Children[0].(ast.Constant)
	require.True(t, ok)
	require.True(t, constant.Resolved.IsSet())

	got, ok := constant.Resolved.Get().Opaque.(typesys.Type)
	require.True(t, ok)
	prim, ok := got.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveInt, prim)
}

func TestParseReportsUnresolvableImport(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.teo")
	require.NoError(t, os.WriteFile(aPath, []byte("a"), 0o600))

	syntax := &stubSyntax{trees: map[string]*stubNode{
		"a": (&stubNode{kind: "source_file"}).withChildren(importDecl("missing.teo")),
	}}

	analysis, result, err := Parse(context.Background(), aPath, Options{Syntax: syntax})
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.True(t, result.HasErrors())
}

func TestParseRequiresSyntax(t *testing.T) {
	_, _, err := Parse(context.Background(), "whatever.teo", Options{})
	assert.Error(t, err)
}
