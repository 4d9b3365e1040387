package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
)

func span(line, col, endLine, endCol int) location.Span {
	return location.Range(location.NewSourceID("inline:test"), line, col, endLine, endCol)
}

func testSchema(t *testing.T) *assemble.Schema {
	t.Helper()

	field := ast.Field{
		Base: ast.NewBase(ast.KindField, ast.NewPath(1, 0, 0), span(2, 3, 2, 20)),
		Name: "id",
		TypeExpr: ast.TypeExprNode{
			Base:         ast.NewBase(ast.KindTypeExpr, ast.NewPath(1, 0, 0, 0), span(2, 7, 2, 10)),
			TypeExprKind: ast.TypeExprNamed,
			Name:         []string{"Int"},
		},
	}
	model := ast.Model{
		Base:       ast.NewBase(ast.KindModel, ast.NewPath(1, 0), span(1, 1, 3, 2)),
		Name:       "User",
		StringPath: "User",
		Fields:     []ast.Field{field},
	}
	server := ast.Config{
		Base:    ast.NewBase(ast.KindConfig, ast.NewPath(1, 1), span(5, 1, 6, 2)),
		Keyword: "server",
	}
	nested := ast.Model{
		Base:       ast.NewBase(ast.KindModel, ast.NewPath(1, 2, 0), span(9, 3, 10, 4)),
		Name:       "Team",
		StringPath: "app.Team",
	}
	ns := ast.Namespace{
		Base:       ast.NewBase(ast.KindNamespace, ast.NewPath(1, 2), span(8, 1, 11, 2)),
		Name:       "app",
		StringPath: "app",
		Members:    []ast.Path{nested.Path()},
	}

	collector := diag.NewCollector(diag.NoLimit)
	return assemble.Build([]*ast.Source{{
		ID:       1,
		Path:     location.NewSourceID("inline:test"),
		Children: []ast.Node{model, server, ns, nested},
	}}, 1, nil, collector)
}

func TestFindTopByPathRoundTrips(t *testing.T) {
	s := testSchema(t)
	for _, src := range s.Sources {
		for _, n := range src.Children {
			found, ok := FindTopByPath(s, n.Path())
			require.True(t, ok)
			assert.Equal(t, n.Path(), found.Path())
		}
	}
}

func TestFindTopByName(t *testing.T) {
	s := testSchema(t)
	n, ok := FindTopByName(s, "User")
	require.True(t, ok)
	assert.Equal(t, ast.KindModel, n.Kind())

	_, ok = FindTopByName(s, "Ghost")
	assert.False(t, ok)
}

func TestFindNodeByStringPathDescendsNamespaces(t *testing.T) {
	s := testSchema(t)
	n, ok := FindNodeByStringPath(s, []string{"app", "Team"})
	require.True(t, ok)
	m, ok := n.(ast.Model)
	require.True(t, ok)
	assert.Equal(t, "Team", m.Name)
}

func TestServerConfigLookup(t *testing.T) {
	s := testSchema(t)
	cfg, ok := Server(s)
	require.True(t, ok)
	assert.Equal(t, "server", cfg.Keyword)

	_, ok = Debug(s)
	assert.False(t, ok)
}

func TestNodeChainFindsFieldTypeAtPosition(t *testing.T) {
	s := testSchema(t)
	pos := location.NewPosition(2, 8, -1)
	chain := NodeChain(s, 1, pos)
	require.NotEmpty(t, chain)

	assert.Equal(t, ast.KindModel, chain[0].Kind())
	innermost := chain[len(chain)-1]
	assert.Equal(t, ast.KindTypeExpr, innermost.Kind())
}

func TestNodeChainOutsideAnySpanIsEmpty(t *testing.T) {
	s := testSchema(t)
	assert.Empty(t, NodeChain(s, 1, location.NewPosition(99, 1, -1)))
}
