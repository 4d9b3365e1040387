package decl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
)

// Resolving two structurally identical schemas must produce identical
// diagnostics and identical side-table contents: resolution is a pure
// function of the parsed input.
func TestResolveIsDeterministicAcrossRuns(t *testing.T) {
	build := func() (*assemble.Schema, diag.Result) {
		field := ast.Field{
			Base:     ast.NewBase(ast.KindField, ast.NewPath(1, 0, 0), location.Span{}),
			Name:     "tag",
			TypeExpr: namedTypeExpr(1, 10, "Ghost"), // unresolved on purpose
		}
		model := ast.Model{
			Base:       ast.NewBase(ast.KindModel, ast.NewPath(1, 0), location.Span{}),
			Name:       "Item",
			StringPath: "Item",
			Fields:     []ast.Field{field},
		}
		collector := diag.NewCollector(diag.NoLimit)
		schema := assemble.Build([]*ast.Source{{ID: 1, Children: []ast.Node{model}}}, 1, nil, collector)
		Resolve(schema, noImports{}, collector)
		return schema, collector.Result()
	}

	firstSchema, firstResult := build()
	secondSchema, secondResult := build()

	firstMessages := resultSnapshot(firstResult)
	secondMessages := resultSnapshot(secondResult)
	if diff := cmp.Diff(firstMessages, secondMessages); diff != "" {
		t.Fatalf("diagnostics differ between runs (-first +second):\n%s", diff)
	}

	firstTypes := sideTableSnapshot(t, firstSchema)
	secondTypes := sideTableSnapshot(t, secondSchema)
	if diff := cmp.Diff(firstTypes, secondTypes); diff != "" {
		t.Fatalf("side tables differ between runs (-first +second):\n%s", diff)
	}
}

func resultSnapshot(r diag.Result) []string {
	var out []string
	for issue := range r.Issues() {
		out = append(out, issue.Code().String()+": "+issue.Message())
	}
	return out
}

func sideTableSnapshot(t *testing.T, s *assemble.Schema) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, src := range s.Sources {
		for _, n := range src.Children {
			m, ok := n.(ast.Model)
			if !ok {
				continue
			}
			require.True(t, m.Resolved.IsSet())
			out[m.Path().String()] = unbox(m.Resolved.Get().Self).Display()
			for _, f := range m.Fields {
				require.True(t, f.Resolved.IsSet())
				out[f.Path().String()] = unbox(f.Resolved.Get()).Display()
			}
		}
	}
	return out
}
