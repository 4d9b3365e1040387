package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
	"github.com/HeKe007/teo-parser/typesys"
)

type noImports struct{}

func (noImports) ResolveImportSourceID(uint32, string) (uint32, bool) { return 0, false }

func namedTypeExpr(sourceID, local uint32, dotted ...string) ast.TypeExprNode {
	return ast.TypeExprNode{
		Base:         ast.NewBase(ast.KindTypeExpr, ast.NewPath(sourceID, local), location.Span{}),
		TypeExprKind: ast.TypeExprNamed,
		Name:         dotted,
	}
}

func buildTestSchema(t *testing.T, sources []*ast.Source) *assemble.Schema {
	t.Helper()
	collector := diag.NewCollector(diag.NoLimit)
	return assemble.Build(sources, 1, nil, collector)
}

func TestLowerTypeExprPrimitiveAndOptional(t *testing.T) {
	schema := buildTestSchema(t, []*ast.Source{{ID: 1}})
	ctx := NewContext(schema, noImports{}, diag.NewCollector(diag.NoLimit))

	n := namedTypeExpr(1, 0, "String")
	n.ItemOptional = true

	got := ctx.LowerTypeExpr(1, nil, ast.AvailabilityDefault, &n)
	require.True(t, got.IsOptional())
	inner, ok := got.Unwrap()
	require.True(t, ok)
	prim, ok := inner.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveString, prim)
}

func TestLowerTypeExprMemoizesResolvedCell(t *testing.T) {
	schema := buildTestSchema(t, []*ast.Source{{ID: 1}})
	ctx := NewContext(schema, noImports{}, diag.NewCollector(diag.NoLimit))

	n := namedTypeExpr(1, 0, "Int")
	first := ctx.LowerTypeExpr(1, nil, ast.AvailabilityDefault, &n)
	second := ctx.LowerTypeExpr(1, nil, ast.AvailabilityDefault, &n) // must not panic on double Set
	assert.Equal(t, first.Display(), second.Display())
}

func TestLowerTypeExprUnresolvedNameIsUndeterminedWithDiagnostic(t *testing.T) {
	schema := buildTestSchema(t, []*ast.Source{{ID: 1}})
	collector := diag.NewCollector(diag.NoLimit)
	ctx := NewContext(schema, noImports{}, collector)

	n := namedTypeExpr(1, 0, "Ghost")
	got := ctx.LowerTypeExpr(1, nil, ast.AvailabilityDefault, &n)
	assert.True(t, got.IsUndetermined())
	assert.True(t, collector.Result().HasErrors())
}

func TestResolveModelProducesSelfAndSynthesizedShapes(t *testing.T) {
	field := ast.Field{
		Base:     ast.NewBase(ast.KindField, ast.NewPath(1, 1), location.Span{}),
		Name:     "email",
		TypeExpr: namedTypeExpr(1, 2, "String"),
	}
	model := ast.Model{
		Base:       ast.NewBase(ast.KindModel, ast.NewPath(1, 0), location.Span{}),
		Name:       "User",
		StringPath: "User",
		Fields:     []ast.Field{field},
	}

	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{model}}})
	ctx := Resolve(schema, noImports{}, diag.NewCollector(diag.NoLimit))
	_ = ctx

	resolved, ok := schema.Sources[1].Children[0].(ast.Model)
	require.True(t, ok)
	require.True(t, resolved.Resolved.IsSet())
	require.True(t, resolved.Fields[0].Resolved.IsSet())

	payload := resolved.Resolved.Get()
	self := unbox(payload.Self)
	ref, ok := self.Reference()
	require.True(t, ok)
	assert.Equal(t, "User", ref.StringPath)
	assert.Contains(t, payload.SynthesizedShapes, typesys.ShapeArgs.String())
}

func TestResolveEnumSynthesizesMemberUnion(t *testing.T) {
	e := ast.Enum{
		Base:    ast.NewBase(ast.KindEnum, ast.NewPath(1, 0), location.Span{}),
		Name:    "Role",
		Members: []ast.EnumMember{{Name: "Admin"}, {Name: "User"}},
	}
	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{e}}})
	Resolve(schema, noImports{}, diag.NewCollector(diag.NoLimit))

	resolved := schema.Sources[1].Children[0].(ast.Enum)
	union := unbox(resolved.Resolved.Get().MemberUnion)
	members, ok := union.UnionMembers()
	require.True(t, ok)
	require.Len(t, members, 2)
}

func TestResolveConstantFoldsLiteralExpression(t *testing.T) {
	pi := ast.Constant{
		Base: ast.NewBase(ast.KindConstant, ast.NewPath(1, 0), location.Span{}),
		Name: "Pi",
		Value: ast.Expression{
			Base:       ast.NewBase(ast.KindExpression, ast.NewPath(1, 1), location.Span{}),
			ExprKind:   ast.ExprFloatLiteral,
			FloatValue: 3.14,
		},
	}
	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{pi}}})
	Resolve(schema, noImports{}, diag.NewCollector(diag.NoLimit))

	resolved := schema.Sources[1].Children[0].(ast.Constant)
	got := unbox(resolved.Resolved.Get())
	prim, ok := got.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveFloat, prim)
}

func TestResolveConstantCycleYieldsUndeterminedNoError(t *testing.T) {
	// A references B, B references A: resolveIdentifierPath must terminate
	// via Context.enter/leave instead of recursing forever.
	a := ast.Constant{
		Base: ast.NewBase(ast.KindConstant, ast.NewPath(1, 0), location.Span{}),
		Name: "A",
		Value: ast.Expression{
			Base:           ast.NewBase(ast.KindExpression, ast.NewPath(1, 1), location.Span{}),
			ExprKind:       ast.ExprIdentifierPath,
			IdentifierPath: []string{"B"},
		},
	}
	b := ast.Constant{
		Base: ast.NewBase(ast.KindConstant, ast.NewPath(1, 2), location.Span{}),
		Name: "B",
		Value: ast.Expression{
			Base:           ast.NewBase(ast.KindExpression, ast.NewPath(1, 3), location.Span{}),
			ExprKind:       ast.ExprIdentifierPath,
			IdentifierPath: []string{"A"},
		},
	}
	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{a, b}}})
	collector := diag.NewCollector(diag.NoLimit)

	require.NotPanics(t, func() {
		Resolve(schema, noImports{}, collector)
	})

	resolvedA := schema.Sources[1].Children[0].(ast.Constant)
	require.True(t, resolvedA.Resolved.IsSet())
	assert.True(t, unbox(resolvedA.Resolved.Get()).IsUndetermined())
	assert.False(t, collector.Result().HasErrors(), "cycle must not itself be reported as an error")
}

func TestResolveInterfaceMaterializesDeclaredShape(t *testing.T) {
	field := ast.Field{
		Base:     ast.NewBase(ast.KindField, ast.NewPath(1, 1), location.Span{}),
		Name:     "value",
		TypeExpr: namedTypeExpr(1, 2, "Int"),
	}
	iface := ast.Interface{
		Base:       ast.NewBase(ast.KindInterface, ast.NewPath(1, 0), location.Span{}),
		Name:       "Box",
		StringPath: "Box",
		Fields:     []ast.Field{field},
	}
	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{iface}}})
	Resolve(schema, noImports{}, diag.NewCollector(diag.NoLimit))

	resolved := schema.Sources[1].Children[0].(ast.Interface)
	require.NotNil(t, resolved.Resolved)
	cell, ok := resolved.Resolved[""]
	require.True(t, ok)
	require.True(t, cell.IsSet())

	shape := unbox(cell.Get())
	_, inner, ok := shape.DeclaredShapeParts()
	require.True(t, ok)
	fields, ok := inner.ShapeFieldsMap()
	require.True(t, ok)
	assert.Contains(t, fields, "value")
}
