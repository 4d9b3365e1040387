package argument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
	"github.com/HeKe007/teo-parser/resolve/decl"
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

func resolvedSchema(t *testing.T, children ...ast.Node) (*decl.Context, *diag.Collector) {
	t.Helper()
	collector := diag.NewCollector(diag.NoLimit)
	schema := assemble.Build([]*ast.Source{{ID: 1, Children: children}}, 1, nil, collector)
	ctx := decl.Resolve(schema, noImports{}, collector)
	return ctx, collector
}

func userModel() ast.Model {
	return ast.Model{
		Base:       ast.NewBase(ast.KindModel, ast.NewPath(1, 0), location.Span{}),
		Name:       "User",
		StringPath: "User",
		Fields: []ast.Field{
			{
				Base:     ast.NewBase(ast.KindField, ast.NewPath(1, 0, 0), location.Span{}),
				Name:     "id",
				TypeExpr: namedTypeExpr(1, 100, "Int"),
			},
			{
				Base:     ast.NewBase(ast.KindField, ast.NewPath(1, 0, 1), location.Span{}),
				Name:     "name",
				TypeExpr: namedTypeExpr(1, 101, "String"),
			},
		},
	}
}

func genericPipelineVariant(sourceID uint32) ast.CallableVariantDecl {
	// identity<T>(): T -> T
	return ast.CallableVariantDecl{
		Generics: &ast.GenericsDeclaration{
			Base:  ast.NewBase(ast.KindGenericsDeclaration, ast.NewPath(sourceID, 10), location.Span{}),
			Names: []string{"T"},
		},
		PipeIn:  namedTypeExpr(sourceID, 11, "T"),
		PipeOut: namedTypeExpr(sourceID, 12, "T"),
	}
}

func TestGenericInferenceThroughPipeline(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{genericPipelineVariant(1)},
		nil, nil, typesys.Prim(typesys.PrimitiveString))

	require.True(t, result.Matched)
	assert.Empty(t, result.Diagnostics)

	prim, ok := result.ReturnType.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveString, prim)

	bound, ok := result.GenericsMap["T"]
	require.True(t, ok)
	prim, ok = bound.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveString, prim)
}

func TestMissingRequiredArgument(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	// take(x: Int) invoked with no argument list: the lone variant commits
	// anyway and its errors become real diagnostics.
	variant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 20), location.Span{}),
			Name:     "x",
			TypeExpr: namedTypeExpr(1, 21, "Int"),
		}},
	}

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{variant}, nil, nil, typesys.Undetermined())

	require.True(t, result.Matched)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, diag.EMissingArgument, result.Diagnostics[0].Code())
	assert.Contains(t, result.Diagnostics[0].Message(), `missing argument "x"`)
}

func TestFieldNameArgumentResolvesExpectAgainstModel(t *testing.T) {
	ctx, _ := resolvedSchema(t, userModel())

	// whereUnique<T>(filter: T) with pipeline input User and argument .id:
	// expect must land on the id field's Int.
	variant := ast.CallableVariantDecl{
		Generics: &ast.GenericsDeclaration{
			Base:  ast.NewBase(ast.KindGenericsDeclaration, ast.NewPath(1, 30), location.Span{}),
			Names: []string{"T"},
		},
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 31), location.Span{}),
			Name:     "filter",
			TypeExpr: namedTypeExpr(1, 32, "T"),
		}},
	}
	arguments := []ast.Argument{{
		Base: ast.NewBase(ast.KindArgument, ast.NewPath(1, 33), location.Span{}),
		Value: ast.Expression{
			Base:           ast.NewBase(ast.KindExpression, ast.NewPath(1, 34), location.Span{}),
			ExprKind:       ast.ExprFieldNameLiteral,
			IdentifierPath: []string{"id"},
		},
	}}

	userRef, ok := ctx.ModelRef(ast.NewPath(1, 0))
	require.True(t, ok)

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{variant}, arguments, nil, typesys.ModelRef(userRef))

	require.True(t, result.Matched)
	assert.Empty(t, result.Diagnostics)

	require.True(t, arguments[0].Resolved.IsSet())
	expect := decl.Unbox(arguments[0].Resolved.Get().Expect)
	prim, ok := expect.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveInt, prim)
}

func TestRedundantAndDuplicatedArguments(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	variant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 40), location.Span{}),
			Name:     "x",
			TypeExpr: namedTypeExpr(1, 41, "Int"),
		}},
	}
	intArg := func(local uint32, named string) ast.Argument {
		return ast.Argument{
			Base: ast.NewBase(ast.KindArgument, ast.NewPath(1, local), location.Span{}),
			Name: named,
			Value: ast.Expression{
				Base:     ast.NewBase(ast.KindExpression, ast.NewPath(1, local+1), location.Span{}),
				ExprKind: ast.ExprIntLiteral,
				IntValue: 1,
			},
		}
	}

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{variant},
		[]ast.Argument{intArg(42, "x"), intArg(44, "x"), intArg(46, "")},
		nil, typesys.Undetermined())

	require.True(t, result.Matched)
	codes := make([]diag.Code, 0, len(result.Diagnostics))
	for _, issue := range result.Diagnostics {
		codes = append(codes, issue.Code())
	}
	assert.Contains(t, codes, diag.EDuplicatedArgument)
	assert.Contains(t, codes, diag.ERedundantArgument)
}

func TestMultiAttemptPicksFirstMatchingVariant(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	stringVariant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 50), location.Span{}),
			Name:     "value",
			TypeExpr: namedTypeExpr(1, 51, "String"),
		}},
	}
	intVariant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 52), location.Span{}),
			Name:     "value",
			TypeExpr: namedTypeExpr(1, 53, "Int"),
		}},
	}
	arguments := []ast.Argument{{
		Base: ast.NewBase(ast.KindArgument, ast.NewPath(1, 54), location.Span{}),
		Name: "value",
		Value: ast.Expression{
			Base:     ast.NewBase(ast.KindExpression, ast.NewPath(1, 55), location.Span{}),
			ExprKind: ast.ExprIntLiteral,
			IntValue: 7,
		},
	}}

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{stringVariant, intVariant}, arguments, nil, typesys.Undetermined())

	require.True(t, result.Matched)
	assert.Equal(t, 1, result.VariantIndex)
	assert.Empty(t, result.Diagnostics)
}

func TestDuplicatedArgumentSurvivesMultiAttempt(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	// Two candidates force the MultiAttempt path. A duplicated name is a
	// defect of the supplied list, reported once up front — it must not
	// reject every candidate, and its diagnostic must not be discarded
	// with the losing attempts' sandboxes.
	stringVariant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 56), location.Span{}),
			Name:     "value",
			TypeExpr: namedTypeExpr(1, 57, "String"),
		}},
	}
	intVariant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 58), location.Span{}),
			Name:     "value",
			TypeExpr: namedTypeExpr(1, 59, "Int"),
		}},
	}
	intArg := func(local uint32) ast.Argument {
		return ast.Argument{
			Base: ast.NewBase(ast.KindArgument, ast.NewPath(1, local), location.Span{}),
			Name: "value",
			Value: ast.Expression{
				Base:     ast.NewBase(ast.KindExpression, ast.NewPath(1, local+1), location.Span{}),
				ExprKind: ast.ExprIntLiteral,
				IntValue: 7,
			},
		}
	}

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{stringVariant, intVariant},
		[]ast.Argument{intArg(60), intArg(62)}, nil, typesys.Undetermined())

	require.True(t, result.Matched)
	assert.Equal(t, 1, result.VariantIndex)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, diag.EDuplicatedArgument, result.Diagnostics[0].Code())
}

func TestNoVariantMatchesReportsNotFound(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	stringVariant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 60), location.Span{}),
			Name:     "a",
			TypeExpr: namedTypeExpr(1, 61, "String"),
		}},
	}
	boolVariant := ast.CallableVariantDecl{
		Arguments: []ast.ArgumentDeclaration{{
			Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 62), location.Span{}),
			Name:     "a",
			TypeExpr: namedTypeExpr(1, 63, "Bool"),
		}},
	}
	arguments := []ast.Argument{{
		Base: ast.NewBase(ast.KindArgument, ast.NewPath(1, 64), location.Span{}),
		Name: "a",
		Value: ast.Expression{
			Base:     ast.NewBase(ast.KindExpression, ast.NewPath(1, 65), location.Span{}),
			ExprKind: ast.ExprIntLiteral,
			IntValue: 1,
		},
	}}

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{stringVariant, boolVariant}, arguments, nil, typesys.Undetermined())

	assert.False(t, result.Matched)
	assert.Equal(t, -1, result.VariantIndex)
}

func TestConstraintInFamilyFailureDiagnosesButStillMatches(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	// identity<T> where T: Int, explicitly instantiated with String: same
	// primitive family, wrong member — diagnostic, but still a match.
	variant := genericPipelineVariant(1)
	variant.Constraints = []ast.GenericsConstraint{{
		Base:     ast.NewBase(ast.KindGenericsConstraint, ast.NewPath(1, 70), location.Span{}),
		Name:     "T",
		TypeExpr: namedTypeExpr(1, 71, "Int"),
	}}

	result := MatchCallable(ctx, 1, nil, ast.AvailabilityDefault, location.Span{},
		[]ast.CallableVariantDecl{variant}, nil,
		[]typesys.Type{typesys.Prim(typesys.PrimitiveString)}, typesys.Undetermined())

	require.True(t, result.Matched)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, diag.EGenericConstraintNotSatisfied, result.Diagnostics[0].Code())
}

func TestConstraintOutOfFamilyRejectsVariantSilently(t *testing.T) {
	ctx, _ := resolvedSchema(t)

	constrained := genericPipelineVariant(1)
	constrained.Constraints = []ast.GenericsConstraint{{
		Base:     ast.NewBase(ast.KindGenericsConstraint, ast.NewPath(1, 80), location.Span{}),
		Name:     "T",
		TypeExpr: namedTypeExpr(1, 81, "Int"),
	}}

	sink := &sandbox{}
	matched := checkConstraints(ctx, 1, nil, ast.AvailabilityDefault,
		map[string]bool{"T": true}, sink, location.Span{}, constrained,
		map[string]typesys.Type{"T": typesys.Array(typesys.Prim(typesys.PrimitiveInt))})

	assert.False(t, matched)
	assert.Empty(t, sink.issues)
}

func TestFlattenFieldTypeResolvesModelField(t *testing.T) {
	ctx, _ := resolvedSchema(t, userModel())
	userRef, ok := ctx.ModelRef(ast.NewPath(1, 0))
	require.True(t, ok)

	resolved := FlattenFieldType(ctx, typesys.FieldType(typesys.ModelRef(userRef), typesys.FieldName("name")))
	prim, ok := resolved.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveString, prim)

	missing := FlattenFieldType(ctx, typesys.FieldType(typesys.ModelRef(userRef), typesys.FieldName("ghost")))
	assert.True(t, missing.IsUndetermined())
}

func TestSweepResolvesFieldDecoratorAgainstDeclaredVariants(t *testing.T) {
	// declare decorator default<T>(value: T), applied as @default(5) on an
	// Int field: T infers to Int and the application records its result.
	decoratorDecl := ast.DecoratorDeclaration{
		Base: ast.NewBase(ast.KindDecoratorDeclaration, ast.NewPath(1, 1), location.Span{}),
		Name: "default",
		Variants: []ast.CallableVariantDecl{{
			Generics: &ast.GenericsDeclaration{
				Base:  ast.NewBase(ast.KindGenericsDeclaration, ast.NewPath(1, 90), location.Span{}),
				Names: []string{"T"},
			},
			Arguments: []ast.ArgumentDeclaration{{
				Base:     ast.NewBase(ast.KindArgumentDeclaration, ast.NewPath(1, 91), location.Span{}),
				Name:     "value",
				TypeExpr: namedTypeExpr(1, 92, "T"),
			}},
		}},
	}

	model := userModel()
	model.Fields[0].Decorators = []ast.Decorator{{
		Base: ast.NewBase(ast.KindDecorator, ast.NewPath(1, 0, 0, 0), location.Span{}),
		Name: "default",
		Arguments: []ast.Argument{{
			Base: ast.NewBase(ast.KindArgument, ast.NewPath(1, 0, 0, 1), location.Span{}),
			Value: ast.Expression{
				Base:     ast.NewBase(ast.KindExpression, ast.NewPath(1, 0, 0, 2), location.Span{}),
				ExprKind: ast.ExprIntLiteral,
				IntValue: 5,
			},
		}},
	}}

	ctx, collector := resolvedSchema(t, model, decoratorDecl)
	Sweep(ctx)

	resolvedModel := ctx.Schema.Sources[1].Children[0].(ast.Model)
	d := resolvedModel.Fields[0].Decorators[0]
	require.True(t, d.Resolved.IsSet())
	assert.Equal(t, 0, d.Resolved.Get().VariantIndex)

	bound := decl.Unbox(d.Resolved.Get().GenericsMap["T"])
	prim, ok := bound.PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveInt, prim)
	assert.False(t, collector.Result().HasErrors())
}

func TestSweepResolvesPipelineChainInConstant(t *testing.T) {
	// const X = $identity, where identity<T>(): T -> T is declared: the
	// pipeline input is Undetermined, so T stays unbound and the chain
	// output is the bare generic T, but the callable site resolves without
	// error.
	item := ast.PipelineItemDeclaration{
		Base:     ast.NewBase(ast.KindPipelineItemDeclaration, ast.NewPath(1, 0), location.Span{}),
		Name:     "identity",
		Variants: []ast.CallableVariantDecl{genericPipelineVariant(1)},
	}
	constant := ast.Constant{
		Base: ast.NewBase(ast.KindConstant, ast.NewPath(1, 1), location.Span{}),
		Name: "X",
		Value: ast.Expression{
			Base:     ast.NewBase(ast.KindExpression, ast.NewPath(1, 2), location.Span{}),
			ExprKind: ast.ExprPipeline,
			PipelineSteps: []ast.Expression{{
				Base:       ast.NewBase(ast.KindExpression, ast.NewPath(1, 3), location.Span{}),
				ExprKind:   ast.ExprUnitApplication,
				CalleeName: "identity",
			}},
		},
	}

	ctx, collector := resolvedSchema(t, item, constant)
	Sweep(ctx)

	resolvedConstant := ctx.Schema.Sources[1].Children[1].(ast.Constant)
	require.True(t, resolvedConstant.Value.Resolved.IsSet())
	assert.False(t, collector.Result().HasErrors())
}
