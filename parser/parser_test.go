package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
)

func newTestContext() *Context {
	return newContext(1, location.MustNewSourceID("test.teo"), nil, diag.NewCollector(diag.NoLimit))
}

func TestParseTypeExprNamedWithGenericsAndOptional(t *testing.T) {
	ctx := newTestContext()

	name := leaf("identifier_path", "Array")
	generics := (&fakeNode{kind: "generics", named: true}).withChildren(leaf("identifier_path", "User"))
	n := (&fakeNode{kind: "named_type", named: true}).
		withField("name", name).
		withField("generics", generics).
		withField("optional", leaf("?", "?"))

	got := parseTypeExpr(ctx, n)

	assert.Equal(t, ast.TypeExprNamed, got.TypeExprKind)
	assert.Equal(t, []string{"Array"}, got.Name)
	assert.True(t, got.ItemOptional)
	require.Len(t, got.Generics, 1)
	assert.Equal(t, []string{"User"}, got.Generics[0].Name)
}

func TestParseTypeExprArrayAndPipeline(t *testing.T) {
	ctx := newTestContext()

	elemName := leaf("identifier_path", "Int")
	elem := (&fakeNode{kind: "named_type", named: true}).withField("name", elemName)
	arr := (&fakeNode{kind: "array_type", named: true}).withField("element", elem)

	got := parseTypeExpr(ctx, arr)
	require.Equal(t, ast.TypeExprArray, got.TypeExprKind)
	require.NotNil(t, got.Elem)
	assert.Equal(t, []string{"Int"}, got.Elem.Name)

	in := (&fakeNode{kind: "named_type", named: true}).withField("name", leaf("identifier_path", "Int"))
	out := (&fakeNode{kind: "named_type", named: true}).withField("name", leaf("identifier_path", "String"))
	pipe := (&fakeNode{kind: "pipeline_type", named: true}).withField("input", in).withField("output", out)

	gotPipe := parseTypeExpr(ctx, pipe)
	assert.Equal(t, ast.TypeExprPipeline, gotPipe.TypeExprKind)
	assert.Equal(t, []string{"Int"}, gotPipe.In.Name)
	assert.Equal(t, []string{"String"}, gotPipe.Out.Name)
}

func TestParseTypeExprUnrecognizedFallsBackToNamed(t *testing.T) {
	ctx := newTestContext()
	n := leaf("some_unknown_token", "Self")

	got := parseTypeExpr(ctx, n)
	assert.Equal(t, ast.TypeExprNamed, got.TypeExprKind)
	assert.Equal(t, []string{"Self"}, got.Name)
}

func TestParseExpressionLiterals(t *testing.T) {
	ctx := newTestContext()

	i := parseExpression(ctx, leaf("int_literal", "42"))
	assert.Equal(t, ast.ExprIntLiteral, i.ExprKind)
	assert.Equal(t, int64(42), i.IntValue)

	f := parseExpression(ctx, leaf("float_literal", "3.5"))
	assert.Equal(t, ast.ExprFloatLiteral, f.ExprKind)
	assert.InDelta(t, 3.5, f.FloatValue, 0.0001)

	s := parseExpression(ctx, leaf("string_literal", `"hello"`))
	assert.Equal(t, ast.ExprStringLiteral, s.ExprKind)
	assert.Equal(t, "hello", s.StringValue)

	b := parseExpression(ctx, leaf("bool_literal", "true"))
	assert.Equal(t, ast.ExprBoolLiteral, b.ExprKind)
	assert.True(t, b.BoolValue)
}

func TestParseExpressionBinaryOp(t *testing.T) {
	ctx := newTestContext()

	lhs := leaf("int_literal", "1")
	rhs := leaf("int_literal", "2")
	n := (&fakeNode{kind: "binary_expression", named: true}).
		withField("left", lhs).
		withField("right", rhs).
		withField("operator", leaf("op", ast.OpAdd))

	got := parseExpression(ctx, n)
	assert.Equal(t, ast.ExprBinaryOp, got.ExprKind)
	assert.Equal(t, ast.OpAdd, got.Operator)
	require.NotNil(t, got.Lhs)
	require.NotNil(t, got.Rhs)
	assert.Equal(t, int64(1), got.Lhs.IntValue)
	assert.Equal(t, int64(2), got.Rhs.IntValue)
}

func TestParseExpressionUnitApplication(t *testing.T) {
	ctx := newTestContext()

	arg := (&fakeNode{kind: "argument", named: true}).
		withField("name", leaf("identifier", "length")).
		withField("value", leaf("int_literal", "10"))
	args := (&fakeNode{kind: "arguments", named: true}).withChildren(arg)
	n := (&fakeNode{kind: "unit_application", named: true}).
		withField("callee", leaf("identifier", "maxLength")).
		withField("arguments", args)

	got := parseExpression(ctx, n)
	assert.Equal(t, ast.ExprUnitApplication, got.ExprKind)
	assert.Equal(t, "maxLength", got.CalleeName)
	require.Len(t, got.Arguments, 1)
	assert.Equal(t, "length", got.Arguments[0].Name)
	assert.Equal(t, int64(10), got.Arguments[0].Value.IntValue)
}

func TestParseUnparsedNodeRecordsDiagnostic(t *testing.T) {
	ctx := newTestContext()
	n := &fakeNode{kind: "int_literal", named: true, isErr: true}

	parseExpression(ctx, n)

	result := ctx.collector.Result()
	assert.True(t, result.HasUnparsed())
}

func TestParserParseModelWithField(t *testing.T) {
	collector := diag.NewCollector(diag.NoLimit)
	p := NewParser(collector)

	fieldName := leaf("identifier", "name")
	fieldType := (&fakeNode{kind: "named_type", named: true}).withField("name", leaf("identifier_path", "String"))
	field := (&fakeNode{kind: "field", named: true}).
		withField("name", fieldName).
		withField("type", fieldType)

	model := (&fakeNode{kind: "model_declaration", named: true}).
		withField("name", leaf("identifier", "User")).
		withChildren(field)

	root := (&fakeNode{kind: "source_file", named: true}).withChildren(model)
	src := &fakeSource{root: root, content: []byte("model User {\n  name: String\n}\n")}

	result := p.Parse(1, location.MustNewSourceID("user.teo"), src)

	require.Len(t, result.Children, 1)
	got, ok := result.Children[0].(ast.Model)
	require.True(t, ok)
	assert.Equal(t, "User", got.Name)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "name", got.Fields[0].Name)
	assert.Equal(t, []string{"String"}, got.Fields[0].TypeExpr.Name)
}

func TestParserParseNamespaceFlushesNestedDeclarations(t *testing.T) {
	collector := diag.NewCollector(diag.NoLimit)
	p := NewParser(collector)

	constant := (&fakeNode{kind: "constant_declaration", named: true}).
		withField("name", leaf("identifier", "Pi")).
		withField("value", leaf("float_literal", "3.14"))

	ns := (&fakeNode{kind: "namespace_declaration", named: true}).
		withField("name", leaf("identifier", "math")).
		withChildren(constant)

	root := (&fakeNode{kind: "source_file", named: true}).withChildren(ns)
	src := &fakeSource{root: root, content: []byte("namespace math { constant Pi = 3.14 }")}

	result := p.Parse(1, location.MustNewSourceID("math.teo"), src)

	// The namespace itself plus its flushed nested member.
	require.Len(t, result.Children, 2)

	var namespace *ast.Namespace
	for i := range result.Children {
		if ns, ok := result.Children[i].(ast.Namespace); ok {
			namespace = &ns
		}
	}
	require.NotNil(t, namespace)
	require.Len(t, namespace.Members, 1)

	found := false
	for _, child := range result.Children {
		if c, ok := child.(ast.Constant); ok && c.Path() == namespace.Members[0] {
			found = true
			assert.Equal(t, "Pi", c.Name)
		}
	}
	assert.True(t, found, "nested constant must be reachable from Source.Children by path")
}

func TestParserUnrecognizedTopLevelNodeIsUnparsedNotFatal(t *testing.T) {
	collector := diag.NewCollector(diag.NoLimit)
	p := NewParser(collector)

	root := (&fakeNode{kind: "source_file", named: true}).withChildren(
		leaf("mystery_declaration", "???"),
		(&fakeNode{kind: "constant_declaration", named: true}).
			withField("name", leaf("identifier", "X")).
			withField("value", leaf("int_literal", "1")),
	)
	src := &fakeSource{root: root, content: []byte("??? constant X = 1")}

	result := p.Parse(1, location.MustNewSourceID("mixed.teo"), src)

	require.Len(t, result.Children, 1)
	_, ok := result.Children[0].(ast.Constant)
	assert.True(t, ok)
	assert.True(t, collector.Result().HasUnparsed())
}
