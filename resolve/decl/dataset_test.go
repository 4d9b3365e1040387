package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
	"github.com/HeKe007/teo-parser/typesys"
)

func testDataSet(record ast.DataSetRecord) ast.DataSet {
	return ast.DataSet{
		Base: ast.NewBase(ast.KindDataSet, ast.NewPath(1, 1), location.Span{}),
		Name: "seed",
		Groups: []ast.DataSetGroup{{
			Base:      ast.NewBase(ast.KindDataSetGroup, ast.NewPath(1, 1, 0), location.Span{}),
			ModelName: "User",
			Records:   []ast.DataSetRecord{record},
		}},
	}
}

func testUserModel() ast.Model {
	return ast.Model{
		Base:       ast.NewBase(ast.KindModel, ast.NewPath(1, 0), location.Span{}),
		Name:       "User",
		StringPath: "User",
		Fields: []ast.Field{
			{
				Base:     ast.NewBase(ast.KindField, ast.NewPath(1, 0, 0), location.Span{}),
				Name:     "name",
				TypeExpr: namedTypeExpr(1, 50, "String"),
			},
			{
				Base:     ast.NewBase(ast.KindField, ast.NewPath(1, 0, 1), location.Span{}),
				Name:     "age",
				TypeExpr: namedTypeExpr(1, 51, "Int"),
			},
		},
	}
}

func TestResolveJSONCRecordTypesFieldsAgainstModel(t *testing.T) {
	record := ast.DataSetRecord{
		Base:         ast.NewBase(ast.KindDataSetRecord, ast.NewPath(1, 1, 0, 0), location.Span{}),
		JSONCLiteral: `{"name": "admin", "age": 42}`,
	}
	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{testUserModel(), testDataSet(record)}}})
	collector := diag.NewCollector(diag.NoLimit)
	Resolve(schema, noImports{}, collector)

	resolved := schema.Sources[1].Children[1].(ast.DataSet)
	got := resolved.Groups[0].Records[0]
	require.True(t, got.Resolved.IsSet())

	fieldTypes := got.Resolved.Get().FieldTypes
	namePrim, ok := unbox(fieldTypes["name"]).PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveString, namePrim)

	agePrim, ok := unbox(fieldTypes["age"]).PrimitiveKind()
	require.True(t, ok)
	assert.Equal(t, typesys.PrimitiveInt, agePrim)
	assert.False(t, collector.Result().HasErrors())
}

func TestResolveJSONCRecordMismatchedFieldDiagnosed(t *testing.T) {
	record := ast.DataSetRecord{
		Base:         ast.NewBase(ast.KindDataSetRecord, ast.NewPath(1, 1, 0, 0), location.Span{}),
		JSONCLiteral: `{"age": "not a number"}`,
	}
	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{testUserModel(), testDataSet(record)}}})
	collector := diag.NewCollector(diag.NoLimit)
	Resolve(schema, noImports{}, collector)

	var codes []diag.Code
	for issue := range collector.Result().Issues() {
		codes = append(codes, issue.Code())
	}
	assert.Contains(t, codes, diag.ETypeMismatch)
}

func TestResolveJSONCRecordMalformedLiteralDiagnosed(t *testing.T) {
	record := ast.DataSetRecord{
		Base:         ast.NewBase(ast.KindDataSetRecord, ast.NewPath(1, 1, 0, 0), location.Span{}),
		JSONCLiteral: `{"name": }`,
	}
	schema := buildTestSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{testUserModel(), testDataSet(record)}}})
	collector := diag.NewCollector(diag.NoLimit)
	Resolve(schema, noImports{}, collector)

	var codes []diag.Code
	for issue := range collector.Result().Issues() {
		codes = append(codes, issue.Code())
	}
	assert.Contains(t, codes, diag.EDatasetRecordParse)
}
