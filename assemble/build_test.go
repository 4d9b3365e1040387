package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
)

func configAt(sourceID, local uint32, keyword string) ast.Config {
	path := ast.NewPath(sourceID, local)
	return ast.Config{Base: ast.NewBase(ast.KindConfig, path, location.Span{}), Keyword: keyword}
}

func TestBuildSingleServerConfigUniqueness(t *testing.T) {
	first := configAt(1, 0, "server")
	second := configAt(2, 0, "server")

	sources := []*ast.Source{
		{ID: 1, Children: []ast.Node{first}},
		{ID: 2, Children: []ast.Node{second}},
	}

	collector := diag.NewCollector(diag.NoLimit)
	schema := Build(sources, 1, nil, collector)

	assert.Equal(t, first.Path(), schema.References.Server)
	result := collector.Result()
	assert.Equal(t, 1, result.SeverityCounts().Errors)
}

func TestBuildNoDuplicateNoDiagnostic(t *testing.T) {
	server := configAt(1, 0, "server")
	debug := configAt(1, 1, "debug")

	sources := []*ast.Source{
		{ID: 1, Children: []ast.Node{server, debug}},
	}

	collector := diag.NewCollector(diag.NoLimit)
	schema := Build(sources, 1, nil, collector)

	assert.Equal(t, server.Path(), schema.References.Server)
	assert.Equal(t, debug.Path(), schema.References.Debug)
	assert.True(t, schema.References.Test.IsZero())
	assert.True(t, collector.Result().OK())
}

func TestBuildIndexesDeclarationsByKind(t *testing.T) {
	model := ast.Model{Base: ast.NewBase(ast.KindModel, ast.NewPath(1, 0), location.Span{}), Name: "User"}
	enum := ast.Enum{Base: ast.NewBase(ast.KindEnum, ast.NewPath(1, 1), location.Span{}), Name: "Role"}
	constant := ast.Constant{Base: ast.NewBase(ast.KindConstant, ast.NewPath(1, 2), location.Span{}), Name: "Pi"}

	sources := []*ast.Source{
		{ID: 1, Children: []ast.Node{model, enum, constant}},
	}

	collector := diag.NewCollector(diag.NoLimit)
	schema := Build(sources, 1, nil, collector)

	assert.Equal(t, []ast.Path{model.Path()}, schema.References.Models)
	assert.Equal(t, []ast.Path{enum.Path()}, schema.References.Enums)
	assert.Equal(t, []ast.Path{constant.Path()}, schema.References.Constants)

	perFile := schema.SourceReferencesFor(1)
	require.NotNil(t, perFile)
	assert.Equal(t, []ast.Path{model.Path()}, perFile.Models)
}

func TestBuildPartitionsBuiltinAndUserSources(t *testing.T) {
	sources := []*ast.Source{
		{ID: 1, Children: nil},
		{ID: 2, Children: nil},
	}

	collector := diag.NewCollector(diag.NoLimit)
	schema := Build(sources, 1, map[uint32]bool{2: true}, collector)

	assert.Equal(t, []uint32{1}, schema.References.UserSources)
	assert.Equal(t, []uint32{2}, schema.References.BuiltinSources)
	assert.Equal(t, uint32(1), schema.References.MainSource)
}
