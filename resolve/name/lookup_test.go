package name

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
)

// mapResolver resolves import paths by exact string, ignoring the
// referencing source — good enough for tests that don't need relative
// path joining.
type mapResolver map[string]uint32

func (r mapResolver) ResolveImportSourceID(_ uint32, importPath string) (uint32, bool) {
	id, ok := r[importPath]
	return id, ok
}

func constantAt(sourceID, local uint32, name string, availability ast.Availability) ast.Constant {
	return ast.Constant{
		Base:         ast.NewBase(ast.KindConstant, ast.NewPath(sourceID, local), location.Span{}),
		Name:         name,
		Availability: availability,
	}
}

func namespaceAt(sourceID, local uint32, name string, members ...ast.Path) ast.Namespace {
	return ast.Namespace{
		Base:    ast.NewBase(ast.KindNamespace, ast.NewPath(sourceID, local), location.Span{}),
		Name:    name,
		Members: members,
	}
}

func buildSchema(t *testing.T, sources []*ast.Source, builtins map[uint32]bool) *assemble.Schema {
	t.Helper()
	collector := diag.NewCollector(diag.NoLimit)
	return assemble.Build(sources, 1, builtins, collector)
}

func TestLookupFindsTopLevelDeclarationInCurrentSource(t *testing.T) {
	pi := constantAt(1, 0, "Pi", ast.AvailabilityDefault)
	schema := buildSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{pi}}}, nil)

	got, ok := Lookup(schema, mapResolver{}, 1, nil, []string{"Pi"}, ValueReference, ast.AvailabilityDefault)
	require.True(t, ok)
	assert.Equal(t, pi.Path(), got.Path())
}

func TestLookupWalksNamespaceTrailPoppingSegments(t *testing.T) {
	y := constantAt(1, 0, "Y", ast.AvailabilityDefault)
	inner := namespaceAt(1, 1, "Inner")
	outer := namespaceAt(1, 2, "Outer", y.Path(), inner.Path())

	schema := buildSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{y, inner, outer}}}, nil)

	got, ok := Lookup(schema, mapResolver{}, 1, []string{"Outer", "Inner"}, []string{"Y"}, ValueReference, ast.AvailabilityDefault)
	require.True(t, ok)
	assert.Equal(t, y.Path(), got.Path())
}

func TestLookupFollowsImports(t *testing.T) {
	shared := constantAt(2, 0, "Shared", ast.AvailabilityDefault)

	sources := []*ast.Source{
		{ID: 1, Children: nil, Imports: []ast.Import{{ImportPath: "./b"}}},
		{ID: 2, Children: []ast.Node{shared}},
	}
	schema := buildSchema(t, sources, nil)
	resolver := mapResolver{"./b": 2}

	got, ok := Lookup(schema, resolver, 1, nil, []string{"Shared"}, ValueReference, ast.AvailabilityDefault)
	require.True(t, ok)
	assert.Equal(t, shared.Path(), got.Path())
}

func TestLookupFollowsImportsWithNamespaceTrail(t *testing.T) {
	// A reference written inside `namespace app` must still try the
	// app-qualified name in imported sources, not just their roots.
	shared := constantAt(2, 0, "Shared", ast.AvailabilityDefault)
	app := namespaceAt(2, 1, "app", shared.Path())

	sources := []*ast.Source{
		{ID: 1, Children: nil, Imports: []ast.Import{{ImportPath: "./b"}}},
		{ID: 2, Children: []ast.Node{shared, app}},
	}
	schema := buildSchema(t, sources, nil)
	resolver := mapResolver{"./b": 2}

	got, ok := Lookup(schema, resolver, 1, []string{"app"}, []string{"Shared"}, ValueReference, ast.AvailabilityDefault)
	require.True(t, ok)
	assert.Equal(t, shared.Path(), got.Path())
}

func TestLookupImportCycleTerminates(t *testing.T) {
	sources := []*ast.Source{
		{ID: 1, Children: nil, Imports: []ast.Import{{ImportPath: "./b"}}},
		{ID: 2, Children: nil, Imports: []ast.Import{{ImportPath: "./a"}}},
	}
	schema := buildSchema(t, sources, nil)
	resolver := mapResolver{"./b": 2, "./a": 1}

	_, ok := Lookup(schema, resolver, 1, nil, []string{"Missing"}, ValueReference, ast.AvailabilityDefault)
	assert.False(t, ok)
}

func TestLookupFallsBackToBuiltinSource(t *testing.T) {
	maxInt := constantAt(2, 0, "MaxInt", ast.AvailabilityDefault)
	std := namespaceAt(2, 1, "std", maxInt.Path())

	sources := []*ast.Source{
		{ID: 1, Children: nil},
		{ID: 2, Children: []ast.Node{maxInt, std}},
	}
	schema := buildSchema(t, sources, map[uint32]bool{2: true})

	got, ok := Lookup(schema, mapResolver{}, 1, nil, []string{"MaxInt"}, ValueReference, ast.AvailabilityDefault)
	require.True(t, ok)
	assert.Equal(t, maxInt.Path(), got.Path())
}

func TestLookupFilterRejectsWrongKind(t *testing.T) {
	pi := constantAt(1, 0, "Pi", ast.AvailabilityDefault)
	schema := buildSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{pi}}}, nil)

	_, ok := Lookup(schema, mapResolver{}, 1, nil, []string{"Pi"}, TypeReference, ast.AvailabilityDefault)
	assert.False(t, ok)
}

func TestLookupAvailabilityGatesResult(t *testing.T) {
	debugOnly := constantAt(1, 0, "Flag", ast.AvailabilityDebug)
	schema := buildSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{debugOnly}}}, nil)

	_, ok := Lookup(schema, mapResolver{}, 1, nil, []string{"Flag"}, ValueReference, ast.AvailabilityDefault)
	assert.False(t, ok)

	got, ok := Lookup(schema, mapResolver{}, 1, nil, []string{"Flag"}, ValueReference, ast.AvailabilityDebug)
	require.True(t, ok)
	assert.Equal(t, debugOnly.Path(), got.Path())
}
