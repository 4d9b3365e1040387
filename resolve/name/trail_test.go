package name

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HeKe007/teo-parser/ast"
)

func TestTrailsNestedNamespaces(t *testing.T) {
	y := constantAt(1, 0, "Y", ast.AvailabilityDefault)
	inner := namespaceAt(1, 1, "Inner", y.Path())
	outer := namespaceAt(1, 2, "Outer", inner.Path())
	sibling := constantAt(1, 3, "Sibling", ast.AvailabilityDefault)

	schema := buildSchema(t, []*ast.Source{{ID: 1, Children: []ast.Node{y, inner, outer, sibling}}}, nil)

	trails := Trails(schema)

	assert.Equal(t, []string{"Outer"}, trails[inner.Path()])
	assert.Equal(t, []string{"Outer", "Inner"}, trails[y.Path()])
	_, ok := trails[sibling.Path()]
	assert.False(t, ok, "a source-root declaration has no namespace trail entry")
}
