package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorMintsPrefixExtendingPaths(t *testing.T) {
	a := NewAllocator(7)

	model := a.NextParentPath() // [7, 0]
	field1 := a.NextPath()      // [7, 0, 0]
	field2 := a.NextPath()      // [7, 0, 1]
	a.PopParentID()
	sibling := a.NextPath() // [7, 1]

	assert.True(t, model.IsPrefixOf(field1))
	assert.True(t, model.IsPrefixOf(field2))
	assert.False(t, model.IsPrefixOf(sibling))
	assert.Equal(t, uint32(7), sibling.SourceID())
	assert.Equal(t, uint32(1), sibling.Last())

	parent, ok := field2.Parent()
	require.True(t, ok)
	assert.Equal(t, model, parent)
}

func TestAllocatorPopWithoutPushPanics(t *testing.T) {
	a := NewAllocator(1)
	assert.Panics(t, func() { a.PopParentID() })
}

func TestPathRootHasNoParent(t *testing.T) {
	root := NewPath(3)
	_, ok := root.Parent()
	assert.False(t, ok)
}

func TestAvailabilityContainsAndBiAnd(t *testing.T) {
	debugAndTest := AvailabilityDebug | AvailabilityTest
	assert.True(t, debugAndTest.Contains(AvailabilityDebug))
	assert.False(t, AvailabilityDebug.Contains(debugAndTest))
	assert.Equal(t, AvailabilityDebug, debugAndTest.BiAnd(AvailabilityDebug|AvailabilityClient))
}

func TestResolvedCellPanicsBeforeSet(t *testing.T) {
	var cell ResolvedCell[int]
	assert.Panics(t, func() { cell.Get() })
	cell.Set(42)
	assert.Equal(t, 42, cell.Get())
	assert.Panics(t, func() { cell.Set(43) })
}

func TestTypeExprDisplayRoundTripsNamedAndOptional(t *testing.T) {
	inner := TypeExprNode{TypeExprKind: TypeExprNamed, Name: []string{"Int"}}
	opt := TypeExprNode{TypeExprKind: TypeExprOptional, Elem: &inner}
	assert.Equal(t, "Int?", opt.Display())

	arr := TypeExprNode{TypeExprKind: TypeExprArray, Elem: &inner}
	assert.Equal(t, "Int[]", arr.Display())

	pipe := TypeExprNode{TypeExprKind: TypeExprPipeline, In: &inner, Out: &arr}
	assert.Equal(t, "Int -> Int[]", pipe.Display())
}
