package gonets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netgen-systems/gonets/gonets"
)

func TestShapeMultiplicity(t *testing.T) {
	require.Equal(t, 0, gonets.Shape(nil).Multiplicity())
	require.Equal(t, 4, gonets.Shape{5, 0, 1, 4}.Multiplicity())
}

func TestShapeDominates(t *testing.T) {
	sbu := gonets.Shape{5, 0, 1, 4}

	require.True(t, sbu.Dominates(gonets.Shape{5, 0, 1, 4}))
	require.True(t, sbu.Dominates(gonets.Shape{1, 0, 0, 4}))

	// trailing multiplicity entry is not part of the ordering
	require.True(t, sbu.Dominates(gonets.Shape{5, 0, 1, 9}))

	require.False(t, sbu.Dominates(gonets.Shape{6, 0, 1, 4}))
	require.False(t, sbu.Dominates(gonets.Shape{5, 1, 1, 4}))

	// shapes of unequal length are never comparable
	require.False(t, sbu.Dominates(gonets.Shape{1, 4}))
}

func TestShapeLSMRoundTrip(t *testing.T) {
	for _, shape := range []gonets.Shape{
		{},
		{1, 2},
		{9, 4, 3, 0, 0, 6},
		{-1, 300, 0, 12},
	} {
		key := shape.AppendShapeLSM(nil)

		var out gonets.Shape
		require.NoError(t, out.InitFromShapeLSM(key))
		require.Equal(t, len(shape), len(out))
		require.True(t, shape.IsEqual(out))
	}

	var out gonets.Shape
	require.ErrorIs(t, out.InitFromShapeLSM(nil), gonets.ErrUnmarshal)
}

func TestShapeComparator(t *testing.T) {
	// multiplicity orders first, then elements
	require.Negative(t, gonets.ShapeComparator(gonets.Shape{9, 3}, gonets.Shape{0, 0, 4}))
	require.Positive(t, gonets.ShapeComparator(gonets.Shape{2, 0, 4}, gonets.Shape{1, 0, 4}))
	require.Zero(t, gonets.ShapeComparator(gonets.Shape{1, 2}, gonets.Shape{1, 2}))
}
