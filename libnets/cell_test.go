package libnets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netgen-systems/gonets/gonets"
	"github.com/netgen-systems/gonets/libnets"
)

func TestNewCellFromPar(t *testing.T) {
	cell, err := libnets.NewCellFromPar(10, 10, 10, 90, 90, 90)
	require.NoError(t, err)

	vecs := cell.Vectors()
	require.InDelta(t, 10, vecs[0][0], 1e-9)
	require.InDelta(t, 10, vecs[1][1], 1e-9)
	require.InDelta(t, 10, vecs[2][2], 1e-9)
	require.InDelta(t, 0, vecs[1][0], 1e-9)

	lengths := cell.Lengths()
	require.InDelta(t, 10, lengths[2], 1e-9)
}

func TestNewCellFromParHexagonal(t *testing.T) {
	cell, err := libnets.NewCellFromPar(8, 8, 12, 90, 90, 120)
	require.NoError(t, err)

	lengths := cell.Lengths()
	require.InDelta(t, 8, lengths[0], 1e-9)
	require.InDelta(t, 8, lengths[1], 1e-9)
	require.InDelta(t, 12, lengths[2], 1e-9)

	// fractional and cartesian are inverses in any non-degenerate cell
	frac := [3]float64{0.2, 0.7, 0.4}
	back := cell.Fractional(cell.Cartesian(frac))
	for k := 0; k < 3; k++ {
		require.InDelta(t, frac[k], back[k], 1e-9)
	}
}

func TestNewCellDegenerate(t *testing.T) {
	_, err := libnets.NewCell([3][3]float64{
		{1, 0, 0},
		{2, 0, 0},
		{0, 0, 1},
	})
	require.ErrorIs(t, err, gonets.ErrBadCell)

	_, err = libnets.NewCellFromPar(0, 10, 10, 90, 90, 90)
	require.ErrorIs(t, err, gonets.ErrBadCell)

	_, err = libnets.NewCellFromPar(10, 10, 10, 90, 90, 180)
	require.ErrorIs(t, err, gonets.ErrBadCell)
}

func TestCellOffset(t *testing.T) {
	cell := mustCell(t, 10)
	p := cell.Offset([3]float64{7.5, 0, 0}, [3]int{-1, 0, 0})
	require.InDelta(t, -2.5, p[0], 1e-9)
	require.InDelta(t, 0, p[1], 1e-9)
}

func TestMICDistance(t *testing.T) {
	cell := mustCell(t, 10)
	pbc := [3]bool{true, true, true}

	require.InDelta(t, 2.5, cell.MICDistance([3]float64{7.5, 0, 0}, pbc), 1e-9)
	require.InDelta(t, 2.5, cell.MICDistance([3]float64{2.5, 0, 0}, pbc), 1e-9)

	// a non-periodic axis never wraps
	slab := [3]bool{true, true, false}
	require.InDelta(t, 7.5, cell.MICDistance([3]float64{0, 0, 7.5}, slab), 1e-9)
}
