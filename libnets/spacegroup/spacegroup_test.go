package spacegroup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netgen-systems/gonets/gonets"
	"github.com/netgen-systems/gonets/libnets/spacegroup"
)

func TestGroupOrders(t *testing.T) {
	for _, tc := range []struct {
		symbol string
		order  int
	}{
		{"P1", 1},
		{"P-1", 2},
		{"Pmmm", 8},
		{"P4/mmm", 16},
		{"I4/mmm", 32},
		{"P6/mmm", 24},
		{"Pm-3m", 48},
		{"Im-3m", 96},
		{"Fm-3m", 192},
	} {
		g, err := spacegroup.Lookup(tc.symbol)
		require.NoError(t, err, tc.symbol)
		require.Equal(t, tc.order, g.Order(), "order of %s", tc.symbol)
	}
}

func TestEquivalentSiteCounts(t *testing.T) {
	pm3m, err := spacegroup.Lookup("Pm-3m")
	require.NoError(t, err)

	// special positions collapse, general positions fill the group order
	require.Len(t, pm3m.EquivalentSites([3]float64{0, 0, 0}), 1)
	require.Len(t, pm3m.EquivalentSites([3]float64{0.5, 0, 0}), 3)
	require.Len(t, pm3m.EquivalentSites([3]float64{0.25, 0, 0}), 6)
	require.Len(t, pm3m.EquivalentSites([3]float64{0.11, 0.23, 0.37}), 48)

	p1bar, err := spacegroup.Lookup("P-1")
	require.NoError(t, err)
	sites := p1bar.EquivalentSites([3]float64{0.25, 0, 0})
	require.Len(t, sites, 2)
	require.InDelta(t, 0.75, sites[1][0], 1e-9)
}

func TestSitesStayInCell(t *testing.T) {
	fm3m, err := spacegroup.Lookup("Fm-3m")
	require.NoError(t, err)
	for _, site := range fm3m.EquivalentSites([3]float64{0.13, 0.29, 0.41}) {
		for k := 0; k < 3; k++ {
			require.GreaterOrEqual(t, site[k], 0.0)
			require.Less(t, site[k], 1.0)
		}
	}
}

func TestLookup(t *testing.T) {
	g, err := spacegroup.Lookup("Pm-3m:1")
	require.NoError(t, err)
	require.Equal(t, 221, g.Number())

	g, err = spacegroup.Lookup("221")
	require.NoError(t, err)
	require.Equal(t, "Pm-3m", g.Symbol())

	g, err = spacegroup.ByNumber(225)
	require.NoError(t, err)
	require.Equal(t, "Fm-3m", g.Symbol())

	_, err = spacegroup.Lookup("Xy42z")
	require.ErrorIs(t, err, gonets.ErrUnsupportedSpacegroup)

	_, err = spacegroup.ByNumber(230)
	require.ErrorIs(t, err, gonets.ErrUnsupportedSpacegroup)
}

func TestOpApply(t *testing.T) {
	id := spacegroup.Identity()
	require.Equal(t, [3]float64{0.1, 0.2, 0.3}, id.Apply([3]float64{0.1, 0.2, 0.3}))

	inv := spacegroup.Op{
		R: [3][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}},
		T: [3]float64{0.5, 0, 0},
	}
	got := inv.Apply([3]float64{0.1, 0.2, 0.3})
	require.InDelta(t, 0.4, got[0], 1e-12)
	require.InDelta(t, -0.2, got[1], 1e-12)
	require.InDelta(t, -0.3, got[2], 1e-12)
}

func TestFromGenerators(t *testing.T) {
	inv := spacegroup.Op{R: [3][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}}
	g, err := spacegroup.FromGenerators(2, "P-1", []spacegroup.Op{inv})
	require.NoError(t, err)
	require.Equal(t, 2, g.Order())
	require.Equal(t, 2, g.Number())
	require.Equal(t, "P-1", g.Symbol())
}
