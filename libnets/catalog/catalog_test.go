package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netgen-systems/gonets/gonets"
	"github.com/netgen-systems/gonets/libnets"
	"github.com/netgen-systems/gonets/libnets/catalog"
	"github.com/netgen-systems/gonets/libnets/spacegroup"
)

func openMemCatalog(t *testing.T) gonets.Catalog {
	cat, err := catalog.OpenCatalog(gonets.CatalogOpts{})
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	return cat
}

// buildTopology decomposes a one-node square-planar net under the given
// name.
func buildTopology(t *testing.T, name string) *libnets.Topology {
	cell, err := libnets.NewCellFromPar(10, 10, 10, 90, 90, 90)
	require.NoError(t, err)

	s := &libnets.Structure{
		Cell: cell,
		PBC:  [3]bool{true, true, true},
		Atoms: []libnets.Atom{
			{Symbol: "C", Number: 4, Pos: [3]float64{0, 0, 0}},
			{Symbol: "X", Pos: [3]float64{2.5, 0, 0}},
			{Symbol: "X", Pos: [3]float64{0, 2.5, 0}},
			{Symbol: "X", Pos: [3]float64{7.5, 0, 0}},
			{Symbol: "X", Pos: [3]float64{0, 7.5, 0}},
		},
		Group: spacegroup.P1(),
	}
	topo, err := libnets.NewTopology(name, s, libnets.TopologyOpts{})
	require.NoError(t, err)
	return topo
}

func TestCatalogAddAndGet(t *testing.T) {
	cat := openMemCatalog(t)
	require.False(t, cat.IsReadOnly())

	topo := buildTopology(t, "sqp")
	require.True(t, cat.TryAddTopology(topo))
	require.False(t, cat.TryAddTopology(topo), "second add of the same name")
	require.EqualValues(t, 1, cat.NumTopologies())

	back, err := cat.GetTopology("sqp")
	require.NoError(t, err)
	require.Equal(t, "sqp", back.Name())
	require.Equal(t, 1, back.NodeCount())
	require.Equal(t, topo.UniqueShapes(), back.UniqueShapes())

	// the stored group identity resolves back to a live group
	stored, ok := back.(*libnets.Topology)
	require.True(t, ok)
	require.Equal(t, 1, stored.Structure().Group.Number())

	_, err = cat.GetTopology("nope")
	require.ErrorIs(t, err, gonets.ErrTopologyNotFound)
}

func TestCatalogSelect(t *testing.T) {
	cat := openMemCatalog(t)
	require.True(t, cat.TryAddTopology(buildTopology(t, "sqp-a")))
	require.True(t, cat.TryAddTopology(buildTopology(t, "sqp-b")))
	require.True(t, cat.TryAddTopology(buildTopology(t, "other")))

	drain := func(sel gonets.TopologySelector) []string {
		onHit := make(chan gonets.TopologyState, 8)
		cat.Select(sel, onHit)
		close(onHit)

		var names []string
		for hit := range onHit {
			names = append(names, hit.Name())
		}
		return names
	}

	require.Equal(t, []string{"sqp-a", "sqp-b"},
		drain(gonets.TopologySelector{NamePrefix: "sqp"}))

	require.Len(t, drain(gonets.TopologySelector{Multiplicity: 4}), 3)
	require.Empty(t, drain(gonets.TopologySelector{Multiplicity: 3}))
	require.Empty(t, drain(gonets.TopologySelector{MinNodes: 2}))
	require.Len(t, drain(gonets.TopologySelector{MaxNodes: 1}), 3)
}

func TestCatalogReadOnlyNeedsPath(t *testing.T) {
	_, err := catalog.OpenCatalog(gonets.CatalogOpts{ReadOnly: true})
	require.ErrorIs(t, err, gonets.ErrBadCatalogParam)
}

func TestCatalogPersistence(t *testing.T) {
	dir := t.TempDir()

	cat, err := catalog.OpenCatalog(gonets.CatalogOpts{DbPathName: dir})
	require.NoError(t, err)
	require.True(t, cat.TryAddTopology(buildTopology(t, "sqp")))
	require.NoError(t, cat.Close())

	cat, err = catalog.OpenCatalog(gonets.CatalogOpts{DbPathName: dir})
	require.NoError(t, err)
	defer cat.Close()

	require.EqualValues(t, 1, cat.NumTopologies())
	back, err := cat.GetTopology("sqp")
	require.NoError(t, err)
	require.Equal(t, "sqp", back.Name())
}
