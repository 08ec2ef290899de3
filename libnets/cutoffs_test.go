package libnets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cubicCell(t *testing.T, a float64) Cell {
	cell, err := NewCellFromPar(a, a, a, 90, 90, 90)
	require.NoError(t, err)
	return cell
}

// squarePlanarNet is a single 4-coordinated node at the origin of a 10 A
// cubic cell.  Two of its connectors sit across the cell boundary, so
// reaching them exercises the periodic image search.
func squarePlanarNet(t *testing.T) *Structure {
	return &Structure{
		Cell: cubicCell(t, 10),
		PBC:  [3]bool{true, true, true},
		Atoms: []Atom{
			{Symbol: "C", Number: 4, Pos: [3]float64{0, 0, 0}},
			{Symbol: "X", Pos: [3]float64{2.5, 0, 0}},
			{Symbol: "X", Pos: [3]float64{0, 2.5, 0}},
			{Symbol: "X", Pos: [3]float64{7.5, 0, 0}},
			{Symbol: "X", Pos: [3]float64{0, 7.5, 0}},
		},
	}
}

func TestConnectorCutoffs(t *testing.T) {
	s := squarePlanarNet(t)
	xis, ais := s.splitIndices()
	require.Len(t, xis, 4)
	require.Equal(t, []int{0}, ais)

	cutoffs := connectorCutoffs(s, xis, ais)

	// every connector is 2.5 away under minimum image
	require.InDelta(t, 2.5+cutoffSkin, cutoffs[0], 1e-9)
	for _, xi := range xis {
		require.Equal(t, cutoffSkin, cutoffs[xi])
	}
}

func TestConnectorCutoffsScarce(t *testing.T) {
	// declared coordination 4, but only one connector exists: the cutoff
	// falls back to covering everything available
	s := &Structure{
		Cell: cubicCell(t, 10),
		PBC:  [3]bool{true, true, true},
		Atoms: []Atom{
			{Symbol: "C", Number: 4, Pos: [3]float64{0, 0, 0}},
			{Symbol: "X", Pos: [3]float64{2.5, 0, 0}},
		},
	}
	xis, ais := s.splitIndices()
	cutoffs := connectorCutoffs(s, xis, ais)
	require.InDelta(t, 2.5+cutoffSkin, cutoffs[0], 1e-9)
}

func TestConnectorCutoffsTiedDistances(t *testing.T) {
	// coordination 1 with two exactly equidistant connectors: whichever
	// one wins, the cutoff value itself is determined
	s := &Structure{
		Cell: cubicCell(t, 10),
		PBC:  [3]bool{true, true, true},
		Atoms: []Atom{
			{Symbol: "C", Number: 1, Pos: [3]float64{0, 0, 0}},
			{Symbol: "X", Pos: [3]float64{2.5, 0, 0}},
			{Symbol: "X", Pos: [3]float64{0, 2.5, 0}},
		},
	}
	xis, ais := s.splitIndices()
	cutoffs := connectorCutoffs(s, xis, ais)
	require.InDelta(t, 2.5+cutoffSkin, cutoffs[0], 1e-9)
}

func TestBuildNeighborList(t *testing.T) {
	s := squarePlanarNet(t)
	xis, ais := s.splitIndices()
	nl := buildNeighborList(s, connectorCutoffs(s, xis, ais))

	hits := nl.Neighbors(0)
	require.Len(t, hits, 4)

	byIndex := map[int][3]int{}
	for _, hit := range hits {
		byIndex[hit.index] = hit.offset
	}
	require.Equal(t, [3]int{0, 0, 0}, byIndex[1])
	require.Equal(t, [3]int{0, 0, 0}, byIndex[2])
	require.Equal(t, [3]int{-1, 0, 0}, byIndex[3])
	require.Equal(t, [3]int{0, -1, 0}, byIndex[4])

	// the search is bidirectional: each connector sees the node back,
	// with the opposite image offset
	back := nl.Neighbors(3)
	require.Len(t, back, 1)
	require.Equal(t, 0, back[0].index)
	require.Equal(t, [3]int{1, 0, 0}, back[0].offset)
}

func TestExtractFragmentsUnwrapsImages(t *testing.T) {
	s := squarePlanarNet(t)
	xis, ais := s.splitIndices()
	for _, xi := range xis {
		s.Atoms[xi].Tag = xi + 1
	}

	nl := buildNeighborList(s, connectorCutoffs(s, xis, ais))
	frags, err := extractFragments(s, nl, ais)
	require.NoError(t, err)
	require.Len(t, frags, 1)

	frag := frags[0]
	require.Equal(t, 0, frag.Owner)
	require.Equal(t, 4, frag.Multiplicity())
	require.ElementsMatch(t, []int{2, 3, 4, 5}, frag.Tags)

	// the connector stored at 7.5 must appear unwrapped at -2.5, not at
	// its in-cell position
	requirePoint(t, frag.Points, [3]float64{-2.5, 0, 0})
	requirePoint(t, frag.Points, [3]float64{0, -2.5, 0})
	requirePoint(t, frag.Points, [3]float64{2.5, 0, 0})
	requirePoint(t, frag.Points, [3]float64{0, 2.5, 0})
}

func requirePoint(t *testing.T, points [][3]float64, want [3]float64) {
	t.Helper()
	for _, p := range points {
		d := [3]float64{p[0] - want[0], p[1] - want[1], p[2] - want[2]}
		if d[0]*d[0]+d[1]*d[1]+d[2]*d[2] < 1e-12 {
			return
		}
	}
	t.Fatalf("point %v not found in %v", want, points)
}
