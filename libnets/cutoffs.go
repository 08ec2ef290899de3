package libnets

import "sort"

// cutoffSkin is the margin added to every node cutoff so that a connector
// sitting exactly on the computed radius is not excluded by the neighbor
// search.  Connector atoms receive only the skin, since they are never a
// search origin.
const cutoffSkin = 5e-3

// connectorCutoffs returns one neighbor-search radius per atom such that a
// periodic search from each node captures exactly its declared coordination
// count of connectors, or every connector if fewer exist.
//
// Ties among exactly equidistant connectors at the coordination boundary
// are resolved by sort.Slice's ordering of equal keys, which is
// implementation-defined.  Degenerate geometries therefore decompose
// consistently within a run but carry no canonical tie-break.
func connectorCutoffs(s *Structure, xis, ais []int) []float64 {
	cutoffs := make([]float64, len(s.Atoms))
	for i := range cutoffs {
		cutoffs[i] = cutoffSkin
	}

	dists := make([]float64, len(xis))
	order := make([]int, len(xis))

	for _, ai := range ais {
		for k, xi := range xis {
			dists[k] = s.Distance(ai, xi, true)
		}

		coord := s.Atoms[ai].Number
		cutoff := 0.0
		if coord < len(dists) {
			// keep only the closest ones up to coordination
			for k := range order {
				order[k] = k
			}
			sort.Slice(order, func(a, b int) bool {
				return dists[order[a]] < dists[order[b]]
			})
			for _, k := range order[:coord] {
				if dists[k] > cutoff {
					cutoff = dists[k]
				}
			}
		} else {
			for _, d := range dists {
				if d > cutoff {
					cutoff = d
				}
			}
		}
		cutoffs[ai] = cutoff + cutoffSkin
	}
	return cutoffs
}
