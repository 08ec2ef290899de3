package libnets

import "math"

// neighbor is one periodic neighbor hit: the partner atom and the integer
// lattice offset of the image it was found in.
type neighbor struct {
	index  int
	offset [3]int
}

// neighborList is a bidirectional periodic neighbor search over all atoms
// with per-atom cutoff radii.  Two atoms are neighbors when their
// minimum-image-aware separation is below the sum of their radii, the usual
// overlapping-spheres criterion.  No extra skin: the cutoffs already carry it.
type neighborList struct {
	hits [][]neighbor
}

// buildNeighborList scans all atom pairs over the periodic images reachable
// within the largest pair cutoff.  Structures here are tens of atoms, so the
// direct pair loop beats any spatial index.
func buildNeighborList(s *Structure, cutoffs []float64) *neighborList {
	n := len(s.Atoms)
	nl := &neighborList{hits: make([][]neighbor, n)}

	rmax := 0.0
	for _, c := range cutoffs {
		if c > rmax {
			rmax = c
		}
	}
	ext := s.Cell.fracExtent(2 * rmax)

	var lo, hi [3]int
	for k := 0; k < 3; k++ {
		if s.PBC[k] {
			r := int(math.Ceil(ext[k]))
			lo[k], hi[k] = -r, r
		}
	}

	var off [3]int
	for i := 0; i < n; i++ {
		pi := s.Atoms[i].Pos
		for j := 0; j < n; j++ {
			cut := cutoffs[i] + cutoffs[j]
			for off[0] = lo[0]; off[0] <= hi[0]; off[0]++ {
				for off[1] = lo[1]; off[1] <= hi[1]; off[1]++ {
					for off[2] = lo[2]; off[2] <= hi[2]; off[2]++ {
						if i == j && off == [3]int{} {
							continue // no self-interaction
						}
						pj := s.Cell.Offset(s.Atoms[j].Pos, off)
						dx := pj[0] - pi[0]
						dy := pj[1] - pi[1]
						dz := pj[2] - pi[2]
						if dx*dx+dy*dy+dz*dz < cut*cut {
							nl.hits[i] = append(nl.hits[i], neighbor{index: j, offset: off})
						}
					}
				}
			}
		}
	}
	return nl
}

// Neighbors returns the neighbor hits of atom i.
func (nl *neighborList) Neighbors(i int) []neighbor {
	return nl.hits[i]
}
