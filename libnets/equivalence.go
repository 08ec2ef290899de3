package libnets

import (
	"math"

	"github.com/pkg/errors"

	"github.com/netgen-systems/gonets/gonets"
)

// siteTolerance bounds how far (in fractional space) a symmetry-generated
// site may land from an existing position and still count as the same site.
const siteTolerance = 1e-6

// equivalentSiteClasses partitions the node atom indices into classes of
// symmetry-equivalent sites under the structure's space group.
//
// For every site the group generates, the closest existing position is
// accepted either directly or after folding the distance across the cell
// boundary (|d - 1|), which catches equivalences wrapped by periodicity.
// The classes partition ais exactly: a node whose sites match nothing else
// forms a singleton class of itself.
func equivalentSiteClasses(s *Structure, ais []int) ([][]int, error) {
	if s.Group == nil {
		return nil, errors.Wrap(gonets.ErrUnsupportedSpacegroup, "structure has no space group")
	}

	scaled := s.ScaledPositions()
	isNode := make([]bool, len(s.Atoms))
	for _, ai := range ais {
		isNode[ai] = true
	}

	seen := make([]bool, len(s.Atoms))
	var classes [][]int

	for _, ai := range ais {
		if seen[ai] {
			continue
		}

		var members []int
		accept := func(idx int) {
			if idx >= 0 && isNode[idx] && !seen[idx] {
				seen[idx] = true
				members = append(members, idx)
			}
		}

		for _, site := range s.Group.EquivalentSites(scaled[ai]) {
			direct, wrapped := closestSite(scaled, site)
			accept(direct)
			accept(wrapped)
		}

		if len(members) == 0 {
			// own-position match should make this unreachable, but a
			// misbehaving group query must not break the partition
			seen[ai] = true
			members = []int{ai}
		}
		classes = append(classes, members)
	}
	return classes, nil
}

// closestSite finds the existing position nearest to site in fractional
// space, once directly and once with the distance folded across the cell
// boundary.  Either index is -1 when no position lands within tolerance.
func closestSite(scaled [][3]float64, site [3]float64) (direct, wrapped int) {
	direct, wrapped = -1, -1
	minDirect, minWrapped := math.Inf(1), math.Inf(1)

	for i, pos := range scaled {
		dx := pos[0] - site[0]
		dy := pos[1] - site[1]
		dz := pos[2] - site[2]
		d := math.Sqrt(dx*dx + dy*dy + dz*dz)

		if d < minDirect {
			minDirect = d
			if d < siteTolerance {
				direct = i
			}
		}
		if w := math.Abs(d - 1.0); w < minWrapped {
			minWrapped = w
			if w < siteTolerance {
				wrapped = i
			}
		}
	}
	return
}
