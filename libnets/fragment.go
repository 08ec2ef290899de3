package libnets

import (
	"github.com/pkg/errors"

	"github.com/netgen-systems/gonets/gonets"
)

// Fragment is the local cluster of connector points attached to one node
// atom, with periodic images unwrapped into absolute coordinates.
// Fragments are created once during decomposition and never mutated.
type Fragment struct {
	Owner  int          // index of the owning node atom
	Tags   []int        // tag of each source connector
	Points [][3]float64 // absolute connector positions
}

// Multiplicity returns the fragment's connector count.
func (f *Fragment) Multiplicity() int { return len(f.Points) }

// Copy returns an independent copy of the fragment.
func (f *Fragment) Copy() *Fragment {
	out := &Fragment{
		Owner:  f.Owner,
		Tags:   make([]int, len(f.Tags)),
		Points: make([][3]float64, len(f.Points)),
	}
	copy(out.Tags, f.Tags)
	copy(out.Points, f.Points)
	return out
}

// extractFragments cuts one fragment per node atom out of the neighbor
// list, keeping only connector neighbors and unwrapping each through its
// periodic image offset.  A node with zero connector neighbors means the
// net description is broken and fails the whole decomposition.
func extractFragments(s *Structure, nl *neighborList, ais []int) (map[int]*Fragment, error) {
	frags := make(map[int]*Fragment, len(ais))

	for _, ai := range ais {
		frag := &Fragment{Owner: ai}
		for _, hit := range nl.Neighbors(ai) {
			atom := s.Atoms[hit.index]
			if atom.Tag == 0 {
				continue // only connectors belong to a fragment
			}
			frag.Tags = append(frag.Tags, atom.Tag)
			frag.Points = append(frag.Points, s.Cell.Offset(atom.Pos, hit.offset))
		}
		if len(frag.Points) == 0 {
			return nil, errors.Wrapf(gonets.ErrMalformedTopology, "node atom %d", ai)
		}
		frags[ai] = frag
	}
	return frags, nil
}
