package libnets

import (
	"math"

	"github.com/netgen-systems/gonets/gonets"
)

// Atom is one site of a periodic net description.
//
// Connector ("dummy") atoms mark attachment points and carry Number == 0;
// decomposition assigns each a nonzero Tag unique within the structure.
// For real (node) atoms, Number doubles as the declared coordination count,
// following the CGD convention of encoding coordination in the element slot.
type Atom struct {
	Symbol string
	Number int
	Tag    int
	Pos    [3]float64 // cartesian
}

// IsConnector returns whether the atom is an attachment marker.
func (a Atom) IsConnector() bool { return a.Number == 0 }

// Structure is a periodic atomic model of an idealized net: unit cell,
// periodic flags, atoms, and the space group it was generated under.
// The decomposition core treats it as immutable apart from tag assignment.
type Structure struct {
	Cell  Cell
	PBC   [3]bool
	Atoms []Atom
	Group gonets.Spacegroup
}

// Copy returns a deep copy of the structure.
// The Group handle is shared: space groups are immutable.
func (s *Structure) Copy() *Structure {
	out := &Structure{
		Cell:  s.Cell,
		PBC:   s.PBC,
		Atoms: make([]Atom, len(s.Atoms)),
		Group: s.Group,
	}
	copy(out.Atoms, s.Atoms)
	return out
}

// ScaledPositions returns all atom positions in fractional coordinates.
func (s *Structure) ScaledPositions() [][3]float64 {
	out := make([][3]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		out[i] = s.Cell.Fractional(a.Pos)
	}
	return out
}

// Distance returns the distance between atoms i and j, minimum-image if
// mic is set.
func (s *Structure) Distance(i, j int, mic bool) float64 {
	d := [3]float64{
		s.Atoms[j].Pos[0] - s.Atoms[i].Pos[0],
		s.Atoms[j].Pos[1] - s.Atoms[i].Pos[1],
		s.Atoms[j].Pos[2] - s.Atoms[i].Pos[2],
	}
	if mic {
		return s.Cell.MICDistance(d, s.PBC)
	}
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}

// splitIndices partitions atom indices into connectors and nodes.
func (s *Structure) splitIndices() (xis, ais []int) {
	for i, a := range s.Atoms {
		if a.IsConnector() {
			xis = append(xis, i)
		} else {
			ais = append(ais, i)
		}
	}
	return
}
