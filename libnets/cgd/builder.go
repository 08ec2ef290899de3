package cgd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/netgen-systems/gonets/gonets"
	"github.com/netgen-systems/gonets/libnets"
	"github.com/netgen-systems/gonets/libnets/spacegroup"
)

// Resolver maps a GROUP symbol to a live space group.
type Resolver interface {
	Lookup(symbol string) (gonets.Spacegroup, error)
}

type registryResolver struct{}

func (registryResolver) Lookup(symbol string) (gonets.Spacegroup, error) {
	g, err := spacegroup.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DefaultResolver resolves against the built-in space group registry.
var DefaultResolver Resolver = registryResolver{}

// chemicalSymbols maps an atomic number to its element symbol; a node's
// declared coordination selects its placeholder element, the CGD
// convention this reader shares with the net library it mirrors.
var chemicalSymbols = []string{
	"X", "H", "He", "Li", "Be", "B", "C", "N",
	"O", "F", "Ne", "Na", "Mg", "Al", "Si", "P", "S",
}

func symbolFor(coord int) string {
	if coord > 0 && coord < len(chemicalSymbols) {
		return chemicalSymbols[coord]
	}
	return "M"
}

// netBuilder accumulates one CRYSTAL block's records.
type netBuilder struct {
	name    string
	group   string
	cellPar []float64
	symbols []string
	numbers []int
	basis   [][]float64 // fractional, possibly 2D
}

func (nb *netBuilder) applyRecord(rec *record) error {
	switch {
	case rec.Name != nil:
		nb.name = *rec.Name
	case rec.Group != nil:
		nb.group = *rec.Group
	case rec.Cell != nil:
		nb.cellPar = rec.Cell
	case rec.Node != nil:
		if rec.Node.Coord < 1 {
			return errors.Wrapf(gonets.ErrBadNetExpr, "node %q has coordination %d", rec.Node.Label, rec.Node.Coord)
		}
		nb.addAtom(symbolFor(rec.Node.Coord), rec.Node.Coord, rec.Node.Pos)
	case rec.Edge != nil:
		return nb.applyEdge(rec.Edge)
	case rec.Comment != nil && rec.Comment.Tag == "EDGE_CENTER":
		// a marker atom for a linear (2-coordinated) connector site
		nb.addAtom("He", 2, rec.Comment.Vals)
	}
	return nil
}

// applyEdge turns an edge's two endpoints into a pair of connector atoms,
// contracted halfway toward the edge midpoint so that each lands inside
// its endpoint's coordination sphere.
func (nb *netBuilder) applyEdge(vals []float64) error {
	if len(vals)%2 != 0 || len(vals) < 4 {
		return errors.Wrapf(gonets.ErrBadNetExpr, "edge with %d coordinates", len(vals))
	}
	dim := len(vals) / 2
	x0, x1 := vals[:dim], vals[dim:]

	for _, x := range [][]float64{x0, x1} {
		pos := make([]float64, dim)
		for k := 0; k < dim; k++ {
			com := (x0[k] + x1[k]) / 2
			pos[k] = com + (x[k]-com)*0.5
		}
		nb.addAtom("X", 0, pos)
	}
	return nil
}

func (nb *netBuilder) addAtom(symbol string, number int, pos []float64) {
	nb.symbols = append(nb.symbols, symbol)
	nb.numbers = append(nb.numbers, number)
	nb.basis = append(nb.basis, pos)
}

// build assembles the block into a full-cell periodic structure: a 3-entry
// CELL means a 2D net and pads to a slab cell, then every basis atom is
// expanded through the space group's equivalent sites, keeping duplicate
// positions from distinct basis atoms.
func (nb *netBuilder) build(rs Resolver) (*libnets.Structure, error) {
	if nb.name == "" {
		return nil, errors.Wrap(gonets.ErrBadNetExpr, "missing NAME record")
	}
	if nb.group == "" {
		return nil, errors.Wrapf(gonets.ErrBadNetExpr, "net %q: missing GROUP record", nb.name)
	}

	pbc := [3]bool{true, true, true}
	par := nb.cellPar
	switch len(par) {
	case 6:
	case 3:
		// 2D net: two lengths and one angle; complete to a slab
		pbc[2] = false
		par = []float64{par[0], par[1], 10.0, 90.0, 90.0, par[2]}
		for i, pos := range nb.basis {
			if len(pos) == 2 {
				nb.basis[i] = append(pos, 0.0)
			}
		}
	default:
		return nil, errors.Wrapf(gonets.ErrBadNetExpr, "net %q: CELL with %d parameters", nb.name, len(par))
	}

	group, err := rs.Lookup(nb.group)
	if err != nil {
		return nil, errors.Wrapf(err, "net %q", nb.name)
	}

	cell, err := libnets.NewCellFromPar(par[0], par[1], par[2], par[3], par[4], par[5])
	if err != nil {
		return nil, errors.Wrapf(err, "net %q", nb.name)
	}

	s := &libnets.Structure{
		Cell:  cell,
		PBC:   pbc,
		Group: group,
	}
	for i, pos := range nb.basis {
		if len(pos) != 3 {
			return nil, errors.Wrapf(gonets.ErrBadNetExpr, "net %q: %d-coordinate position", nb.name, len(pos))
		}
		frac := [3]float64{pos[0], pos[1], pos[2]}
		for _, site := range group.EquivalentSites(frac) {
			s.Atoms = append(s.Atoms, libnets.Atom{
				Symbol: nb.symbols[i],
				Number: nb.numbers[i],
				Pos:    cell.Cartesian(site),
			})
		}
	}
	return s, nil
}

// ReadNets parses CGD source text and returns the structures by net name,
// along with the per-net errors encountered.  A net that fails to build is
// skipped and reported, never fatal for its siblings.
func ReadNets(src string, rs Resolver) (map[string]*libnets.Structure, []error) {
	if rs == nil {
		rs = DefaultResolver
	}

	parsed, err := parseNetFile.ParseString("", src)
	if err != nil {
		return nil, []error{errors.Wrap(gonets.ErrBadNetExpr, err.Error())}
	}

	structures := make(map[string]*libnets.Structure, len(parsed.Nets))
	var errs []error

	for _, block := range parsed.Nets {
		nb := netBuilder{}
		var blockErr error
		for _, rec := range block.Records {
			if blockErr = nb.applyRecord(rec); blockErr != nil {
				break
			}
		}
		if blockErr == nil {
			var s *libnets.Structure
			if s, blockErr = nb.build(rs); blockErr == nil {
				structures[nb.name] = s
				continue
			}
		}
		errs = append(errs, blockErr)
	}

	klog.V(2).Infof("read %d nets (%d errors)", len(structures), len(errs))
	return structures, errs
}

// ReadFile is ReadNets over the contents of a .cgd file.
func ReadFile(path string, rs Resolver) (map[string]*libnets.Structure, []error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{err}
	}
	return ReadNets(string(src), rs)
}
