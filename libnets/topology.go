package libnets

import (
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"

	"github.com/netgen-systems/gonets/gonets"
	"github.com/netgen-systems/gonets/libnets/symmetry"
)

// Topology is a decomposed net: the structure plus, per node atom, the
// connector fragment, its shape signature, and its point group, along with
// the space-group equivalence classes over the node sites.
//
// The structure's atom slice is the arena; all derived data hangs off it by
// atom index, so nothing here references back into anything cyclic.
type Topology struct {
	name        string
	structure   *Structure
	fragments   map[int]*Fragment
	shapes      map[int]gonets.Shape
	pointGroups map[int]gonets.PointGroup
	eqSites     [][]int
}

// TopologyOpts adjusts topology construction.
type TopologyOpts struct {
	// Classifier assigns shapes and point groups per fragment.
	// Nil selects the default geometric classifier.
	Classifier gonets.Classifier

	// SkipAnalyze constructs the shell without decomposing, for cheap
	// copies that receive their derived maps from elsewhere.
	SkipAnalyze bool
}

// NewTopology decomposes a periodic structure into a Topology.
// Decomposition runs once here; afterwards the object is read-mostly.
func NewTopology(name string, s *Structure, opts TopologyOpts) (*Topology, error) {
	t := &Topology{
		name:        name,
		structure:   s,
		fragments:   make(map[int]*Fragment),
		shapes:      make(map[int]gonets.Shape),
		pointGroups: make(map[int]gonets.PointGroup),
	}
	if opts.SkipAnalyze {
		return t, nil
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = symmetry.New()
	}
	if err := t.analyze(classifier); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Topology) analyze(classifier gonets.Classifier) error {
	s := t.structure
	xis, ais := s.splitIndices()

	// tag the connectors, uniquely per connector
	for _, i := range xis {
		s.Atoms[i].Tag = i + 1
	}
	for _, i := range ais {
		s.Atoms[i].Tag = 0
	}

	cutoffs := connectorCutoffs(s, xis, ais)
	nl := buildNeighborList(s, cutoffs)

	frags, err := extractFragments(s, nl, ais)
	if err != nil {
		return err
	}
	t.fragments = frags

	for _, ai := range ais {
		frag := frags[ai]
		shape, pg, err := classifier.Classify(frag.Points, frag.Multiplicity())
		if err != nil {
			return errors.Wrapf(err, "classifying fragment of node %d", ai)
		}
		t.shapes[ai] = shape
		t.pointGroups[ai] = pg
	}

	t.eqSites, err = equivalentSiteClasses(s, ais)
	return err
}

// Name returns the net name.
func (t *Topology) Name() string { return t.name }

// Structure returns the underlying periodic structure.
func (t *Topology) Structure() *Structure { return t.structure }

// NodeCount returns the number of node (non-connector) atoms.
func (t *Topology) NodeCount() int { return len(t.fragments) }

// Fragment returns the fragment owned by node atom ai, or nil.
func (t *Topology) Fragment(ai int) *Fragment { return t.fragments[ai] }

// Shape returns the shape signature of node atom ai.
func (t *Topology) Shape(ai int) gonets.Shape { return t.shapes[ai] }

// PointGroup returns the point-group label of node atom ai.
func (t *Topology) PointGroup(ai int) gonets.PointGroup { return t.pointGroups[ai] }

// EquivalentSites returns the symmetry-equivalence classes over node
// atom indices.  Callers must not mutate the returned slices.
func (t *Topology) EquivalentSites() [][]int { return t.eqSites }

// Fragments returns all fragments ordered by owning atom index.
func (t *Topology) Fragments() []*Fragment {
	out := make([]*Fragment, 0, len(t.fragments))
	for _, ai := range t.nodeIndices() {
		out = append(out, t.fragments[ai])
	}
	return out
}

// Copy returns a deep copy: the derived maps are duplicated by value, so
// mutating the copy's data cannot reach the original.
func (t *Topology) Copy() *Topology {
	out := &Topology{
		name:        t.name,
		structure:   t.structure.Copy(),
		fragments:   make(map[int]*Fragment, len(t.fragments)),
		shapes:      make(map[int]gonets.Shape, len(t.shapes)),
		pointGroups: make(map[int]gonets.PointGroup, len(t.pointGroups)),
		eqSites:     make([][]int, len(t.eqSites)),
	}
	for ai, frag := range t.fragments {
		out.fragments[ai] = frag.Copy()
	}
	for ai, shape := range t.shapes {
		out.shapes[ai] = shape.Clone()
	}
	for ai, pg := range t.pointGroups {
		out.pointGroups[ai] = pg
	}
	for ci, class := range t.eqSites {
		members := make([]int, len(class))
		copy(members, class)
		out.eqSites[ci] = members
	}
	return out
}

// UniqueShapes returns the distinct shapes in the topology, canonically
// ordered.
func (t *Topology) UniqueShapes() []gonets.Shape {
	tree := redblacktree.NewWith(gonets.ShapeComparator)
	for _, shape := range t.shapes {
		tree.Put(shape, nil)
	}
	out := make([]gonets.Shape, 0, tree.Size())
	for _, key := range tree.Keys() {
		out = append(out, key.(gonets.Shape).Clone())
	}
	return out
}

// UniquePointGroups returns the distinct point-group labels, sorted.
func (t *Topology) UniquePointGroups() []gonets.PointGroup {
	set := make(map[gonets.PointGroup]struct{}, len(t.pointGroups))
	for _, pg := range t.pointGroups {
		set[pg] = struct{}{}
	}
	out := make([]gonets.PointGroup, 0, len(set))
	for pg := range set {
		out = append(out, pg)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// CompatibleSlots returns the shape of every topology slot that admits the
// given building-block signature.
//
// Each equivalence class is evaluated once, restricted to members of the
// current node's multiplicity (the truly interchangeable sub-group).
// Multiplicity must match; then a point-group match accepts outright, a
// shape that the candidate dominates accepts, and with coerce set the
// multiplicity match alone suffices.  Duplicate shapes across classes are
// kept; an empty result is the designed no-match outcome.
func (t *Topology) CompatibleSlots(sig gonets.Signature, coerce bool) []gonets.Shape {
	var slots []gonets.Shape
	seen := make(map[int]bool, len(t.fragments))

	for _, ai := range t.nodeIndices() {
		if seen[ai] {
			continue
		}
		shape := t.shapes[ai]

		subGroup := []int{ai}
		for _, class := range t.eqSites {
			if !contains(class, ai) {
				continue
			}
			subGroup = subGroup[:0]
			for _, m := range class {
				if t.shapes[m].Multiplicity() == shape.Multiplicity() {
					subGroup = append(subGroup, m)
				}
			}
			break
		}
		for _, m := range subGroup {
			seen[m] = true
		}

		if sig.Shape.Multiplicity() != shape.Multiplicity() {
			continue
		}

		// point groups are the strongest identifiers; the axis census
		// only decides when labels differ
		accept := sig.PG == t.pointGroups[ai] ||
			sig.Shape.Dominates(shape) ||
			coerce

		if accept {
			for _, m := range subGroup {
				slots = append(slots, t.shapes[m].Clone())
			}
		}
	}
	return slots
}

func (t *Topology) nodeIndices() []int {
	out := make([]int, 0, len(t.fragments))
	for ai := range t.fragments {
		out = append(out, ai)
	}
	sort.Ints(out)
	return out
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
