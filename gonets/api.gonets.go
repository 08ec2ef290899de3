package gonets

// Shape is the symmetry signature of a connector cluster: an ordered census
// of proper rotation axes by order (2, 3, ... up to the cluster's connector
// count), terminated by the connector count itself ("multiplicity").
//
// Two Shapes are only comparable when their multiplicities agree, which
// implies equal length.
type Shape []int

// ShapeLSM is an LSM binary encoding / symbol of a Shape.
type ShapeLSM []byte

// PointGroup is an opaque Schoenflies label ("C2v", "D4h", "Oh", ...)
// assigned per connector cluster by a Classifier.
// Equality is the only operation the core performs on it.
type PointGroup string

// Signature is a building block's symmetry fingerprint, as supplied by the
// assembly stage when probing a topology for admissible placement slots.
type Signature struct {
	Shape Shape      // axis census, trailing multiplicity
	PG    PointGroup // Schoenflies label
}

// Spacegroup is the equivalent-sites capability of the crystallographic
// collaborator.  Implementations must be pure: the same fractional position
// always yields the same site set.
type Spacegroup interface {

	// Number returns the International Tables group number, or 0 if unknown.
	Number() int

	// Symbol returns the Hermann-Mauguin symbol, or "" if unknown.
	Symbol() string

	// EquivalentSites returns all positions the group maps frac onto,
	// reduced into the unit cell ([0,1) per axis) with duplicates removed.
	EquivalentSites(frac [3]float64) [][3]float64
}

// Classifier assigns a Shape and PointGroup to a connector cluster.
//
// Implementations must be pure and consistent: two clusters identical up to
// rotation/reflection yield equal results.  maxOrder bounds the highest
// rotation order probed and is always the cluster's point count.
type Classifier interface {
	Classify(points [][3]float64, maxOrder int) (Shape, PointGroup, error)
}

// TopologyState is the catalog-facing surface of a decomposed topology.
type TopologyState interface {

	// Name returns the net name ("pcu", "dia", ...).
	Name() string

	// NodeCount returns the number of real (non-connector) atoms.
	NodeCount() int

	// UniqueShapes returns the distinct slot shapes, canonically ordered.
	UniqueShapes() []Shape

	// CompatibleSlots returns the shape of every slot that admits the given
	// building block signature.  An empty result is the designed "no match"
	// outcome, not an error.
	CompatibleSlots(sig Signature, coerce bool) []Shape

	// MarshalRecord appends the catalog record encoding to out.
	MarshalRecord(out []byte) ([]byte, error)
}

// OnTopologyHit is a callback channel used to stream catalog hits.
// Ownership of each TopologyState travels through the channel.
type OnTopologyHit chan<- TopologyState

// CatalogOpts specifies params for opening a topology catalog.
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// TopologySelector bounds which topologies a Catalog Select visits.
// Zero values select everything.
type TopologySelector struct {
	NamePrefix   string // only names with this prefix
	MinNodes     int    // lower node-count bound
	MaxNodes     int    // upper node-count bound (0 = unbounded)
	Multiplicity int    // only topologies carrying a slot of this multiplicity
}

// Catalog wraps a database of decomposed topologies.
type Catalog interface {

	// Tries to add the given topology to this catalog.
	// If true is returned, no topology of that name existed and it was added.
	TryAddTopology(t TopologyState) bool

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumTopologies returns the number of stored topologies.
	NumTopologies() int64

	// GetTopology loads the stored topology of the given name,
	// or fails with ErrTopologyNotFound.
	GetTopology(name string) (TopologyState, error)

	// Select fires onHit with every stored topology matching sel,
	// then closes nothing: the caller owns the channel.
	Select(sel TopologySelector, onHit OnTopologyHit)

	// Closes this catalog.
	Close() error
}
