// Package catalog stores decomposed topologies in a badger LSM database,
// keyed by net name, so a parsed net library survives between runs.
package catalog

import (
	"bytes"
	"encoding/binary"
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/netgen-systems/gonets/gonets"
	"github.com/netgen-systems/gonets/libnets"
	"github.com/netgen-systems/gonets/libnets/spacegroup"
)

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gTopologyPrefix  = []byte{'T'}
)

const (
	catalogMajorVers = 2024
	catalogMinorVers = 1
)

type catalogState struct {
	MajorVers     uint64
	MinorVers     uint64
	NumTopologies uint64
}

func (st *catalogState) Marshal(out []byte) []byte {
	var scrap [12]byte
	for _, v := range [...]uint64{st.MajorVers, st.MinorVers, st.NumTopologies} {
		n := binary.PutUvarint(scrap[:], v)
		out = append(out, scrap[:n]...)
	}
	return out
}

func (st *catalogState) Unmarshal(val []byte) error {
	rdr := bytes.NewReader(val)
	for _, dst := range [...]*uint64{&st.MajorVers, &st.MinorVers, &st.NumTopologies} {
		v, err := binary.ReadUvarint(rdr)
		if err != nil {
			return gonets.ErrUnmarshal
		}
		*dst = v
	}
	return nil
}

// catalog is a db wrapper for a topology library.
type catalog struct {
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

// OpenCatalog opens or creates a topology catalog.  An empty DbPathName
// selects an in-memory database.
func OpenCatalog(opts gonets.CatalogOpts) (gonets.Catalog, error) {
	cat := &catalog{
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer, not needed
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(gonets.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = catalogMajorVers
		cat.state.MinorVers = catalogMinorVers
	}
	if err == nil && (cat.state.MajorVers != catalogMajorVers || cat.state.MinorVers != catalogMinorVers) {
		err = errors.New("catalog version is incompatible")
	}
	if err != nil {
		cat.db.Close()
		return nil, err
	}

	klog.V(2).Infof("opened catalog %q with %d topologies", opts.DbPathName, cat.state.NumTopologies)
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cat.state.Unmarshal(val)
		})
	})
}

func (cat *catalog) flushState() {
	if !cat.stateDirty || cat.readOnly {
		return
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, cat.state.Marshal(nil))
	})
	if err != nil {
		panic(err)
	}
	cat.stateDirty = false
}

func (cat *catalog) Close() error {
	if cat.db == nil {
		return nil
	}
	cat.flushState()
	err := cat.db.Close()
	cat.db = nil
	return err
}

func (cat *catalog) IsReadOnly() bool { return cat.readOnly }

func (cat *catalog) NumTopologies() int64 { return int64(cat.state.NumTopologies) }

func topologyKey(out []byte, name string) []byte {
	out = append(out, gTopologyPrefix...)
	return append(out, name...)
}

// TryAddTopology adds the given topology if no topology of that name is
// already stored.  If true is returned, it was added.
func (cat *catalog) TryAddTopology(t gonets.TopologyState) bool {
	if cat.readOnly {
		return false
	}

	var keyBuf [128]byte
	key := topologyKey(keyBuf[:0], t.Name())

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	if _, err := txn.Get(key); err == nil {
		return false
	} else if err != badger.ErrKeyNotFound {
		panic(err)
	}

	val, err := t.MarshalRecord(nil)
	if err != nil {
		return false
	}
	if err := txn.Set(key, val); err != nil {
		panic(err)
	}
	if err := txn.Commit(); err != nil {
		panic(err)
	}

	cat.state.NumTopologies++
	cat.stateDirty = true
	return true
}

// resolveGroup rebinds a stored space-group identity to a live group.
// Unknown identities yield nil: the topology keeps its stored analysis.
func resolveGroup(number int, symbol string) gonets.Spacegroup {
	if g, err := spacegroup.ByNumber(number); err == nil {
		return g
	}
	if g, err := spacegroup.Lookup(symbol); err == nil {
		return g
	}
	return nil
}

// GetTopology loads one topology by name.
func (cat *catalog) GetTopology(name string) (gonets.TopologyState, error) {
	var keyBuf [128]byte
	key := topologyKey(keyBuf[:0], name)

	var t *libnets.Topology
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(gonets.ErrTopologyNotFound, "%q", name)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			t, err = libnets.UnmarshalTopologyRecord(val, resolveGroup)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Select streams every stored topology matching sel into onHit,
// in name order.
func (cat *catalog) Select(sel gonets.TopologySelector, onHit gonets.OnTopologyHit) {
	prefix := topologyKey(nil, sel.NamePrefix)

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   64,
		Prefix:         prefix,
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			t, err := libnets.UnmarshalTopologyRecord(val, resolveGroup)
			if err != nil {
				return err
			}
			if allowTopology(&sel, t) {
				onHit <- t
			}
			return nil
		})
		if err != nil {
			panic(err)
		}
	}
}

func allowTopology(sel *gonets.TopologySelector, t *libnets.Topology) bool {
	nodes := t.NodeCount()
	if nodes < sel.MinNodes {
		return false
	}
	if sel.MaxNodes > 0 && nodes > sel.MaxNodes {
		return false
	}
	if sel.Multiplicity > 0 {
		for _, shape := range t.UniqueShapes() {
			if shape.Multiplicity() == sel.Multiplicity {
				return true
			}
		}
		return false
	}
	return true
}
