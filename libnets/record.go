package libnets

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/netgen-systems/gonets/gonets"
)

// Catalog record format, all varint-framed:
//
//	version (uvarint, currently 1)
//	name (len + bytes)
//	cell (9 x f64 bits), pbc bitmask (byte)
//	group number (uvarint), group symbol (len + bytes)
//	atoms: count, then per atom symbol, number, tag, pos (3 x f64)
//	fragments: count, then per fragment owner, point count, (tag, pos)...
//	shapes: count, then per entry owner + ShapeLSM
//	point groups: count, then per entry owner + label
//	equivalence classes: count, then per class member count + members
//
// Maps are written in ascending owner order so the encoding is canonical.

const recordVersion = 1

// MarshalRecord appends the catalog record encoding of t to out.
func (t *Topology) MarshalRecord(out []byte) ([]byte, error) {
	var scrap [12]byte
	putU := func(v uint64) {
		n := binary.PutUvarint(scrap[:], v)
		out = append(out, scrap[:n]...)
	}
	putI := func(v int64) {
		n := binary.PutVarint(scrap[:], v)
		out = append(out, scrap[:n]...)
	}
	putF := func(v float64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		out = append(out, b[:]...)
	}
	putS := func(s string) {
		putU(uint64(len(s)))
		out = append(out, s...)
	}
	putPos := func(p [3]float64) {
		putF(p[0])
		putF(p[1])
		putF(p[2])
	}

	putU(recordVersion)
	putS(t.name)

	s := t.structure
	vecs := s.Cell.Vectors()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			putF(vecs[i][j])
		}
	}
	pbcMask := byte(0)
	for k := 0; k < 3; k++ {
		if s.PBC[k] {
			pbcMask |= 1 << k
		}
	}
	out = append(out, pbcMask)

	if s.Group != nil {
		putU(uint64(s.Group.Number()))
		putS(s.Group.Symbol())
	} else {
		putU(0)
		putS("")
	}

	putU(uint64(len(s.Atoms)))
	for _, a := range s.Atoms {
		putS(a.Symbol)
		putI(int64(a.Number))
		putI(int64(a.Tag))
		putPos(a.Pos)
	}

	owners := t.nodeIndices()

	putU(uint64(len(owners)))
	for _, ai := range owners {
		frag := t.fragments[ai]
		putU(uint64(frag.Owner))
		putU(uint64(len(frag.Points)))
		for pi := range frag.Points {
			putI(int64(frag.Tags[pi]))
			putPos(frag.Points[pi])
		}
	}

	putU(uint64(len(owners)))
	for _, ai := range owners {
		putU(uint64(ai))
		out = t.shapes[ai].AppendShapeLSM(out)
	}

	putU(uint64(len(owners)))
	for _, ai := range owners {
		putU(uint64(ai))
		putS(string(t.pointGroups[ai]))
	}

	putU(uint64(len(t.eqSites)))
	for _, class := range t.eqSites {
		putU(uint64(len(class)))
		for _, m := range class {
			putU(uint64(m))
		}
	}

	return out, nil
}

// UnmarshalTopologyRecord rebuilds a Topology from a catalog record.
//
// The stored structure carries only the space group's identity, not its
// operations; resolve maps that identity back to a live Spacegroup and may
// return nil, in which case the topology keeps its stored equivalence
// classes but cannot be re-analyzed.
func UnmarshalTopologyRecord(record []byte, resolve func(number int, symbol string) gonets.Spacegroup) (*Topology, error) {
	rdr := bytes.NewReader(record)

	fail := func(what string) error {
		return errors.Wrap(gonets.ErrUnmarshal, what)
	}
	getU := func() (uint64, error) { return binary.ReadUvarint(rdr) }
	getI := func() (int64, error) { return binary.ReadVarint(rdr) }
	getF := func() (float64, error) {
		var b [8]byte
		if _, err := rdr.Read(b[:]); err != nil {
			return 0, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
	}
	getS := func() (string, error) {
		n, err := getU()
		if err != nil {
			return "", err
		}
		buf := make([]byte, n)
		if _, err := rdr.Read(buf); err != nil {
			return "", err
		}
		return string(buf), nil
	}
	getPos := func() (p [3]float64, err error) {
		for k := 0; k < 3 && err == nil; k++ {
			p[k], err = getF()
		}
		return
	}

	vers, err := getU()
	if err != nil || vers != recordVersion {
		return nil, fail("record version")
	}
	name, err := getS()
	if err != nil {
		return nil, fail("name")
	}

	var vecs [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if vecs[i][j], err = getF(); err != nil {
				return nil, fail("cell")
			}
		}
	}
	cell, err := NewCell(vecs)
	if err != nil {
		return nil, err
	}

	pbcMask, err := rdr.ReadByte()
	if err != nil {
		return nil, fail("pbc")
	}

	s := &Structure{Cell: cell}
	for k := 0; k < 3; k++ {
		s.PBC[k] = pbcMask&(1<<k) != 0
	}

	groupNumber, err := getU()
	if err != nil {
		return nil, fail("group number")
	}
	groupSymbol, err := getS()
	if err != nil {
		return nil, fail("group symbol")
	}
	if resolve != nil {
		s.Group = resolve(int(groupNumber), groupSymbol)
	}

	atomCount, err := getU()
	if err != nil {
		return nil, fail("atom count")
	}
	s.Atoms = make([]Atom, atomCount)
	for i := range s.Atoms {
		a := &s.Atoms[i]
		if a.Symbol, err = getS(); err != nil {
			return nil, fail("atom symbol")
		}
		num, err := getI()
		if err != nil {
			return nil, fail("atom number")
		}
		tag, err := getI()
		if err != nil {
			return nil, fail("atom tag")
		}
		a.Number, a.Tag = int(num), int(tag)
		if a.Pos, err = getPos(); err != nil {
			return nil, fail("atom position")
		}
	}

	t := &Topology{
		name:        name,
		structure:   s,
		fragments:   make(map[int]*Fragment),
		shapes:      make(map[int]gonets.Shape),
		pointGroups: make(map[int]gonets.PointGroup),
	}

	fragCount, err := getU()
	if err != nil {
		return nil, fail("fragment count")
	}
	for i := uint64(0); i < fragCount; i++ {
		owner, err := getU()
		if err != nil {
			return nil, fail("fragment owner")
		}
		ptCount, err := getU()
		if err != nil {
			return nil, fail("fragment size")
		}
		frag := &Fragment{Owner: int(owner)}
		for p := uint64(0); p < ptCount; p++ {
			tag, err := getI()
			if err != nil {
				return nil, fail("fragment tag")
			}
			pos, err := getPos()
			if err != nil {
				return nil, fail("fragment point")
			}
			frag.Tags = append(frag.Tags, int(tag))
			frag.Points = append(frag.Points, pos)
		}
		t.fragments[frag.Owner] = frag
	}

	shapeCount, err := getU()
	if err != nil {
		return nil, fail("shape count")
	}
	for i := uint64(0); i < shapeCount; i++ {
		owner, err := getU()
		if err != nil {
			return nil, fail("shape owner")
		}
		var shape gonets.Shape
		if err := readShape(rdr, &shape); err != nil {
			return nil, err
		}
		t.shapes[int(owner)] = shape
	}

	pgCount, err := getU()
	if err != nil {
		return nil, fail("point group count")
	}
	for i := uint64(0); i < pgCount; i++ {
		owner, err := getU()
		if err != nil {
			return nil, fail("point group owner")
		}
		label, err := getS()
		if err != nil {
			return nil, fail("point group label")
		}
		t.pointGroups[int(owner)] = gonets.PointGroup(label)
	}

	classCount, err := getU()
	if err != nil {
		return nil, fail("class count")
	}
	for i := uint64(0); i < classCount; i++ {
		memberCount, err := getU()
		if err != nil {
			return nil, fail("class size")
		}
		class := make([]int, memberCount)
		for m := range class {
			v, err := getU()
			if err != nil {
				return nil, fail("class member")
			}
			class[m] = int(v)
		}
		t.eqSites = append(t.eqSites, class)
	}

	return t, nil
}

// readShape reads an in-stream ShapeLSM (the length prefix tells how many
// varints follow).
func readShape(rdr *bytes.Reader, sh *gonets.Shape) error {
	count, err := binary.ReadUvarint(rdr)
	if err != nil {
		return errors.Wrap(gonets.ErrUnmarshal, "shape length")
	}
	out := make(gonets.Shape, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := binary.ReadVarint(rdr)
		if err != nil {
			return errors.Wrap(gonets.ErrUnmarshal, "shape element")
		}
		out = append(out, int(v))
	}
	*sh = out
	return nil
}
