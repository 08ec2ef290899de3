package gonets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Multiplicity returns the trailing element of the Shape: the connector
// count of the cluster it describes.  An empty Shape has multiplicity 0.
func (sh Shape) Multiplicity() int {
	if len(sh) == 0 {
		return 0
	}
	return sh[len(sh)-1]
}

// IsEqual returns whether two shapes match element for element.
func (sh Shape) IsEqual(target Shape) bool {
	if len(sh) != len(target) {
		return false
	}
	for i, si := range sh {
		if si != target[i] {
			return false
		}
	}
	return true
}

// Dominates returns whether sh carries at least as many symmetry elements of
// every order as target, ignoring the trailing multiplicity entry.
//
// Shapes of unequal length are never comparable; callers gate on
// Multiplicity() equality first, which implies equal length.
func (sh Shape) Dominates(target Shape) bool {
	if len(sh) != len(target) {
		return false
	}
	for i := 0; i < len(sh)-1; i++ {
		if sh[i] < target[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of sh.
func (sh Shape) Clone() Shape {
	if sh == nil {
		return nil
	}
	out := make(Shape, len(sh))
	copy(out, sh)
	return out
}

func (sh Shape) String() string {
	b := strings.Builder{}
	b.WriteByte('(')
	for i, si := range sh {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", si)
	}
	b.WriteByte(')')
	return b.String()
}

// AppendShapeLSM appends a canonical binary encoding of sh to out,
// returning it as ShapeLSM.  The element count is encoded first so that
// encodings of different lengths never prefix one another.
func (sh Shape) AppendShapeLSM(out []byte) ShapeLSM {
	var scrap [12]byte
	n := binary.PutUvarint(scrap[:], uint64(len(sh)))
	key := append(out, scrap[:n]...)
	for _, si := range sh {
		n = binary.PutVarint(scrap[:], int64(si))
		key = append(key, scrap[:n]...)
	}
	return key
}

// InitFromShapeLSM assigns this Shape from a binary encoding made from
// AppendShapeLSM().
func (sh *Shape) InitFromShapeLSM(key ShapeLSM) error {
	rdr := bytes.NewReader(key)
	count, err := binary.ReadUvarint(rdr)
	if err != nil {
		return ErrUnmarshal
	}
	out := (*sh)[:0]
	for i := uint64(0); i < count; i++ {
		si, err := binary.ReadVarint(rdr)
		if err != nil {
			if err == io.EOF || err == io.ErrShortBuffer {
				err = ErrUnmarshal
			}
			return err
		}
		out = append(out, int(si))
	}
	*sh = out
	return nil
}

// ShapeComparator orders two Shapes canonically: by multiplicity first,
// then element-wise.  Signature matches gods' utils.Comparator so trees and
// sets can sort on it directly.
func ShapeComparator(a, b interface{}) int {
	A := a.(Shape)
	B := b.(Shape)

	dm := A.Multiplicity() - B.Multiplicity()
	if dm != 0 {
		return dm
	}
	for i, ai := range A {
		if i >= len(B) {
			return 1
		}
		if d := ai - B[i]; d != 0 {
			return d
		}
	}
	if len(A) < len(B) {
		return -1
	}
	return 0
}
