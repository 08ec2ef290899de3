// Package spacegroup implements the crystallographic equivalent-sites
// collaborator: space groups represented by their symmetry operations in
// the fractional basis, with the full operation set computed by closure
// from a small generator list.
package spacegroup

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/netgen-systems/gonets/gonets"
)

// opTolerance separates distinct operations and sites; translations are
// exact multiples of 1/12 in every group carried here, so 1e-6 is generous.
const opTolerance = 1e-6

// maxGroupOrder caps closure; no space group exceeds 192 operations.
const maxGroupOrder = 192

// Op is one symmetry operation: a rotation part (integer in the fractional
// basis) and a translation part.  It maps x to R·x + T.
type Op struct {
	R [3][3]int
	T [3]float64
}

// Identity returns the identity operation.
func Identity() Op {
	return Op{R: [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Apply maps a fractional position through the operation, without
// reduction into the unit cell.
func (op Op) Apply(x [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = float64(op.R[i][0])*x[0] +
			float64(op.R[i][1])*x[1] +
			float64(op.R[i][2])*x[2] + op.T[i]
	}
	return out
}

// mul composes two operations: (a·b)(x) = a(b(x)), translations mod 1.
func mul(a, b Op) Op {
	var out Op
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0
			for k := 0; k < 3; k++ {
				sum += a.R[i][k] * b.R[k][j]
			}
			out.R[i][j] = sum
		}
		t := a.T[i]
		for k := 0; k < 3; k++ {
			t += float64(a.R[i][k]) * b.T[k]
		}
		out.T[i] = wrapFrac(t)
	}
	return out
}

func (op Op) equals(other Op) bool {
	if op.R != other.R {
		return false
	}
	for k := 0; k < 3; k++ {
		d := math.Abs(op.T[k] - other.T[k])
		if d > opTolerance && math.Abs(d-1) > opTolerance {
			return false
		}
	}
	return true
}

// wrapFrac reduces a fractional coordinate into [0, 1).
func wrapFrac(v float64) float64 {
	v -= math.Floor(v)
	if v >= 1-opTolerance {
		v = 0
	}
	return v
}

// Group is a space group given by its full operation set.
type Group struct {
	number int
	symbol string
	ops    []Op
}

// FromGenerators builds a Group as the closure of the given generators.
// The identity need not be listed.  Closure failing to terminate within
// the largest possible group order means the generators are inconsistent.
func FromGenerators(number int, symbol string, gens []Op) (*Group, error) {
	ops := []Op{Identity()}

	contains := func(op Op) bool {
		for _, have := range ops {
			if have.equals(op) {
				return true
			}
		}
		return false
	}

	for _, g := range gens {
		gw := g
		for k := range gw.T {
			gw.T[k] = wrapFrac(gw.T[k])
		}
		if !contains(gw) {
			ops = append(ops, gw)
		}
	}

	// multiply until no new operations appear
	for grew := true; grew; {
		grew = false
		for i := 0; i < len(ops); i++ {
			for j := 0; j < len(ops); j++ {
				prod := mul(ops[i], ops[j])
				if !contains(prod) {
					ops = append(ops, prod)
					grew = true
					if len(ops) > maxGroupOrder {
						return nil, errors.Wrapf(gonets.ErrUnsupportedSpacegroup,
							"closure of %q exceeds order %d", symbol, maxGroupOrder)
					}
				}
			}
		}
	}

	return &Group{number: number, symbol: symbol, ops: ops}, nil
}

// MustFromGenerators is FromGenerators for static registry entries.
func MustFromGenerators(number int, symbol string, gens []Op) *Group {
	g, err := FromGenerators(number, symbol, gens)
	if err != nil {
		panic(fmt.Sprintf("spacegroup %s: %v", symbol, err))
	}
	return g
}

// Number returns the International Tables group number.
func (g *Group) Number() int { return g.number }

// Symbol returns the Hermann-Mauguin symbol.
func (g *Group) Symbol() string { return g.symbol }

// Order returns the number of symmetry operations.
func (g *Group) Order() int { return len(g.ops) }

// Ops returns the operation set.  Callers must not mutate it.
func (g *Group) Ops() []Op { return g.ops }

// EquivalentSites returns every position the group maps frac onto, reduced
// into the unit cell, with coincident sites (within tolerance, across the
// cell boundary included) removed.
func (g *Group) EquivalentSites(frac [3]float64) [][3]float64 {
	var sites [][3]float64

	for _, op := range g.ops {
		site := op.Apply(frac)
		for k := 0; k < 3; k++ {
			site[k] = wrapFrac(site[k])
		}

		dup := false
		for _, have := range sites {
			if sameSite(have, site) {
				dup = true
				break
			}
		}
		if !dup {
			sites = append(sites, site)
		}
	}
	return sites
}

func sameSite(a, b [3]float64) bool {
	for k := 0; k < 3; k++ {
		d := math.Abs(a[k] - b[k])
		if d > opTolerance && math.Abs(d-1) > opTolerance {
			return false
		}
	}
	return true
}
