package spacegroup

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/netgen-systems/gonets/gonets"
)

// mustOp parses a coordinate-triplet operation in the International Tables
// notation, e.g. "-y,x,z" or "x+1/2,y+1/2,z".  Coefficients are limited to
// ±1 and translations to simple fractions, which covers every tabulated
// generator.
func mustOp(triplet string) Op {
	var op Op
	parts := strings.Split(triplet, ",")
	if len(parts) != 3 {
		panic("bad triplet: " + triplet)
	}

	for i, part := range parts {
		sign := 1
		j := 0
		for j < len(part) {
			switch ch := part[j]; {
			case ch == ' ':
				j++
			case ch == '+':
				sign = 1
				j++
			case ch == '-':
				sign = -1
				j++
			case ch == 'x' || ch == 'y' || ch == 'z':
				op.R[i][int(ch-'x')] += sign
				sign = 1
				j++
			case ch >= '0' && ch <= '9':
				k := j
				for k < len(part) && (part[k] >= '0' && part[k] <= '9' || part[k] == '/') {
					k++
				}
				num, den := part[j:k], "1"
				if s := strings.SplitN(num, "/", 2); len(s) == 2 {
					num, den = s[0], s[1]
				}
				n, _ := strconv.Atoi(num)
				d, _ := strconv.Atoi(den)
				op.T[i] += float64(sign) * float64(n) / float64(d)
				sign = 1
				j = k
			default:
				panic("bad triplet: " + triplet)
			}
		}
	}
	return op
}

func mustOps(triplets ...string) []Op {
	ops := make([]Op, len(triplets))
	for i, t := range triplets {
		ops[i] = mustOp(t)
	}
	return ops
}

// registry holds the groups the shipped net library needs.  Symbols are
// standard short Hermann-Mauguin; origin choice 1 throughout.
var registry = []*Group{
	MustFromGenerators(1, "P1", nil),
	MustFromGenerators(2, "P-1", mustOps("-x,-y,-z")),
	MustFromGenerators(47, "Pmmm", mustOps("-x,y,z", "x,-y,z", "x,y,-z")),
	MustFromGenerators(123, "P4/mmm", mustOps("-y,x,z", "x,y,-z", "-x,y,z")),
	MustFromGenerators(139, "I4/mmm", mustOps("-y,x,z", "x,y,-z", "-x,y,z", "x+1/2,y+1/2,z+1/2")),
	MustFromGenerators(191, "P6/mmm", mustOps("x-y,x,z", "y,x,-z", "-x,-y,-z")),
	MustFromGenerators(221, "Pm-3m", mustOps("-y,x,z", "z,x,y", "-x,-y,-z")),
	MustFromGenerators(225, "Fm-3m", mustOps("-y,x,z", "z,x,y", "-x,-y,-z", "x,y+1/2,z+1/2", "x+1/2,y,z+1/2")),
	MustFromGenerators(229, "Im-3m", mustOps("-y,x,z", "z,x,y", "-x,-y,-z", "x+1/2,y+1/2,z+1/2")),
}

// Lookup resolves a Hermann-Mauguin symbol (an optional ":setting" suffix
// is accepted and ignored: all carried groups use origin choice 1).
func Lookup(symbol string) (*Group, error) {
	name := strings.TrimSpace(symbol)
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	for _, g := range registry {
		if g.symbol == name {
			return g, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil {
		return ByNumber(n)
	}
	return nil, errors.Wrapf(gonets.ErrUnsupportedSpacegroup, "symbol %q", symbol)
}

// ByNumber resolves an International Tables group number.
func ByNumber(number int) (*Group, error) {
	for _, g := range registry {
		if g.number == number {
			return g, nil
		}
	}
	return nil, errors.Wrapf(gonets.ErrUnsupportedSpacegroup, "number %d", number)
}

// P1 returns the trivial group, the fallback for unsymmetrized nets.
func P1() *Group {
	g, _ := ByNumber(1)
	return g
}
