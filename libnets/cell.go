package libnets

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/netgen-systems/gonets/gonets"
)

// Cell is a unit cell.  Row vectors are the lattice vectors, so a fractional
// position converts to cartesian as frac·M (the crystallographic row-vector
// convention).
type Cell struct {
	m   [3][3]float64 // lattice vectors by row
	inv [3][3]float64 // inverse, cart·inv = frac
}

// NewCell builds a Cell from three lattice row vectors.
// A singular matrix fails with ErrBadCell.
func NewCell(vectors [3][3]float64) (Cell, error) {
	c := Cell{m: vectors}

	M := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			M.Set(i, j, vectors[i][j])
		}
	}
	if math.Abs(mat.Det(M)) < 1e-12 {
		return Cell{}, errors.Wrap(gonets.ErrBadCell, "zero cell volume")
	}

	var inv mat.Dense
	if err := inv.Inverse(M); err != nil {
		return Cell{}, errors.Wrap(gonets.ErrBadCell, err.Error())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.inv[i][j] = inv.At(i, j)
		}
	}
	return c, nil
}

// NewCellFromPar builds a Cell from the six cell parameters
// (lengths a, b, c and angles alpha, beta, gamma in degrees), with the
// standard orientation: a along x, b in the xy plane.
func NewCellFromPar(a, b, c, alpha, beta, gamma float64) (Cell, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return Cell{}, errors.Wrap(gonets.ErrBadCell, "non-positive cell length")
	}
	ca := math.Cos(alpha * math.Pi / 180)
	cb := math.Cos(beta * math.Pi / 180)
	cg := math.Cos(gamma * math.Pi / 180)
	sg := math.Sin(gamma * math.Pi / 180)
	if math.Abs(sg) < 1e-12 {
		return Cell{}, errors.Wrap(gonets.ErrBadCell, "gamma is degenerate")
	}

	cx := c * cb
	cy := c * (ca - cb*cg) / sg
	czSq := c*c - cx*cx - cy*cy
	if czSq <= 0 {
		return Cell{}, errors.Wrap(gonets.ErrBadCell, "inconsistent cell angles")
	}

	return NewCell([3][3]float64{
		{a, 0, 0},
		{b * cg, b * sg, 0},
		{cx, cy, math.Sqrt(czSq)},
	})
}

// Vectors returns the lattice row vectors.
func (c Cell) Vectors() [3][3]float64 { return c.m }

// Lengths returns the three lattice vector lengths.
func (c Cell) Lengths() [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = math.Sqrt(c.m[i][0]*c.m[i][0] + c.m[i][1]*c.m[i][1] + c.m[i][2]*c.m[i][2])
	}
	return out
}

// Cartesian converts a fractional position to cartesian coordinates.
func (c Cell) Cartesian(frac [3]float64) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = frac[0]*c.m[0][j] + frac[1]*c.m[1][j] + frac[2]*c.m[2][j]
	}
	return out
}

// Fractional converts a cartesian position to fractional coordinates.
func (c Cell) Fractional(cart [3]float64) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = cart[0]*c.inv[0][j] + cart[1]*c.inv[1][j] + cart[2]*c.inv[2][j]
	}
	return out
}

// Offset translates a cartesian position by an integer lattice offset.
func (c Cell) Offset(cart [3]float64, off [3]int) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = cart[j] + float64(off[0])*c.m[0][j] + float64(off[1])*c.m[1][j] + float64(off[2])*c.m[2][j]
	}
	return out
}

// fracExtent returns, per axis, how far (in fractional units) a cartesian
// sphere of radius r reaches.  Used to bound periodic image searches.
func (c Cell) fracExtent(r float64) [3]float64 {
	var out [3]float64
	for k := 0; k < 3; k++ {
		n := math.Sqrt(c.inv[0][k]*c.inv[0][k] + c.inv[1][k]*c.inv[1][k] + c.inv[2][k]*c.inv[2][k])
		out[k] = r * n
	}
	return out
}

// MICDistance returns the minimum-image distance for the cartesian
// separation d under the given periodic flags.  Valid for separations
// within one cell of the origin, which holds for in-cell atom pairs.
func (c Cell) MICDistance(d [3]float64, pbc [3]bool) float64 {
	f := c.Fractional(d)
	for k := 0; k < 3; k++ {
		if pbc[k] {
			f[k] -= math.Round(f[k])
		}
	}

	// The rounded image is not always the nearest one in skewed cells,
	// so scan the adjacent images too.
	best := math.Inf(1)
	var off [3]int
	lo, hi := [3]int{}, [3]int{}
	for k := 0; k < 3; k++ {
		if pbc[k] {
			lo[k], hi[k] = -1, 1
		}
	}
	for off[0] = lo[0]; off[0] <= hi[0]; off[0]++ {
		for off[1] = lo[1]; off[1] <= hi[1]; off[1]++ {
			for off[2] = lo[2]; off[2] <= hi[2]; off[2]++ {
				g := [3]float64{
					f[0] + float64(off[0]),
					f[1] + float64(off[1]),
					f[2] + float64(off[2]),
				}
				cart := c.Cartesian(g)
				r := math.Sqrt(cart[0]*cart[0] + cart[1]*cart[1] + cart[2]*cart[2])
				if r < best {
					best = r
				}
			}
		}
	}
	return best
}
