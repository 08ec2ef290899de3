// Package symmetry implements the default shape/point-group classifier for
// connector clusters.
//
// The shape vector is a census of proper rotation axes by order (an axis of
// order 4 also counts at order 2), terminated by the cluster's connector
// count.  The census convention is this package's own; it is consistent
// across every cluster classified with the same tolerance, which is the
// only property the decomposition core relies on.
package symmetry

import (
	"fmt"
	"math"

	"github.com/netgen-systems/gonets/gonets"
)

// DefaultTol is the geometric matching tolerance, in the length units of
// the cluster coordinates.
const DefaultTol = 0.1

// Classifier assigns shape vectors and Schoenflies labels to point
// clusters.  It is stateless and safe for concurrent use.
type Classifier struct {
	Tol float64
}

// New returns a Classifier with the default tolerance.
func New() *Classifier {
	return &Classifier{Tol: DefaultTol}
}

var _ gonets.Classifier = (*Classifier)(nil)

// Classify centers the cluster on its centroid, takes a census of proper
// rotation axes up to maxOrder, and derives the Schoenflies label from the
// census plus mirror/inversion detection.
func (c *Classifier) Classify(points [][3]float64, maxOrder int) (gonets.Shape, gonets.PointGroup, error) {
	if maxOrder < 1 {
		maxOrder = 1
	}

	cl := newCluster(points, c.Tol)

	shape := make(gonets.Shape, 0, maxOrder)
	for order := 2; order <= maxOrder; order++ {
		shape = append(shape, len(cl.properAxes(order)))
	}
	shape = append(shape, len(points))

	return shape, cl.schoenflies(maxOrder), nil
}

type cluster struct {
	pts  [][3]float64
	tol  float64
	axes [][3]float64 // candidate axis directions, deduplicated

	axisCache map[int][][3]float64
}

func newCluster(points [][3]float64, tol float64) *cluster {
	cl := &cluster{
		pts:       make([][3]float64, len(points)),
		tol:       tol,
		axisCache: make(map[int][][3]float64),
	}

	var com [3]float64
	for _, p := range points {
		for k := 0; k < 3; k++ {
			com[k] += p[k]
		}
	}
	for k := 0; k < 3; k++ {
		com[k] /= float64(len(points))
	}
	for i, p := range points {
		cl.pts[i] = [3]float64{p[0] - com[0], p[1] - com[1], p[2] - com[2]}
	}

	cl.collectAxes()
	return cl
}

// collectAxes gathers rotation-covariant axis candidates: point directions,
// pair bisectors and differences, and pair plane normals.  Collinear
// clusters additionally get a perpendicular pair, since every axis normal
// to the line is equivalent.
func (cl *cluster) collectAxes() {
	add := func(v [3]float64) {
		n := norm(v)
		if n < cl.tol {
			return
		}
		u := [3]float64{v[0] / n, v[1] / n, v[2] / n}
		for _, have := range cl.axes {
			if math.Abs(dot(have, u)) > 1-1e-6 {
				return
			}
		}
		cl.axes = append(cl.axes, u)
	}

	for i, p := range cl.pts {
		add(p)
		for j, q := range cl.pts[i+1:] {
			add([3]float64{p[0] + q[0], p[1] + q[1], p[2] + q[2]})
			add([3]float64{p[0] - q[0], p[1] - q[1], p[2] - q[2]})
			add(cross(p, q))
			// face centers: a 3-fold axis of an octahedral cluster pierces
			// the centroid of three mutually adjacent connectors
			for _, r := range cl.pts[i+1+j+1:] {
				add([3]float64{p[0] + q[0] + r[0], p[1] + q[1] + r[1], p[2] + q[2] + r[2]})
			}
		}
	}

	if cl.isCollinear() && len(cl.axes) > 0 {
		a := cl.axes[0]
		perp := cross(a, [3]float64{1, 0, 0})
		if norm(perp) < 1e-6 {
			perp = cross(a, [3]float64{0, 1, 0})
		}
		add(perp)
		add(cross(a, perp))
	}
}

// properAxes returns the candidate axes the cluster is invariant under for
// a rotation of 2*pi/order.
func (cl *cluster) properAxes(order int) [][3]float64 {
	if axes, ok := cl.axisCache[order]; ok {
		return axes
	}
	angle := 2 * math.Pi / float64(order)
	var axes [][3]float64
	for _, a := range cl.axes {
		if cl.invariant(func(p [3]float64) [3]float64 { return rotate(p, a, angle) }) {
			axes = append(axes, a)
		}
	}
	cl.axisCache[order] = axes
	return axes
}

// mirrorNormals returns the candidate axes that are normals of mirror
// planes of the cluster.
func (cl *cluster) mirrorNormals() [][3]float64 {
	var normals [][3]float64
	for _, a := range cl.axes {
		if cl.invariant(func(p [3]float64) [3]float64 { return reflect(p, a) }) {
			normals = append(normals, a)
		}
	}
	return normals
}

func (cl *cluster) hasInversion() bool {
	return cl.invariant(func(p [3]float64) [3]float64 {
		return [3]float64{-p[0], -p[1], -p[2]}
	})
}

// hasImproper reports an S(order) axis along a: rotation by 2*pi/order
// composed with reflection through the plane normal to a.
func (cl *cluster) hasImproper(a [3]float64, order int) bool {
	angle := 2 * math.Pi / float64(order)
	return cl.invariant(func(p [3]float64) [3]float64 {
		return reflect(rotate(p, a, angle), a)
	})
}

// invariant reports whether the transform maps the point set onto itself,
// by greedy matching within tolerance.
func (cl *cluster) invariant(transform func([3]float64) [3]float64) bool {
	used := make([]bool, len(cl.pts))
	for _, p := range cl.pts {
		tp := transform(p)
		found := false
		for j, q := range cl.pts {
			if used[j] {
				continue
			}
			d := [3]float64{tp[0] - q[0], tp[1] - q[1], tp[2] - q[2]}
			if norm(d) < cl.tol {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (cl *cluster) isDegenerate() bool {
	for _, p := range cl.pts {
		if norm(p) > cl.tol {
			return false
		}
	}
	return true
}

func (cl *cluster) isCollinear() bool {
	var axis [3]float64
	for _, p := range cl.pts {
		if norm(p) > cl.tol {
			axis = p
			break
		}
	}
	if norm(axis) < cl.tol {
		return true
	}
	for _, p := range cl.pts {
		if norm(cross(axis, p)) > cl.tol*norm(axis) {
			return false
		}
	}
	return true
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// rotate applies the Rodrigues rotation of p about unit axis a.
func rotate(p, a [3]float64, angle float64) [3]float64 {
	c, s := math.Cos(angle), math.Sin(angle)
	ax := cross(a, p)
	ad := dot(a, p) * (1 - c)
	return [3]float64{
		p[0]*c + ax[0]*s + a[0]*ad,
		p[1]*c + ax[1]*s + a[1]*ad,
		p[2]*c + ax[2]*s + a[2]*ad,
	}
}

// reflect mirrors p through the plane with unit normal n.
func reflect(p, n [3]float64) [3]float64 {
	d := 2 * dot(p, n)
	return [3]float64{p[0] - d*n[0], p[1] - d*n[1], p[2] - d*n[2]}
}

// schoenflies walks the standard classification flowchart.
func (cl *cluster) schoenflies(maxOrder int) gonets.PointGroup {
	if cl.isDegenerate() {
		return "Kh"
	}
	if cl.isCollinear() {
		if cl.hasInversion() {
			return "Dinfh"
		}
		return "Cinfv"
	}

	mirrors := cl.mirrorNormals()
	inversion := cl.hasInversion()

	// cubic families: several high-order axes
	if maxOrder >= 3 && len(cl.properAxes(3)) >= 4 {
		if maxOrder >= 5 && len(cl.properAxes(5)) >= 6 {
			if inversion {
				return "Ih"
			}
			return "I"
		}
		if maxOrder >= 4 && len(cl.properAxes(4)) >= 3 {
			if inversion {
				return "Oh"
			}
			return "O"
		}
		if len(mirrors) > 0 {
			return "Td"
		}
		if inversion {
			return "Th"
		}
		return "T"
	}

	// principal axis
	n := 0
	var principal [3]float64
	for order := 2; order <= maxOrder; order++ {
		if axes := cl.properAxes(order); len(axes) > 0 {
			n = order
			principal = axes[0]
		}
	}

	if n == 0 {
		if len(mirrors) > 0 {
			return "Cs"
		}
		if inversion {
			return "Ci"
		}
		return "C1"
	}

	perpC2 := 0
	for _, a := range cl.properAxes(2) {
		if math.Abs(dot(a, principal)) < 1e-3 {
			perpC2++
		}
	}

	sigmaH := false
	sigmaV := 0
	for _, m := range mirrors {
		d := math.Abs(dot(m, principal))
		if d > 1-1e-3 {
			sigmaH = true
		} else if d < 1e-3 {
			sigmaV++
		}
	}

	if perpC2 >= n {
		if sigmaH {
			return gonets.PointGroup(fmt.Sprintf("D%dh", n))
		}
		if sigmaV >= n {
			return gonets.PointGroup(fmt.Sprintf("D%dd", n))
		}
		return gonets.PointGroup(fmt.Sprintf("D%d", n))
	}
	if sigmaH {
		return gonets.PointGroup(fmt.Sprintf("C%dh", n))
	}
	if sigmaV >= n {
		return gonets.PointGroup(fmt.Sprintf("C%dv", n))
	}
	if cl.hasImproper(principal, 2*n) {
		return gonets.PointGroup(fmt.Sprintf("S%d", 2*n))
	}
	return gonets.PointGroup(fmt.Sprintf("C%d", n))
}
