package voxel

import "gonum.org/v1/gonum/spatial/r3"

// resToVec converts a per-axis integer resolution to a float64 vector for
// use in the transform arithmetic below.
func resToVec(res [3]int) r3.Vec {
	return r3.Vec{X: float64(res[0]), Y: float64(res[1]), Z: float64(res[2])}
}

// mulElem returns the element-wise (Hadamard) product of a and b. r3 only
// exposes Scale/Dot/Cross, none of which give a per-axis product, so this is
// a small local helper rather than a missing gonum feature to route around.
func mulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// divElem returns the element-wise quotient a/b.
func divElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X / b.X, Y: a.Y / b.Y, Z: a.Z / b.Z}
}

// invElem returns the element-wise reciprocal of v, with any zero component
// replaced by a large sentinel to avoid division-by-zero in slab tests.
func invElem(v r3.Vec) r3.Vec {
	const sentinel = 1e9
	inv := func(c float64) float64 {
		if c == 0 {
			return sentinel
		}
		return 1 / c
	}
	return r3.Vec{X: inv(v.X), Y: inv(v.Y), Z: inv(v.Z)}
}

// transform holds the host-side world<->grid conversion state derived from a
// grid's center, radius, and resolution (spec.md §3):
//
//	offset = 0.5*(1 - center/radius)*R - 0.5
//	scale  = 0.5*R/radius
//	grid   = offset + scale*world
//	world  = (radius*(1/R - 1) + center) + (2*radius/R)*grid
type transform struct {
	center, radius r3.Vec
	res            r3.Vec
	offset, scale  r3.Vec
}

func newTransform(center, radius r3.Vec, res [3]int) transform {
	r := resToVec(res)
	one := r3.Vec{X: 1, Y: 1, Z: 1}
	offset := r3.Sub(r3.Scale(0.5, mulElem(r3.Sub(one, divElem(center, radius)), r)), r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	scale := r3.Scale(0.5, divElem(r, radius))
	return transform{center: center, radius: radius, res: r, offset: offset, scale: scale}
}

// worldToGrid maps a world-space point into grid coordinates.
func (t transform) worldToGrid(p r3.Vec) r3.Vec {
	return r3.Add(t.offset, mulElem(t.scale, p))
}

// gridToWorld maps a grid-space point back into world coordinates; the
// exact inverse of worldToGrid to within 1 ULP per axis.
func (t transform) gridToWorld(g r3.Vec) r3.Vec {
	one := r3.Vec{X: 1, Y: 1, Z: 1}
	base := r3.Add(mulElem(t.radius, r3.Sub(divElem(one, t.res), one)), t.center)
	return r3.Add(base, mulElem(r3.Scale(2, divElem(t.radius, t.res)), g))
}

// dirScale computes d = v * (scale*R) and delta = 1/||d||, then renormalizes
// d to advance by one grid unit per unit of t, per spec.md §4.3 steps 3-4.
func (t transform) dirScale(v r3.Vec) (d r3.Vec, delta float64) {
	factor := mulElem(t.scale, t.res)
	d = mulElem(v, factor)
	n := r3.Norm(d)
	delta = 1 / n
	d = r3.Scale(delta, d)
	return d, delta
}
