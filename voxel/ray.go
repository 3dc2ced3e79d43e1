package voxel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Rays is a batch of camera rays in world space.
type Rays struct {
	Origins []r3.Vec
	Dirs    []r3.Vec
}

func (r Rays) validate(op string) error {
	if len(r.Origins) != len(r.Dirs) {
		return shapeMismatchf(op, "origins (%d) and dirs (%d) length mismatch", len(r.Origins), len(r.Dirs))
	}
	for i, o := range r.Origins {
		if !finiteVec(o) {
			return numericFailuref(op, "origin %d is non-finite", i)
		}
		d := r.Dirs[i]
		if !finiteVec(d) {
			return numericFailuref(op, "dir %d is non-finite", i)
		}
		if r3.Norm(d) == 0 {
			return numericFailuref(op, "dir %d has zero length", i)
		}
	}
	return nil
}

// raySetup holds the shared per-ray state computed once before traversal
// (spec.md §4.3 "Shared setup per ray").
type raySetup struct {
	o       r3.Vec   // ray origin in grid coordinates
	d       r3.Vec   // grid-space direction, advances one grid unit per unit t
	delta   float64  // converts a grid-unit step back to world distance
	inv     r3.Vec   // 1/d component-wise, zero replaced by sentinel
	tEnter  float64
	tExit   float64
	sh      []float32
	skip    bool // tEnter >= tExit: ray never intersects the grid
}

const aabbInflate = 1e-3

// setupRay performs steps 1-6 of spec.md §4.3 for a single ray.
func setupRay(s *gridState, basisDim int, origin, dir r3.Vec) raySetup {
	o := s.xf.worldToGrid(origin)
	v := r3.Unit(dir)
	d, delta := s.xf.dirScale(v)
	inv := invElem(d)

	lo := aabbInflate
	var hi [3]float64
	hi[0] = float64(s.res[0]-1) - aabbInflate
	hi[1] = float64(s.res[1]-1) - aabbInflate
	hi[2] = float64(s.res[2]-1) - aabbInflate

	oArr := [3]float64{o.X, o.Y, o.Z}
	invArr := [3]float64{inv.X, inv.Y, inv.Z}

	tEnter := 0.0
	tExit := math.Inf(1)
	for i := 0; i < 3; i++ {
		t1 := (lo - oArr[i]) * invArr[i]
		t2 := (hi[i] - oArr[i]) * invArr[i]
		lo2, hi2 := t1, t2
		if lo2 > hi2 {
			lo2, hi2 = hi2, lo2
		}
		tEnter = maxFloat(tEnter, lo2)
		tExit = minFloat(tExit, hi2)
	}
	tEnter = maxFloat(tEnter, 0)

	sh := evalSH(basisDim, v)

	return raySetup{
		o: o, d: d, delta: delta, inv: inv,
		tEnter: tEnter, tExit: tExit,
		sh:   sh,
		skip: tEnter >= tExit,
	}
}

