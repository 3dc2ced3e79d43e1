package voxel

import "gonum.org/v1/gonum/spatial/r3"

// gatherCorners clamps a grid-space point into the lattice interior and
// returns the 8 corner payload rows (nil for an empty-voxel corner) and
// their trilinear weights needed to interpolate it.
func gatherCorners(s *gridState, p r3.Vec, channels int) (rows [8][]float32, weights [8]float32) {
	px := clampFloat(p.X, 0, float64(s.res[0]-1))
	py := clampFloat(p.Y, 0, float64(s.res[1]-1))
	pz := clampFloat(p.Z, 0, float64(s.res[2]-1))

	lx := clampInt(int(px), 0, s.res[0]-2)
	ly := clampInt(int(py), 0, s.res[1]-2)
	lz := clampInt(int(pz), 0, s.res[2]-2)

	fx := float32(px - float64(lx))
	fy := float32(py - float64(ly))
	fz := float32(pz - float64(lz))

	i := 0
	for dx := 0; dx <= 1; dx++ {
		wx := 1 - fx
		if dx == 1 {
			wx = fx
		}
		for dy := 0; dy <= 1; dy++ {
			wy := 1 - fy
			if dy == 1 {
				wy = fy
			}
			for dz := 0; dz <= 1; dz++ {
				wz := 1 - fz
				if dz == 1 {
					wz = fz
				}
				link := s.linkAt(lx+dx, ly+dy, lz+dz)
				rows[i] = s.row(link, channels)
				weights[i] = wx * wy * wz
				i++
			}
		}
	}
	return rows, weights
}

// cornerLinksWeights returns the 8 corner links and trilinear weights for a
// grid-space point, in the same fixed order as gatherCorners, for the
// trilerp backward pass which needs link identity rather than fetched rows.
func cornerLinksWeights(s *gridState, p r3.Vec) (links [8]int32, weights [8]float32) {
	lx, ly, lz, fx, fy, fz := lowerCorner(s, p)
	links = cornerLinks(s, lx, ly, lz)

	i := 0
	for dx := 0; dx <= 1; dx++ {
		wx := 1 - fx
		if dx == 1 {
			wx = fx
		}
		for dy := 0; dy <= 1; dy++ {
			wy := 1 - fy
			if dy == 1 {
				wy = fy
			}
			for dz := 0; dz <= 1; dz++ {
				wz := 1 - fz
				if dz == 1 {
					wz = fz
				}
				weights[i] = wx * wy * wz
				i++
			}
		}
	}
	return links, weights
}

// cornerLinks returns the 8 raw link values in the same fixed order as
// gatherCorners, for callers (the backward pass) that need the link index
// itself rather than the fetched row.
func cornerLinks(s *gridState, lx, ly, lz int) [8]int32 {
	var links [8]int32
	i := 0
	for dx := 0; dx <= 1; dx++ {
		for dy := 0; dy <= 1; dy++ {
			for dz := 0; dz <= 1; dz++ {
				links[i] = s.linkAt(lx+dx, ly+dy, lz+dz)
				i++
			}
		}
	}
	return links
}

// lowerCorner returns the clamped lower-integer corner and fractional
// offset for a grid-space point, matching gatherCorners' clamping.
func lowerCorner(s *gridState, p r3.Vec) (lx, ly, lz int, fx, fy, fz float32) {
	px := clampFloat(p.X, 0, float64(s.res[0]-1))
	py := clampFloat(p.Y, 0, float64(s.res[1]-1))
	pz := clampFloat(p.Z, 0, float64(s.res[2]-1))
	lx = clampInt(int(px), 0, s.res[0]-2)
	ly = clampInt(int(py), 0, s.res[1]-2)
	lz = clampInt(int(pz), 0, s.res[2]-2)
	fx = float32(px - float64(lx))
	fy = float32(py - float64(ly))
	fz = float32(pz - float64(lz))
	return
}

// trilerp interpolates the 8 corner rows with their trilinear weights into
// a single output row of length channels. Dispatches to a scalar or
// pairwise-unrolled implementation per dispatch.go's CPU-feature detection;
// both produce identical results, the unrolled path just restructures the
// inner loop the way ssd_scalar.go's ssdScalarUnrolled8 does.
func trilerp(rows [8][]float32, weights [8]float32, channels int) []float32 {
	if activeCornerGather == cornerGatherUnrolled {
		return trilerpUnrolled(rows, weights, channels)
	}
	return trilerpScalar(rows, weights, channels)
}

func trilerpScalar(rows [8][]float32, weights [8]float32, channels int) []float32 {
	out := make([]float32, channels)
	for i := 0; i < 8; i++ {
		row := rows[i]
		if row == nil {
			continue
		}
		w := weights[i]
		for c := 0; c < channels; c++ {
			out[c] += w * row[c]
		}
	}
	return out
}

// trilerpUnrolled processes corners in pairs to reduce loop overhead; same
// summation order as trilerpScalar so results match bit-for-bit.
func trilerpUnrolled(rows [8][]float32, weights [8]float32, channels int) []float32 {
	out := make([]float32, channels)
	for i := 0; i < 8; i += 2 {
		r0, r1 := rows[i], rows[i+1]
		w0, w1 := weights[i], weights[i+1]
		for c := 0; c < channels; c++ {
			if r0 != nil {
				out[c] += w0 * r0[c]
			}
			if r1 != nil {
				out[c] += w1 * r1[c]
			}
		}
	}
	return out
}

// Sample trilinearly interpolates the grid payload at the given points
// (spec.md §4.2). If gridCoords is false, points are first mapped from
// world space. Returns one row of length Channels() per point.
func (g *Grid) Sample(points []r3.Vec, gridCoords bool) ([][]float32, error) {
	const op = "Sample"
	s := g.snapshot()
	channels := s.channels(g.basisDim)

	out := make([][]float32, len(points))
	for i, p := range points {
		if !finiteVec(p) {
			return nil, numericFailuref(op, "point %d is non-finite", i)
		}
		gp := p
		if !gridCoords {
			gp = s.xf.worldToGrid(p)
		}
		rows, weights := gatherCorners(s, gp, channels)
		out[i] = trilerp(rows, weights, channels)
	}
	return out, nil
}

// SampleBackward turns the upstream gradient gradOut (one row per point,
// matching a prior Sample call) into a payload gradient of shape
// (N, Channels()): each corner with link >= 0 receives weight*gradOut,
// accumulated atomically since corners may collide across points
// (spec.md §4.2). Like RenderBackward, this never mutates the grid's own
// payload — the caller (an external optimizer) applies the returned
// gradient itself (spec.md §3: "D is mutated in-place by the optimizer").
func (g *Grid) SampleBackward(points []r3.Vec, gridCoords bool, gradOut [][]float32) ([][]float32, error) {
	const op = "SampleBackward"
	if len(points) != len(gradOut) {
		return nil, shapeMismatchf(op, "points (%d) and gradOut (%d) length mismatch", len(points), len(gradOut))
	}
	s := g.snapshot()
	channels := s.channels(g.basisDim)
	flat := make([]float32, s.n*channels)

	for i, p := range points {
		if len(gradOut[i]) != channels {
			return nil, shapeMismatchf(op, "gradOut[%d] has %d channels, want %d", i, len(gradOut[i]), channels)
		}
		for c, v := range gradOut[i] {
			if !isFinite32(v) {
				return nil, numericFailuref(op, "gradOut[%d][%d] is non-finite", i, c)
			}
		}
		gp := p
		if !gridCoords {
			gp = s.xf.worldToGrid(p)
		}
		links, weights := cornerLinksWeights(s, gp)
		for idx, link := range links {
			if link < 0 {
				continue
			}
			w := weights[idx]
			base := int(link) * channels
			for c := 0; c < channels; c++ {
				atomicAddFloat32(&flat[base+c], w*gradOut[i][c])
			}
		}
	}

	grad := make([][]float32, s.n)
	for i := 0; i < s.n; i++ {
		grad[i] = flat[i*channels : (i+1)*channels]
	}
	return grad, nil
}
