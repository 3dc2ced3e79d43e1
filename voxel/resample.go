package voxel

import "gonum.org/v1/gonum/spatial/r3"

// Resample regrids the voxel at a new resolution, thresholds sigma, and
// optionally dilates the occupancy mask, then atomically replaces
// (L, D, N, R), spec.md §4.4. It is not differentiable and must not be
// called concurrently with an in-flight Render/RenderBackward on this grid.
func (g *Grid) Resample(res [3]int, sigmaThresh float32, dilate bool) error {
	const op = "Resample"
	for i, r := range res {
		if r <= 0 {
			return invalidParamf(op, "resolution axis %d must be positive, got %d", i, r)
		}
	}

	old := g.snapshot()
	channels := old.channels(g.basisDim)
	total := res[0] * res[1] * res[2]

	rows := make([][]float32, total)
	mask := make([]bool, total)

	idx := func(x, y, z int) int {
		return (x*res[1]+y)*res[2] + z
	}

	sample := func(x, y, z int) float32 {
		gp := r3.Vec{
			X: linspaceAt(x, res[0], old.res[0]),
			Y: linspaceAt(y, res[1], old.res[1]),
			Z: linspaceAt(z, res[2], old.res[2]),
		}
		cRows, weights := gatherCorners(old, gp, channels)
		row := trilerp(cRows, weights, channels)
		rows[idx(x, y, z)] = row
		return sigmaFromRow(row)
	}

	for x := 0; x < res[0]; x++ {
		for y := 0; y < res[1]; y++ {
			for z := 0; z < res[2]; z++ {
				sigma := sample(x, y, z)
				mask[idx(x, y, z)] = sigma >= sigmaThresh
			}
		}
	}

	if dilate {
		mask = dilateMask(mask, res)
	}

	links := make([]int32, total)
	var newPayload []float32
	n := 0
	for i := 0; i < total; i++ {
		if !mask[i] {
			links[i] = -1
			continue
		}
		links[i] = int32(n)
		row := rows[i]
		if row == nil {
			row = make([]float32, channels)
		}
		newPayload = append(newPayload, row...)
		n++
	}

	newState := &gridState{
		res:     res,
		links:   links,
		payload: newPayload,
		n:       n,
		xf:      newTransform(g.center, g.radius, res),
	}

	g.mu.Lock()
	g.state = newState
	g.mu.Unlock()
	return nil
}

// linspaceAt maps index i in [0,newRes) to a grid coordinate in
// [0, oldRes-1], linearly spaced, per spec.md §4.4 step 1.
func linspaceAt(i, newRes, oldRes int) float64 {
	if newRes <= 1 {
		return 0
	}
	return float64(i) * float64(oldRes-1) / float64(newRes-1)
}

// dilateMask expands mask by the 3x3x3 structuring element (26-neighborhood
// plus self), spec.md §4.4 step 4.
func dilateMask(mask []bool, res [3]int) []bool {
	idx := func(x, y, z int) int {
		return (x*res[1]+y)*res[2] + z
	}
	out := make([]bool, len(mask))
	for x := 0; x < res[0]; x++ {
		for y := 0; y < res[1]; y++ {
			for z := 0; z < res[2]; z++ {
				if mask[idx(x, y, z)] {
					out[idx(x, y, z)] = true
					continue
				}
				hit := false
				for dx := -1; dx <= 1 && !hit; dx++ {
					nx := x + dx
					if nx < 0 || nx >= res[0] {
						continue
					}
					for dy := -1; dy <= 1 && !hit; dy++ {
						ny := y + dy
						if ny < 0 || ny >= res[1] {
							continue
						}
						for dz := -1; dz <= 1; dz++ {
							nz := z + dz
							if nz < 0 || nz >= res[2] {
								continue
							}
							if dx == 0 && dy == 0 && dz == 0 {
								continue
							}
							if mask[idx(nx, ny, nz)] {
								hit = true
								break
							}
						}
					}
				}
				out[idx(x, y, z)] = hit
			}
		}
	}
	return out
}
