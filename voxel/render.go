package voxel

import "gonum.org/v1/gonum/spatial/r3"

// Render integrates rays against the grid's current payload, spec.md §4.3.
// Each ray is traversed independently and in parallel (dispatch.go's
// bounded worker pool); the returned slice has one RGB value per ray, in
// input order.
func (g *Grid) Render(rays Rays, opt RenderOptions) ([]r3.Vec, error) {
	const op = "Render"
	if err := rays.validate(op); err != nil {
		return nil, err
	}
	if err := opt.Validate(op); err != nil {
		return nil, err
	}

	s := g.snapshot()
	basisDim := g.basisDim
	out := make([]r3.Vec, len(rays.Origins))

	if !opt.LinearInterp && len(rays.Origins) > 0 {
		g.warnSlowNNPathOnce(s.res)
	}

	parallelFor(len(rays.Origins), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rs := setupRay(s, basisDim, rays.Origins[i], rays.Dirs[i])
			if rs.skip {
				bg := float64(opt.BackgroundBrightness)
				out[i] = r3.Vec{X: bg, Y: bg, Z: bg}
				continue
			}
			if opt.LinearInterp {
				out[i] = forwardTrilerp(s, basisDim, opt, rs)
			} else {
				out[i] = forwardNN(s, basisDim, opt, rs)
			}
		}
	})
	return out, nil
}

// RenderBackward re-traverses rays in the same order Render would, turning
// the upstream per-ray color gradient gradOut into a payload gradient of
// shape (N, Channels()), spec.md §4.3.4 and §6. colorCache must hold the
// color a prior Render call produced for each ray (the analytic backward
// pass re-derives log_T from it instead of taping the forward pass).
// The grid's own payload is never mutated by this call; the caller (an
// external optimizer) applies the returned gradient itself.
func (g *Grid) RenderBackward(rays Rays, opt RenderOptions, gradOut, colorCache []r3.Vec) ([][]float32, error) {
	const op = "RenderBackward"
	if err := rays.validate(op); err != nil {
		return nil, err
	}
	if err := opt.Validate(op); err != nil {
		return nil, err
	}
	if len(gradOut) != len(rays.Origins) {
		return nil, shapeMismatchf(op, "gradOut (%d) and rays (%d) length mismatch", len(gradOut), len(rays.Origins))
	}
	if len(colorCache) != len(rays.Origins) {
		return nil, shapeMismatchf(op, "colorCache (%d) and rays (%d) length mismatch", len(colorCache), len(rays.Origins))
	}
	for i, g := range gradOut {
		if !finiteVec(g) {
			return nil, numericFailuref(op, "gradOut %d is non-finite", i)
		}
	}

	s := g.snapshot()
	basisDim := g.basisDim
	channels := s.channels(basisDim)
	flat := make([]float32, s.n*channels)

	parallelFor(len(rays.Origins), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rs := setupRay(s, basisDim, rays.Origins[i], rays.Dirs[i])
			if rs.skip {
				continue
			}
			if opt.LinearInterp {
				backwardTrilerp(s, basisDim, opt, rs, colorCache[i], gradOut[i], flat)
			} else {
				backwardNN(s, basisDim, opt, rs, colorCache[i], gradOut[i], flat)
			}
		}
	})

	grad := make([][]float32, s.n)
	for i := 0; i < s.n; i++ {
		grad[i] = flat[i*channels : (i+1)*channels]
	}
	return grad, nil
}
