package voxel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// colorFromRow evaluates sigmoid(sh . coeff) per color channel from a
// payload row (or nil for an empty voxel), per spec.md §4.3.1: "reshape SH
// coefficients to (3, B), c = sigmoid(sum_k sh[k] * coeff[:,k])".
func colorFromRow(row []float32, sh []float32, basisDim int) r3.Vec {
	var z [3]float32
	if row != nil {
		for ch := 0; ch < 3; ch++ {
			var acc float32
			base := 1 + ch*basisDim
			for k := 0; k < basisDim; k++ {
				acc += sh[k] * row[base+k]
			}
			z[ch] = acc
		}
	}
	return r3.Vec{X: float64(sigmoid(z[0])), Y: float64(sigmoid(z[1])), Z: float64(sigmoid(z[2]))}
}

func sigmaFromRow(row []float32) float32 {
	if row == nil {
		return 0
	}
	if row[0] < 0 {
		return 0
	}
	return row[0]
}

// nnStepDelta computes the exit distance of the current unit voxel,
// spec.md §4.3.1: "Delta = min_i max((-f_i)*inv_i, (1-f_i)*inv_i) + eps".
func nnStepDelta(f, inv r3.Vec, eps float64) float64 {
	step := func(fi, invi float64) float64 {
		return maxFloat(-fi*invi, (1-fi)*invi)
	}
	d := minFloat(minFloat(step(f.X, inv.X), step(f.Y, inv.Y)), step(f.Z, inv.Z))
	return d + eps
}

// forwardNN integrates a single ray in nearest-neighbor (exact sub-voxel)
// mode, spec.md §4.3.1.
func forwardNN(s *gridState, basisDim int, opt RenderOptions, rs raySetup) r3.Vec {
	channels := s.channels(basisDim)
	t := rs.tEnter
	logT := 0.0
	var rgb r3.Vec

	for t < rs.tExit {
		p := r3.Add(rs.o, r3.Scale(t, rs.d))
		lx := clampInt(int(p.X), 0, s.res[0]-1)
		ly := clampInt(int(p.Y), 0, s.res[1]-1)
		lz := clampInt(int(p.Z), 0, s.res[2]-1)
		f := r3.Vec{X: p.X - float64(lx), Y: p.Y - float64(ly), Z: p.Z - float64(lz)}

		link := s.linkAt(lx, ly, lz)
		row := s.row(link, channels)

		delta := nnStepDelta(f, rs.inv, float64(opt.StepEpsilon))
		sigma := sigmaFromRow(row)

		if float64(sigma) >= float64(opt.SigmaThresh) {
			logAlpha := -delta * float64(sigma) * rs.delta
			w := math.Exp(logT) * (1 - math.Exp(logAlpha))
			c := colorFromRow(row, rs.sh, basisDim)
			rgb = r3.Add(rgb, r3.Scale(w, c))
			logT += logAlpha
		}

		t += delta
		if math.Exp(logT) <= float64(opt.StopThresh) {
			break
		}
	}

	bg := math.Exp(logT) * float64(opt.BackgroundBrightness)
	rgb = r3.Add(rgb, r3.Vec{X: bg, Y: bg, Z: bg})
	return rgb
}

// backwardNN re-traverses a ray in the same order as forwardNN,
// accumulating the analytic gradient into gradBuf (caller-owned, shape
// N*channels), spec.md §4.3.4. stop_thresh early termination is
// intentionally not mirrored here (spec.md §9): the full traversal to
// t_exit is always replayed.
func backwardNN(s *gridState, basisDim int, opt RenderOptions, rs raySetup, colorCache, gradOut r3.Vec, gradBuf []float32) {
	channels := s.channels(basisDim)
	t := rs.tEnter
	logT := 0.0
	remaining := colorCache // R_i: color still to be explained from this step onward

	for t < rs.tExit {
		p := r3.Add(rs.o, r3.Scale(t, rs.d))
		lx := clampInt(int(p.X), 0, s.res[0]-1)
		ly := clampInt(int(p.Y), 0, s.res[1]-1)
		lz := clampInt(int(p.Z), 0, s.res[2]-1)
		f := r3.Vec{X: p.X - float64(lx), Y: p.Y - float64(ly), Z: p.Z - float64(lz)}

		link := s.linkAt(lx, ly, lz)
		row := s.row(link, channels)

		delta := nnStepDelta(f, rs.inv, float64(opt.StepEpsilon))
		sigma := sigmaFromRow(row)

		if float64(sigma) >= float64(opt.SigmaThresh) {
			logAlpha := -delta * float64(sigma) * rs.delta
			w := math.Exp(logT) * (1 - math.Exp(logAlpha))
			c := colorFromRow(row, rs.sh, basisDim)
			logTAfter := logT + logAlpha

			if link >= 0 {
				scatterColorGrad(gradBuf, link, channels, basisDim, rs.sh, c, w, gradOut, 1)
				gSigma := nnStepDeltaSigmaGrad(delta, rs.delta, logTAfter, w, c, remaining, gradOut)
				if sigma > 0 { // rectifier: d(relu)/dsigma is 0 for sigma<0
					atomicAddFloat32(&gradBuf[int(link)*channels+0], float32(gSigma))
				}
			}

			remaining = r3.Sub(remaining, r3.Scale(w, c))
			logT = logTAfter
		}

		t += delta
	}
}

// nnStepDeltaSigmaGrad computes dL/dsigma for one contributing step, per
// the derivation in DESIGN.md: dL/dsigma = delta*rayDelta*(math.Exp(logTAfter)*
// (g.c) - (g.afterStep)), where afterStep is the color still to be
// explained *after* this step. The remaining argument is the color still to
// be explained *before* this step (colorCache minus everything accumulated
// in earlier steps); afterStep is remaining minus this step's w*c.
func nnStepDeltaSigmaGrad(delta, rayDelta, logTAfter float64, w float64, c, remaining, g r3.Vec) float64 {
	gDotC := r3.Dot(g, c)
	afterStep := r3.Sub(remaining, r3.Scale(w, c))
	gDotRemainder := r3.Dot(g, afterStep)
	return delta * rayDelta * (math.Exp(logTAfter)*gDotC - gDotRemainder)
}

// scatterColorGrad accumulates the color gradient for one voxel into
// gradBuf (caller-owned, shape N*channels). weight is 1 for NN mode
// (single voxel, no trilerp) or the trilinear weight of the given corner.
func scatterColorGrad(gradBuf []float32, link int32, channels, basisDim int, sh []float32, c r3.Vec, w float64, g r3.Vec, weight float64) {
	cArr := [3]float64{c.X, c.Y, c.Z}
	gArr := [3]float64{g.X, g.Y, g.Z}
	base := int(link) * channels
	for ch := 0; ch < 3; ch++ {
		dOut := cArr[ch] * (1 - cArr[ch]) // sigmoid'
		coef := float32(gArr[ch] * w * weight * dOut)
		if coef == 0 {
			continue
		}
		off := base + 1 + ch*basisDim
		for k := 0; k < basisDim; k++ {
			atomicAddFloat32(&gradBuf[off+k], coef*sh[k])
		}
	}
}
