package voxel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// forwardTrilerp integrates a single ray in trilerp (fixed step) mode,
// spec.md §4.3.2: same update rules as NN mode, but the payload is
// trilinearly interpolated at each step and the step size is constant.
func forwardTrilerp(s *gridState, basisDim int, opt RenderOptions, rs raySetup) r3.Vec {
	channels := s.channels(basisDim)
	delta := float64(opt.StepSize)
	t := rs.tEnter
	logT := 0.0
	var rgb r3.Vec

	for t < rs.tExit {
		p := r3.Add(rs.o, r3.Scale(t, rs.d))
		rows, weights := gatherCorners(s, p, channels)
		row := trilerp(rows, weights, channels)

		sigma := row[0]
		if sigma < 0 {
			sigma = 0
		}

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

// backwardTrilerp mirrors forwardTrilerp, scattering the gradient into
// gradBuf (caller-owned, shape N*channels) across each of the 8
// contributing corners weighted by its trilinear weight.
func backwardTrilerp(s *gridState, basisDim int, opt RenderOptions, rs raySetup, colorCache, gradOut r3.Vec, gradBuf []float32) {
	channels := s.channels(basisDim)
	delta := float64(opt.StepSize)
	t := rs.tEnter
	logT := 0.0
	remaining := colorCache

	for t < rs.tExit {
		p := r3.Add(rs.o, r3.Scale(t, rs.d))
		rows, weights := gatherCorners(s, p, channels)
		row := trilerp(rows, weights, channels)
		links, cornerW := cornerLinksWeights(s, p)

		sigma := row[0]
		if sigma < 0 {
			sigma = 0
		}

		if float64(sigma) >= float64(opt.SigmaThresh) {
			logAlpha := -delta * float64(sigma) * rs.delta
			w := math.Exp(logT) * (1 - math.Exp(logAlpha))
			c := colorFromRow(row, rs.sh, basisDim)
			logTAfter := logT + logAlpha

			gSigma := nnStepDeltaSigmaGrad(delta, rs.delta, logTAfter, w, c, remaining, gradOut)
			sigmaRectified := row[0] >= 0

			for i := 0; i < 8; i++ {
				link := links[i]
				if link < 0 {
					continue
				}
				cw := float64(cornerW[i])
				scatterColorGrad(gradBuf, link, channels, basisDim, rs.sh, c, w, gradOut, cw)
				if sigmaRectified {
					atomicAddFloat32(&gradBuf[int(link)*channels+0], float32(gSigma*cw))
				}
			}

			remaining = r3.Sub(remaining, r3.Scale(w, c))
			logT = logTAfter
		}

		t += delta
	}
}
