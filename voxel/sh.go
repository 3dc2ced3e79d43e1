package voxel

import "gonum.org/v1/gonum/spatial/r3"

// Real spherical harmonic normalization constants for degree 0..3, the same
// constants used throughout the NeRF/Plenoxels ecosystem this renderer is
// modeled on. Index within each degree follows increasing m.
const (
	shC0 = 0.28209479177387814
	shC1 = 0.4886025119029199
)

var shC2 = [5]float64{
	1.0925484305920792,
	-1.0925484305920792,
	0.31539156525252005,
	-1.0925484305920792,
	0.5462742152960396,
}

var shC3 = [7]float64{
	-0.5900435899266435,
	2.890611442640554,
	-0.4570457994644658,
	0.3731763325901154,
	-0.4570457994644658,
	1.445305721320277,
	-0.5900435899266435,
}

// evalSH evaluates the real SH basis of dimension basisDim at direction d,
// which need not be unit length — callers normalize before calling. basisDim
// must be one of 1, 4, 9, 16 (checked by callers via validateBasisDim).
// Output is a pure function of (basisDim, d): deterministic bit-for-bit
// across runs.
func evalSH(basisDim int, d r3.Vec) []float32 {
	out := make([]float32, basisDim)
	out[0] = float32(shC0)
	if basisDim <= 1 {
		return out
	}

	x, y, z := d.X, d.Y, d.Z
	out[1] = float32(-shC1 * y)
	out[2] = float32(shC1 * z)
	out[3] = float32(-shC1 * x)
	if basisDim <= 4 {
		return out
	}

	xx, yy, zz := x*x, y*y, z*z
	xy, yz, xz := x*y, y*z, x*z
	out[4] = float32(shC2[0] * xy)
	out[5] = float32(shC2[1] * yz)
	out[6] = float32(shC2[2] * (2*zz - xx - yy))
	out[7] = float32(shC2[3] * xz)
	out[8] = float32(shC2[4] * (xx - yy))
	if basisDim <= 9 {
		return out
	}

	out[9] = float32(shC3[0] * y * (3*xx - yy))
	out[10] = float32(shC3[1] * xy * z)
	out[11] = float32(shC3[2] * y * (4*zz - xx - yy))
	out[12] = float32(shC3[3] * z * (2*zz - 3*xx - 3*yy))
	out[13] = float32(shC3[4] * x * (4*zz - xx - yy))
	out[14] = float32(shC3[5] * z * (xx - yy))
	out[15] = float32(shC3[6] * x * (xx - 3*yy))
	return out
}

// maxSHDegree is one more than the highest SH degree this evaluator
// implements (degrees 0-3), i.e. the largest supported sqrt(basis_dim):
// basis_dim up to 4*4=16 via SH_C3.
const maxSHDegree = 4

// validateBasisDim reports whether basisDim is a perfect square whose root
// is a supported SH degree+1 (1, 4, 9, or 16), using isqrt rather than an
// enumerated set so the bound tracks maxSHDegree directly.
func validateBasisDim(basisDim int) bool {
	root, ok := isqrt(basisDim)
	return ok && root >= 1 && root <= maxSHDegree
}
