package voxel

// isqrt returns the integer square root of n and true if n is a perfect
// square, or (0, false) otherwise. Used to validate basis_dim (SH size must
// be a square number).
func isqrt(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	r := 0
	for r*r <= n {
		r++
	}
	r--
	if r*r == n {
		return r, true
	}
	return 0, false
}

// isPow2 reports whether n is a positive power of two.
func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// spreadBits3 interleaves the low bits of x with two zero bits between each,
// the standard building block for a 3D Morton (Z-order) code.
func spreadBits3(x uint32) uint64 {
	v := uint64(x) & 0x1fffff // 21 bits max
	v = (v | (v << 32)) & 0x1f00000000ffff
	v = (v | (v << 16)) & 0x1f0000ff0000ff
	v = (v | (v << 8)) & 0x100f00f00f00f00f
	v = (v | (v << 4)) & 0x10c30c30c30c30c3
	v = (v | (v << 2)) & 0x1249249249249249
	return v
}

// mortonEncode interleaves the bits of (x, y, z) into a single Z-order code.
func mortonEncode(x, y, z uint32) uint64 {
	return spreadBits3(x) | (spreadBits3(y) << 1) | (spreadBits3(z) << 2)
}

// mortonOrder enumerates the S^3 integers (x,y,z) -> interleave(x,y,z) for a
// cube of side S=2^k, returned as a flat slice in lattice scan order
// (x-major, then y, then z), matching the dense index convention
// x*S*S + y*S + z used elsewhere. It is a cache-locality hint only;
// correctness of the grid never depends on it.
func mortonOrder(s int) []uint64 {
	out := make([]uint64, s*s*s)
	for x := 0; x < s; x++ {
		for y := 0; y < s; y++ {
			for z := 0; z < s; z++ {
				out[x*s*s+y*s+z] = mortonEncode(uint32(x), uint32(y), uint32(z))
			}
		}
	}
	return out
}
