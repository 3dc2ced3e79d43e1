package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestEvalSHDim1IsConstant(t *testing.T) {
	dirs := []r3.Vec{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0.5, Y: 0.5, Z: 0.70710678},
	}
	for _, d := range dirs {
		out := evalSH(1, d)
		assert.Len(t, out, 1)
		assert.InDelta(t, shC0, float64(out[0]), 1e-9)
	}
}

func TestEvalSHDeterministic(t *testing.T) {
	d := r3.Vec{X: 0.3, Y: -0.4, Z: 0.866}
	a := evalSH(16, d)
	b := evalSH(16, d)
	assert.Equal(t, a, b, "evalSH must be bit-for-bit deterministic")
}

func TestEvalSHDimensionsNest(t *testing.T) {
	d := r3.Unit(r3.Vec{X: 0.2, Y: 0.9, Z: -0.3})
	sh16 := evalSH(16, d)
	sh9 := evalSH(9, d)
	sh4 := evalSH(4, d)
	sh1 := evalSH(1, d)

	assert.Equal(t, sh4, sh16[:4])
	assert.Equal(t, sh9, sh16[:9])
	assert.Equal(t, sh1, sh16[:1])
}

func TestValidateBasisDim(t *testing.T) {
	for _, b := range []int{1, 4, 9, 16} {
		assert.True(t, validateBasisDim(b), "b=%d", b)
	}
	for _, b := range []int{0, 2, 3, 5, 8, 17, -1} {
		assert.False(t, validateBasisDim(b), "b=%d", b)
	}
}
