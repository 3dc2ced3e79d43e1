package voxel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestResampleValidatesResolution(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	err = g.Resample([3]int{0, 4, 4}, 0.5, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestResampleEmptyGridProducesEmptyGrid(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	err = g.Resample(unitRes(8), 0.5, false)
	require.NoError(t, err)
	assert.Equal(t, 0, g.N())
	assertLinksArePermutation(t, g)
}

func TestResampleThresholdKeepsOccupiedRegion(t *testing.T) {
	g, err := New(unitRes(8), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	s := g.snapshot()
	ch := s.channels(1)
	s.payload[int(s.linkAt(4, 4, 4))*ch] = 10

	err = g.Resample(unitRes(8), 1.0, false)
	require.NoError(t, err)
	assertLinksArePermutation(t, g)
	assert.Greater(t, g.N(), 0)
}

func TestResampleDilateGrowsMaskAtLeastAsMuch(t *testing.T) {
	g1, err := New(unitRes(8), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	s1 := g1.snapshot()
	ch := s1.channels(1)
	s1.payload[int(s1.linkAt(4, 4, 4))*ch] = 10

	g2, err := New(unitRes(8), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	s2 := g2.snapshot()
	s2.payload[int(s2.linkAt(4, 4, 4))*ch] = 10

	require.NoError(t, g1.Resample(unitRes(8), 1.0, false))
	require.NoError(t, g2.Resample(unitRes(8), 1.0, true))

	assert.GreaterOrEqual(t, g2.N(), g1.N())
}

func TestResamplePreservesPayloadWidth(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 9, false)
	require.NoError(t, err)
	s := g.snapshot()
	ch := s.channels(9)
	for i := 0; i < s.n; i++ {
		s.payload[i*ch] = 5
	}

	require.NoError(t, g.Resample(unitRes(6), 1.0, false))
	payload := g.Payload()
	if g.N() > 0 {
		assert.Equal(t, g.N()*g.Channels(), len(payload))
	}
}

// TestResampleIdentityAtNegativeInfThresholdPreservesRender is spec.md
// §8's S4: resampling a fully-occupied grid to the same resolution with
// sigma_thresh=-Inf and no dilation leaves subsequent renders unchanged
// within 1e-6.
func TestResampleIdentityAtNegativeInfThresholdPreservesRender(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	s := g.snapshot()
	ch := s.channels(1)
	for i := 0; i < s.n; i++ {
		s.payload[i*ch+0] = float32(math.Sin(float64(i)*1.37)*3 + 3)
		s.payload[i*ch+1] = float32(math.Cos(float64(i) * 0.91))
	}

	rays := Rays{
		Origins: []r3.Vec{
			{X: -5, Y: 0, Z: 0},
			{X: 0, Y: -5, Z: 0.3},
			{X: 0.2, Y: 0.1, Z: -5},
		},
		Dirs: []r3.Vec{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
	opt := DefaultRenderOptions()
	opt.LinearInterp = false

	before, err := g.Render(rays, opt)
	require.NoError(t, err)

	err = g.Resample(unitRes(4), float32(math.Inf(-1)), false)
	require.NoError(t, err)

	after, err := g.Render(rays, opt)
	require.NoError(t, err)

	for i := range before {
		assert.InDelta(t, before[i].X, after[i].X, 1e-6)
		assert.InDelta(t, before[i].Y, after[i].Y, 1e-6)
		assert.InDelta(t, before[i].Z, after[i].Z, 1e-6)
	}
}

func TestDilateMaskIncludesNeighbors(t *testing.T) {
	res := [3]int{3, 3, 3}
	mask := make([]bool, 27)
	idx := func(x, y, z int) int { return (x*3+y)*3 + z }
	mask[idx(1, 1, 1)] = true

	out := dilateMask(mask, res)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				assert.True(t, out[idx(x, y, z)], "(%d,%d,%d) should be dilated in", x, y, z)
			}
		}
	}
}
