package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func gridWithUniformSigma(t *testing.T, res int, sigma float32) *Grid {
	t.Helper()
	g, err := New(unitRes(res), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	s := g.snapshot()
	for i := 0; i < s.n; i++ {
		s.payload[i*s.channels(1)] = sigma
	}
	return g
}

func TestSampleEmptyGridReturnsZero(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)

	out, err := g.Sample([]r3.Vec{{X: 1.5, Y: 1.5, Z: 1.5}}, true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []float32{0, 0, 0, 0}, out[0])
}

func TestSampleAtCornerMatchesExactVoxel(t *testing.T) {
	g := gridWithUniformSigma(t, 4, 1)
	out, err := g.Sample([]r3.Vec{{X: 1, Y: 1, Z: 1}}, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(out[0][0]), 1e-6)
}

func TestSampleClampsOutOfBoundsPoints(t *testing.T) {
	g := gridWithUniformSigma(t, 4, 2)
	out, err := g.Sample([]r3.Vec{{X: -10, Y: -10, Z: -10}, {X: 100, Y: 100, Z: 100}}, true)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, float64(out[0][0]), 1e-6)
	assert.InDelta(t, 2.0, float64(out[1][0]), 1e-6)
}

func TestSampleTrilerpIsAveraged(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	s := g.snapshot()
	ch := s.channels(1)
	s.payload[int(s.linkAt(1, 1, 1))*ch] = 4
	s.payload[int(s.linkAt(2, 1, 1))*ch] = 0

	out, err := g.Sample([]r3.Vec{{X: 1.5, Y: 1, Z: 1}}, true)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, float64(out[0][0]), 1e-6)
}

func TestSampleBackwardShapeMismatch(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	_, err = g.SampleBackward([]r3.Vec{{X: 1, Y: 1, Z: 1}}, true, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSampleBackwardAccumulatesAtCorners(t *testing.T) {
	g, err := New(unitRes(4), r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{}, 1, false)
	require.NoError(t, err)
	before := g.Payload()

	grad := [][]float32{{1, 0, 0, 0}}
	out, err := g.SampleBackward([]r3.Vec{{X: 1, Y: 1, Z: 1}}, true, grad)
	require.NoError(t, err)
	require.Len(t, out, g.N())

	s := g.snapshot()
	link := s.linkAt(1, 1, 1)
	assert.InDelta(t, 1.0, float64(out[link][0]), 1e-6)

	after := g.Payload()
	assert.Equal(t, before, after, "SampleBackward must not mutate the grid's live payload")
}
