package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMulDivInvElem(t *testing.T) {
	a := r3.Vec{X: 2, Y: 3, Z: 4}
	b := r3.Vec{X: 5, Y: 6, Z: 7}
	assert.Equal(t, r3.Vec{X: 10, Y: 18, Z: 28}, mulElem(a, b))
	assert.Equal(t, r3.Vec{X: 0.4, Y: 0.5, Z: 4.0 / 7}, divElem(a, b))

	inv := invElem(r3.Vec{X: 2, Y: 0, Z: -4})
	assert.Equal(t, 0.5, inv.X)
	assert.Equal(t, 1e9, inv.Y)
	assert.Equal(t, -0.25, inv.Z)
}

func TestTransformWorldGridRoundTrip(t *testing.T) {
	xf := newTransform(r3.Vec{X: 1, Y: -2, Z: 0.5}, r3.Vec{X: 3, Y: 3, Z: 3}, [3]int{16, 16, 16})
	p := r3.Vec{X: 0.2, Y: -1.1, Z: 2.9}
	g := xf.worldToGrid(p)
	back := xf.gridToWorld(g)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.InDelta(t, p.Z, back.Z, 1e-9)
}

func TestTransformCenterMapsToGridCenter(t *testing.T) {
	center := r3.Vec{X: 1, Y: -2, Z: 0.5}
	xf := newTransform(center, r3.Vec{X: 2, Y: 2, Z: 2}, [3]int{8, 8, 8})
	g := xf.worldToGrid(center)
	assert.InDelta(t, 3.5, g.X, 1e-9)
	assert.InDelta(t, 3.5, g.Y, 1e-9)
	assert.InDelta(t, 3.5, g.Z, 1e-9)
}

func TestDirScaleProducesUnitGridStep(t *testing.T) {
	xf := newTransform(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, [3]int{32, 32, 32})
	v := r3.Unit(r3.Vec{X: 1, Y: 1, Z: 0})
	d, delta := xf.dirScale(v)
	assert.InDelta(t, 1.0, r3.Norm(d), 1e-9)
	assert.Greater(t, delta, 0.0)
}
