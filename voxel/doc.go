// Package voxel implements a differentiable sparse voxel grid: a links/payload
// indirection over a regular 3D lattice, trilinear sampling, and per-ray
// volumetric rendering with an analytic backward pass.
//
// Training loops, dataset loading, camera handling, and I/O are the caller's
// responsibility; this package only renders rays through a grid and produces
// gradients with respect to the grid's payload.
package voxel
