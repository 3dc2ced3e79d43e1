// Package voxelgrid re-exports the voxel package's public surface at the
// module root, so external collaborators can depend on
// github.com/cwbudde/voxelgrid directly instead of reaching into the
// voxel subpackage.
package voxelgrid

import "github.com/cwbudde/voxelgrid/voxel"

type (
	Grid          = voxel.Grid
	Rays          = voxel.Rays
	RenderOptions = voxel.RenderOptions
	Backend       = voxel.Backend
	Kind          = voxel.Kind
	Error         = voxel.Error
)

const (
	BackendCPU    = voxel.BackendCPU
	BackendOpenCL = voxel.BackendOpenCL
)

var (
	ErrShapeMismatch      = voxel.ErrShapeMismatch
	ErrInvalidParameter   = voxel.ErrInvalidParameter
	ErrDeviceMismatch     = voxel.ErrDeviceMismatch
	ErrNumericFailure     = voxel.ErrNumericFailure
	ErrBackendUnavailable = voxel.ErrBackendUnavailable
)

var (
	New                  = voxel.New
	NormalizeBackend     = voxel.NormalizeBackend
	RequireBackend       = voxel.RequireBackend
	DefaultRenderOptions = voxel.DefaultRenderOptions
)
