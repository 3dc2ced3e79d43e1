//go:build gpu

package voxel

// deviceOpenCLAvailable would probe for an OpenCL-capable accelerator and
// bind the grid's render path to it; scaffolding only; a concrete kernel
// path is not part of this module (spec.md §1 out-of-scope: "the
// tensor-library autodiff glue" and device kernels live with the external
// collaborator).
func deviceOpenCLAvailable(op string) error {
	return deviceMismatchf(op, "%w: opencl backend scaffolding in place; kernel path not implemented", ErrBackendUnavailable)
}
