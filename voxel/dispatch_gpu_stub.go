//go:build !gpu

package voxel

// deviceOpenCLAvailable reports that the OpenCL backend is unavailable in
// this build, exactly as internal/fit/renderer/renderer_opencl_stub.go
// does for its CPU-only build.
func deviceOpenCLAvailable(op string) error {
	return deviceMismatchf(op, "%w: build without gpu tag", ErrBackendUnavailable)
}
