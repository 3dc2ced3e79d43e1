package voxel

// RenderOptions configures a render/render_backward call. It is plain data
// passed explicitly to each call rather than attached to the grid as hidden
// state, so concurrent renders with different options are safe (spec.md
// §9 "Global option state").
type RenderOptions struct {
	// LinearInterp selects trilerp mode (fixed step) over nearest-neighbor
	// mode (exact sub-voxel integral).
	LinearInterp bool
	// BackgroundBrightness in [0,1] is added as exp(log_T)*b at the end
	// of each ray.
	BackgroundBrightness float32
	// StepEpsilon inflates the NN sub-voxel step to guard against stalls.
	StepEpsilon float32
	// StepSize is the constant step used only in trilerp mode.
	StepSize float32
	// SigmaThresh: voxels with sigma below this are skipped (still
	// advance t).
	SigmaThresh float32
	// StopThresh: forward-only early termination on remaining light.
	StopThresh float32
	// Backend selects which accelerator runs the call. The zero value is
	// BackendCPU; requesting an unavailable backend is a DeviceMismatch
	// (spec.md §7), checked by Validate via RequireBackend.
	Backend Backend
}

// DefaultRenderOptions returns the defaults carried over from the reference
// implementation (original_source/svox2.py), mirroring the teacher's
// DefaultConvergenceConfig pattern (internal/fit/convergence.go).
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		LinearInterp:          true,
		BackgroundBrightness: 1.0,
		StepEpsilon:           1e-3,
		StepSize:              0.5,
		SigmaThresh:           1e-10,
		StopThresh:            1e-7,
		Backend:               BackendCPU,
	}
}

// Validate checks option ranges, per spec.md §7 InvalidParameter.
func (o RenderOptions) Validate(op string) error {
	if o.BackgroundBrightness < 0 || o.BackgroundBrightness > 1 {
		return invalidParamf(op, "background_brightness %v out of [0,1]", o.BackgroundBrightness)
	}
	if o.StepEpsilon < 0 {
		return invalidParamf(op, "step_epsilon %v must be non-negative", o.StepEpsilon)
	}
	if o.LinearInterp && o.StepSize <= 0 {
		return invalidParamf(op, "step_size %v must be positive in linear_interp mode", o.StepSize)
	}
	if o.SigmaThresh < 0 {
		return invalidParamf(op, "sigma_thresh %v must be non-negative", o.SigmaThresh)
	}
	if o.StopThresh < 0 || o.StopThresh > 1 {
		return invalidParamf(op, "stop_thresh %v out of [0,1]", o.StopThresh)
	}
	if err := RequireBackend(o.Backend); err != nil {
		return err
	}
	return nil
}
