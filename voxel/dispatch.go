package voxel

import (
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Backend identifies which accelerator a grid's render path runs on. The
// voxel renderer itself is the only consumer (selected per-call via
// RenderOptions.Backend, checked by RequireBackend), unlike the teacher's
// identically-named type which a CLI flag and an HTTP job both fed into.
type Backend string

const (
	BackendCPU    Backend = "cpu"
	BackendOpenCL Backend = "opencl"
)

// backendAliases maps the accelerator names a caller (or a persisted grid's
// device tag, per spec.md §7's "grid and inputs reside on different
// accelerators") might use to the Backend values this package understands.
// A lookup table rather than a switch so adding an accelerator alias is a
// one-line map entry.
var backendAliases = map[string]Backend{
	"":       BackendCPU,
	"host":   BackendCPU,
	"cpu":    BackendCPU,
	"ocl":    BackendOpenCL,
	"opencl": BackendOpenCL,
	"gpu":    BackendOpenCL,
}

// NormalizeBackend maps arbitrary caller input to a canonical Backend,
// falling back to the raw (lowercased) name for anything RequireBackend
// will reject as unknown.
func NormalizeBackend(name string) Backend {
	key := strings.ToLower(strings.TrimSpace(name))
	if b, ok := backendAliases[key]; ok {
		return b
	}
	return Backend(key)
}

// RequireBackend validates that backend is available in this build. Only
// BackendCPU is implemented; requesting BackendOpenCL is a DeviceMismatch
// wrapping ErrBackendUnavailable in every build, with or without the "gpu"
// build tag. The zero value (unset RenderOptions.Backend) is treated as
// BackendCPU.
func RequireBackend(backend Backend) error {
	const op = "RequireBackend"
	switch backend {
	case BackendCPU, "":
		return nil
	case BackendOpenCL:
		return deviceOpenCLAvailable(op)
	default:
		return deviceMismatchf(op, "unknown backend %q", backend)
	}
}

// cornerGatherKind names which pure-Go corner-gather implementation the
// sampler's hot loop dispatches to. No SIMD assembly is added (see
// DESIGN.md); the CPU feature flags pick among portable implementations,
// exactly the informational role they play in internal/fit/ssd.go.
type cornerGatherKind int

const (
	cornerGatherScalar cornerGatherKind = iota
	cornerGatherUnrolled
)

var activeCornerGather cornerGatherKind

func init() {
	switch {
	case cpu.X86.HasAVX2:
		activeCornerGather = cornerGatherUnrolled
		slog.Debug("voxel: sampler dispatch selected", "path", "unrolled", "reason", "AVX2")
	case cpu.ARM64.HasASIMD:
		activeCornerGather = cornerGatherUnrolled
		slog.Debug("voxel: sampler dispatch selected", "path", "unrolled", "reason", "NEON")
	default:
		activeCornerGather = cornerGatherScalar
		slog.Debug("voxel: sampler dispatch selected", "path", "scalar", "reason", "no wide SIMD detected")
	}
}

// parallelFor runs fn(lo, hi) over contiguous chunks covering [0,n) across a
// bounded worker pool sized to GOMAXPROCS, mirroring the teacher's bounded-concurrency job model
// (internal/server) rather than spawning one goroutine per ray. Each
// worker claims a contiguous chunk so forward writes into disjoint output
// slots never need synchronization (spec.md §5: "Ray state is private; the
// only shared mutable resource in forward is rgb_out indexed by ray id (no
// collisions)").
func parallelFor(n int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
