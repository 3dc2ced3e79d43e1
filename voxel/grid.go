package voxel

import (
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// gridState is the atomically-swapped (L, D, N, R) quadruple described in
// spec.md §3: "Resample replaces (L,D,N,R) as one unit; no reader may
// observe a partial update." A render call copies the *gridState pointer
// once under a read lock and then runs lock-free against that immutable
// snapshot for its whole duration, mirroring the teacher's atomic
// temp-file-then-rename checkpoint store (internal/store/fs_store.go) and
// the sync.RWMutex-guarded voxel map in other_examples' streaming grid.
type gridState struct {
	res     [3]int
	links   []int32   // dense, len = res[0]*res[1]*res[2]
	payload []float32 // compact, len = n*channels
	n       int
	xf      transform
}

func (s *gridState) channels(basisDim int) int {
	return 3*basisDim + 1
}

func (s *gridState) denseIndex(x, y, z int) int {
	return (x*s.res[1]+y)*s.res[2] + z
}

func (s *gridState) linkAt(x, y, z int) int32 {
	return s.links[s.denseIndex(x, y, z)]
}

// row returns the payload row for a link, or nil if link < 0 (an
// empty-voxel corner: the caller must treat it as the all-zeros row).
func (s *gridState) row(link int32, channels int) []float32 {
	if link < 0 {
		return nil
	}
	off := int(link) * channels
	return s.payload[off : off+channels]
}

// Grid is a sparse voxel grid: a dense links tensor indirecting into a
// compact payload matrix, per spec.md §3.
type Grid struct {
	mu       sync.RWMutex
	state    *gridState
	center   r3.Vec
	radius   r3.Vec
	basisDim int

	// nnWarnOnce guards the one-time advisory warning emitted when a render
	// call takes the nearest-neighbor (exact) path on a grid large enough
	// that it noticeably undercuts trilerp's fixed-step throughput,
	// mirroring original_source/svox2.py's warn() on its slow/exact path.
	nnWarnOnce sync.Once
}

// nnSlowPathThreshold is the per-axis resolution at or above which (on any
// axis) the nearest-neighbor render path logs a one-time advisory. Purely
// informational: it never changes rendering results.
const nnSlowPathThreshold = 256

func (g *Grid) warnSlowNNPathOnce(res [3]int) {
	if res[0] < nnSlowPathThreshold && res[1] < nnSlowPathThreshold && res[2] < nnSlowPathThreshold {
		return
	}
	g.nnWarnOnce.Do(func() {
		slog.Warn("voxel: render using nearest-neighbor path on a large grid; trilerp mode is faster",
			"res", res, "threshold", nnSlowPathThreshold)
	})
}

// New constructs a grid of resolution res, axis-aligned half-extents radius
// centered at center, with SH basis dimension basisDim. zOrder requests a
// Morton-ordered initial links layout; it is honored only when res is a
// power-of-two cube, and silently downgraded to identity ordering (with a
// warning) otherwise, per spec.md §6.
func New(res [3]int, radius, center r3.Vec, basisDim int, zOrder bool) (*Grid, error) {
	const op = "New"
	if !validateBasisDim(basisDim) {
		return nil, invalidParamf(op, "basis_dim %d must be one of 1, 4, 9, 16", basisDim)
	}
	for i, r := range res {
		if r <= 0 {
			return nil, invalidParamf(op, "resolution axis %d must be positive, got %d", i, r)
		}
	}
	if !finiteVec(radius) || !finiteVec(center) {
		return nil, numericFailuref(op, "center/radius must be finite")
	}
	if radius.X == 0 || radius.Y == 0 || radius.Z == 0 {
		return nil, invalidParamf(op, "radius components must be non-zero")
	}

	cube := res[0] == res[1] && res[1] == res[2] && isPow2(res[0])
	if zOrder && !cube {
		slog.Warn("voxel: z_order requested but resolution is not a power-of-two cube; using identity ordering",
			"res", res)
		zOrder = false
	}

	total := res[0] * res[1] * res[2]
	links := make([]int32, total)
	if zOrder {
		// res is a power-of-two cube here (checked above), so mortonOrder's
		// flat x*s*s+y*s+z enumeration lines up exactly with denseIndex.
		for i, code := range mortonOrder(res[0]) {
			links[i] = int32(code)
		}
	} else {
		for i := range links {
			links[i] = int32(i)
		}
	}

	channels := 3*basisDim + 1
	payload := make([]float32, total*channels)

	g := &Grid{
		center:   center,
		radius:   radius,
		basisDim: basisDim,
		state: &gridState{
			res:     res,
			links:   links,
			payload: payload,
			n:       total,
			xf:      newTransform(center, radius, res),
		},
	}
	slog.Info("voxel: grid constructed", "res", res, "basis_dim", basisDim, "z_order", zOrder, "n", total)
	return g, nil
}

func finiteVec(v r3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// snapshot returns the current immutable grid state under a read lock. The
// returned pointer and everything it references must not be mutated; it is
// replaced wholesale by resample, never edited in place.
func (g *Grid) snapshot() *gridState {
	g.mu.RLock()
	s := g.state
	g.mu.RUnlock()
	return s
}

// Bounds returns the grid's world-space half-extents and center.
func (g *Grid) Bounds() (radius, center r3.Vec) {
	return g.radius, g.center
}

// Resolution returns the current lattice resolution.
func (g *Grid) Resolution() [3]int {
	return g.snapshot().res
}

// N returns the number of occupied voxels.
func (g *Grid) N() int {
	return g.snapshot().n
}

// BasisDim returns the SH basis dimension.
func (g *Grid) BasisDim() int {
	return g.basisDim
}

// Channels returns the payload row width, 3*BasisDim()+1.
func (g *Grid) Channels() int {
	return g.snapshot().channels(g.basisDim)
}

// Links returns a copy of the dense links tensor, flattened in x-major
// scan order. Intended for external serialization (spec.md §6 "Persisted
// state"); the grid's live state is never exposed by reference.
func (g *Grid) Links() []int32 {
	s := g.snapshot()
	out := make([]int32, len(s.links))
	copy(out, s.links)
	return out
}

// Payload returns a copy of the compact payload matrix, flattened
// row-major (N x Channels()).
func (g *Grid) Payload() []float32 {
	s := g.snapshot()
	out := make([]float32, len(s.payload))
	copy(out, s.payload)
	return out
}

// WorldToGrid converts a world-space point to grid coordinates.
func (g *Grid) WorldToGrid(p r3.Vec) r3.Vec {
	return g.snapshot().xf.worldToGrid(p)
}

// GridToWorld converts a grid-space point to world coordinates.
func (g *Grid) GridToWorld(p r3.Vec) r3.Vec {
	return g.snapshot().xf.gridToWorld(p)
}
