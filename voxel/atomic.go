package voxel

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// atomicAddFloat32 adds delta to *addr using a compare-and-swap loop over
// the IEEE-754 bit pattern. Go has no native atomic float add; this is the
// standard CAS-loop idiom for it. Used wherever gradient contributions from
// different rays may land on the same payload row concurrently (spec.md
// §5: "payload-gradient accumulation into D_grad[link] is shared and must
// use atomic add; there is no lock").
func atomicAddFloat32(addr *float32, delta float32) {
	bits := (*uint32)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint32(bits)
		newVal := math.Float32bits(math.Float32frombits(old) + delta)
		if atomic.CompareAndSwapUint32(bits, old, newVal) {
			return
		}
	}
}
