package mmio

import (
	"sync/atomic"
	"unsafe"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
)

// Direct accesses the physical address space of the running CPU. It must only
// be used on the SoC itself.
type Direct struct{}

// Read32 performs a single 32-bit load from addr. The atomic load keeps the
// compiler from caching, merging or eliding the access.
func (Direct) Read32(addr uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

// Write32 performs a single 32-bit store to addr.
func (Direct) Write32(addr uintptr, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), val)
}

// ReadAt copies len(p) bytes starting at address off into p.
func (d Direct) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, d.Bytes(mem.Region{Start: uintptr(off), End: uintptr(off) + uintptr(len(p))})), nil
}

// WriteAt copies p to memory starting at address off.
func (d Direct) WriteAt(p []byte, off int64) (int, error) {
	return copy(d.Bytes(mem.Region{Start: uintptr(off), End: uintptr(off) + uintptr(len(p))}), p), nil
}

// Bytes overlays a slice on top of the memory covered by r.
func (Direct) Bytes(r mem.Region) []byte {
	if r.Size() == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(r.Start)), int(r.Size()))
}
