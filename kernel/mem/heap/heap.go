// Package heap implements the break-based heaps used on the SoC: one for the
// IPL itself and one handed to the loaded application.
package heap

import (
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
)

var (
	errOutOfMemory  = &kernel.Error{Module: "heap", Message: "out of memory"}
	errStartInvalid = &kernel.Error{Module: "heap", Message: "heap start outside its arena"}
)

// Heap is a bump allocator over a fixed arena. Memory is handed out by moving
// a break pointer; nothing is ever returned to the heap. This matches the
// sbrk contract expected by the C library of loaded applications.
type Heap struct {
	arena mem.Region
	start uintptr
	brk   uintptr
	ram   mem.RAM
}

// New returns a heap that can grow inside arena. ram is used to clear blocks
// handed out by Calloc and may be nil if Calloc is not used.
func New(arena mem.Region, ram mem.RAM) *Heap {
	return &Heap{
		arena: arena,
		start: arena.Start,
		brk:   arena.Start,
		ram:   ram,
	}
}

// SetStart moves the start of the heap (and resets its break) to addr. It is
// used after loading an application so its heap begins right past the
// highest address used by the image. Addresses outside the arena are rejected.
func (h *Heap) SetStart(addr uintptr) *kernel.Error {
	if addr < h.arena.Start || addr > h.arena.End {
		return errStartInvalid
	}

	h.start = addr
	h.brk = addr
	return nil
}

// Start returns the configured start of the heap.
func (h *Heap) Start() uintptr {
	return h.start
}

// Used returns the region handed out so far.
func (h *Heap) Used() mem.Region {
	return mem.Region{Start: h.start, End: h.brk}
}

// Free returns the number of bytes that can still be handed out.
func (h *Heap) Free() mem.Size {
	return mem.Size(h.arena.End - h.brk)
}

// Sbrk moves the break by incr bytes and returns its previous value. A
// negative increment shrinks the heap but never below its start.
func (h *Heap) Sbrk(incr int) (uintptr, *kernel.Error) {
	prev := h.brk

	switch {
	case incr >= 0 && uintptr(incr) > h.arena.End-h.brk:
		return 0, errOutOfMemory
	case incr < 0 && uintptr(-incr) > h.brk-h.start:
		return 0, errOutOfMemory
	}

	h.brk = uintptr(int(h.brk) + incr)
	return prev, nil
}

// Calloc reserves size bytes aligned to align (a power of 2), clears them and
// returns the reserved region.
func (h *Heap) Calloc(size mem.Size, align uintptr) (mem.Region, *kernel.Error) {
	start := mem.AlignUp(h.brk, align)
	if start < h.brk || start > h.arena.End || uintptr(size) > h.arena.End-start {
		return mem.Region{}, errOutOfMemory
	}

	h.brk = start + uintptr(size)
	r := mem.Region{Start: start, End: h.brk}

	if h.ram != nil {
		if b := h.ram.Bytes(r); b != nil {
			for i := range b {
				b[i] = 0
			}
		}
	}

	return r, nil
}
