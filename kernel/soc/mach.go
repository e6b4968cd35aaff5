// Package soc describes the memory map of the badge SoC and provides typed
// accessors for the handful of peripheral registers the IPL touches directly.
package soc

import "github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"

// Memory map.
const (
	// RAMStart is the address of the first byte of the linear RAM.
	RAMStart uintptr = 0x40000000

	// RAMSize is the amount of linear RAM.
	RAMSize = 8 * mem.Mb

	// FlushRegion is the base of the cache flush-control window. The
	// window mirrors RAM: writing to FlushRegion+off flushes the cache
	// lines starting at RAMStart+off.
	FlushRegion uintptr = 0x48000000

	// IPLReservedSize is the amount of RAM at the top of the address space
	// that belongs to the IPL (its stack and heap). Applications may not
	// load into it.
	IPLReservedSize = 1 * mem.Mb

	UARTBase uintptr = 0x10000000
	MiscBase uintptr = 0x20000000
	LCDBase  uintptr = 0x30000000
	GFXBase  uintptr = 0x50000000
)

// UART register offsets.
const (
	UARTDataReg uintptr = 0x0
)

// MISC register offsets.
const (
	MiscLEDReg uintptr = 0x0
	MiscBtnReg uintptr = 0x4
	MiscRNGReg uintptr = 0x18
)

// GFX register offsets.
const (
	GFXFBAddrReg uintptr = 0x4

	// gfxAddrMask keeps the RAM offset part of a framebuffer address.
	gfxAddrMask = 0x7FFFFF
)

// RAMEnd is the address just past the last byte of RAM.
const RAMEnd = RAMStart + uintptr(RAMSize)

// RAM returns the region covered by the linear RAM.
func RAM() mem.Region {
	return mem.Region{Start: RAMStart, End: RAMEnd}
}

// IPLReserved returns the RAM region owned by the IPL.
func IPLReserved() mem.Region {
	return mem.Region{Start: RAMEnd - uintptr(IPLReservedSize), End: RAMEnd}
}

// AppWindow returns the RAM region applications may be loaded into and whose
// unused tail becomes the application heap.
func AppWindow() mem.Region {
	return mem.Region{Start: RAMStart, End: IPLReserved().Start}
}
