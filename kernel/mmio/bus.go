// Package mmio provides access to the memory-mapped 32-bit registers of the
// SoC through the Bus interface. Drivers never dereference register addresses
// themselves; they receive a Bus which is either the real address space
// (Direct) or a simulated one (Sim).
package mmio

// Bus is implemented by objects that can perform 32-bit register accesses.
type Bus interface {
	// Read32 returns the 32-bit value at addr.
	Read32(addr uintptr) uint32

	// Write32 stores a 32-bit value at addr.
	Write32(addr uintptr, val uint32)
}

// Block groups the registers of a peripheral that live at fixed offsets from
// a common base address.
type Block struct {
	Bus  Bus
	Base uintptr
}

// Read returns the value of the register at the given offset.
func (b Block) Read(offset uintptr) uint32 {
	return b.Bus.Read32(b.Base + offset)
}

// Write sets the value of the register at the given offset.
func (b Block) Write(offset uintptr, val uint32) {
	b.Bus.Write32(b.Base+offset, val)
}
