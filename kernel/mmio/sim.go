package mmio

import (
	"encoding/binary"
	"io"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
)

// Access records a single register write performed on a Sim bus.
type Access struct {
	Addr uintptr
	Val  uint32
}

// Sim is a simulated address space. Addresses inside the RAM window are
// backed by a byte slice (little-endian, like the SoC); every other address is
// a register backed by a map. All register writes are recorded in order so
// tests can assert on the exact sequence of hardware accesses.
type Sim struct {
	ram     []byte
	ramBase uintptr

	regs map[uintptr]uint32

	// ReadHooks override reads from specific register addresses, e.g. to
	// feed a random number generator.
	ReadHooks map[uintptr]func() uint32

	// Log holds all register (non-RAM) writes in issue order.
	Log []Access
}

// NewSim returns a Sim with size bytes of zeroed RAM starting at ramBase.
func NewSim(ramBase uintptr, size mem.Size) *Sim {
	return &Sim{
		ram:       make([]byte, size),
		ramBase:   ramBase,
		regs:      make(map[uintptr]uint32),
		ReadHooks: make(map[uintptr]func() uint32),
	}
}

// RAMRegion returns the address range backed by simulated RAM.
func (s *Sim) RAMRegion() mem.Region {
	return mem.Region{Start: s.ramBase, End: s.ramBase + uintptr(len(s.ram))}
}

// Read32 implements Bus.
func (s *Sim) Read32(addr uintptr) uint32 {
	if b := s.Bytes(mem.Region{Start: addr, End: addr + 4}); b != nil {
		return binary.LittleEndian.Uint32(b)
	}

	if hook, ok := s.ReadHooks[addr]; ok {
		return hook()
	}

	return s.regs[addr]
}

// Write32 implements Bus.
func (s *Sim) Write32(addr uintptr, val uint32) {
	if b := s.Bytes(mem.Region{Start: addr, End: addr + 4}); b != nil {
		binary.LittleEndian.PutUint32(b, val)
		return
	}

	s.regs[addr] = val
	s.Log = append(s.Log, Access{Addr: addr, Val: val})
}

// Writes returns the logged writes to addr in issue order.
func (s *Sim) Writes(addr uintptr) []uint32 {
	var out []uint32
	for _, a := range s.Log {
		if a.Addr == addr {
			out = append(out, a.Val)
		}
	}
	return out
}

// ReadAt implements io.ReaderAt over the RAM window using absolute addresses.
func (s *Sim) ReadAt(p []byte, off int64) (int, error) {
	b := s.Bytes(mem.Region{Start: uintptr(off), End: uintptr(off) + uintptr(len(p))})
	if b == nil && len(p) != 0 {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

// WriteAt implements io.WriterAt over the RAM window using absolute addresses.
func (s *Sim) WriteAt(p []byte, off int64) (int, error) {
	b := s.Bytes(mem.Region{Start: uintptr(off), End: uintptr(off) + uintptr(len(p))})
	if b == nil && len(p) != 0 {
		return 0, io.ErrShortWrite
	}
	return copy(b, p), nil
}

// Bytes returns the slice of simulated RAM covered by r or nil if r is empty
// or not fully inside the RAM window.
func (s *Sim) Bytes(r mem.Region) []byte {
	if r.Size() == 0 || !s.RAMRegion().Covers(r) {
		return nil
	}

	start := r.Start - s.ramBase
	return s.ram[start : start+uintptr(r.Size()) : start+uintptr(r.Size())]
}
