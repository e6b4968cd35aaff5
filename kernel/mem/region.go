package mem

import (
	"io"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
)

var errInvalidRegion = &kernel.Error{Module: "mem", Message: "region end precedes its start"}

// Region describes the byte range [Start, End) of the linear address space.
// Regions are transient values computed by whoever produces them (e.g. the
// application loader) and handed to consumers such as the cache controller.
type Region struct {
	Start uintptr
	End   uintptr
}

// NewRegion returns the region [start, end). It fails if end < start.
func NewRegion(start, end uintptr) (Region, *kernel.Error) {
	if end < start {
		return Region{}, errInvalidRegion
	}

	return Region{Start: start, End: end}, nil
}

// Size returns the number of bytes covered by the region.
func (r Region) Size() Size {
	if r.End < r.Start {
		return 0
	}
	return Size(r.End - r.Start)
}

// Contains returns true if addr lies inside the region.
func (r Region) Contains(addr uintptr) bool {
	return addr >= r.Start && addr < r.End
}

// Covers returns true if other lies entirely inside the region.
func (r Region) Covers(other Region) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// RAM provides byte-level access to memory using absolute addresses as
// offsets for ReadAt and WriteAt.
type RAM interface {
	io.ReaderAt
	io.WriterAt

	// Bytes returns a slice aliasing the memory covered by r or nil if
	// r does not lie inside the memory backing this RAM.
	Bytes(r Region) []byte
}
