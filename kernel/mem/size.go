package mem

import "github.com/inhies/go-bytesize"

// Size represents a memory block size in bytes.
type Size uint64

// Common memory block sizes.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
	Mb        = 1024 * Kb
)

// String renders the size in a human readable form (e.g. "80.00KB").
func (s Size) String() string {
	return bytesize.New(float64(s)).String()
}
