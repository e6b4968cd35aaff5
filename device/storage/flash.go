// Package storage contains the drivers for the on-board flash chip and the
// filesystem that the application image is loaded from.
package storage

import (
	"io"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
)

var (
	errNoFlash = &kernel.Error{Module: "flash", Message: "no flash chip attached"}
	errNoFS    = &kernel.Error{Module: "fs", Message: "no filesystem attached"}
)

// Chip is implemented by SPI flash chips.
type Chip interface {
	// ID returns the JEDEC identifier of the chip.
	ID() uint32
}

// FixedChip is a Chip reporting a constant identifier.
type FixedChip uint32

// ID implements Chip.
func (c FixedChip) ID() uint32 { return uint32(c) }

// Flash reports the identity of the internal flash chip. The result is only
// logged; nothing downstream depends on it.
type Flash struct {
	Chip Chip
}

// DriverName returns the name of this driver.
func (drv *Flash) DriverName() string {
	return "flash"
}

// DriverVersion returns the version of this driver.
func (drv *Flash) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit reads and logs the chip identifier.
func (drv *Flash) DriverInit(w io.Writer) *kernel.Error {
	if drv.Chip == nil {
		return errNoFlash
	}

	kfmt.Fprintf(w, "flashid: %x\n", drv.Chip.ID())
	return nil
}
