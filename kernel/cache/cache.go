// Package cache drives the SoC cache flush controller.
//
// The CPU caches RAM while the LCD scanout engine and freshly loaded code
// read RAM directly, so every producer of such data must flush the range it
// wrote before the consumer looks at it.
package cache

import (
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
)

// Flusher is implemented by objects that can make a RAM range coherent.
type Flusher interface {
	Flush(r mem.Region)
}

// Controller is the cache flush controller of the SoC.
type Controller struct {
	bus mmio.Bus
}

// NewController returns a Controller that issues flushes through bus.
func NewController(bus mmio.Bus) *Controller {
	return &Controller{bus: bus}
}

// Flush writes back and invalidates the cache lines covering r. The start
// address selects a word inside the flush-control window and the value
// written is the end address as an offset into RAM. The operation has no
// failure mode.
func (c *Controller) Flush(r mem.Region) {
	c.bus.Write32(flushRegAddr(r.Start), uint32(r.End-soc.RAMStart))
}

// flushRegAddr returns the flush-control window address for start.
func flushRegAddr(start uintptr) uintptr {
	return mem.AlignDown(start, 4) - soc.RAMStart + soc.FlushRegion
}

// Decode reverses the encoding used by Flush, returning the region a write of
// val to the flush-control address addr requests. ok is false for addresses
// outside the window. It is used by simulations to observe flushes.
func Decode(addr uintptr, val uint32) (r mem.Region, ok bool) {
	window := mem.Region{Start: soc.FlushRegion, End: soc.FlushRegion + uintptr(soc.RAMSize)}
	if !window.Contains(addr) {
		return mem.Region{}, false
	}

	return mem.Region{
		Start: addr - soc.FlushRegion + soc.RAMStart,
		End:   uintptr(val) + soc.RAMStart,
	}, true
}
