package soc

import "github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"

// Misc provides access to the miscellaneous register block (LEDs, buttons
// and the hardware random number generator).
type Misc struct {
	regs mmio.Block
}

// NewMisc returns a Misc bound to bus.
func NewMisc(bus mmio.Bus) *Misc {
	return &Misc{regs: mmio.Block{Bus: bus, Base: MiscBase}}
}

// SetLEDs drives the status LEDs; bit n controls LED n.
func (m *Misc) SetLEDs(mask uint32) {
	m.regs.Write(MiscLEDReg, mask)
}

// Buttons returns the current button state.
func (m *Misc) Buttons() uint32 {
	return m.regs.Read(MiscBtnReg)
}

// Random returns the next value of the hardware random number generator.
func (m *Misc) Random() uint32 {
	return m.regs.Read(MiscRNGReg)
}

// GFX provides access to the graphics controller registers.
type GFX struct {
	regs mmio.Block
}

// NewGFX returns a GFX bound to bus.
func NewGFX(bus mmio.Bus) *GFX {
	return &GFX{regs: mmio.Block{Bus: bus, Base: GFXBase}}
}

// SetFramebufferAddr points the scanout engine at the framebuffer stored at
// addr. The controller addresses RAM by offset so only the low bits are kept.
func (g *GFX) SetFramebufferAddr(addr uintptr) {
	g.regs.Write(GFXFBAddrReg, uint32(addr)&gfxAddrMask)
}

// UART is the console serial port. Every byte written to its data register is
// queued for transmission.
type UART struct {
	regs mmio.Block
}

// NewUART returns a UART bound to bus.
func NewUART(bus mmio.Bus) *UART {
	return &UART{regs: mmio.Block{Bus: bus, Base: UARTBase}}
}

// Write implements io.Writer. It never fails.
func (u *UART) Write(p []byte) (int, error) {
	for _, b := range p {
		u.regs.Write(UARTDataReg, uint32(b))
	}
	return len(p), nil
}
