// Package lcdfb drives the packed 4bpp framebuffer scanned out to the LCD.
package lcdfb

import (
	"image"
	"image/color"
	"io"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
)

// Panel geometry.
const (
	// Width and Height are the visible dimensions in pixels.
	Width  = 480
	Height = 320

	// Stride is the number of pixels stored per row. Rows are padded
	// past Width so that each row starts on a power of 2 boundary.
	Stride = 512

	pixelsPerByte = 2
)

var errNoBacking = &kernel.Error{Module: "lcdfb", Message: "framebuffer memory is not addressable"}

// Allocator hands out zeroed memory blocks.
type Allocator interface {
	Calloc(size mem.Size, align uintptr) (mem.Region, *kernel.Error)
}

// Framebuffer is the packed framebuffer. Two horizontally adjacent pixels
// share a byte: even x coordinates use the low nibble and odd ones the high
// nibble.
//
// The framebuffer is allocated once by DriverInit and lives until power-off.
// It has a single writer; no locking is performed.
type Framebuffer struct {
	width, height, stride int

	fb     []uint8
	region mem.Region

	gfx   *soc.GFX
	alloc Allocator
	ram   mem.RAM
}

// New returns an unallocated framebuffer for the SoC panel. The buffer is
// obtained from alloc and programmed into gfx by DriverInit.
func New(gfx *soc.GFX, alloc Allocator, ram mem.RAM) *Framebuffer {
	return &Framebuffer{
		width:  Width,
		height: Height,
		stride: Stride,
		gfx:    gfx,
		alloc:  alloc,
		ram:    ram,
	}
}

// Allocated returns true once the backing buffer has been set up.
func (fb *Framebuffer) Allocated() bool {
	return fb.fb != nil
}

// SetPixel stores the encoded value of c at (x, y). Both coordinates are
// accepted up to and including the panel width and height; anything else, as
// well as any call before the buffer is allocated, is silently ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if fb.fb == nil || x < 0 || x > fb.width || y < 0 || y > fb.height {
		return
	}

	n := Encode(c)
	offset := fb.offset(x, y)
	o := fb.fb[offset]
	if x&1 != 0 {
		o = (o & 0x0f) | (n << 4)
	} else {
		o = (o & 0xf0) | n
	}
	fb.fb[offset] = o
}

// Pixel returns the nibble stored for (x, y) or 0 if the coordinates are out
// of range.
func (fb *Framebuffer) Pixel(x, y int) uint8 {
	if fb.fb == nil || x < 0 || x > fb.width || y < 0 || y > fb.height {
		return 0
	}

	o := fb.fb[fb.offset(x, y)]
	if x&1 != 0 {
		return o >> 4
	}
	return o & 0x0f
}

// offset returns the index of the byte holding (x, y).
func (fb *Framebuffer) offset(x, y int) int {
	return (x + y*fb.stride) / pixelsPerByte
}

// Region returns the bus address range holding the visible rows. It must be
// flushed after drawing so the scanout engine sees the new contents.
func (fb *Framebuffer) Region() mem.Region {
	return fb.region
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// At implements image.Image.
func (fb *Framebuffer) At(x, y int) color.Color {
	return Decode(fb.Pixel(x, y))
}

// Set implements draw.Image.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, FromColor(c))
}

// DrawImage copies img into the framebuffer, aligning the top-left corner of
// img's bounds with the top-left corner of the panel.
func (fb *Framebuffer) DrawImage(img image.Image) {
	b := img.Bounds()
	for y := 0; y < fb.height && b.Min.Y+y < b.Max.Y; y++ {
		for x := 0; x < fb.width && b.Min.X+x < b.Max.X; x++ {
			fb.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
}

// DriverName returns the name of this driver.
func (fb *Framebuffer) DriverName() string {
	return "lcd_fb"
}

// DriverVersion returns the version of this driver.
func (fb *Framebuffer) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit allocates the framebuffer and points the scanout engine at it.
//
// One row more than the panel height is allocated because SetPixel accepts
// y == Height.
func (fb *Framebuffer) DriverInit(w io.Writer) *kernel.Error {
	size := mem.Size(fb.stride * (fb.height + 1) / pixelsPerByte)
	r, err := fb.alloc.Calloc(size, 4)
	if err != nil {
		return err
	}

	buf := fb.ram.Bytes(r)
	if buf == nil {
		return errNoBacking
	}

	fb.fb = buf
	fb.region = mem.Region{
		Start: r.Start,
		End:   r.Start + uintptr(fb.stride*fb.height/pixelsPerByte),
	}
	fb.gfx.SetFramebufferAddr(r.Start)

	kfmt.Fprintf(w, "%dx%d panel, framebuffer at 0x%x (%s)\n", fb.width, fb.height, r.Start, size.String())
	return nil
}
