package lcdfb

import "image/color"

// Color is a 24-bit color value as produced by the text layer. Red occupies
// bits 0-7, green bits 8-15 and blue bits 16-23.
type Color uint32

// Common colors.
const (
	Black Color = 0x000000
	White Color = 0xFFFFFF
	Red   Color = 0x0000FF
	Green Color = 0x00FF00
	Blue  Color = 0xFF0000
)

// Nibble bits as understood by the display controller.
const (
	nibbleBlue      = 1 << 0
	nibbleGreen     = 1 << 1
	nibbleRed       = 1 << 2
	nibbleIntensity = 1 << 3
)

// Encode reduces c to the 4-bit pixel format of the display controller.
//
// The top bit of each channel (bits 7, 15 and 23) selects red, green and blue
// respectively. The intensity bit is set when the second-highest bit of any
// channel (bits 6, 14 or 22) is set. Only these six bits of c are looked at;
// this is the color reduction the panel gets, not an attempt at a faithful
// RGB mapping.
func Encode(c Color) uint8 {
	var n uint8
	if c&(1<<7) != 0 {
		n |= nibbleRed
	}
	if c&(1<<15) != 0 {
		n |= nibbleGreen
	}
	if c&(1<<23) != 0 {
		n |= nibbleBlue
	}
	if c&(1<<6) != 0 || c&(1<<14) != 0 || c&(1<<22) != 0 {
		n |= nibbleIntensity
	}
	return n
}

// Decode returns the color displayed for nibble n. Encode(FromColor(Decode(n)))
// yields n again for every nibble value.
func Decode(n uint8) color.RGBA {
	level := func(on bool) uint8 {
		switch {
		case on && n&nibbleIntensity != 0:
			return 0xC0
		case on:
			return 0x80
		case n&nibbleIntensity != 0:
			return 0x40
		default:
			return 0x00
		}
	}

	return color.RGBA{
		R: level(n&nibbleRed != 0),
		G: level(n&nibbleGreen != 0),
		B: level(n&nibbleBlue != 0),
		A: 0xff,
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c & 0xff)
	g = uint32(c>>8) & 0xff
	b = uint32(c>>16) & 0xff
	return r | r<<8, g | g<<8, b | b<<8, 0xffff
}

// FromColor converts any color.Color to a Color.
func FromColor(c color.Color) Color {
	if native, ok := c.(Color); ok {
		return native
	}

	r, g, b, _ := c.RGBA()
	return Color(b>>8)<<16 | Color(g>>8)<<8 | Color(r>>8)
}

// Model converts arbitrary colors to the closest color the panel can show.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	return Decode(Encode(FromColor(c)))
})
