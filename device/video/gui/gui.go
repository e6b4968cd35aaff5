// Package gui renders text onto a draw.Image target, pixel by pixel, in the
// manner of a small character-grid GUI library.
package gui

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var errFontUnavailable = &kernel.Error{Module: "gui", Message: "font could not be loaded"}

// Gui draws text using the currently selected font and colors. Each glyph
// cell is painted completely (foreground for set pixels, background for the
// rest) so redrawing text in place needs no explicit clearing.
type Gui struct {
	target draw.Image
	face   font.Face
	fg, bg color.Color
}

// New returns a Gui drawing on target with the built-in 7x13 font, white
// foreground and black background.
func New(target draw.Image) *Gui {
	return &Gui{
		target: target,
		face:   basicfont.Face7x13,
		fg:     color.White,
		bg:     color.Black,
	}
}

// FontSelect switches the font used by subsequent PutString calls.
func (g *Gui) FontSelect(f *Font) *kernel.Error {
	if f == nil {
		return errFontUnavailable
	}

	face, err := f.Face()
	if err != nil {
		return errFontUnavailable
	}

	g.face = face
	return nil
}

// SetForecolor sets the color used for glyph pixels.
func (g *Gui) SetForecolor(c color.Color) {
	g.fg = c
}

// SetBackcolor sets the color used for the remaining pixels of a glyph cell.
func (g *Gui) SetBackcolor(c color.Color) {
	g.bg = c
}

// LineHeight returns the height of a text line in pixels.
func (g *Gui) LineHeight() int {
	return g.face.Metrics().Height.Ceil()
}

// PutString draws text with the top-left corner of its first glyph cell at
// (x, y). Text wraps back to column x when a glyph would cross the right edge
// of the target and on '\n'.
func (g *Gui) PutString(x, y int, text string) {
	var (
		lineHeight = g.LineHeight()
		ascent     = g.face.Metrics().Ascent.Ceil()
		maxX       = g.target.Bounds().Max.X
		cx, cy     = x, y
	)

	for _, r := range text {
		if r == '\n' {
			cx, cy = x, cy+lineHeight
			continue
		}

		advance, ok := g.face.GlyphAdvance(r)
		if !ok {
			r = '?'
			advance, _ = g.face.GlyphAdvance(r)
		}

		width := advance.Ceil()
		if cx+width > maxX && cx != x {
			cx, cy = x, cy+lineHeight
		}

		g.putChar(r, image.Rect(cx, cy, cx+width, cy+lineHeight), ascent)
		cx += width
	}
}

// putChar paints the glyph cell for r.
func (g *Gui) putChar(r rune, cell image.Rectangle, ascent int) {
	dr, mask, maskp, _, ok := g.face.Glyph(fixed.P(cell.Min.X, cell.Min.Y+ascent), r)
	if !ok {
		mask = nil
	}

	for py := cell.Min.Y; py < cell.Max.Y; py++ {
		for px := cell.Min.X; px < cell.Max.X; px++ {
			c := g.bg
			if mask != nil && (image.Point{X: px, Y: py}).In(dr) {
				_, _, _, a := mask.At(maskp.X+px-dr.Min.X, maskp.Y+py-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					c = g.fg
				}
			}
			g.target.Set(px, py, c)
		}
	}
}
