package gui

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Backdrop renders the static frame of the diagnostic screen into an RGBA
// backbuffer of the given size: a black background, a blue border, a divider
// above the bottom text line and the title centered inside the frame.
func Backdrop(width, height int, title string) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	w, h := float64(width), float64(height)
	dc.SetRGB(0, 0, 1)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, w-2, h-2)
	dc.Stroke()

	dc.SetLineWidth(1)
	dc.DrawLine(0, h-24, w, h-24)
	dc.Stroke()

	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawStringAnchored(title, w/2, h/2, 0.5, 0.5)

	return dc.Image()
}
