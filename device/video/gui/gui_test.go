package gui

import (
	"image"
	"image/color"
	"testing"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/video/lcdfb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem/heap"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder counts the Set calls issued against an RGBA image.
type recorder struct {
	*image.RGBA
	sets int
}

func (r *recorder) Set(x, y int, c color.Color) {
	r.sets++
	r.RGBA.Set(x, y, c)
}

func newRecorder(w, h int) *recorder {
	return &recorder{RGBA: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func fgPixels(img *image.RGBA, r image.Rectangle, fg color.Color) int {
	var count int
	want := color.RGBAModel.Convert(fg)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.At(x, y) == want {
				count++
			}
		}
	}
	return count
}

func TestPutStringPaintsWholeCell(t *testing.T) {
	target := newRecorder(100, 40)
	g := New(target)
	g.SetForecolor(color.RGBA{R: 255, A: 255})
	g.SetBackcolor(color.RGBA{B: 255, A: 255})

	g.PutString(0, 0, "A")

	// 7x13 cell, every pixel written exactly once.
	assert.Equal(t, 7*13, target.sets)
	assert.NotZero(t, fgPixels(target.RGBA, image.Rect(0, 0, 7, 13), color.RGBA{R: 255, A: 255}))
	assert.Equal(t, 7*13, fgPixels(target.RGBA, image.Rect(0, 0, 7, 13), color.RGBA{R: 255, A: 255})+
		fgPixels(target.RGBA, image.Rect(0, 0, 7, 13), color.RGBA{B: 255, A: 255}))

	// Nothing outside the cell is touched.
	assert.Zero(t, fgPixels(target.RGBA, image.Rect(7, 0, 100, 40), color.RGBA{B: 255, A: 255}))
	assert.Zero(t, fgPixels(target.RGBA, image.Rect(0, 13, 100, 40), color.RGBA{B: 255, A: 255}))
}

func TestPutStringWraps(t *testing.T) {
	fg := color.RGBA{G: 255, A: 255}
	specs := []struct {
		text      string
		wrapped   image.Rectangle
		firstLine image.Rectangle
	}{
		// third glyph would cross the right edge at x=21
		{"ABC", image.Rect(0, 13, 7, 26), image.Rect(0, 0, 14, 13)},
		{"AB\nC", image.Rect(0, 13, 7, 26), image.Rect(0, 0, 14, 13)},
	}

	for specIndex, spec := range specs {
		target := newRecorder(20, 40)
		g := New(target)
		g.SetForecolor(fg)

		g.PutString(0, 0, spec.text)

		if got := target.sets; got != 3*7*13 {
			t.Errorf("[spec %d] expected %d pixel writes; got %d", specIndex, 3*7*13, got)
		}
		if fgPixels(target.RGBA, spec.wrapped, fg) == 0 {
			t.Errorf("[spec %d] expected wrapped glyph in %v", specIndex, spec.wrapped)
		}
		if fgPixels(target.RGBA, spec.firstLine, fg) == 0 {
			t.Errorf("[spec %d] expected glyphs on first line in %v", specIndex, spec.firstLine)
		}
	}
}

func TestPutStringUnknownRune(t *testing.T) {
	target := newRecorder(40, 20)
	g := New(target)

	g.PutString(0, 0, "☃")
	assert.Equal(t, 7*13, target.sets)
}

func TestPutStringOnFramebuffer(t *testing.T) {
	sim := mmio.NewSim(soc.RAMStart, soc.RAMSize)
	h := heap.New(soc.IPLReserved(), sim)
	fb := lcdfb.New(soc.NewGFX(sim), h, sim)
	require.Nil(t, fb.DriverInit(nil))

	g := New(fb)
	g.SetForecolor(color.RGBA{R: 0xff, A: 0xff})
	g.PutString(48, 64, "42")

	var lit int
	for y := 64; y < 64+13; y++ {
		for x := 48; x < 48+14; x++ {
			switch fb.Pixel(x, y) {
			case lcdfb.Encode(lcdfb.Red):
				lit++
			case 0:
			default:
				t.Fatalf("unexpected nibble 0x%x at (%d, %d)", fb.Pixel(x, y), x, y)
			}
		}
	}
	assert.NotZero(t, lit)

	// pixels outside the text cells stay clear
	assert.Equal(t, uint8(0), fb.Pixel(47, 64))
	assert.Equal(t, uint8(0), fb.Pixel(48+14, 64))
}

func TestFontSelect(t *testing.T) {
	g := New(newRecorder(10, 10))

	assert.Equal(t, errFontUnavailable, g.FontSelect(nil))

	require.Nil(t, g.FontSelect(FindByName("mono16")))
	assert.True(t, g.LineHeight() >= 16)

	require.Nil(t, g.FontSelect(FindByName("7x13")))
	assert.Equal(t, 13, g.LineHeight())
}
