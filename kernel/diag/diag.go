// Package diag implements the diagnostic screen shown when an application
// returns control to the IPL.
package diag

import (
	"context"
	"image"
	"image/draw"
	"io"
	"strconv"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/usb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/video/gui"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/video/lcdfb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/cache"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
)

// Inner is the default number of transport service rounds between two
// redraws of the counter.
const Inner = 500

// Screen positions of the diagnostic texts.
const (
	counterX, counterY = 48, 64
	bannerY            = 16
	footerY            = lcdfb.Height - 20
)

const banner = "This is a test of the framebuffer to HDMI and LCD thingamajig. What you see now is the framebuffer memory."

// Display is the drawing surface of a Session.
type Display interface {
	draw.Image

	// Region returns the RAM range to flush after drawing.
	Region() mem.Region

	// DrawImage copies img onto the display.
	DrawImage(img image.Image)
}

// Session owns the state of the diagnostic loop. It is created once after
// the application returns and runs until power-off; it has a single writer.
type Session struct {
	display Display
	text    *gui.Gui
	flusher cache.Flusher
	stack   usb.Stack
	inner   int

	counter int
	numBuf  []byte

	w io.Writer
}

// New returns a session drawing on display, flushing through flusher and
// servicing stack inner times per redraw. A non-positive inner selects Inner.
func New(display Display, flusher cache.Flusher, stack usb.Stack, inner int) *Session {
	if inner <= 0 {
		inner = Inner
	}

	text := gui.New(display)
	b := display.Bounds()
	if f := gui.BestFit(b.Dx(), b.Dy()); f != nil {
		// On failure the built-in font stays selected.
		_ = text.FontSelect(f)
	}

	return &Session{
		display: display,
		text:    text,
		flusher: flusher,
		stack:   stack,
		inner:   inner,
		numBuf:  make([]byte, 0, 20),
		w:       kfmt.ModuleWriter(nil, "diag"),
	}
}

// Counter returns the number of completed outer iterations.
func (s *Session) Counter() int {
	return s.counter
}

// Prepare draws the static part of the screen and switches the transport to
// mass storage mode when it supports it.
func (s *Session) Prepare() {
	b := s.display.Bounds()
	s.display.DrawImage(gui.Backdrop(b.Dx(), b.Dy(), "hadbadge ipl"))

	s.text.SetForecolor(lcdfb.White)
	s.text.PutString(0, 0, "Hello world!")
	s.text.PutString(0, footerY, "Narf.")
	s.text.SetForecolor(lcdfb.Green)
	s.text.PutString(0, bannerY, banner)

	if usb.EnableMassStorage(s.stack) {
		kfmt.Fprintf(s.w, "mass storage enabled\n")
	}

	s.flusher.Flush(s.display.Region())
}

// Step runs a single outer iteration: the counter is incremented and drawn,
// the display is flushed and the transport is serviced exactly inner times.
func (s *Session) Step() {
	s.counter++
	s.numBuf = strconv.AppendInt(s.numBuf[:0], int64(s.counter), 10)

	s.text.SetForecolor(lcdfb.Red)
	s.text.PutString(counterX, counterY, string(s.numBuf))
	s.flusher.Flush(s.display.Region())

	for i := 0; i < s.inner; i++ {
		s.stack.Poll()
		s.stack.Task()
	}
}

// Run calls Step until ctx is cancelled and returns the cancellation cause.
// The boot sequence passes a context that is never cancelled.
func (s *Session) Run(ctx context.Context) error {
	kfmt.Fprintf(s.w, "running, %d transport rounds per frame\n", s.inner)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step()
	}
}
