// Package kmain contains the boot sequence of the IPL.
package kmain

import (
	"context"
	"io"
	"io/fs"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/device"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/storage"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/usb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/video/lcdfb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/cache"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/diag"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/hal"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/handoff"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/loader"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem/heap"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
)

var (
	// panicFn is mocked by tests.
	panicFn = kfmt.Panic

	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
	errNoDisplay     = &kernel.Error{Module: "kmain", Message: "no framebuffer available"}
)

// Config holds the build-time settings of the IPL.
type Config struct {
	// AppName is the image loaded from the filesystem root.
	AppName string

	// RandomCount is the number of RNG samples logged at boot.
	RandomCount int

	// Inner is the number of transport service rounds per diagnostic
	// frame.
	Inner int
}

// DefaultConfig returns the settings the firmware is built with.
func DefaultConfig() Config {
	return Config{
		AppName:     "autoexec.elf",
		RandomCount: 16,
		Inner:       diag.Inner,
	}
}

// Platform bundles the hardware the boot sequence runs on.
type Platform struct {
	// Bus gives access to the peripheral registers and the flush window.
	Bus mmio.Bus

	// RAM gives byte access to the linear RAM.
	RAM mem.RAM

	// Files is the filesystem application images are loaded from.
	Files fs.FS

	// Flash is the on-board flash chip.
	Flash storage.Chip

	// USB is the host-facing transport.
	USB usb.Stack

	// Console receives the log output. If nil, output stays in the early
	// print buffer.
	Console io.Writer

	// Jump enters the loaded application. If nil, cpu.Jump is used.
	Jump handoff.JumpFunc
}

// Kmain brings up the hardware, runs the application named by cfg.AppName
// and, if the application returns, runs the diagnostic loop until ctx is
// cancelled. On the badge ctx is never cancelled.
//
// Failing to load the application is fatal. Kmain is not expected to return;
// if it does, the system is halted through kfmt.Panic.
//
//go:noinline
func Kmain(ctx context.Context, p Platform, cfg Config) {
	if p.Console != nil {
		kfmt.SetOutputSink(p.Console)
	}

	soc.NewMisc(p.Bus).SetLEDs(0xff)

	iplHeap := heap.New(soc.IPLReserved(), p.RAM)
	device.ResetDrivers()
	registerDrivers(p, lcdfb.New(soc.NewGFX(p.Bus), iplHeap, p.RAM))
	hal.DetectHardware()

	logRandomNumbers(soc.NewMisc(p.Bus), cfg.RandomCount)

	flusher := cache.NewController(p.Bus)
	h := handoff.New(
		loader.NewELF(hal.ActiveFS(), p.RAM, soc.AppWindow()),
		heap.New(soc.AppWindow(), nil),
		flusher,
	)
	if p.Jump != nil {
		h.SetJump(p.Jump)
	}

	if err := h.RunApplication(cfg.AppName); err != nil {
		panicFn(err)
		return
	}

	fb := hal.ActiveFramebuffer()
	if fb == nil {
		panicFn(errNoDisplay)
		return
	}

	transport := hal.ActiveTransport()
	if transport == nil {
		transport = usb.NewRecorder(false)
	}

	session := diag.New(fb, flusher, transport, cfg.Inner)
	session.Prepare()
	if err := session.Run(ctx); err != nil {
		kfmt.Fprintf(kfmt.ModuleWriter(nil, "kmain"), "diagnostics stopped: %s\n", err.Error())
	}

	panicFn(errKmainReturned)
}

// registerDrivers makes the platform devices known to the hal. The registry
// must be empty.
func registerDrivers(p Platform, fb *lcdfb.Framebuffer) {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: func() device.Driver { return fb },
	})
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderTransport,
		Probe: func() device.Driver { return &usb.Driver{Stack: p.USB} },
	})
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderStorage,
		Probe: func() device.Driver { return &storage.Flash{Chip: p.Flash} },
	})
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderStorage,
		Probe: func() device.Driver { return &storage.Filesystem{FS: p.Files} },
	})
}

// logRandomNumbers prints count samples of the hardware RNG.
func logRandomNumbers(misc *soc.Misc, count int) {
	kfmt.Printf("Your random numbers are:\n")
	for i := 0; i < count; i++ {
		r := misc.Random()
		kfmt.Printf("%d: %08X (%d)\n", i, r, int32(r))
	}
}
