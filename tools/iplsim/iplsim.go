// Command iplsim boots the IPL against a simulated SoC. The application image
// is loaded from disk and validated by the real loader, its entry point is
// replaced by a stub that returns immediately, and the framebuffer is saved as
// a PNG once the diagnostic loop has drawn the requested number of frames.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/storage"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/usb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/hal"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kmain"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
)

var errHalted = errors.New("halted")

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[iplsim] error: %s\n", err.Error())
	os.Exit(1)
}

// frameLimiter is the simulated USB stack. It cancels the boot context once
// the diagnostic loop has serviced it for the requested number of frames.
type frameLimiter struct {
	*usb.Recorder
	limit  int
	cancel context.CancelFunc
}

func (f *frameLimiter) Poll() {
	f.Recorder.Poll()
	if f.Polls >= f.limit {
		f.cancel()
	}
}

// boot runs Kmain and reports whether it ended in a halt.
func boot(ctx context.Context, p kmain.Platform, cfg kmain.Config) (halted bool) {
	defer func() {
		if r := recover(); r != nil {
			if r != errHalted {
				panic(r)
			}
			halted = true
		}
	}()

	kfmt.SetHaltFn(func() { panic(errHalted) })
	defer kfmt.SetHaltFn(nil)

	kmain.Kmain(ctx, p, cfg)
	return false
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = png.Encode(f, img); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func runTool() error {
	frames := flag.Int("frames", 3, "the number of diagnostic frames to draw before stopping")
	inner := flag.Int("inner", kmain.DefaultConfig().Inner, "transport service rounds per frame")
	output := flag.String("out", "framebuffer.png", "a file to write the final framebuffer contents to")
	flashID := flag.Uint("flash-id", 0xef4018, "the JEDEC id reported by the simulated flash chip")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "iplsim: boot the IPL against a simulated SoC\n\n")
		fmt.Fprint(os.Stderr, "Usage: iplsim [options] app.elf\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		exit(errors.New("missing application image argument"))
	}
	if *frames < 1 {
		exit(errors.New("at least one frame must be drawn"))
	}

	appPath := flag.Arg(0)
	cfg := kmain.DefaultConfig()
	cfg.AppName = filepath.Base(appPath)
	cfg.Inner = *inner

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := mmio.NewSim(soc.RAMStart, soc.RAMSize)
	var rng uint32 = 0x2545f491
	sim.ReadHooks[soc.MiscBase+soc.MiscRNGReg] = func() uint32 {
		// xorshift32
		rng ^= rng << 13
		rng ^= rng >> 17
		rng ^= rng << 5
		return rng
	}

	var entered bool
	platform := kmain.Platform{
		Bus:     sim,
		RAM:     sim,
		Files:   os.DirFS(filepath.Dir(appPath)),
		Flash:   storage.FixedChip(uint32(*flashID)),
		USB:     &frameLimiter{Recorder: usb.NewRecorder(false), limit: *frames * cfg.Inner, cancel: cancel},
		Console: os.Stdout,
		Jump: func(entry uintptr, argc int32, argv uintptr) {
			entered = true
			fmt.Fprintf(os.Stdout, "[iplsim] application entered at 0x%x\n", entry)
		},
	}

	if !boot(ctx, platform, cfg) {
		return errors.New("boot sequence returned without halting")
	}
	if !entered {
		return errors.New("the application was not started")
	}

	fb := hal.ActiveFramebuffer()
	if fb == nil {
		return errors.New("no framebuffer was initialized")
	}

	return writePNG(*output, fb)
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}
