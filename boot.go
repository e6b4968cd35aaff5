//go:build tinygo && riscv

package main

import (
	"context"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/firmware"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kmain"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
)

// main is invoked by the crt0 code after the stack and .bss have been set up.
// It works as a trampoline for calling the actual entrypoint (kmain.Kmain).
//
// The flash, USB and filesystem collaborators are the C libraries linked into
// the image, reached through package firmware.
//
// main is not expected to return.
func main() {
	bus := mmio.Direct{}

	kmain.Kmain(context.Background(), kmain.Platform{
		Bus:     bus,
		RAM:     bus,
		Files:   firmware.FatFS(),
		Flash:   firmware.IntFlash(),
		USB:     firmware.TinyUSB(),
		Console: soc.NewUART(bus),
	}, kmain.DefaultConfig())
}
