// Package cpu contains the small set of operations the IPL needs from the
// processor core: parking it and handing it over to foreign code.
package cpu

// Halt stops instruction execution. The core has no low-power wait state that
// the IPL relies on so Halt simply spins until the next reset.
func Halt() {
	for {
	}
}

// entryFunc matches the calling convention of a freestanding application
// main: main(int argc, char **argv).
type entryFunc func(argc int32, argv uintptr)
