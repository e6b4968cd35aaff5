//go:build !tinygo

package cpu

import "unsafe"

// Jump transfers control to the code located at entry, passing argc and argv
// to it. Jump only returns if the invoked code returns.
//
// The gc build only exists so the host tools and tests can exercise the
// handoff path; entry must point at a Go function taking (int32, uintptr).
//
//go:noinline
func Jump(entry uintptr, argc int32, argv uintptr) {
	// A gc func value is a pointer to a word holding the code address.
	code := entry
	fnPtr := unsafe.Pointer(&code)
	fn := *(*entryFunc)(unsafe.Pointer(&fnPtr))
	fn(argc, argv)
}
