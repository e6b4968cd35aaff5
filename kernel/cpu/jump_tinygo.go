//go:build tinygo

package cpu

import "unsafe"

// funcValue mirrors the two-word func value layout used by tinygo. The
// context word is passed to the callee as a trailing argument, which a C
// entry point ignores.
type funcValue struct {
	context unsafe.Pointer
	fn      unsafe.Pointer
}

// Jump transfers control to the code located at entry, passing argc and argv
// in the first two argument registers. Jump only returns if the invoked code
// returns.
//
// This is the only place where the IPL calls into code it did not build. The
// caller must make sure that the memory holding the code is visible to the
// instruction fetch path before calling Jump.
//
//go:noinline
func Jump(entry uintptr, argc int32, argv uintptr) {
	fv := funcValue{fn: unsafe.Pointer(entry)}
	fn := *(*entryFunc)(unsafe.Pointer(&fv))
	fn(argc, argv)
}
