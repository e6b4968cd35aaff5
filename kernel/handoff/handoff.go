// Package handoff transfers control from the IPL to a loaded application.
package handoff

import (
	"io"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/cache"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/cpu"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/loader"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
)

var (
	// jumpFn is mocked by tests.
	jumpFn = cpu.Jump

	errNotIdle    = &kernel.Error{Module: "handoff", Message: "an application has already been started"}
	errBadResult  = &kernel.Error{Module: "handoff", Message: "loader reported an entry point outside the loaded image"}
	errHeapNotSet = &kernel.Error{Module: "handoff", Message: "application heap does not start past the loaded image"}
	errNotFlushed = &kernel.Error{Module: "handoff", Message: "loaded image was not flushed"}
	errIncomplete = &kernel.Error{Module: "handoff", Message: "loader, heap and flusher are required"}
)

// State tracks the progress of a handoff.
type State uint8

// The handoff states. A failed load returns to StateIdle; everything else
// only moves forward.
const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateRunning
	StateReturned
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// JumpFunc transfers control to the code at entry.
type JumpFunc func(entry uintptr, argc int32, argv uintptr)

// HeapConfigurer configures where the application heap begins.
type HeapConfigurer interface {
	SetStart(addr uintptr) *kernel.Error
	Start() uintptr
}

// Handoff owns the single application launch of a boot.
type Handoff struct {
	loader  loader.Loader
	heap    HeapConfigurer
	flusher cache.Flusher

	state   State
	result  loader.Result
	flushed mem.Region

	jump JumpFunc
	w    io.Writer
}

// New returns a Handoff in StateIdle.
func New(l loader.Loader, heap HeapConfigurer, flusher cache.Flusher) *Handoff {
	return &Handoff{
		loader:  l,
		heap:    heap,
		flusher: flusher,
		w:       kfmt.ModuleWriter(nil, "ipl"),
	}
}

// SetJump replaces the function used to enter the application. Hosts without
// a RISC-V core use it to simulate the application.
func (h *Handoff) SetJump(fn JumpFunc) {
	h.jump = fn
}

// State returns the current handoff state.
func (h *Handoff) State() State {
	return h.state
}

// Result returns what the loader reported for the running application.
func (h *Handoff) Result() loader.Result {
	return h.result
}

// RunApplication loads the named image, points the application heap past it,
// flushes the loaded range and calls the entry point with argc = 0 and
// argv = nil. It returns nil once the application returns; nothing it set up
// is torn down.
//
// If the load fails no entry point is invoked, the heap is left alone and
// the handoff returns to StateIdle. Failures are never retried.
func (h *Handoff) RunApplication(name string) *kernel.Error {
	if h.loader == nil || h.heap == nil || h.flusher == nil {
		return errIncomplete
	}

	if h.state != StateIdle {
		return errNotIdle
	}

	h.state = StateLoading
	res, err := h.loader.Load(name)
	if err == nil && (res.MaxAddr < soc.RAMStart || res.Entry < soc.RAMStart || res.Entry >= res.MaxAddr) {
		err = errBadResult
	}
	if err != nil {
		h.state = StateIdle
		return err
	}

	h.state = StateLoaded
	h.result = res
	kfmt.Fprintf(h.w, "Loaded app, entry point is 0x%x, max addr used is 0x%X. Running...\n", res.Entry, res.MaxAddr)

	if err = h.heap.SetStart(res.MaxAddr); err != nil {
		return err
	}

	h.flush(mem.Region{Start: soc.RAMStart, End: res.MaxAddr})

	if err = h.checkPreconditions(); err != nil {
		return err
	}

	kfmt.Fprintf(h.w, "Go!\n")
	jump := h.jump
	if jump == nil {
		jump = jumpFn
	}

	h.state = StateRunning
	jump(res.Entry, 0, 0)
	h.state = StateReturned

	kfmt.Fprintf(h.w, "app returned\n")
	return nil
}

// flush forwards to the flusher and remembers the widest range flushed.
func (h *Handoff) flush(r mem.Region) {
	h.flusher.Flush(r)

	if h.flushed.Size() == 0 {
		h.flushed = r
		return
	}
	if r.Start < h.flushed.Start {
		h.flushed.Start = r.Start
	}
	if r.End > h.flushed.End {
		h.flushed.End = r.End
	}
}

// checkPreconditions verifies the state the application relies on, right
// before control is transferred.
func (h *Handoff) checkPreconditions() *kernel.Error {
	if h.heap.Start() != h.result.MaxAddr {
		return errHeapNotSet
	}

	if !h.flushed.Covers(mem.Region{Start: soc.RAMStart, End: h.result.MaxAddr}) {
		return errNotFlushed
	}

	return nil
}
