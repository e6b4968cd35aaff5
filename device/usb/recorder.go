package usb

import "github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"

// Recorder is a Stack that performs no I/O and counts the calls made to it.
// It stands in for the real controller on hosts without USB hardware.
type Recorder struct {
	InitErr *kernel.Error

	Inits, Polls, Tasks int
	MassStorageOn       bool

	// Trace, if set, receives 'p' for each Poll and 't' for each Task.
	Trace []byte
	trace bool
}

// NewRecorder returns a Recorder. If trace is true every Poll and Task call
// is appended to Trace.
func NewRecorder(trace bool) *Recorder {
	return &Recorder{trace: trace}
}

// Init implements Stack.
func (r *Recorder) Init() *kernel.Error {
	r.Inits++
	return r.InitErr
}

// Poll implements Stack.
func (r *Recorder) Poll() {
	r.Polls++
	if r.trace {
		r.Trace = append(r.Trace, 'p')
	}
}

// Task implements Stack.
func (r *Recorder) Task() {
	r.Tasks++
	if r.trace {
		r.Trace = append(r.Trace, 't')
	}
}

// SetMassStorage implements MassStorage.
func (r *Recorder) SetMassStorage(on bool) {
	r.MassStorageOn = on
}
