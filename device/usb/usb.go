// Package usb defines the host-facing USB transport used by the IPL.
package usb

import (
	"io"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
)

var errNoStack = &kernel.Error{Module: "usb", Message: "no USB stack attached"}

// Stack is implemented by USB device stacks. Init is called once during
// bring-up; Poll services the hardware and Task runs the protocol state
// machine. Neither Poll nor Task may block.
type Stack interface {
	Init() *kernel.Error
	Poll()
	Task()
}

// MassStorage is implemented by stacks that can expose the on-board storage
// to the host as a mass storage device.
type MassStorage interface {
	SetMassStorage(on bool)
}

// Driver brings up a Stack as part of the hardware probe sequence.
type Driver struct {
	Stack Stack
}

// DriverName returns the name of this driver.
func (drv *Driver) DriverName() string {
	return "usb"
}

// DriverVersion returns the version of this driver.
func (drv *Driver) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes the attached stack.
func (drv *Driver) DriverInit(w io.Writer) *kernel.Error {
	if drv.Stack == nil {
		return errNoStack
	}

	if err := drv.Stack.Init(); err != nil {
		return err
	}

	kfmt.Fprintf(w, "USB inited.\n")
	return nil
}

// EnableMassStorage switches mass storage mode on if s supports it and
// reports whether it did.
func EnableMassStorage(s Stack) bool {
	msc, ok := s.(MassStorage)
	if !ok {
		return false
	}

	msc.SetMassStorage(true)
	return true
}
