package device

import (
	"io"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that returns the driver for a particular piece of
// hardware or nil if the hardware is not available.
type ProbeFn func() Driver

// DetectOrder specifies when each driver's probe function will be invoked
// during bring-up.
type DetectOrder int8

const (
	// DetectOrderEarly is used by drivers that other drivers depend on,
	// such as the display.
	DetectOrderEarly DetectOrder = -128

	// DetectOrderTransport is used by host-facing transports (USB).
	DetectOrderTransport DetectOrder = 0

	// DetectOrderStorage is used by the flash chip and the filesystem on
	// top of it.
	DetectOrderStorage DetectOrder = 10

	// DetectOrderLast is used by drivers that should be probed last.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo is a driver-defined struct that is passed to calls to
// RegisterDriver.
type DriverInfo struct {
	// Order specifies at which stage of the bring-up sequence the driver
	// is probed. Drivers with the same order are probed in registration
	// order.
	Order DetectOrder

	// Probe is invoked to obtain the driver instance.
	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers that implements
// sort.Interface.
type DriverInfoList []*DriverInfo

// Len returns the length of the driver info list.
func (l DriverInfoList) Len() int { return len(l) }

// Swap exchanges 2 elements in the driver info list.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Less compares 2 elements of the driver info list.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }

var registeredDrivers DriverInfoList

// RegisterDriver adds the supplied driver info to the list of drivers that
// the hal will probe.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns a copy of the registered driver list.
func DriverList() DriverInfoList {
	list := make(DriverInfoList, len(registeredDrivers))
	copy(list, registeredDrivers)
	return list
}

// ResetDrivers clears the driver registry.
func ResetDrivers() {
	registeredDrivers = nil
}
