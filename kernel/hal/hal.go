// Package hal probes the registered device drivers and keeps track of the
// devices that the boot sequence needs afterwards.
package hal

import (
	"bytes"
	"io/fs"
	"sort"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/device"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/storage"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/usb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/device/video/lcdfb"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	framebuffer *lcdfb.Framebuffer
	transport   usb.Stack
	files       fs.FS

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver
}

var (
	devices managedDevices
	strBuf  bytes.Buffer
)

// ActiveFramebuffer returns the first framebuffer that was initialized.
func ActiveFramebuffer() *lcdfb.Framebuffer {
	return devices.framebuffer
}

// ActiveTransport returns the USB stack or nil if none was initialized.
func ActiveTransport() usb.Stack {
	return devices.transport
}

// ActiveFS returns the mounted filesystem or nil if mounting failed.
func ActiveFS() fs.FS {
	return devices.files
}

// ActiveDrivers returns the drivers that initialized successfully, in probe
// order.
func ActiveDrivers() []device.Driver {
	return devices.activeDrivers
}

// DetectHardware probes for hardware devices and initializes the appropriate
// drivers. Any state from a previous call is discarded.
func DetectHardware() {
	devices = managedDevices{}

	// Get driver list and sort by detection priority; drivers with the
	// same priority keep their registration order.
	drivers := device.DriverList()
	sort.Stable(drivers)

	probe(drivers)
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver. Failures are
// logged and do not stop the sequence.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.ModuleWriter(nil, "hal")

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(w); err != nil {
			kfmt.Fprintf(w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(w, "initialized\n")
		onDriverInit(drv)
		devices.activeDrivers = append(devices.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized.
func onDriverInit(drv device.Driver) {
	switch drvImpl := drv.(type) {
	case *lcdfb.Framebuffer:
		if devices.framebuffer == nil {
			devices.framebuffer = drvImpl
		}
	case *usb.Driver:
		if devices.transport == nil {
			devices.transport = drvImpl.Stack
		}
	case *storage.Filesystem:
		if devices.files == nil {
			devices.files = drvImpl.FS
		}
	}
}
