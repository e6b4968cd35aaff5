package storage

import (
	"io"
	"io/fs"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
)

var errMountFailed = &kernel.Error{Module: "fs", Message: "could not read root directory"}

// Filesystem mounts the filesystem holding application images.
type Filesystem struct {
	FS fs.FS

	mounted bool
}

// Mounted returns true if DriverInit succeeded.
func (drv *Filesystem) Mounted() bool {
	return drv.mounted
}

// DriverName returns the name of this driver.
func (drv *Filesystem) DriverName() string {
	return "fs"
}

// DriverVersion returns the version of this driver.
func (drv *Filesystem) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit checks that the root directory can be listed and logs its size.
func (drv *Filesystem) DriverInit(w io.Writer) *kernel.Error {
	if drv.FS == nil {
		return errNoFS
	}

	entries, err := fs.ReadDir(drv.FS, ".")
	if err != nil {
		return errMountFailed
	}

	drv.mounted = true
	kfmt.Fprintf(w, "mounted, %d entries in root\n", len(entries))
	return nil
}
