package storage

import (
	"bytes"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/stretchr/testify/assert"
)

type brokenFS struct{}

func (brokenFS) Open(string) (fs.File, error) { return nil, fs.ErrPermission }

func TestFlashDriverInit(t *testing.T) {
	specs := []struct {
		chip   Chip
		expErr *kernel.Error
		expLog string
	}{
		{nil, errNoFlash, ""},
		{FixedChip(0xc84016), nil, "flashid: c84016\n"},
		{FixedChip(0), nil, "flashid: 0\n"},
	}

	for specIndex, spec := range specs {
		var buf bytes.Buffer
		drv := &Flash{Chip: spec.chip}

		if err := drv.DriverInit(&buf); err != spec.expErr {
			t.Errorf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
		}
		if got := buf.String(); got != spec.expLog {
			t.Errorf("[spec %d] expected log %q; got %q", specIndex, spec.expLog, got)
		}
	}
}

func TestFilesystemDriverInit(t *testing.T) {
	specs := []struct {
		fsys       fs.FS
		expErr     *kernel.Error
		expMounted bool
		expLog     string
	}{
		{nil, errNoFS, false, ""},
		{brokenFS{}, errMountFailed, false, ""},
		{fstest.MapFS{}, nil, true, "mounted, 0 entries in root\n"},
		{
			fstest.MapFS{
				"autoexec.elf": &fstest.MapFile{Data: []byte{0x7f}},
				"readme.txt":   &fstest.MapFile{},
			},
			nil, true, "mounted, 2 entries in root\n",
		},
	}

	for specIndex, spec := range specs {
		var buf bytes.Buffer
		drv := &Filesystem{FS: spec.fsys}

		if err := drv.DriverInit(&buf); err != spec.expErr {
			t.Errorf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
		}
		if drv.Mounted() != spec.expMounted {
			t.Errorf("[spec %d] expected Mounted() to return %t", specIndex, spec.expMounted)
		}
		if got := buf.String(); got != spec.expLog {
			t.Errorf("[spec %d] expected log %q; got %q", specIndex, spec.expLog, got)
		}
	}
}

func TestDriverMetadata(t *testing.T) {
	assert.Equal(t, "flash", (&Flash{}).DriverName())
	assert.Equal(t, "fs", (&Filesystem{}).DriverName())

	major, minor, patch := (&Flash{}).DriverVersion()
	assert.Equal(t, [3]uint16{0, 1, 0}, [3]uint16{major, minor, patch})
	major, minor, patch = (&Filesystem{}).DriverVersion()
	assert.Equal(t, [3]uint16{0, 1, 0}, [3]uint16{major, minor, patch})
}
