package loader

import (
	"bytes"
	"debug/elf"
	"testing"
	"testing/fstest"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/loader/elftest"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = uint32(soc.RAMStart)

func newLoader(files fstest.MapFS) (*ELF, *mmio.Sim, *bytes.Buffer) {
	var buf bytes.Buffer
	sim := mmio.NewSim(soc.RAMStart, soc.RAMSize)
	l := NewELF(files, sim, soc.AppWindow())
	l.w = &buf
	return l, sim, &buf
}

func image(img elftest.Image) *fstest.MapFile {
	return &fstest.MapFile{Data: img.Bytes()}
}

func TestLoad(t *testing.T) {
	code := []byte{0x13, 0x00, 0x00, 0x00, 0x67, 0x80, 0x00, 0x00}
	data := []byte{1, 2, 3, 4}

	l, sim, logBuf := newLoader(fstest.MapFS{
		"autoexec.elf": image(elftest.Exec(base,
			elftest.Text(base, code),
			elftest.Data(base+0x1000, data, 0x100),
			elftest.Segment{Type: elf.PT_NOTE, Vaddr: 0x10, Data: []byte{9, 9}},
		)),
	})

	// Dirty the bss area to check it gets cleared.
	for i := range sim.Bytes(soc.AppWindow())[0x1000 : 0x1000+0x100] {
		sim.Bytes(soc.AppWindow())[0x1000+i] = 0xaa
	}

	res, err := l.Load("autoexec.elf")
	require.Nil(t, err)

	assert.Equal(t, soc.RAMStart, res.Entry)
	assert.Equal(t, soc.RAMStart+0x1100, res.MaxAddr)

	ram := sim.Bytes(soc.AppWindow())
	assert.Equal(t, code, ram[:len(code)])
	assert.Equal(t, data, ram[0x1000:0x1004])
	assert.Equal(t, make([]byte, 0x100-len(data)), ram[0x1004:0x1100])

	assert.Contains(t, logBuf.String(), "segment 0x40000000-0x40000008 (8 file bytes)\n")
	assert.Contains(t, logBuf.String(), "segment 0x40001000-0x40001100 (4 file bytes)\n")
}

func TestLoadErrors(t *testing.T) {
	window := soc.AppWindow()
	code := []byte{0x67, 0x80, 0x00, 0x00}

	notRISCV := elftest.Exec(base, elftest.Text(base, code))
	notRISCV.Machine = elf.EM_ARM

	notExec := elftest.Exec(base, elftest.Text(base, code))
	notExec.Type = elf.ET_DYN

	specs := []struct {
		descr  string
		files  fstest.MapFS
		expErr *kernel.Error
	}{
		{"missing image", fstest.MapFS{}, errMissing},
		{"garbage", fstest.MapFS{"autoexec.elf": &fstest.MapFile{Data: []byte("hello world")}}, errBadFormat},
		{"wrong machine", fstest.MapFS{"autoexec.elf": image(notRISCV)}, errBadFormat},
		{"wrong type", fstest.MapFS{"autoexec.elf": image(notExec)}, errBadFormat},
		{
			"filesz exceeds memsz",
			fstest.MapFS{"autoexec.elf": image(elftest.Exec(base, elftest.Segment{
				Type: elf.PT_LOAD, Flags: elf.PF_X, Vaddr: base, Data: code, Memsz: 2,
			}))},
			errBadFormat,
		},
		{
			"segment below RAM",
			fstest.MapFS{"autoexec.elf": image(elftest.Exec(0x1000, elftest.Text(0x1000, code)))},
			errOutOfRange,
		},
		{
			"segment overlapping the IPL",
			fstest.MapFS{"autoexec.elf": image(elftest.Exec(base, elftest.Text(base, code), elftest.Data(uint32(window.End)-4, nil, 8)))},
			errOutOfRange,
		},
		{
			"entry outside all segments",
			fstest.MapFS{"autoexec.elf": image(elftest.Exec(base+0x100, elftest.Text(base, code)))},
			errBadEntry,
		},
		{
			"entry in data segment",
			fstest.MapFS{"autoexec.elf": image(elftest.Exec(base, elftest.Data(base, code, 0)))},
			errBadEntry,
		},
		{
			"no loadable segments",
			fstest.MapFS{"autoexec.elf": image(elftest.Exec(base))},
			errBadEntry,
		},
	}

	for specIndex, spec := range specs {
		l, sim, _ := newLoader(spec.files)

		res, err := l.Load("autoexec.elf")
		if err != spec.expErr {
			t.Errorf("[spec %d] %s: expected error %v; got %v", specIndex, spec.descr, spec.expErr, err)
		}
		if res != (Result{}) {
			t.Errorf("[spec %d] %s: expected empty result; got %+v", specIndex, spec.descr, res)
		}
		if !bytes.Equal(sim.Bytes(window)[:len(code)], make([]byte, len(code))) {
			t.Errorf("[spec %d] %s: expected RAM to stay untouched", specIndex, spec.descr)
		}
	}
}

func TestLoadWithoutFS(t *testing.T) {
	l := NewELF(nil, nil, soc.AppWindow())

	_, err := l.Load("autoexec.elf")
	assert.Equal(t, errMissing, err)
}
