// Package loader places application images into RAM.
package loader

import (
	"bytes"
	"debug/elf"
	"io"
	"io/fs"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/kfmt"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
)

var (
	errMissing    = &kernel.Error{Module: "loader", Message: "application image not found"}
	errBadFormat  = &kernel.Error{Module: "loader", Message: "not a loadable 32-bit RISC-V ELF executable"}
	errOutOfRange = &kernel.Error{Module: "loader", Message: "segment outside the application window"}
	errBadEntry   = &kernel.Error{Module: "loader", Message: "entry point not inside an executable segment"}
	errNoRAM      = &kernel.Error{Module: "loader", Message: "could not write segment to RAM"}
)

// Result describes a loaded image.
type Result struct {
	// Entry is the address execution starts at.
	Entry uintptr

	// MaxAddr is the address just past the highest byte written by the
	// load. It is the lowest address the application heap may use.
	MaxAddr uintptr
}

// Loader is implemented by anything that can place a named image in RAM.
type Loader interface {
	Load(name string) (Result, *kernel.Error)
}

// ELF loads statically linked ELF32 RISC-V executables from a filesystem.
// Segments are placed at their virtual addresses; no relocation is done.
type ELF struct {
	files  fs.FS
	ram    mem.RAM
	window mem.Region
	w      io.Writer
}

// NewELF returns a loader reading images from files and writing them into
// ram. Every loadable segment must fit inside window.
func NewELF(files fs.FS, ram mem.RAM, window mem.Region) *ELF {
	return &ELF{
		files:  files,
		ram:    ram,
		window: window,
		w:      kfmt.ModuleWriter(nil, "loader"),
	}
}

// Load implements Loader. The image is validated completely before anything
// is written to RAM, so a failed load leaves memory untouched.
func (l *ELF) Load(name string) (Result, *kernel.Error) {
	if l.files == nil {
		return Result{}, errMissing
	}

	data, err := fs.ReadFile(l.files, name)
	if err != nil {
		return Result{}, errMissing
	}

	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return Result{}, errBadFormat
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Data != elf.ELFDATA2LSB || f.Machine != elf.EM_RISCV || f.Type != elf.ET_EXEC {
		return Result{}, errBadFormat
	}

	segments, res, kerr := l.plan(f)
	if kerr != nil {
		return Result{}, kerr
	}

	for _, p := range segments {
		if kerr = l.copySegment(p); kerr != nil {
			return Result{}, kerr
		}
		kfmt.Fprintf(l.w, "segment 0x%x-0x%x (%d file bytes)\n", uintptr(p.Vaddr), uintptr(p.Vaddr+p.Memsz), p.Filesz)
	}

	return res, nil
}

// plan selects the segments to load and checks them against the window and
// the entry point.
func (l *ELF) plan(f *elf.File) ([]*elf.Prog, Result, *kernel.Error) {
	var (
		segments []*elf.Prog
		res      = Result{Entry: uintptr(f.Entry)}
		entryOK  bool
	)

	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}

		if p.Filesz > p.Memsz {
			return nil, Result{}, errBadFormat
		}

		end := p.Vaddr + p.Memsz
		if p.Vaddr < uint64(l.window.Start) || end > uint64(l.window.End) {
			return nil, Result{}, errOutOfRange
		}

		if p.Flags&elf.PF_X != 0 && f.Entry >= p.Vaddr && f.Entry < end {
			entryOK = true
		}

		if uintptr(end) > res.MaxAddr {
			res.MaxAddr = uintptr(end)
		}
		segments = append(segments, p)
	}

	if !entryOK {
		return nil, Result{}, errBadEntry
	}

	return segments, res, nil
}

// copySegment writes the file-backed part of p followed by zeroes up to its
// memory size.
func (l *ELF) copySegment(p *elf.Prog) *kernel.Error {
	buf := make([]byte, p.Memsz)
	if _, err := io.ReadFull(p.Open(), buf[:p.Filesz]); err != nil {
		return errBadFormat
	}

	if _, err := l.ram.WriteAt(buf, int64(p.Vaddr)); err != nil {
		return errNoRAM
	}

	return nil
}
