// Package elftest builds minimal ELF32 RISC-V executables for tests and the
// host simulator.
package elftest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

const (
	headerSize = 52
	progSize   = 32
)

// Segment describes a program header and its file contents.
type Segment struct {
	Type  elf.ProgType
	Flags elf.ProgFlag
	Vaddr uint32
	Data  []byte

	// Memsz defaults to len(Data) when zero.
	Memsz uint32
}

// Image describes an executable to build.
type Image struct {
	Class    elf.Class
	Machine  elf.Machine
	Type     elf.Type
	Entry    uint32
	Segments []Segment
}

// Exec returns an Image for a RISC-V executable with the given entry point
// and segments.
func Exec(entry uint32, segments ...Segment) Image {
	return Image{
		Class:    elf.ELFCLASS32,
		Machine:  elf.EM_RISCV,
		Type:     elf.ET_EXEC,
		Entry:    entry,
		Segments: segments,
	}
}

// Text returns a loadable read-execute segment.
func Text(vaddr uint32, data []byte) Segment {
	return Segment{Type: elf.PT_LOAD, Flags: elf.PF_R | elf.PF_X, Vaddr: vaddr, Data: data}
}

// Data returns a loadable read-write segment of memsz bytes whose first
// len(data) bytes come from the file.
func Data(vaddr uint32, data []byte, memsz uint32) Segment {
	return Segment{Type: elf.PT_LOAD, Flags: elf.PF_R | elf.PF_W, Vaddr: vaddr, Data: data, Memsz: memsz}
}

// Bytes encodes the image. Section headers are omitted.
func (img Image) Bytes() []byte {
	var buf bytes.Buffer

	hdr := elf.Header32{
		Type:      uint16(img.Type),
		Machine:   uint16(img.Machine),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     img.Entry,
		Ehsize:    headerSize,
		Phentsize: progSize,
		Phnum:     uint16(len(img.Segments)),
	}
	if len(img.Segments) != 0 {
		hdr.Phoff = headerSize
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(img.Class)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	binary.Write(&buf, binary.LittleEndian, &hdr)

	off := uint32(headerSize + progSize*len(img.Segments))
	for _, s := range img.Segments {
		memsz := s.Memsz
		if memsz == 0 {
			memsz = uint32(len(s.Data))
		}

		binary.Write(&buf, binary.LittleEndian, &elf.Prog32{
			Type:   uint32(s.Type),
			Off:    off,
			Vaddr:  s.Vaddr,
			Paddr:  s.Vaddr,
			Filesz: uint32(len(s.Data)),
			Memsz:  memsz,
			Flags:  uint32(s.Flags),
			Align:  4,
		})
		off += uint32(len(s.Data))
	}

	for _, s := range img.Segments {
		buf.Write(s.Data)
	}

	return buf.Bytes()
}
