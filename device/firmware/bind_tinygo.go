//go:build tinygo && riscv

package firmware

import (
	"unsafe"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
)

// FatFs result codes and modes used below.
const (
	frOK   = 0
	faRead = 0x01

	readChunk = 512
)

// Opaque storage for the FatFs FIL, DIR and FILINFO structures, sized for the
// IPL's ffconf.h (long file names, 255 characters, no exFAT).
type (
	ffFile     [160]uint32
	ffDir      [32]uint32
	ffFileInfo [72]uint32
)

// FILINFO field offsets.
const (
	fsizeOffset   = 0
	fattribOffset = 8
	fnameOffset   = 22

	amDir = 0x10
)

var errFatFs = &kernel.Error{Module: "firmware", Message: "filesystem call failed"}

//export flash_get_id
func flashGetID(sel int32) int32

//export tusb_init
func tusbInit() bool

//export usb_poll
func usbPoll()

//export tud_task
func tudTask()

//export usb_msc_on
func usbMSCOn()

//export fs_init
func fsInit()

//export f_open
func fOpen(fp *ffFile, path *byte, mode uint8) int32

//export f_read
func fRead(fp *ffFile, buf unsafe.Pointer, btr uint32, br *uint32) int32

//export f_close
func fClose(fp *ffFile) int32

//export f_opendir
func fOpendir(dp *ffDir, path *byte) int32

//export f_readdir
func fReaddir(dp *ffDir, fno *ffFileInfo) int32

//export f_closedir
func fClosedir(dp *ffDir) int32

// cString returns s as a NUL-terminated byte slice.
func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// IntFlash returns the internal flash chip.
func IntFlash() *Flash {
	return &Flash{Select: FlashSelInt, GetID: flashGetID}
}

// TinyUSB returns the TinyUSB device stack.
func TinyUSB() *USB {
	return &USB{
		InitFn:  func() { tusbInit() },
		PollFn:  usbPoll,
		TaskFn:  tudTask,
		MSCOnFn: usbMSCOn,
	}
}

// FatFS returns the FAT filesystem mounted by fs_init.
func FatFS() *Files {
	return &Files{
		Mount:    fsInit,
		ReadFile: fatReadFile,
		List:     fatList,
	}
}

func fatReadFile(name string) ([]byte, error) {
	var fp ffFile
	path := cString("/" + name)
	if fOpen(&fp, &path[0], faRead) != frOK {
		return nil, errFatFs
	}
	defer fClose(&fp)

	var (
		data  []byte
		chunk [readChunk]byte
	)
	for {
		var br uint32
		if fRead(&fp, unsafe.Pointer(&chunk[0]), readChunk, &br) != frOK {
			return nil, errFatFs
		}
		data = append(data, chunk[:br]...)
		if br < readChunk {
			return data, nil
		}
	}
}

func fatList() ([]Entry, error) {
	var dp ffDir
	path := cString("/")
	if fOpendir(&dp, &path[0]) != frOK {
		return nil, errFatFs
	}
	defer fClosedir(&dp)

	var list []Entry
	for {
		var fno ffFileInfo
		if fReaddir(&dp, &fno) != frOK {
			return nil, errFatFs
		}

		base := unsafe.Pointer(&fno)
		raw := (*[unsafe.Sizeof(fno) - fnameOffset]byte)(unsafe.Add(base, fnameOffset))
		n := 0
		for n < len(raw) && raw[n] != 0 {
			n++
		}
		if n == 0 {
			return list, nil
		}
		if *(*uint8)(unsafe.Add(base, fattribOffset))&amDir != 0 {
			continue
		}

		list = append(list, Entry{
			Name: string(raw[:n]),
			Size: int64(*(*uint32)(unsafe.Add(base, fsizeOffset))),
		})
	}
}
