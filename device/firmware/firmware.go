// Package firmware adapts the C libraries linked into the IPL image (the
// flash driver, the TinyUSB stack and the FAT filesystem) to the interfaces
// used by the rest of the IPL.
//
// The adapters call through plain function fields. The tinygo build binds
// them to the C symbols; host tools and tests can bind them to fakes.
package firmware

import (
	"io"
	"io/fs"
	"sort"
	"time"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel"
)

// FlashSelInt selects the internal flash chip.
const FlashSelInt int32 = 0

var errUnbound = &kernel.Error{Module: "firmware", Message: "collaborator not bound"}

// Flash reads the identifier of a flash chip through the C flash driver.
type Flash struct {
	Select int32
	GetID  func(sel int32) int32
}

// ID implements storage.Chip.
func (f *Flash) ID() uint32 {
	if f.GetID == nil {
		return 0
	}
	return uint32(f.GetID(f.Select))
}

// USB drives the TinyUSB device stack.
type USB struct {
	InitFn  func()
	PollFn  func()
	TaskFn  func()
	MSCOnFn func()
}

// Init implements usb.Stack.
func (u *USB) Init() *kernel.Error {
	if u.InitFn == nil {
		return errUnbound
	}
	u.InitFn()
	return nil
}

// Poll implements usb.Stack.
func (u *USB) Poll() {
	if u.PollFn != nil {
		u.PollFn()
	}
}

// Task implements usb.Stack.
func (u *USB) Task() {
	if u.TaskFn != nil {
		u.TaskFn()
	}
}

// SetMassStorage implements usb.MassStorage. The C stack cannot leave mass
// storage mode once entered so only on is honoured.
func (u *USB) SetMassStorage(on bool) {
	if on && u.MSCOnFn != nil {
		u.MSCOnFn()
	}
}

// Entry describes a file in the root directory.
type Entry struct {
	Name string
	Size int64
}

// Files is a read-only fs.FS backed by the C filesystem. Only the root
// directory is listable; files are read whole on Open.
type Files struct {
	// Mount is called once before the first access.
	Mount func()

	// ReadFile returns the contents of the named root-relative file.
	ReadFile func(name string) ([]byte, error)

	// List returns the regular files in the root directory.
	List func() ([]Entry, error)

	mounted bool
}

func (f *Files) mount() {
	if !f.mounted && f.Mount != nil {
		f.Mount()
	}
	f.mounted = true
}

// Open implements fs.FS.
func (f *Files) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		entries, err := f.ReadDir(name)
		if err != nil {
			return nil, err
		}
		return &dirFile{info: fileInfo{name: ".", dir: true}, entries: entries}, nil
	}

	f.mount()
	if f.ReadFile == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	data, err := f.ReadFile(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return &file{info: fileInfo{name: name, size: int64(len(data))}, data: data}, nil
}

// ReadDir implements fs.ReadDirFS.
func (f *Files) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	f.mount()
	if f.List == nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errUnbound}
	}

	list, err := f.List()
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}

	entries := make([]fs.DirEntry, 0, len(list))
	for _, e := range list {
		entries = append(entries, fs.FileInfoToDirEntry(fileInfo{name: e.Name, size: e.Size}))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type fileInfo struct {
	name string
	size int64
	dir  bool
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.dir }
func (fi fileInfo) Sys() interface{}   { return nil }

func (fi fileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0555
	}
	return 0444
}

type file struct {
	info fileInfo
	data []byte
	off  int
}

func (f *file) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *file) Close() error               { return nil }

func (f *file) Read(p []byte) (int, error) {
	if f.off >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += n
	return n, nil
}

type dirFile struct {
	info    fileInfo
	entries []fs.DirEntry
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *dirFile) Close() error               { return nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

// ReadDir implements fs.ReadDirFile.
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if n <= 0 {
		entries := d.entries
		d.entries = nil
		return entries, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(d.entries) {
		n = len(d.entries)
	}
	entries := d.entries[:n]
	d.entries = d.entries[n:]
	return entries, nil
}
