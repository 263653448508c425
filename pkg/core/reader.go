package core

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is a core container opened from disk. Blocks alias Data, so they must
// not be used after Close.
type File struct {
	*Container
	Data    []byte
	mmapped bool
}

// Open maps a core file read-only and parses it. If mmap is unavailable it
// falls back to ReadAt-based loading. The returned file must be closed to
// release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %s is too large to map", ErrMalformedContainer, path)
	}
	size := int(size64)
	if size == 0 {
		return parseFileData([]byte{}, false)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		cf, parseErr := parseFileData(data, true)
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		return cf, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false)
}

// ReadFile loads a core file fully into memory and parses it. The result
// does not need to be closed.
func ReadFile(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parseFileData(data []byte, mmapped bool) (*File, error) {
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &File{Container: c, Data: data, mmapped: mmapped}, nil
}

// Close releases the mapping, if any.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.Container = nil
	f.mmapped = false
	return err
}
