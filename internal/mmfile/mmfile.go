// Package mmfile provides read-only views of index files: a memory mapping
// where the platform supports it, a plain read elsewhere.
package mmfile

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// File is an opened index file. Data stays valid until Close.
type File struct {
	Data    []byte
	ModTime time.Time

	mapped    bool
	closeOnce sync.Once
	closeErr  error
}

// Open maps the file at path. A zero-length file yields empty Data.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // the mapping keeps the pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &File{Data: []byte{}, ModTime: info.ModTime()}, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmfile: %s: %w", path, err)
	}
	return &File{Data: data, ModTime: info.ModTime(), mapped: mapped}, nil
}

// Mapped reports whether Data is backed by a memory mapping.
func (f *File) Mapped() bool { return f.mapped }

// Close releases the mapping. It is safe to call more than once.
func (f *File) Close() error {
	f.closeOnce.Do(func() {
		if f.mapped {
			f.closeErr = unmap(f.Data)
		}
		f.Data = nil
	})
	return f.closeErr
}
