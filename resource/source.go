package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joshuapare/resindex/internal/mmfile"
	"github.com/joshuapare/resindex/pkg/types"
)

// Source reads index bytes. data must stay valid until release is called.
// Stat reports the modification time ReadIndex would return for path
// without reading it.
type Source interface {
	ReadIndex(path string) (data []byte, modTime time.Time, release func() error, err error)
	Stat(path string) (modTime time.Time, err error)
}

// MappedFile maps index files read-only.
type MappedFile struct{}

func (MappedFile) ReadIndex(path string) ([]byte, time.Time, func() error, error) {
	f, err := mmfile.Open(path)
	if err != nil {
		return nil, time.Time{}, nil, wrapOpen(path, err)
	}
	return f.Data, f.ModTime, f.Close, nil
}

func (MappedFile) Stat(path string) (time.Time, error) { return statFile(path) }

// ReadFile reads index files into memory.
type ReadFile struct{}

func (ReadFile) Stat(path string) (time.Time, error) { return statFile(path) }

func (ReadFile) ReadIndex(path string) ([]byte, time.Time, func() error, error) {
	modTime, err := statFile(path)
	if err != nil {
		return nil, time.Time{}, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, nil, wrapOpen(path, err)
	}
	return data, modTime, func() error { return nil }, nil
}

func statFile(path string) (time.Time, error) {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, wrapOpen(path, err)
	}
	return st.ModTime(), nil
}

func wrapOpen(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("open %s: %w: %w", path, types.ErrNotFound, err)
	}
	return fmt.Errorf("open %s: %w", path, err)
}

// resourceRoot strips the module directory and file name from an index
// path: "/data/app/entry/resources.index" -> "/data/app/".
func resourceRoot(indexPath string) (string, error) {
	i := strings.LastIndexAny(indexPath, `/\`)
	if i < 0 {
		return "", fmt.Errorf("index path %q: %w", indexPath, types.ErrPathInvalid)
	}
	j := strings.LastIndexAny(indexPath[:i], `/\`)
	if j < 0 {
		return "", fmt.Errorf("index path %q: %w", indexPath, types.ErrPathInvalid)
	}
	return indexPath[:j+1], nil
}
