//go:build unix

package shm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var _ Factory = (*Files)(nil)

// Files creates and attaches regions backed by files in a directory,
// typically under /dev/shm.
type Files struct {
	dir string
}

// NewFiles returns a file region factory rooted at dir.
func NewFiles(dir string) *Files {
	return &Files{dir: dir}
}

// Dir returns the directory holding the region files.
func (f *Files) Dir() string { return f.dir }

// Create removes any stale region with the same name, then creates, sizes
// and maps a fresh one.
func (f *Files) Create(name string, words int) (*Region, error) {
	if words <= 0 {
		return nil, fmt.Errorf("invalid region size %d for %s", words, name)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create region dir %s: %w", f.dir, err)
	}
	location := filepath.Join(f.dir, name)
	_ = os.Remove(location)
	file, err := os.OpenFile(location, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to create region %s: %w", name, err)
	}
	defer file.Close()
	size := words * WordSize
	if err = file.Truncate(int64(size)); err != nil {
		return nil, fmt.Errorf("failed to size region %s: %w", name, err)
	}
	return mapFile(name, location, file, size)
}

// Attach maps an existing region.
func (f *Files) Attach(name string, words int) (*Region, error) {
	location := filepath.Join(f.dir, name)
	file, err := os.OpenFile(location, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("region %s: %w", name, ErrNotExist)
		}
		return nil, fmt.Errorf("failed to open region %s: %w", name, err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat region %s: %w", name, err)
	}
	size := words * WordSize
	if info.Size() < int64(size) {
		return nil, fmt.Errorf("region %s holds %d bytes, expected %d", name, info.Size(), size)
	}
	return mapFile(name, location, file, size)
}

// Unlink removes the region name. Mapped views stay valid until closed.
func (f *Files) Unlink(name string) error {
	err := os.Remove(filepath.Join(f.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to unlink region %s: %w", name, err)
	}
	return nil
}

func mapFile(name, location string, file *os.File, size int) (*Region, error) {
	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to map region %s: %w", name, err)
	}
	return newRegion(name, location, data, unix.Munmap), nil
}
