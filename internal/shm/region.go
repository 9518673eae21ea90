package shm

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// WordSize is the size in bytes of one region word.
const WordSize = 4

// Region is a block of shared 32-bit words.
type Region struct {
	name  string
	path  string
	data  []byte
	words []uint32
	unmap func([]byte) error
}

// Name returns the region name.
func (r *Region) Name() string { return r.name }

// Path returns the backing file path, empty for memory regions.
func (r *Region) Path() string { return r.path }

// Len returns the number of words in the region.
func (r *Region) Len() int { return len(r.words) }

// Load atomically reads word i.
func (r *Region) Load(i int) uint32 {
	return atomic.LoadUint32(&r.words[i])
}

// Store atomically writes word i.
func (r *Region) Store(i int, value uint32) {
	atomic.StoreUint32(&r.words[i], value)
}

// CompareAndSwap atomically replaces word i when it still holds old.
func (r *Region) CompareAndSwap(i int, old, value uint32) bool {
	return atomic.CompareAndSwapUint32(&r.words[i], old, value)
}

// Close unmaps the region. The region must not be used afterwards.
func (r *Region) Close() error {
	if r == nil || r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	r.words = nil
	if r.unmap == nil {
		return nil
	}
	if err := r.unmap(data); err != nil {
		return fmt.Errorf("failed to unmap region %s: %w", r.name, err)
	}
	return nil
}

func newRegion(name, path string, data []byte, unmap func([]byte) error) *Region {
	return &Region{
		name:  name,
		path:  path,
		data:  data,
		words: unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/WordSize),
		unmap: unmap,
	}
}
