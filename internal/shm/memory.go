package shm

import (
	"fmt"
	"sync"
	"unsafe"
)

// Memory keeps named heap regions so that goroutine workers can attach by
// name the same way process workers attach files.
type Memory struct {
	mux     sync.Mutex
	regions map[string][]uint32
}

// NewMemory creates an empty in-process region registry.
func NewMemory() *Memory {
	return &Memory{regions: map[string][]uint32{}}
}

// Create allocates (or replaces) the named region with words zeroed words.
func (m *Memory) Create(name string, words int) (*Region, error) {
	if words <= 0 {
		return nil, fmt.Errorf("invalid region size %d for %s", words, name)
	}
	backing := make([]uint32, words)
	m.mux.Lock()
	m.regions[name] = backing
	m.mux.Unlock()
	return memoryRegion(name, backing), nil
}

// Attach returns a view of an existing named region.
func (m *Memory) Attach(name string, words int) (*Region, error) {
	m.mux.Lock()
	backing, ok := m.regions[name]
	m.mux.Unlock()
	if !ok {
		return nil, fmt.Errorf("region %s: %w", name, ErrNotExist)
	}
	if len(backing) < words {
		return nil, fmt.Errorf("region %s holds %d words, expected %d", name, len(backing), words)
	}
	return memoryRegion(name, backing), nil
}

// Unlink forgets the named region; existing views stay valid.
func (m *Memory) Unlink(name string) error {
	m.mux.Lock()
	delete(m.regions, name)
	m.mux.Unlock()
	return nil
}

func memoryRegion(name string, backing []uint32) *Region {
	data := unsafe.Slice((*byte)(unsafe.Pointer(&backing[0])), len(backing)*WordSize)
	return newRegion(name, "", data, nil)
}
