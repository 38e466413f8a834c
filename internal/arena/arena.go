// Package arena provisions host-backed byte ranges that stand in for the
// physically non-contiguous board memory regions heap.InitRegions expects.
// It exists for development and testing on a host machine, not for a real
// bare-metal target — a real board bring-up hands heap.InitRegions the
// addresses of actual SRAM/SDRAM regions directly.
package arena

import (
	"fmt"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/latticehq/heapcore/internal/heap"
)

// Arena is a page-aligned, anonymously mmap'd byte range. It is
// deliberately not a plain Go []byte owned by the garbage collector: the
// heap engine stores raw addresses inside block headers that must stay
// valid (and unmoved) for the arena's entire lifetime, which an ordinary Go
// allocation does not promise.
type Arena struct {
	base uintptr
	data []byte
}

// New provisions a new anonymous, read-write mapping of at least size
// bytes.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("arena: size must be positive, got %d", size)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}

	return &Arena{base: uintptr(unsafe.Pointer(&data[0])), data: data}, nil //nolint:govet // base pins the mmap'd range, not GC-managed memory
}

// Start returns the arena's base address.
func (a *Arena) Start() uintptr { return a.base }

// Len returns the arena's length in bytes.
func (a *Arena) Len() uintptr { return uintptr(len(a.data)) }

// Close releases the arena's backing memory via munmap. Calling it while
// the allocator still owns outstanding pointers into the arena is
// undefined, matching the heap package's "host must not touch the arena
// bytes outside payloads it has received from Malloc" contract.
func (a *Arena) Close() error {
	return unix.Munmap(a.data)
}

// Provision allocates one arena per entry in sizes and returns them, along
// with their corresponding heap.Region descriptors sorted into the
// strictly ascending start-address order heap.(*Heap).InitRegions
// requires. Anonymous mmap mappings are not guaranteed by POSIX to land in
// increasing address order, so Provision sorts explicitly rather than
// relying on allocation order.
func Provision(sizes []int) ([]*Arena, []heap.Region, error) {
	arenas := make([]*Arena, 0, len(sizes))

	for _, sz := range sizes {
		a, err := New(sz)
		if err != nil {
			for _, prev := range arenas {
				_ = prev.Close()
			}

			return nil, nil, err
		}

		arenas = append(arenas, a)
	}

	sort.Slice(arenas, func(i, j int) bool { return arenas[i].Start() < arenas[j].Start() })

	regions := make([]heap.Region, len(arenas))
	for i, a := range arenas {
		regions[i] = heap.Region{Start: a.Start(), Len: a.Len()}
	}

	return arenas, regions, nil
}

// CloseAll releases every arena in arenas, returning the first error
// encountered (if any) after attempting to close them all.
func CloseAll(arenas []*Arena) error {
	var first error

	for _, a := range arenas {
		if err := a.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
