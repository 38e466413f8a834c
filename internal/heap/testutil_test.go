package heap

import "unsafe"

// backing pins a byte slice for the lifetime of a test so addresses taken
// into it remain valid; Go's current runtime does not move heap
// allocations once they have escaped, which is what every unsafe.Pointer
// address computation in this package (and its tests) relies on.
type backing struct {
	bufs [][]byte
}

func (b *backing) newRegion(size int) Region {
	buf := make([]byte, size)
	b.bufs = append(b.bufs, buf)

	return Region{Start: uintptr(unsafe.Pointer(&buf[0])), Len: uintptr(size)} //nolint:govet // pinned via b.bufs for the test's lifetime
}

func newTestHeap(t interface{ Fatalf(string, ...any) }, sizes []int, opts ...Option) (*Heap, *backing) {
	b := &backing{}

	regions := make([]Region, len(sizes))
	for i, sz := range sizes {
		regions[i] = b.newRegion(sz)
	}

	allOpts := append([]Option{WithHost(noopHost{})}, opts...)

	h, err := New(allOpts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := h.InitRegions(regions); err != nil {
		t.Fatalf("InitRegions: %v", err)
	}

	return h, b
}

type noopHost struct{}

func (noopHost) Suspend() {}
func (noopHost) Resume()  {}
