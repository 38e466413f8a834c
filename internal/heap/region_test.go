package heap

import (
	"testing"
	"unsafe"
)

func TestInitRegionsSeedsSingleRegion(t *testing.T) {
	h, _ := newTestHeap(t, []int{16 * 1024})

	if h.FreeBlockCount() != 1 {
		t.Fatalf("FreeBlockCount = %d, want 1", h.FreeBlockCount())
	}

	if h.FreeHeapSize() == 0 {
		t.Fatalf("FreeHeapSize = 0, want > 0")
	}

	if h.MinEverFreeHeapSize() != h.FreeHeapSize() {
		t.Fatalf("MinEverFreeHeapSize = %d, want %d", h.MinEverFreeHeapSize(), h.FreeHeapSize())
	}
}

func TestInitRegionsIdempotent(t *testing.T) {
	h, b := newTestHeap(t, []int{16 * 1024})

	before := h.FreeHeapSize()

	extra := b.newRegion(4096)
	if err := h.InitRegions([]Region{extra}); err == nil {
		t.Fatal("second InitRegions succeeded, want ErrAlreadyInitialized")
	}

	if h.FreeHeapSize() != before {
		t.Fatalf("state mutated by rejected re-init: FreeHeapSize = %d, want %d", h.FreeHeapSize(), before)
	}
}

func TestInitRegionsRejectsEmpty(t *testing.T) {
	h, err := New(WithHost(noopHost{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := h.InitRegions(nil); err == nil {
		t.Fatal("InitRegions(nil) succeeded, want error")
	}
}

func TestInitRegionsRejectsMisorderedRegions(t *testing.T) {
	h, err := New(WithHost(noopHost{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	buf := make([]byte, 16384)
	base := uintptr(unsafe.Pointer(&buf[0])) //nolint:govet // buf stays alive for the rest of this test

	regions := []Region{
		{Start: base + 8192, Len: 8192},
		{Start: base, Len: 8192},
	}

	if err := h.InitRegions(regions); err == nil {
		t.Fatal("InitRegions with descending starts succeeded, want ErrMisorderedRegions")
	}
}

func TestInitRegionsMultipleRegionsStitchFreeList(t *testing.T) {
	h, _ := newTestHeap(t, []int{4096, 8192})

	if h.FreeBlockCount() != 2 {
		t.Fatalf("FreeBlockCount = %d, want 2", h.FreeBlockCount())
	}
}
