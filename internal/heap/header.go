package heap

import (
	"math/bits"
	"unsafe"

	"github.com/latticehq/heapcore/internal/heaperrors"
)

// Alignment is the payload/header alignment the engine enforces. The design
// contract requires A to be 4 or 8 bytes.
type Alignment uintptr

const (
	Align4 Alignment = 4
	Align8 Alignment = 8
)

// header is the in-band record placed at the start of every block, free or
// allocated. nextFree is meaningful only while the block is free; it holds
// the address of the next free block in ascending-address order, or the
// tail sentinel's address. size is the total block length including this
// header, with the most significant bit of the word reserved as the
// allocated flag.
type header struct {
	nextFree uintptr
	size     uintptr
}

// wordBits is the bit width of a uintptr on this platform. Go does not
// expose a portable constant for it directly; bits.UintSize matches
// uintptr's width on every platform Go currently targets, since uint and
// uintptr share a representation size there.
const wordBits = bits.UintSize

func validateAlignment(a Alignment) error {
	if a != Align4 && a != Align8 {
		return heaperrors.InvalidAlignment(uintptr(a))
	}

	return nil
}

// headerSize rounds sizeof(header) up to alignment a.
func headerSize(a Alignment) uintptr {
	return alignUp(unsafe.Sizeof(header{}), uintptr(a))
}

// minBlockSize is the smallest effective length any block may have.
func minBlockSize(a Alignment) uintptr {
	return 2 * headerSize(a)
}

// allocatedFlag is the top bit of a uintptr: set iff a block belongs to the
// caller, clear while it is still part of the free heap space.
func allocatedFlag() uintptr {
	return uintptr(1) << (wordBits - 1)
}

func alignUp(x, a uintptr) uintptr {
	mask := a - 1

	return (x + mask) &^ mask
}

func alignDown(x, a uintptr) uintptr {
	return x &^ (a - 1)
}

func headerAt(addr uintptr) *header {
	return (*header)(unsafe.Pointer(addr)) //nolint:govet // off-heap block header, arena-owned
}
