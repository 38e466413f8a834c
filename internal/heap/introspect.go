package heap

import (
	"fmt"
	"strings"
)

// Printer is the caller-supplied variadic text sink PrintFreeListLayout
// writes through. The allocator does not embed any particular I/O
// mechanism — a board's UART driver, a logger, or the diagnostics
// transport in internal/diag can all satisfy it.
type Printer interface {
	Printf(format string, args ...any)
}

// FreeHeapSize returns the number of bytes currently available for
// allocation, summed across every free block.
func (h *Heap) FreeHeapSize() uintptr {
	return h.freeBytesRemaining
}

// MinEverFreeHeapSize returns the lowest value FreeHeapSize has ever
// reported since Init. It is monotonically non-increasing.
func (h *Heap) MinEverFreeHeapSize() uintptr {
	return h.minEverFreeBytesRemaining
}

// FreeBlockCount returns the number of free blocks in the list, excluding
// the start and end sentinels.
func (h *Heap) FreeBlockCount() uintptr {
	return h.freeBlockCount
}

// PrintFreeListLayout walks the free list and emits a single-line
// diagnostic record, {"xMemFreeListLayout":[s1,s2,...,sN,totalFree],"num":N},
// via p. This is a diagnostic only; it is not part of the allocator's
// correctness contract and never mutates allocator state.
func (h *Heap) PrintFreeListLayout(p Printer) {
	if p == nil || !h.initialized {
		return
	}

	var sb strings.Builder

	sb.WriteString(`{"xMemFreeListLayout":[`)

	var total uintptr

	var num int

	for addr := h.start.nextFree; addr != h.end; {
		b := headerAt(addr)
		if b.size > 0 {
			fmt.Fprintf(&sb, "%d,", b.size)

			total += b.size
			num++
		}

		addr = b.nextFree
	}

	fmt.Fprintf(&sb, "%d],\"num\":%d}", total, num)
	p.Printf("%s", sb.String())
}
