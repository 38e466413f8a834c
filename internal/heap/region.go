package heap

import "github.com/latticehq/heapcore/internal/heaperrors"

// InitRegions seeds the free list from regions, which must be supplied in
// strictly ascending Start order. For each region: start is rounded up to
// alignment, length is shrunk by the bytes lost to that rounding, a tail
// sentinel is reserved at the high end, and the remaining usable extent
// becomes a single free block. The first region's block becomes the head
// of the free list; each subsequent region is stitched onto the previous
// region's tail sentinel, which becomes an ordinary (harmless, zero-size)
// internal node once superseded. The last region's tail sentinel becomes
// the new end.
//
// InitRegions may be called at most once per Heap; a second call returns
// ErrAlreadyInitialized without mutating any state.
func (h *Heap) InitRegions(regions []Region) error {
	if h.initialized {
		return heaperrors.ErrAlreadyInitialized
	}

	a := uintptr(h.cfg.Alignment)

	var (
		prevTail      uintptr
		prevRawStart  uintptr
		totalHeapSize uintptr
		haveFirst     bool
	)

	for _, r := range regions {
		if r.Len == 0 {
			continue
		}

		if haveFirst && r.Start <= prevRawStart {
			return heaperrors.ErrMisorderedRegions
		}

		start := alignUp(r.Start, a)
		lost := start - r.Start

		if lost > r.Len {
			return heaperrors.ErrRegionTooSmall
		}

		length := r.Len - lost
		if length < h.headerSz+h.minBlockSz {
			return heaperrors.ErrRegionTooSmall
		}

		tailAddr := alignDown(start+length-h.headerSz, a)
		if tailAddr <= start {
			return heaperrors.ErrRegionTooSmall
		}

		block := headerAt(start)
		block.size = tailAddr - start
		block.nextFree = tailAddr

		tail := headerAt(tailAddr)
		tail.size = 0
		tail.nextFree = 0

		if !haveFirst {
			h.start.nextFree = start
		} else {
			headerAt(prevTail).nextFree = start
		}

		h.end = tailAddr

		h.freeBytesRemaining += block.size
		h.freeBlockCount++
		totalHeapSize += block.size

		prevTail = tailAddr
		prevRawStart = r.Start
		haveFirst = true
	}

	if !haveFirst || totalHeapSize == 0 {
		return heaperrors.ErrNoRegions
	}

	h.minEverFreeBytesRemaining = h.freeBytesRemaining
	h.initialized = true

	return nil
}
