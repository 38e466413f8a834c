package heap

import "unsafe"

// Malloc allocates n bytes from the heap and returns a pointer to the
// payload, or nil if the request cannot be satisfied. Zero-sized requests
// and requests whose size has the allocated flag's bit set are rejected
// immediately, without invoking the failure callback; so are requests on an
// uninitialised heap. An out-of-memory nil result invokes the registered
// failure callback (if any) with the original requested size, after the
// critical section (if one was entered) has been released.
func (h *Heap) Malloc(n uintptr) unsafe.Pointer {
	if n == 0 || n&h.allocFlag != 0 {
		return nil
	}

	if !h.initialized {
		return nil
	}

	want := alignUp(n+h.headerSz, uintptr(h.cfg.Alignment))

	if want > h.freeBytesRemaining {
		h.onFailure(n)

		return nil
	}

	cs := enterCritical(h.cfg.Host)

	prevAddr := h.startAddr()
	curAddr := h.start.nextFree

	for curAddr != h.end && headerAt(curAddr).size < want {
		prevAddr = curAddr
		curAddr = headerAt(curAddr).nextFree
	}

	if curAddr == h.end {
		cs.leave()
		h.onFailure(n)

		return nil
	}

	winPrev, win := prevAddr, curAddr

	if h.cfg.BestFit {
		h.refineBestFit(&winPrev, &win, want)
	}

	winBlock := headerAt(win)
	headerAt(winPrev).nextFree = winBlock.nextFree
	h.freeBlockCount--

	if winBlock.size-want > h.minBlockSz {
		newAddr := win + want
		newBlock := headerAt(newAddr)
		newBlock.size = winBlock.size - want
		winBlock.size = want
		h.insertFree(newAddr)
	}

	h.freeBytesRemaining -= winBlock.size
	if h.freeBytesRemaining < h.minEverFreeBytesRemaining {
		h.minEverFreeBytesRemaining = h.freeBytesRemaining
	}

	winBlock.size |= h.allocFlag
	winBlock.nextFree = 0

	cs.leave()

	return unsafe.Pointer(win + h.headerSz) //nolint:govet // payload address inside the arena
}

// refineBestFit continues the walk past the first-fit winner (winPrev,
// win) when it would leave a sizeable remainder, adopting any later block
// that fits with little or no split instead. The first block encountered
// that is a near-exact fit wins; ties favour the earliest address. Depth
// is capped by Config.BestFitDepthCap when non-zero, as a latency knob —
// the cap never changes correctness, only how far the search looks.
func (h *Heap) refineBestFit(winPrev, win *uintptr, want uintptr) {
	cur := headerAt(*win)
	if cur.size-want <= h.minBlockSz {
		return
	}

	depth := 0
	walkPrev, walkAddr := *win, cur.nextFree

	for walkAddr != h.end {
		if h.cfg.BestFitDepthCap > 0 && depth >= h.cfg.BestFitDepthCap {
			break
		}

		wb := headerAt(walkAddr)
		if wb.size >= want && wb.size-want <= h.minBlockSz {
			*winPrev, *win = walkPrev, walkAddr

			break
		}

		walkPrev = walkAddr
		walkAddr = wb.nextFree
		depth++
	}
}

// Free releases a block previously returned by Malloc or Calloc. p == nil
// is a no-op, as is a call on an uninitialised heap. p that was not
// produced by this allocator, or that has already been freed, is
// undefined behaviour per the allocator's contract; in heapdebug builds a
// corrupt header (allocated flag clear, or nextFree non-nil) panics, in
// release builds the call is a silent no-op.
func (h *Heap) Free(p unsafe.Pointer) {
	if p == nil || !h.initialized {
		return
	}

	addr := uintptr(p) - h.headerSz
	block := headerAt(addr)

	if block.size&h.allocFlag == 0 || block.nextFree != 0 {
		debugAssertCorruptHeader()

		return
	}

	block.size &^= h.allocFlag

	cs := enterCritical(h.cfg.Host)
	h.freeBytesRemaining += block.size
	h.insertFree(addr)
	cs.leave()
}

// insertFree inserts the free block at addr into the address-ordered free
// list, shared by Free and the split path of Malloc. It walks from start
// to find the predecessor, merges left and/or right with an adjacent free
// neighbour, and otherwise links the block in place. The end sentinel
// never participates in a merge.
func (h *Heap) insertFree(addr uintptr) {
	h.freeBlockCount++

	block := headerAt(addr)

	iterAddr := h.startAddr()
	for headerAt(iterAddr).nextFree < addr {
		iterAddr = headerAt(iterAddr).nextFree
	}

	iter := headerAt(iterAddr)

	// Left-merge: iter's block is immediately adjacent before addr. This
	// is naturally false when iter is the start sentinel, since its size
	// is always zero.
	if iterAddr+iter.size == addr {
		iter.size += block.size
		addr = iterAddr
		block = iter
		h.freeBlockCount--
	}

	rightMerged := false

	if addr+block.size == iter.nextFree {
		if iter.nextFree != h.end {
			succ := headerAt(iter.nextFree)
			block.size += succ.size
			block.nextFree = succ.nextFree

			// A superseded region tail sentinel has size zero and was
			// never counted as a free block.
			if succ.size != 0 {
				h.freeBlockCount--
			}
		} else {
			block.nextFree = h.end
		}

		rightMerged = true
	}

	if !rightMerged {
		block.nextFree = iter.nextFree
	}

	if iterAddr != addr {
		iter.nextFree = addr
	}
}
