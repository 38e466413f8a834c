package heap

import (
	"unsafe"

	"github.com/latticehq/heapcore/internal/heaperrors"
)

// Heap is a free-list allocator over one or more caller-supplied memory
// regions. The zero value is not usable; construct one with New and seed
// it with InitRegions before calling Malloc or Free.
//
// A *Heap is not safe for concurrent use by multiple goroutines unless the
// Host supplied at construction provides that exclusion — see
// internal/schedhost. It is also not reentrant from interrupt-context
// callers, matching the allocator's concurrency model.
type Heap struct {
	cfg Config

	// start is a non-embedded sentinel: its address is never compared
	// against (only end's is), and start.nextFree always holds the
	// address of the lowest free block, or end if none remain.
	start header

	// end is the address of the tail sentinel belonging to the current
	// last region. A free block whose nextFree equals end means "no more
	// free blocks beyond me".
	end uintptr

	freeBytesRemaining        uintptr
	minEverFreeBytesRemaining uintptr
	freeBlockCount            uintptr

	initialized bool

	headerSz   uintptr
	minBlockSz uintptr
	allocFlag  uintptr
}

// Region is a caller-supplied contiguous byte range donated to the
// allocator at initialisation. Regions passed to InitRegions must be given
// in ascending Start order.
type Region struct {
	Start uintptr
	Len   uintptr
}

// New constructs a Heap from the given Options. It validates alignment and
// requires a scheduling Host to be selected; a missing Host is a
// configuration error rather than the build failure a C port would use,
// since Go has no equivalent of a required macro definition.
func New(opts ...Option) (*Heap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validateAlignment(cfg.Alignment); err != nil {
		return nil, err
	}

	if cfg.Host == nil {
		return nil, heaperrors.ErrNoHostSelected
	}

	if cfg.ABI != "" {
		if err := checkABI(cfg.ABI); err != nil {
			return nil, err
		}
	}

	return &Heap{
		cfg:        *cfg,
		headerSz:   headerSize(cfg.Alignment),
		minBlockSz: minBlockSize(cfg.Alignment),
		allocFlag:  allocatedFlag(),
	}, nil
}

func (h *Heap) startAddr() uintptr {
	return uintptr(unsafe.Pointer(&h.start))
}

func (h *Heap) onFailure(requested uintptr) {
	if h.cfg.MallocFailCB != nil {
		h.cfg.MallocFailCB(requested)
	}
}

// Calloc allocates count*size bytes and zero-fills the payload on success,
// equivalent to Malloc(count*size) followed by a zero-fill. Unlike the C
// original it rejects a count*size multiplication that would overflow
// uintptr, rather than silently wrapping to a smaller allocation.
func (h *Heap) Calloc(count, size uintptr) unsafe.Pointer {
	if count == 0 || size == 0 {
		return nil
	}

	total := count * size
	if total/count != size {
		return nil
	}

	p := h.Malloc(total)
	if p == nil {
		return nil
	}

	buf := unsafe.Slice((*byte)(p), total)
	for i := range buf {
		buf[i] = 0
	}

	return p
}
