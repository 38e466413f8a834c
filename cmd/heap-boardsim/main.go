// Command heap-boardsim simulates board bring-up on a host machine: it
// provisions mmap-backed arenas standing in for physical memory regions,
// initialises a heap.Heap over them, and drives the same randomised
// allocation workload the allocator's property tests exercise, optionally
// serving live fragmentation diagnostics over HTTP/3.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"unsafe"

	"github.com/latticehq/heapcore/internal/arena"
	"github.com/latticehq/heapcore/internal/diag"
	"github.com/latticehq/heapcore/internal/heap"
	"github.com/latticehq/heapcore/internal/manifest"
	"github.com/latticehq/heapcore/internal/schedhost"
)

func main() {
	manifestPath := flag.String("manifest", "regions.json", "path to the region manifest")
	diagAddr := flag.String("diag-addr", "", "address to serve HTTP/3 diagnostics on, e.g. :4433 (disabled if empty)")
	seed := flag.Int64("seed", 125, "PRNG seed for the randomised allocation workload")
	flag.Parse()

	watcher, err := manifest.Watch(*manifestPath)
	if err != nil {
		log.Fatalf("heap-boardsim: %v", err)
	}
	defer watcher.Close()

	m := watcher.Current()

	sizes := make([]int, len(m.Regions))
	for i, r := range m.Regions {
		sizes[i] = r.Size
	}

	arenas, regions, err := arena.Provision(sizes)
	if err != nil {
		log.Fatalf("heap-boardsim: provisioning arenas: %v", err)
	}
	defer func() { _ = arena.CloseAll(arenas) }()

	opts := []heap.Option{
		heap.WithHost(schedhost.None),
		heap.WithMallocFailCB(func(n uintptr) {
			log.Printf("heap-boardsim: allocation of %d bytes failed", n)
		}),
	}
	if m.ABI != "" {
		opts = append(opts, heap.WithABI(m.ABI))
	}

	h, err := heap.New(opts...)
	if err != nil {
		log.Fatalf("heap-boardsim: %v", err)
	}

	if err := h.InitRegions(regions); err != nil {
		log.Fatalf("heap-boardsim: %v", err)
	}

	if *diagAddr != "" {
		d := diag.NewServer(*diagAddr, nil, h)

		bound, err := d.Start()
		if err != nil {
			log.Fatalf("heap-boardsim: diagnostics server: %v", err)
		}

		defer d.Close()
		log.Printf("heap-boardsim: diagnostics listening on %s", bound)
	}

	runWorkload(h, *seed)
}

// runWorkload drives the randomised scenario the allocator's property
// tests pin: 210 distinct request sizes cycled with rand()%210, each size
// allocated at most once and freed on re-selection, until the first
// allocation failure.
func runWorkload(h *heap.Heap, seed int64) {
	const sizeCount = 210

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic workload generator, not a security boundary
	live := make(map[int]unsafe.Pointer)

	for {
		idx := rng.Intn(sizeCount)
		size := uintptr((idx + 1) * 8)

		if ptr, ok := live[idx]; ok {
			h.Free(ptr)
			delete(live, idx)

			continue
		}

		ptr := h.Malloc(size)
		if ptr == nil {
			fmt.Printf("heap-boardsim: first allocation failure at size %d; free=%d blocks=%d\n",
				size, h.FreeHeapSize(), h.FreeBlockCount())

			return
		}

		live[idx] = ptr
	}
}
