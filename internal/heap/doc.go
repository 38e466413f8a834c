// Package heap implements a dynamic memory allocator for resource-constrained
// bare-metal or small-RTOS environments. It manages one or more
// caller-supplied, physically non-contiguous memory regions through an
// address-ordered free list, with split-on-allocate and merge-on-release,
// and an optional best-fit refinement layered on top of first-fit to reduce
// fragmentation in long-running workloads.
//
// The following invariants hold between every call to Malloc and Free on an
// initialised *Heap:
//
//  1. Free blocks are linked from the start sentinel through strictly
//     ascending addresses, terminating at the end sentinel.
//  2. No two adjacent free blocks exist: for a free block B and its
//     list-successor C, addr(B)+B.size < addr(C).
//  3. An allocated block has the allocated flag set in its size; a free
//     block has it clear.
//  4. Every block's effective length (size with the allocated flag masked
//     off) is a multiple of the configured alignment and at least
//     2*headerSize.
//  5. freeBytesRemaining equals the sum of sizes of all blocks reachable
//     from the first free block, excluding the end sentinel.
//  6. freeBlockCount equals the number of such blocks.
//  7. Region initialisation may be performed at most once per *Heap.
package heap
