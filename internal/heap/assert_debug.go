//go:build heapdebug

package heap

import "github.com/latticehq/heapcore/internal/heaperrors"

// debugAssertCorruptHeader panics on a header invariant violation detected
// during Free. Built into heapdebug builds only; release builds use the
// no-op in assert_release.go, matching "implementation-defined" disposition
// the allocator's error-handling design calls for on a programming error.
func debugAssertCorruptHeader() {
	panic(heaperrors.ErrCorruptHeader)
}
