//go:build !heapdebug

package heap

// debugAssertCorruptHeader is a no-op in release builds: Free on a
// corrupted header silently does nothing, per the allocator's error
// handling design.
func debugAssertCorruptHeader() {}
