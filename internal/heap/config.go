package heap

import "github.com/latticehq/heapcore/internal/schedhost"

// Config carries the allocator's build-time configuration: alignment, the
// best-fit toggle, the scheduling host, and the registered callbacks. It is
// assembled through functional Options rather than exported directly, the
// same pattern the rest of this codebase uses for its allocator
// configuration.
type Config struct {
	Alignment       Alignment
	BestFit         bool
	BestFitDepthCap int
	Host            schedhost.Host
	MallocFailCB    func(wanted uintptr)
	ABI             string
}

// Option mutates a Config during New.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		Alignment: Align8,
		BestFit:   true,
	}
}

// WithAlignment sets the payload/header alignment. Must be 4 or 8; New
// rejects any other value.
func WithAlignment(a Alignment) Option {
	return func(c *Config) { c.Alignment = a }
}

// WithBestFit toggles the best-fit refinement described in the engine's
// allocation algorithm. Enabled by default.
func WithBestFit(enabled bool) Option {
	return func(c *Config) { c.BestFit = enabled }
}

// WithBestFitDepthCap bounds the number of blocks the best-fit continuation
// walk will examine after the first fit. Zero (the default) is unbounded.
func WithBestFitDepthCap(n int) Option {
	return func(c *Config) { c.BestFitDepthCap = n }
}

// WithHost selects the critical-section collaborator. Required: New fails
// without one.
func WithHost(h schedhost.Host) Option {
	return func(c *Config) { c.Host = h }
}

// WithMallocFailCB registers a callback invoked with the original
// requested size whenever Malloc returns nil due to exhaustion. It is
// always invoked outside the critical section.
func WithMallocFailCB(cb func(wanted uintptr)) Option {
	return func(c *Config) { c.MallocFailCB = cb }
}

// WithABI constrains the running build's header-layout version
// (LayoutVersion) against a semver constraint, e.g. ">=1.0.0, <2.0.0". Use
// this to reject a manifest or region dump produced by a build with an
// incompatible header encoding before InitRegions ever touches it.
func WithABI(constraint string) Option {
	return func(c *Config) { c.ABI = constraint }
}
