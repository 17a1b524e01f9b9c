// Package conv provides safe integer conversion helpers for cldes.
//
// The synthesiser works with two index widths: a 64-bit virtual state index
// (product.VState), wide enough that a handful of modestly-sized operands
// composed together cannot overflow it, and a 32-bit concrete state index
// (automaton.StateID), used once a supervisor has been materialised and its
// state count is known to be small. Converting from the former to the
// latter needs a bounds check; these helpers perform it and panic on
// overflow, since an overflow here means the synthesiser produced more
// states than the output automaton can address — a programming error, not
// a recoverable condition.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint64ToUint32 safely converts a uint64 to uint32.
// Panics if n > math.MaxUint32.
//
//go:inline
func Uint64ToUint32(n uint64) uint32 {
	if n > math.MaxUint32 {
		panic("integer overflow: uint64 value out of uint32 range")
	}
	return uint32(n)
}
