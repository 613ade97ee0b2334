// Package simdops provides generic SIMD operations for float32 and float64 types.
// This enables a single filterbank codebase to support both precision levels
// without duplication.
//
// With Profile-Guided Optimization (Go 1.22+), function pointer calls in hot paths
// can be devirtualized and inlined, achieving near-zero overhead.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
// Function pointers allow type-safe generic code while delegating
// to optimized type-specific implementations.
//
// With PGO, these indirect calls can be devirtualized in hot paths.
type Ops[F Float] struct {
	// ConvolveValid computes valid convolution of signal with kernel:
	//   dst[n] = Σ signal[n+k] * kernel[k]
	ConvolveValid func(dst, signal, kernel []F)

	// ConvolveValidMulti computes valid convolution of one signal
	// against multiple kernels. Used for the per-channel sweep of a
	// polyphase component across all filterbank bands.
	ConvolveValidMulti func(dsts [][]F, signal []F, kernels [][]F)

	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []F)

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)
}

// Pre-instantiated operations for each float type.
// These are package-level variables to avoid repeated allocation.
var (
	ops32 = Ops[float32]{
		ConvolveValid:      f32.ConvolveValid,
		ConvolveValidMulti: f32.ConvolveValidMulti,
		Interleave2:        f32.Interleave2,
		Scale:              f32.Scale,
	}
	ops64 = Ops[float64]{
		ConvolveValid:      f64.ConvolveValid,
		ConvolveValidMulti: f64.ConvolveValidMulti,
		Interleave2:        f64.Interleave2,
		Scale:              f64.Scale,
	}
)

// For returns the Ops instance for type F.
// The type switch happens at instantiation time, not in hot paths.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}
