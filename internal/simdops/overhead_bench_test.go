package simdops

import (
	"testing"

	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// BenchmarkDirectF64ConvolveValid measures direct SIMD call overhead.
func BenchmarkDirectF64ConvolveValid(b *testing.B) {
	signal := make([]float64, 128)
	kernel := make([]float64, 20)
	dst := make([]float64, 109) // 128 - 20 + 1
	for i := range signal {
		signal[i] = float64(i) * 0.01
	}
	for i := range kernel {
		kernel[i] = float64(i) * 0.05
	}

	b.ReportAllocs()
	for b.Loop() {
		f64.ConvolveValid(dst, signal, kernel)
	}
}

// BenchmarkIndirectF64ConvolveValid measures indirect call through Ops struct.
func BenchmarkIndirectF64ConvolveValid(b *testing.B) {
	ops := For[float64]()
	signal := make([]float64, 128)
	kernel := make([]float64, 20)
	dst := make([]float64, 109) // 128 - 20 + 1
	for i := range signal {
		signal[i] = float64(i) * 0.01
	}
	for i := range kernel {
		kernel[i] = float64(i) * 0.05
	}

	b.ReportAllocs()
	for b.Loop() {
		ops.ConvolveValid(dst, signal, kernel)
	}
}

// BenchmarkDirectF32ConvolveValid measures direct SIMD call overhead.
func BenchmarkDirectF32ConvolveValid(b *testing.B) {
	signal := make([]float32, 128)
	kernel := make([]float32, 20)
	dst := make([]float32, 109) // 128 - 20 + 1
	for i := range signal {
		signal[i] = float32(i) * 0.01
	}
	for i := range kernel {
		kernel[i] = float32(i) * 0.05
	}

	b.ReportAllocs()
	for b.Loop() {
		f32.ConvolveValid(dst, signal, kernel)
	}
}

// BenchmarkIndirectF32ConvolveValid measures indirect call through Ops struct.
func BenchmarkIndirectF32ConvolveValid(b *testing.B) {
	ops := For[float32]()
	signal := make([]float32, 128)
	kernel := make([]float32, 20)
	dst := make([]float32, 109) // 128 - 20 + 1
	for i := range signal {
		signal[i] = float32(i) * 0.01
	}
	for i := range kernel {
		kernel[i] = float32(i) * 0.05
	}

	b.ReportAllocs()
	for b.Loop() {
		ops.ConvolveValid(dst, signal, kernel)
	}
}

// BenchmarkDirectF64ConvolveValidMulti measures the multi-kernel sweep
// sized like one polyphase component of a 4-band bank.
func BenchmarkDirectF64ConvolveValidMulti(b *testing.B) {
	const (
		numKernels = 4
		kernelLen  = 16
		signalLen  = 256
	)

	signal := make([]float64, signalLen)
	for i := range signal {
		signal[i] = float64(i) * 0.01
	}

	kernels := make([][]float64, numKernels)
	dsts := make([][]float64, numKernels)
	for k := range numKernels {
		kernels[k] = make([]float64, kernelLen)
		for i := range kernels[k] {
			kernels[k][i] = float64(k+i) * 0.05
		}
		dsts[k] = make([]float64, signalLen-kernelLen+1)
	}

	b.ReportAllocs()
	for b.Loop() {
		f64.ConvolveValidMulti(dsts, signal, kernels)
	}
}

// BenchmarkIndirectF64ConvolveValidMulti measures the same sweep through
// the Ops struct.
func BenchmarkIndirectF64ConvolveValidMulti(b *testing.B) {
	const (
		numKernels = 4
		kernelLen  = 16
		signalLen  = 256
	)

	ops := For[float64]()
	signal := make([]float64, signalLen)
	for i := range signal {
		signal[i] = float64(i) * 0.01
	}

	kernels := make([][]float64, numKernels)
	dsts := make([][]float64, numKernels)
	for k := range numKernels {
		kernels[k] = make([]float64, kernelLen)
		for i := range kernels[k] {
			kernels[k][i] = float64(k+i) * 0.05
		}
		dsts[k] = make([]float64, signalLen-kernelLen+1)
	}

	b.ReportAllocs()
	for b.Loop() {
		ops.ConvolveValidMulti(dsts, signal, kernels)
	}
}
