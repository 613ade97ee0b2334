package engine

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT convolution constants.
const (
	// Minimum kernel length to use FFT convolution (below this, direct is faster).
	// Benchmarking shows crossover around 400-500 taps with gonum FFT.
	// Direct SIMD convolution is faster for the standard bank lengths (63-257 taps).
	minKernelForFFT = 400

	// Default FFT block size (power of 2 for efficiency)
	defaultFFTBlockSize = 512

	// fftHermitianDivisor is used to calculate unique frequency bins in real FFT.
	// Due to Hermitian symmetry, a real FFT of size N has N/2 + 1 unique complex coefficients.
	fftHermitianDivisor = 2
)

// FFTBankConvolver performs overlap-save FFT convolution of one signal
// against a bank of equal-length kernels. This is O(N log N) per block vs
// O(N×M) for direct convolution, beneficial for long kernels.
//
// The signal FFT is computed once per block and reused for every kernel in
// the bank, so an N-band bank costs one forward transform plus N complex
// multiplies and inverse transforms per block.
//
// Overlap-save method:
//  1. Process input in blocks of fftSize samples (with kernelLen-1 overlap)
//  2. Each block produces blockSize = fftSize - kernelLen + 1 valid output samples
//  3. The first kernelLen-1 output samples of each block are discarded (circular wrap)
//
// A convolver holds mutable work buffers and must not be shared between
// goroutines; construct one per call site.
type FFTBankConvolver struct {
	fft       *fourier.FFT
	fftSize   int
	blockSize int // Valid output samples per block = fftSize - kernelLen + 1

	// Precomputed kernels in frequency domain, one per band
	kernelFFTs [][]complex128
	kernelLen  int
	fftLen     int     // Length of FFT output = fftSize/2 + 1
	scale      float64 // 1/fftSize for IFFT normalization (gonum doesn't normalize)

	// Working buffers (pre-allocated for zero allocation during processing)
	signalBlock []float64
	signalFFT   []complex128
	productFFT  []complex128
	ifftResult  []float64
}

// NewFFTBankConvolver creates an FFT convolver for the given kernel bank.
// All kernels must share the same length. The kernels are transformed once
// and reused for all convolutions. Returns nil for an empty or ragged bank.
func NewFFTBankConvolver(kernels [][]float64) *FFTBankConvolver {
	if len(kernels) == 0 {
		return nil
	}

	kernelLen := len(kernels[0])
	if kernelLen == 0 {
		return nil
	}
	for _, kernel := range kernels {
		if len(kernel) != kernelLen {
			return nil
		}
	}

	// Choose FFT size: next power of 2 >= 2*kernelLen for good efficiency
	fftSize := defaultFFTBlockSize
	for fftSize < 2*kernelLen {
		fftSize *= 2
	}

	// Valid output samples per block (overlap-save method)
	blockSize := fftSize - kernelLen + 1

	// Create FFT instance
	fft := fourier.NewFFT(fftSize)

	// Precompute each kernel FFT (zero-padded to fftSize)
	// IMPORTANT: Reverse the kernel for convolution (vs correlation)
	// FFT circular convolution computes: y[n] = sum(x[(n-k) mod N] * h[k])
	// We want: y[n] = sum(x[n+k] * h[k]) (the "valid" convolution)
	// Reversing h gives us the correct result
	kernelFFTs := make([][]complex128, len(kernels))
	kernelPadded := make([]float64, fftSize)
	for k, kernel := range kernels {
		for i := range kernelPadded {
			kernelPadded[i] = 0
		}
		for i := range kernelLen {
			kernelPadded[i] = kernel[kernelLen-1-i]
		}
		kernelFFTs[k] = fft.Coefficients(nil, kernelPadded)
	}

	fftLen := fftSize/fftHermitianDivisor + 1

	return &FFTBankConvolver{
		fft:         fft,
		fftSize:     fftSize,
		blockSize:   blockSize,
		kernelFFTs:  kernelFFTs,
		kernelLen:   kernelLen,
		fftLen:      fftLen,
		scale:       1.0 / float64(fftSize),
		signalBlock: make([]float64, fftSize),
		signalFFT:   make([]complex128, fftLen),
		productFFT:  make([]complex128, fftLen),
		ifftResult:  make([]float64, fftSize),
	}
}

// Convolve performs overlap-save convolution against every kernel in the bank.
// dsts must hold one destination per kernel, each with length
// >= len(signal) - kernelLen + 1.
func (c *FFTBankConvolver) Convolve(dsts [][]float64, signal []float64) {
	signalLen := len(signal)
	outputLen := signalLen - c.kernelLen + 1
	if outputLen <= 0 || len(dsts) < len(c.kernelFFTs) {
		return
	}
	for _, dst := range dsts[:len(c.kernelFFTs)] {
		if len(dst) < outputLen {
			return
		}
	}

	// Overlap-save method with reversed kernels:
	// - Each FFT block produces blockSize valid output samples
	// - Block b reads signal[b*blockSize : b*blockSize + fftSize] (zero-padded at end if needed)
	// - Output y[kernelLen-1 + i] corresponds to convolution at position b*blockSize + i
	// - The first (kernelLen-1) outputs are discarded (circular wrap artifacts)

	outIdx := 0
	overlap := c.kernelLen - 1

	for outIdx < outputLen {
		// Clear the signal block
		for i := range c.signalBlock {
			c.signalBlock[i] = 0
		}

		// Copy signal starting at position outIdx (which is b*blockSize)
		// We need fftSize samples, but may have fewer if near end
		copyLen := c.fftSize
		if outIdx+copyLen > signalLen {
			copyLen = signalLen - outIdx
		}
		if copyLen > 0 {
			copy(c.signalBlock, signal[outIdx:outIdx+copyLen])
		}

		// FFT of signal block, shared by every kernel in the bank
		c.signalFFT = c.fft.Coefficients(c.signalFFT, c.signalBlock)

		// Valid output samples start at offset 'overlap' (= kernelLen - 1)
		validSamples := c.blockSize
		if outIdx+validSamples > outputLen {
			validSamples = outputLen - outIdx
		}

		for k, kernelFFT := range c.kernelFFTs {
			// Multiply in frequency domain using SIMD
			c128.Mul(c.productFFT, c.signalFFT, kernelFFT)

			// IFFT
			c.ifftResult = c.fft.Sequence(c.ifftResult, c.productFFT)

			// Scale by 1/N (gonum's IFFT doesn't normalize)
			f64.Scale(c.ifftResult, c.ifftResult, c.scale)

			// Copy valid samples to this kernel's output
			copy(dsts[k][outIdx:outIdx+validSamples], c.ifftResult[overlap:overlap+validSamples])
		}

		outIdx += validSamples
	}
}

// ConvolveValidBankFFT is a convenience function that convolves one signal
// against a bank of equal-length kernels, using FFT convolution when
// beneficial and direct SIMD convolution for short kernels.
func ConvolveValidBankFFT(dsts [][]float64, signal []float64, kernels [][]float64) {
	if len(kernels) == 0 {
		return
	}

	if len(kernels[0]) < minKernelForFFT {
		// Use direct SIMD convolution for short kernels
		f64.ConvolveValidMulti(dsts, signal, kernels)
		return
	}

	// Use FFT convolution for long kernels
	conv := NewFFTBankConvolver(kernels)
	if conv != nil {
		conv.Convolve(dsts, signal)
	}
}
