// Package engine implements the strided analysis and upsampling synthesis
// convolutions of a pseudo-QMF filterbank on top of SIMD and FFT primitives.
package engine

import (
	"fmt"

	"github.com/tphakala/go-pqmf/internal/simdops"
)

// validateBank checks that a filter bank is non-empty and rectangular,
// returning the shared kernel length.
func validateBank(bank [][]float64) (int, error) {
	if len(bank) == 0 {
		return 0, fmt.Errorf("empty filter bank")
	}

	kernelLen := len(bank[0])
	if kernelLen == 0 {
		return 0, fmt.Errorf("empty kernel in band 0")
	}

	for k, kernel := range bank {
		if len(kernel) != kernelLen {
			return 0, fmt.Errorf("ragged filter bank: band %d has %d coefficients, want %d",
				k, len(kernel), kernelLen)
		}
	}

	return kernelLen, nil
}

// convertBank copies a float64 filter bank into the engine's working precision.
func convertBank[F simdops.Float](bank [][]float64) [][]F {
	converted := make([][]F, len(bank))
	for k, kernel := range bank {
		row := make([]F, len(kernel))
		for i, c := range kernel {
			row[i] = F(c)
		}
		converted[k] = row
	}
	return converted
}

// convolveBank convolves one signal against a bank of equal-length kernels.
// The float64 instantiation routes through the FFT path for long kernels;
// float32 always uses direct SIMD convolution.
func convolveBank[F simdops.Float](ops *simdops.Ops[F], dsts [][]F, signal []F, kernels [][]F) {
	if d, ok := any(dsts).([][]float64); ok {
		ConvolveValidBankFFT(d, any(signal).([]float64), any(kernels).([][]float64))
		return
	}
	ops.ConvolveValidMulti(dsts, signal, kernels)
}

// convolveOne is the single-kernel form of convolveBank.
func convolveOne[F simdops.Float](ops *simdops.Ops[F], dst, signal, kernel []F) {
	if d, ok := any(dst).([]float64); ok {
		ConvolveValidBankFFT([][]float64{d}, any(signal).([]float64),
			[][]float64{any(kernel).([]float64)})
		return
	}
	ops.ConvolveValid(dst, signal, kernel)
}
