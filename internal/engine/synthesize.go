package engine

import (
	"fmt"

	"github.com/tphakala/go-pqmf/internal/simdops"
)

// OutputLen returns the reconstructed length of synthesis from subbands of
// subbandLen samples each through a bank of order taps:
//
//	bands·subbandLen + 2·(taps/2) - (taps+1) + 1
//
// which collapses to bands·subbandLen for even taps. Returns 0 when the
// upsampled stream is shorter than the filter or any argument is out of range.
func OutputLen(subbandLen, taps, bands int) int {
	if subbandLen <= 0 || taps < 0 || bands < 1 {
		return 0
	}

	upsampled := bands*subbandLen + 2*(taps/2)
	kernelLen := taps + 1
	if upsampled < kernelLen {
		return 0
	}

	return upsampled - kernelLen + 1
}

// Synthesizer reconstructs a single-channel signal from critically sampled
// subbands.
//
// Each subband is scaled by the band count (compensating the energy split
// of critical sampling), expanded to the full rate by zero insertion, and
// convolved against its synthesis kernel; the per-band contributions sum
// into the output. The two-band case interleaves samples and zeros in one
// SIMD pass instead of scattering.
//
// A Synthesizer is immutable after construction and safe for concurrent
// use; each Synthesize call works on its own buffers.
type Synthesizer[F simdops.Float] struct {
	ops *simdops.Ops[F]

	bands   int
	taps    int // filter order; kernels hold taps+1 coefficients
	padding int // zeros added to each side of the upsampled stream
	gain    F   // band count, applied before upsampling

	kernels [][]F
}

// NewSynthesizer builds a Synthesizer from a synthesis filter bank with one
// kernel per subband. All kernels must share the same length.
func NewSynthesizer[F simdops.Float](bank [][]float64) (*Synthesizer[F], error) {
	kernelLen, err := validateBank(bank)
	if err != nil {
		return nil, err
	}

	taps := kernelLen - 1

	return &Synthesizer[F]{
		ops:     simdops.For[F](),
		bands:   len(bank),
		taps:    taps,
		padding: taps / 2,
		gain:    F(len(bank)),
		kernels: convertBank[F](bank),
	}, nil
}

// Bands returns the number of subbands the Synthesizer consumes.
func (s *Synthesizer[F]) Bands() int {
	return s.bands
}

// Synthesize reconstructs a signal of length
// OutputLen(len(subbands[0]), taps, bands) from exactly bands subband
// sequences of equal length.
func (s *Synthesizer[F]) Synthesize(subbands [][]F) ([]F, error) {
	if len(subbands) != s.bands {
		return nil, fmt.Errorf("subband count mismatch: got %d, want %d",
			len(subbands), s.bands)
	}

	subLen := len(subbands[0])
	for k, band := range subbands {
		if len(band) != subLen {
			return nil, fmt.Errorf("ragged subbands: band %d has %d samples, want %d",
				k, len(band), subLen)
		}
	}

	outLen := OutputLen(subLen, s.taps, s.bands)
	if outLen < 1 {
		return nil, fmt.Errorf("subbands too short: %d samples for a %d-tap bank",
			subLen, s.taps+1)
	}

	// The upsampled stream carries bands·subLen stuffed samples plus
	// padding zeros on both sides. Every band writes the same stuffed
	// positions, so the stream needs no clearing between bands.
	up := make([]F, s.bands*subLen+2*s.padding)
	scaled := make([]F, subLen)
	tmp := make([]F, outLen)
	out := make([]F, outLen)

	var zeros []F
	if s.bands == 2 {
		zeros = make([]F, subLen)
	}

	for k := range s.bands {
		s.ops.Scale(scaled, subbands[k], s.gain)

		if s.bands == 2 {
			// Interleave sample/zero pairs in one pass
			s.ops.Interleave2(up[s.padding:s.padding+2*subLen], scaled, zeros)
		} else {
			for m, v := range scaled {
				up[s.padding+m*s.bands] = v
			}
		}

		if k == 0 {
			convolveOne(s.ops, out, up, s.kernels[k])
			continue
		}
		convolveOne(s.ops, tmp, up, s.kernels[k])
		for t := range out {
			out[t] += tmp[t]
		}
	}

	return out, nil
}
