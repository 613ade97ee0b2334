package engine

import (
	"fmt"

	"github.com/tphakala/go-pqmf/internal/simdops"
)

// SubbandLen returns the per-band output length of analysis for an input
// of inputLen samples through a bank of order taps:
//
//	floor((inputLen + 2·(taps/2) - (taps+1)) / bands) + 1
//
// This is the strided-convolution output size with taps/2 zeros of padding
// on each side. Returns 0 when the padded input is shorter than the filter
// or any argument is out of range.
func SubbandLen(inputLen, taps, bands int) int {
	if inputLen <= 0 || taps < 0 || bands < 1 {
		return 0
	}

	padded := inputLen + 2*(taps/2)
	kernelLen := taps + 1
	if padded < kernelLen {
		return 0
	}

	return (padded-kernelLen)/bands + 1
}

// Analyzer splits a single-channel signal into critically sampled subbands.
//
// The strided convolution against the analysis bank is evaluated in
// polyphase form: the padded input is split into bands interleaved phase
// streams, each phase stream is convolved against the matching phase of
// every band kernel in one multi-kernel sweep, and the per-phase results
// are summed. This touches each input sample once per band instead of
// computing full-rate convolutions and discarding all but every bands-th
// output.
//
// An Analyzer is immutable after construction and safe for concurrent use;
// each Analyze call works on its own buffers.
type Analyzer[F simdops.Float] struct {
	ops *simdops.Ops[F]

	bands   int
	taps    int // filter order; kernels hold taps+1 coefficients
	padding int // zeros added to each side of the input

	// phaseKernels[r][k][q] = bank[k][q·bands+r], zero-padded so every
	// phase holds tapsPerPhase coefficients.
	phaseKernels [][][]F
	tapsPerPhase int
}

// NewAnalyzer builds an Analyzer from an analysis filter bank with one
// kernel per subband. All kernels must share the same length.
func NewAnalyzer[F simdops.Float](bank [][]float64) (*Analyzer[F], error) {
	kernelLen, err := validateBank(bank)
	if err != nil {
		return nil, err
	}

	bands := len(bank)
	taps := kernelLen - 1
	tapsPerPhase := taps/bands + 1

	// Decompose each band kernel into bands phase subsequences
	phaseKernels := make([][][]F, bands)
	for r := range bands {
		phaseKernels[r] = make([][]F, bands)
		for k := range bands {
			phase := make([]F, tapsPerPhase)
			for q := range tapsPerPhase {
				idx := q*bands + r
				if idx < kernelLen {
					phase[q] = F(bank[k][idx])
				}
			}
			phaseKernels[r][k] = phase
		}
	}

	return &Analyzer[F]{
		ops:          simdops.For[F](),
		bands:        bands,
		taps:         taps,
		padding:      taps / 2,
		phaseKernels: phaseKernels,
		tapsPerPhase: tapsPerPhase,
	}, nil
}

// Bands returns the number of subbands the Analyzer produces.
func (a *Analyzer[F]) Bands() int {
	return a.bands
}

// Analyze splits input into bands subband sequences, each of length
// SubbandLen(len(input), taps, bands).
func (a *Analyzer[F]) Analyze(input []F) ([][]F, error) {
	subLen := SubbandLen(len(input), a.taps, a.bands)
	if subLen < 1 {
		return nil, fmt.Errorf("input too short: %d samples for a %d-tap bank",
			len(input), a.taps+1)
	}

	// Pad the input with padding zeros on the left. The right side is
	// extended far enough that every phase stream can be gathered without
	// bounds checks; positions past the nominal padded length only ever
	// multiply against the zero tail of a phase kernel.
	phaseLen := subLen + a.tapsPerPhase - 1
	paddedLen := len(input) + 2*a.padding
	if need := phaseLen * a.bands; need > paddedLen {
		paddedLen = need
	}

	padded := make([]F, paddedLen)
	copy(padded[a.padding:], input)

	out := make([][]F, a.bands)
	tmp := make([][]F, a.bands)
	for k := range a.bands {
		out[k] = make([]F, subLen)
		tmp[k] = make([]F, subLen)
	}

	phase := make([]F, phaseLen)
	for r := range a.bands {
		// Gather phase stream r: padded[r], padded[r+bands], ...
		for i := range phase {
			phase[i] = padded[i*a.bands+r]
		}

		// Sweep this phase against the matching phase of every band kernel
		if r == 0 {
			convolveBank(a.ops, out, phase, a.phaseKernels[r])
			continue
		}
		convolveBank(a.ops, tmp, phase, a.phaseKernels[r])
		for k := range a.bands {
			dst, src := out[k], tmp[k]
			for m := range dst {
				dst[m] += src[m]
			}
		}
	}

	return out, nil
}
