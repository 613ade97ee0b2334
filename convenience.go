package pqmf

// DefaultConfig returns the four-band configuration used by most
// multi-band vocoders. A 62-tap Kaiser prototype with cutoff 0.15 and
// beta 9.0 keeps aliasing between adjacent bands below -60 dB.
func DefaultConfig() *Config {
	return &Config{
		Bands:  defaultBands,
		Taps:   defaultTaps,
		Cutoff: defaultCutoff,
		Beta:   defaultBeta,
	}
}

// TwoBandConfig returns a two-band configuration with a long 256-tap
// prototype. The wider transition budget of a half-band split allows a
// steeper filter and correspondingly better reconstruction.
func TwoBandConfig() *Config {
	return &Config{
		Bands:  twoBandBands,
		Taps:   twoBandTaps,
		Cutoff: twoBandCutoff,
		Beta:   twoBandBeta,
	}
}

// EightBandConfig returns an eight-band configuration with a 192-tap
// prototype, suitable for fine-grained subband processing.
func EightBandConfig() *Config {
	return &Config{
		Bands:  eightBandBands,
		Taps:   eightBandTaps,
		Cutoff: eightBandCutoff,
		Beta:   eightBandBeta,
	}
}

// NewDefault creates a filterbank with the default four-band configuration.
func NewDefault() (*PQMF, error) {
	return New(DefaultConfig())
}

// NewTwoBand creates a filterbank with the two-band configuration.
func NewTwoBand() (*PQMF, error) {
	return New(TwoBandConfig())
}

// NewEightBand creates a filterbank with the eight-band configuration.
func NewEightBand() (*PQMF, error) {
	return New(EightBandConfig())
}

// AnalyzeOnce is a convenience function for one-shot analysis.
// It builds a filterbank from config, splits the input into subbands,
// and returns the result. For repeated calls, construct a PQMF once
// and reuse it; filter design dominates the cost of a single call.
func AnalyzeOnce(config *Config, input []float64) ([][]float64, error) {
	p, err := New(config)
	if err != nil {
		return nil, err
	}
	return p.Analyze(input)
}

// SynthesizeOnce is a convenience function for one-shot synthesis.
// It builds a filterbank from config and reconstructs a signal from
// the given subbands.
func SynthesizeOnce(config *Config, subbands [][]float64) ([]float64, error) {
	p, err := New(config)
	if err != nil {
		return nil, err
	}
	return p.Synthesize(subbands)
}

// =============================================================================
// Float32 Native API
// =============================================================================
//
// The following functions provide a float32-native one-shot path.
// Use these when working with float32 audio data for:
//   - ~2x SIMD throughput (256-bit SIMD processes 8×float32 vs 4×float64)
//   - Reduced memory bandwidth
//
// For maximum precision, use the float64 API instead.

// AnalyzeOnceFloat32 is the float32 equivalent of AnalyzeOnce.
// Filter design still runs in float64; only the subband computation
// uses float32 arithmetic.
func AnalyzeOnceFloat32(config *Config, input []float32) ([][]float32, error) {
	p, err := New(config)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeFloat32(input)
}

// SynthesizeOnceFloat32 is the float32 equivalent of SynthesizeOnce.
func SynthesizeOnceFloat32(config *Config, subbands [][]float32) ([]float32, error) {
	p, err := New(config)
	if err != nil {
		return nil, err
	}
	return p.SynthesizeFloat32(subbands)
}
