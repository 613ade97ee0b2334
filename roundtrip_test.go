package pqmf

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-pqmf/internal/testutil"
)

const (
	roundTripLen      = 4096
	maxRoundTripNRMSE = 0.05

	// The half-sample offset in the modulation phase adds one sample of
	// carrier delay across a full analysis/synthesis round trip, on top
	// of the edge transients removed by trimming.
	carrierDelay = 1

	energyLen       = 8192
	energyTolerance = 0.10

	roundTripSeed1 = 0x51_7C_C1_B7_27_22_0A_95
	roundTripSeed2 = 0x9E_37_79_B9_7F_4A_7C_15
)

// sineSignal generates a sinusoid at the given frequency in cycles per sample.
func sineSignal(length int, freq float64) []float64 {
	signal := make([]float64, length)
	for i := range signal {
		signal[i] = math.Sin(2.0 * math.Pi * freq * float64(i))
	}
	return signal
}

// bandCenter returns the center frequency of band k in cycles per sample.
func bandCenter(k, bands int) float64 {
	return float64(2*k+1) / (4.0 * float64(bands))
}

// TestRoundTripSineAtBandCenters verifies near-perfect reconstruction of
// sinusoids at each band's center frequency. The output trails the input
// by carrierDelay samples, and the first and last Taps/2 samples are
// discarded to exclude the filter edge transients.
func TestRoundTripSineAtBandCenters(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"four_band", DefaultConfig()},
		{"two_band", TwoBandConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.config)
			require.NoError(t, err)

			trim := p.GetDelay()
			for k := range p.GetBands() {
				freq := bandCenter(k, p.GetBands())
				input := sineSignal(roundTripLen, freq)

				subbands, err := p.Analyze(input)
				require.NoError(t, err)

				output, err := p.Synthesize(subbands)
				require.NoError(t, err)
				require.Len(t, output, roundTripLen)

				reference := input[trim-carrierDelay : roundTripLen-trim-carrierDelay]
				actual := output[trim : roundTripLen-trim]
				testutil.AssertNRMSE(t, reference, actual, maxRoundTripNRMSE,
					"band %d center %.4f cycles/sample", k, freq)
			}
		})
	}
}

// TestRoundTripPreservesLength verifies that even-order filters keep the
// reconstruction the same length as the input, for all preset band counts.
func TestRoundTripPreservesLength(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"four_band", DefaultConfig()},
		{"two_band", TwoBandConfig()},
		{"eight_band", EightBandConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.config)
			require.NoError(t, err)

			input := sineSignal(roundTripLen, bandCenter(0, p.GetBands()))
			subbands, err := p.Analyze(input)
			require.NoError(t, err)

			for k := range subbands {
				testutil.AssertLengthEquals(t, subbands[k], roundTripLen/p.GetBands())
			}

			output, err := p.Synthesize(subbands)
			require.NoError(t, err)
			testutil.AssertLengthEquals(t, output, roundTripLen)
			testutil.AssertNoNaNOrInf(t, output)
		})
	}
}

// TestSubbandEnergyMatchesFilterGain checks that analyzing white noise
// yields total subband energy close to the prediction from the filter
// coefficients: each subband sample is a kernel dot product with noise of
// variance sigma^2, so its expected square is sigma^2 times the kernel
// energy. The small shortfall from the zero-padded ends stays inside the
// tolerance at this signal length.
func TestSubbandEnergyMatchesFilterGain(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"four_band", DefaultConfig()},
		{"two_band", TwoBandConfig()},
		{"eight_band", EightBandConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.config)
			require.NoError(t, err)

			rng := rand.New(rand.NewPCG(roundTripSeed1, roundTripSeed2))
			input := make([]float64, energyLen)
			for i := range input {
				input[i] = rng.Float64()*2.0 - 1.0
			}
			const noiseVariance = 1.0 / 3.0 // uniform on [-1, 1)

			subbands, err := p.Analyze(input)
			require.NoError(t, err)

			var actual float64
			for k := range subbands {
				for _, v := range subbands[k] {
					actual += v * v
				}
			}

			var kernelEnergy float64
			for _, kernel := range p.GetAnalysisBank() {
				for _, c := range kernel {
					kernelEnergy += c * c
				}
			}
			expected := noiseVariance * float64(p.SubbandLen(energyLen)) * kernelEnergy

			testutil.AssertEnergyRatio(t, expected, actual, energyTolerance)
		})
	}
}

// TestSingleBandDegenerate covers the one-band configuration, which reduces
// to a single modulated filter pair. Shapes and determinism still hold even
// though a lone band cannot cover the full spectrum.
func TestSingleBandDegenerate(t *testing.T) {
	config := &Config{Bands: 1, Taps: 62, Cutoff: 0.5, Beta: 9.0}

	p, err := New(config)
	require.NoError(t, err)

	assert.Equal(t, 1, p.GetBands())
	assert.Equal(t, roundTripLen, p.SubbandLen(roundTripLen))

	input := sineSignal(roundTripLen, 0.1)
	subbands, err := p.Analyze(input)
	require.NoError(t, err)
	require.Len(t, subbands, 1)
	testutil.AssertLengthEquals(t, subbands[0], roundTripLen)

	output, err := p.Synthesize(subbands)
	require.NoError(t, err)
	testutil.AssertLengthEquals(t, output, roundTripLen)
	testutil.AssertNoNaNOrInf(t, output)

	p2, err := New(config)
	require.NoError(t, err)
	subbands2, err := p2.Analyze(input)
	require.NoError(t, err)
	assert.Equal(t, subbands, subbands2)
}

// TestRoundTripFloat32MatchesFloat64 runs the same round trip through both
// precisions and bounds the divergence to single-precision accumulation noise.
func TestRoundTripFloat32MatchesFloat64(t *testing.T) {
	const float32Tolerance = 1e-3

	p, err := NewDefault()
	require.NoError(t, err)

	input := sineSignal(roundTripLen, bandCenter(1, p.GetBands()))
	input32 := make([]float32, roundTripLen)
	for i, v := range input {
		input32[i] = float32(v)
	}

	subbands, err := p.Analyze(input)
	require.NoError(t, err)
	output, err := p.Synthesize(subbands)
	require.NoError(t, err)

	subbands32, err := p.AnalyzeFloat32(input32)
	require.NoError(t, err)
	output32, err := p.SynthesizeFloat32(subbands32)
	require.NoError(t, err)

	require.Len(t, output32, len(output))
	for i := range output {
		assert.InDelta(t, output[i], float64(output32[i]), float32Tolerance,
			"sample %d", i)
	}
}
