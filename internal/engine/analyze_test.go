package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Cross-check tolerance between polyphase and direct evaluation.
	// The two paths differ only in floating-point summation order.
	crossCheckTolerance = 1e-9

	// Tolerance for float32 against float64 reference
	float32Tolerance = 1e-3

	// Deterministic PCG seeds for test signals and kernels
	testSeed1 = 0x9E3779B97F4A7C15
	testSeed2 = 0xBF58476D1CE4E5B9
)

// randomSignal generates a deterministic test signal in [-1, 1).
func randomSignal(length int) []float64 {
	rng := rand.New(rand.NewPCG(testSeed1, testSeed2))
	signal := make([]float64, length)
	for i := range signal {
		signal[i] = 2.0*rng.Float64() - 1.0
	}
	return signal
}

// randomBank generates a deterministic filter bank of bands kernels with
// taps+1 coefficients each.
func randomBank(bands, taps int) [][]float64 {
	rng := rand.New(rand.NewPCG(testSeed2, testSeed1))
	bank := make([][]float64, bands)
	for k := range bands {
		bank[k] = make([]float64, taps+1)
		for i := range bank[k] {
			bank[k][i] = 2.0*rng.Float64() - 1.0
		}
	}
	return bank
}

// naiveAnalyze evaluates the strided bank correlation directly:
// out[k][m] = Σ_j padded[m·bands+j]·bank[k][j] with taps/2 padding.
func naiveAnalyze(input []float64, bank [][]float64, taps, bands int) [][]float64 {
	padding := taps / 2
	padded := make([]float64, len(input)+2*padding)
	copy(padded[padding:], input)

	subLen := SubbandLen(len(input), taps, bands)
	out := make([][]float64, len(bank))
	for k := range bank {
		out[k] = make([]float64, subLen)
		for m := range subLen {
			start := m * bands
			var sum float64
			for j, c := range bank[k] {
				sum += padded[start+j] * c
			}
			out[k][m] = sum
		}
	}
	return out
}

// TestSubbandLen verifies the strided output-size formula.
func TestSubbandLen(t *testing.T) {
	tests := []struct {
		name     string
		inputLen int
		taps     int
		bands    int
		want     int
	}{
		{"two_band_256_taps", 4096, 256, 2, 2048},
		{"four_band_62_taps", 4096, 62, 4, 1024},
		{"eight_band_192_taps", 4096, 192, 8, 512},
		{"single_band_is_identity", 4096, 62, 1, 4096},
		{"short_input", 100, 62, 4, 25},
		{"one_sample", 1, 62, 4, 1},
		{"odd_taps", 4096, 63, 4, 1024},
		{"zero_taps", 4096, 0, 4, 1024},
		{"empty_input", 0, 62, 4, 0},
		{"negative_input", -5, 62, 4, 0},
		{"zero_bands", 4096, 62, 0, 0},
		{"negative_taps", 4096, -1, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubbandLen(tt.inputLen, tt.taps, tt.bands)
			assert.Equal(t, tt.want, got, "SubbandLen(%d, %d, %d)",
				tt.inputLen, tt.taps, tt.bands)
		})
	}
}

// TestNewAnalyzer_Validation verifies bank validation at construction.
func TestNewAnalyzer_Validation(t *testing.T) {
	_, err := NewAnalyzer[float64](nil)
	assert.Error(t, err, "nil bank should fail")

	_, err = NewAnalyzer[float64]([][]float64{})
	assert.Error(t, err, "empty bank should fail")

	_, err = NewAnalyzer[float64]([][]float64{{}})
	assert.Error(t, err, "empty kernel should fail")

	_, err = NewAnalyzer[float64]([][]float64{{1, 2, 3}, {1, 2}})
	assert.Error(t, err, "ragged bank should fail")

	a, err := NewAnalyzer[float64](randomBank(4, 62))
	require.NoError(t, err, "valid bank should construct")
	assert.Equal(t, 4, a.Bands(), "band count mismatch")
}

// TestAnalyzer_MatchesDirectEvaluation cross-checks the polyphase path
// against naive strided correlation for a spread of shapes.
func TestAnalyzer_MatchesDirectEvaluation(t *testing.T) {
	tests := []struct {
		name     string
		bands    int
		taps     int
		inputLen int
	}{
		{"single_band", 1, 62, 512},
		{"two_band", 2, 256, 1024},
		{"four_band", 4, 62, 1000},
		{"eight_band", 8, 192, 4096},
		{"odd_taps", 4, 63, 777},
		{"taps_smaller_than_bands", 8, 5, 300},
		{"input_not_multiple_of_bands", 4, 62, 1021},
		{"minimal_input", 4, 62, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := randomBank(tt.bands, tt.taps)
			input := randomSignal(tt.inputLen)

			analyzer, err := NewAnalyzer[float64](bank)
			require.NoError(t, err, "NewAnalyzer failed")

			got, err := analyzer.Analyze(input)
			require.NoError(t, err, "Analyze failed")

			want := naiveAnalyze(input, bank, tt.taps, tt.bands)

			require.Len(t, got, tt.bands, "subband count mismatch")
			for k := range tt.bands {
				require.Len(t, got[k], len(want[k]), "band %d length mismatch", k)
				for m := range want[k] {
					assert.InDelta(t, want[k][m], got[k][m], crossCheckTolerance,
						"band %d sample %d mismatch", k, m)
				}
			}
		})
	}
}

// TestAnalyzer_Deterministic verifies repeat calls are bit-identical.
func TestAnalyzer_Deterministic(t *testing.T) {
	bank := randomBank(4, 62)
	input := randomSignal(2048)

	analyzer, err := NewAnalyzer[float64](bank)
	require.NoError(t, err, "NewAnalyzer failed")

	first, err := analyzer.Analyze(input)
	require.NoError(t, err, "first Analyze failed")

	second, err := analyzer.Analyze(input)
	require.NoError(t, err, "second Analyze failed")

	assert.Equal(t, first, second, "repeat analysis should be bit-identical")
}

// TestAnalyzer_InputTooShort verifies rejection of inputs shorter than the
// filter can cover even with padding.
func TestAnalyzer_InputTooShort(t *testing.T) {
	// Odd taps leave the padded input one sample short of the kernel
	// for a single-sample input
	bank := randomBank(2, 63)

	analyzer, err := NewAnalyzer[float64](bank)
	require.NoError(t, err, "NewAnalyzer failed")

	_, err = analyzer.Analyze([]float64{})
	assert.Error(t, err, "empty input should fail")

	_, err = analyzer.Analyze([]float64{1.0})
	assert.Error(t, err, "undersized input should fail")
}

// TestAnalyzer_Float32MatchesFloat64 verifies the float32 instantiation
// tracks the float64 path within single-precision tolerance.
func TestAnalyzer_Float32MatchesFloat64(t *testing.T) {
	bank := randomBank(4, 62)
	input64 := randomSignal(1024)

	input32 := make([]float32, len(input64))
	for i, v := range input64 {
		input32[i] = float32(v)
	}

	a64, err := NewAnalyzer[float64](bank)
	require.NoError(t, err, "float64 analyzer failed")
	a32, err := NewAnalyzer[float32](bank)
	require.NoError(t, err, "float32 analyzer failed")

	want, err := a64.Analyze(input64)
	require.NoError(t, err, "float64 Analyze failed")
	got, err := a32.Analyze(input32)
	require.NoError(t, err, "float32 Analyze failed")

	require.Len(t, got, len(want), "subband count mismatch")
	for k := range want {
		require.Len(t, got[k], len(want[k]), "band %d length mismatch", k)
		for m := range want[k] {
			assert.InDelta(t, want[k][m], float64(got[k][m]), float32Tolerance,
				"band %d sample %d mismatch", k, m)
		}
	}
}

// BenchmarkAnalyzer benchmarks analysis across the standard configurations.
func BenchmarkAnalyzer(b *testing.B) {
	benchmarks := []struct {
		name  string
		bands int
		taps  int
	}{
		{"two_band_256_taps", 2, 256},
		{"four_band_62_taps", 4, 62},
		{"eight_band_192_taps", 8, 192},
	}

	input := randomSignal(4096)

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			analyzer, err := NewAnalyzer[float64](randomBank(bm.bands, bm.taps))
			if err != nil {
				b.Fatalf("NewAnalyzer failed: %v", err)
			}

			b.ReportAllocs()
			for b.Loop() {
				_, _ = analyzer.Analyze(input)
			}
		})
	}
}
