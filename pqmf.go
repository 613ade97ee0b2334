package pqmf

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-pqmf/internal/engine"
	"github.com/tphakala/go-pqmf/internal/filter"
	"github.com/tphakala/go-pqmf/internal/mathutil"
)

// Common errors returned by the filterbank.
var (
	// ErrInvalidConfig indicates invalid construction parameters.
	ErrInvalidConfig = errors.New("invalid filterbank configuration")

	// ErrShapeMismatch indicates input with the wrong number of channels
	// or too few samples for the filter length.
	ErrShapeMismatch = errors.New("input shape mismatch")
)

// Config holds filterbank construction parameters.
type Config struct {
	// Bands is the number of subbands the signal is split into.
	// Must be at least 1; 1 degenerates to a single filter pair.
	Bands int

	// Taps is the prototype filter order. The designed filters hold
	// Taps+1 coefficients, and analysis followed by synthesis delays
	// the signal by Taps/2 samples on each side. Must be non-negative;
	// even values keep the reconstruction length equal to
	// Bands·SubbandLen.
	Taps int

	// Cutoff is the prototype's normalized cutoff frequency in (0, 1),
	// where 1.0 is the Nyquist frequency. Values near 1/(2·Bands) give
	// the flattest reconstruction.
	Cutoff float64

	// Beta is the Kaiser window shape parameter (≥ 0). Higher values
	// push subband leakage further down at the cost of a wider
	// transition between adjacent bands.
	Beta float64
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Bands < minBands {
		return fmt.Errorf("%w: bands must be at least %d, got %d", ErrInvalidConfig, minBands, c.Bands)
	}

	if c.Taps < 0 {
		return fmt.Errorf("%w: taps must be non-negative, got %d", ErrInvalidConfig, c.Taps)
	}

	if c.Taps > maxTaps {
		return fmt.Errorf("%w: taps must be at most %d, got %d", ErrInvalidConfig, maxTaps, c.Taps)
	}

	if c.Cutoff <= 0 || c.Cutoff >= 1 {
		return fmt.Errorf("%w: cutoff must be in (0, 1), got %v", ErrInvalidConfig, c.Cutoff)
	}

	if c.Beta < 0 {
		return fmt.Errorf("%w: beta must be non-negative, got %v", ErrInvalidConfig, c.Beta)
	}

	return nil
}

// PQMF is a pseudo-quadrature mirror filterbank. It splits a
// single-channel signal into Bands critically sampled subbands
// (Analyze) and reconstructs the signal from them (Synthesize).
//
// All filter state is computed once at construction and never mutated,
// so a single instance is safe for concurrent use from multiple
// goroutines.
type PQMF struct {
	config    Config
	prototype []float64

	analysisBank  [][]float64
	synthesisBank [][]float64

	analyzer64    *engine.Analyzer[float64]
	synthesizer64 *engine.Synthesizer[float64]
	analyzer32    *engine.Analyzer[float32]
	synthesizer32 *engine.Synthesizer[float32]
}

// New creates a filterbank with the specified configuration.
// The prototype filter and both modulated banks are designed here;
// construction either succeeds completely or fails with no partial state.
func New(config *Config) (*PQMF, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	prototype, err := filter.DesignPrototype(filter.PrototypeParams{
		Order:  config.Taps,
		Cutoff: config.Cutoff,
		Beta:   config.Beta,
	})
	if err != nil {
		return nil, fmt.Errorf("prototype design failed: %w", err)
	}

	analysisBank, synthesisBank, err := filter.ModulateBanks(prototype, config.Bands)
	if err != nil {
		return nil, fmt.Errorf("bank modulation failed: %w", err)
	}

	analyzer64, err := engine.NewAnalyzer[float64](analysisBank)
	if err != nil {
		return nil, fmt.Errorf("analyzer construction failed: %w", err)
	}
	synthesizer64, err := engine.NewSynthesizer[float64](synthesisBank)
	if err != nil {
		return nil, fmt.Errorf("synthesizer construction failed: %w", err)
	}
	analyzer32, err := engine.NewAnalyzer[float32](analysisBank)
	if err != nil {
		return nil, fmt.Errorf("analyzer construction failed: %w", err)
	}
	synthesizer32, err := engine.NewSynthesizer[float32](synthesisBank)
	if err != nil {
		return nil, fmt.Errorf("synthesizer construction failed: %w", err)
	}

	return &PQMF{
		config:        *config,
		prototype:     prototype,
		analysisBank:  analysisBank,
		synthesisBank: synthesisBank,
		analyzer64:    analyzer64,
		synthesizer64: synthesizer64,
		analyzer32:    analyzer32,
		synthesizer32: synthesizer32,
	}, nil
}

// Analyze splits a single-channel signal into Bands subband sequences,
// each of length SubbandLen(len(input)).
//
// The input is zero-padded by Taps/2 samples on each side, so the
// subbands carry the full signal with a group delay of Taps/2 samples.
func (p *PQMF) Analyze(input []float64) ([][]float64, error) {
	if engine.SubbandLen(len(input), p.config.Taps, p.config.Bands) < 1 {
		return nil, fmt.Errorf("%w: input length %d too short for a %d-tap bank",
			ErrShapeMismatch, len(input), p.config.Taps+1)
	}
	return p.analyzer64.Analyze(input)
}

// Synthesize reconstructs a single-channel signal from exactly Bands
// subband sequences of equal length. The output has length
// OutputLen(subbandLen).
func (p *PQMF) Synthesize(subbands [][]float64) ([]float64, error) {
	if err := p.checkSubbandShape(len(subbands), subbandLens(subbands)); err != nil {
		return nil, err
	}
	return p.synthesizer64.Synthesize(subbands)
}

// AnalyzeFloat32 is like Analyze for float32 samples. The subbands are
// computed natively in single precision.
func (p *PQMF) AnalyzeFloat32(input []float32) ([][]float32, error) {
	if engine.SubbandLen(len(input), p.config.Taps, p.config.Bands) < 1 {
		return nil, fmt.Errorf("%w: input length %d too short for a %d-tap bank",
			ErrShapeMismatch, len(input), p.config.Taps+1)
	}
	return p.analyzer32.Analyze(input)
}

// SynthesizeFloat32 is like Synthesize for float32 samples.
func (p *PQMF) SynthesizeFloat32(subbands [][]float32) ([]float32, error) {
	if err := p.checkSubbandShape(len(subbands), subbandLens32(subbands)); err != nil {
		return nil, err
	}
	return p.synthesizer32.Synthesize(subbands)
}

// checkSubbandShape validates band count and per-band lengths before any
// computation starts.
func (p *PQMF) checkSubbandShape(count int, lens []int) error {
	if count != p.config.Bands {
		return fmt.Errorf("%w: expected %d subbands, got %d",
			ErrShapeMismatch, p.config.Bands, count)
	}

	subLen := lens[0]
	for k, l := range lens {
		if l != subLen {
			return fmt.Errorf("%w: subband %d has %d samples, want %d",
				ErrShapeMismatch, k, l, subLen)
		}
	}

	if engine.OutputLen(subLen, p.config.Taps, p.config.Bands) < 1 {
		return fmt.Errorf("%w: subband length %d too short for a %d-tap bank",
			ErrShapeMismatch, subLen, p.config.Taps+1)
	}

	return nil
}

func subbandLens(subbands [][]float64) []int {
	lens := make([]int, len(subbands))
	for k, band := range subbands {
		lens[k] = len(band)
	}
	return lens
}

func subbandLens32(subbands [][]float32) []int {
	lens := make([]int, len(subbands))
	for k, band := range subbands {
		lens[k] = len(band)
	}
	return lens
}

// GetBands returns the number of subbands.
func (p *PQMF) GetBands() int {
	return p.config.Bands
}

// GetTaps returns the prototype filter order.
func (p *PQMF) GetTaps() int {
	return p.config.Taps
}

// GetKernelLength returns the number of coefficients per filter (Taps+1).
func (p *PQMF) GetKernelLength() int {
	return p.config.Taps + 1
}

// GetDelay returns the group delay in samples introduced by one pass
// through analysis or synthesis. A full round trip delays the signal by
// 2·GetDelay() samples split across both ends.
func (p *PQMF) GetDelay() int {
	return p.config.Taps / 2
}

// GetPrototype returns a copy of the lowpass prototype coefficients.
func (p *PQMF) GetPrototype() []float64 {
	out := make([]float64, len(p.prototype))
	copy(out, p.prototype)
	return out
}

// GetAnalysisBank returns a copy of the analysis filters, one kernel per band.
func (p *PQMF) GetAnalysisBank() [][]float64 {
	return copyBank(p.analysisBank)
}

// GetSynthesisBank returns a copy of the synthesis filters, one kernel per band.
func (p *PQMF) GetSynthesisBank() [][]float64 {
	return copyBank(p.synthesisBank)
}

func copyBank(bank [][]float64) [][]float64 {
	out := make([][]float64, len(bank))
	for k, kernel := range bank {
		out[k] = make([]float64, len(kernel))
		copy(out[k], kernel)
	}
	return out
}

// SubbandLen returns the per-band sample count Analyze produces for an
// input of inputLen samples, or 0 if the input is too short.
func (p *PQMF) SubbandLen(inputLen int) int {
	return engine.SubbandLen(inputLen, p.config.Taps, p.config.Bands)
}

// OutputLen returns the sample count Synthesize produces from subbands
// of subbandLen samples, or 0 if the subbands are too short. For even
// Taps this is Bands·subbandLen.
func (p *PQMF) OutputLen(subbandLen int) int {
	return engine.OutputLen(subbandLen, p.config.Taps, p.config.Bands)
}

// Info describes a constructed filterbank.
type Info struct {
	// Algorithm names the filterbank structure in use.
	Algorithm string

	// Bands is the number of subbands.
	Bands int

	// FilterLength is the number of coefficients per filter.
	FilterLength int

	// Delay is the one-pass group delay in samples.
	Delay int

	// StopbandAttenuationDB estimates the per-band stopband attenuation
	// delivered by the Kaiser design, in dB.
	StopbandAttenuationDB float64

	// MemoryUsage is the approximate coefficient storage in bytes.
	MemoryUsage int64
}

// GetInfo returns information about the filterbank.
func (p *PQMF) GetInfo() Info {
	kernelLen := int64(p.config.Taps + 1)
	bands := int64(p.config.Bands)

	// Prototype plus both banks in float64, plus the engines' working
	// copies in both precisions
	memory := kernelLen * bytesPerFloat64
	memory += 2 * bands * kernelLen * bytesPerFloat64
	memory += 2 * bands * kernelLen * (bytesPerFloat64 + bytesPerFloat32)

	return Info{
		Algorithm:             "cosine-modulated polyphase filterbank",
		Bands:                 p.config.Bands,
		FilterLength:          p.config.Taps + 1,
		Delay:                 p.config.Taps / 2,
		StopbandAttenuationDB: mathutil.KaiserAttenuation(p.config.Beta),
		MemoryUsage:           memory,
	}
}
