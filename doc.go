// Package pqmf provides a pseudo-quadrature mirror filterbank in pure Go.
//
// A PQMF splits a signal into N critically sampled subbands through a bank
// of cosine-modulated FIR filters, and reconstructs the signal from those
// subbands with near-perfect fidelity. The design follows the classic
// near-perfect-reconstruction pseudo-QMF construction: a single Kaiser-window
// lowpass prototype is modulated to N band centers with alternating phase
// offsets so that aliasing between adjacent bands cancels on synthesis.
//
// # Features
//
//   - Analysis and synthesis for any band count, with matched filter pairs
//     derived from one prototype
//   - Kaiser window prototype design with configurable length, cutoff and beta
//   - Polyphase analysis decomposition: filtering runs at the subband rate
//   - FFT-based convolution for long prototypes via gonum, with automatic
//     crossover from direct SIMD evaluation
//   - Optional SIMD acceleration (AVX2/SSE) via github.com/tphakala/simd
//   - Native float32 path for throughput-sensitive pipelines
//   - Batch API that processes independent channels concurrently
//   - Pure Go implementation with no CGO dependencies
//
// # Quick Start
//
// For one-shot processing with the default four-band configuration:
//
//	subbands, err := pqmf.AnalyzeOnce(pqmf.DefaultConfig(), input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For repeated use, construct the filterbank once and reuse it:
//
//	p, err := pqmf.New(&pqmf.Config{
//	    Bands:  4,
//	    Taps:   62,
//	    Cutoff: 0.15,
//	    Beta:   9.0,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	subbands, err := p.Analyze(input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... process the subbands ...
//
//	output, err := p.Synthesize(subbands)
//
// Each subband holds roughly len(input)/Bands samples, and the reconstructed
// output carries a group delay of Taps/2 samples relative to the input.
//
// # Band Configurations
//
// The package provides preset configurations for common band counts:
//
//   - [DefaultConfig]: 4 bands, 62 taps. The standard multi-band vocoder
//     setup, balancing delay against band isolation.
//   - [TwoBandConfig]: 2 bands, 256 taps. A half-band split with a long
//     prototype for the steepest transition.
//   - [EightBandConfig]: 8 bands, 192 taps. Fine-grained subband control.
//
// Custom configurations use [Config] directly; [Config.Validate] reports
// parameter errors before any filter is designed.
//
// # Architecture
//
// Analysis decomposes the bank into N polyphase components so each filter
// arm runs at the decimated rate:
//
//	Input -> [Polyphase split] -> [Per-phase FIR sweep] -> Subbands
//	             (stride N)        (all bands at once)
//
// Synthesis upsamples each subband by zero insertion, applies the matched
// synthesis filter, and sums the bands. Prototypes long enough to amortize
// transform cost are convolved in the frequency domain using overlap-save
// with a single FFT of the input shared across all bands.
//
// # Thread Safety
//
// A [PQMF] instance is immutable after construction and safe for concurrent
// use by multiple goroutines. [PQMF.AnalyzeMulti] and [PQMF.SynthesizeMulti]
// exploit this by fanning independent channels out to goroutines internally.
//
// # Attribution
//
// The filter construction follows the near-perfect-reconstruction pseudo-QMF
// design of Nguyen (1994), as popularized for neural audio synthesis by the
// multi-band MelGAN family of vocoders. The Kaiser window design follows
// well-established DSP literature, particularly the work of James Kaiser on
// optimal window functions.
package pqmf
