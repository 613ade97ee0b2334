// Command pqmf-wav splits WAV audio into critically sampled subbands and
// reconstructs audio from them.
//
// Usage:
//
//	pqmf-wav -mode split input.wav out/mix          # Writes out/mix_band0.wav ... out/mix_band3.wav
//	pqmf-wav -mode join out/mix rebuilt.wav         # Reassembles the band files
//	pqmf-wav -mode verify input.wav                 # In-memory round trip with an error report
//	pqmf-wav -mode split -bands 8 input.wav out/mix # Eight-band preset
//
// Each band file holds one subband per source channel at 1/bands of the
// source sample rate. Subband samples can exceed the PCM range where
// adjacent bands overlap, so split scales them by 0.5 before quantization
// and join scales them back.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-pqmf"
)

const (
	// Buffer size for WAV decoding (number of samples per chunk)
	bufferSize = 65536

	// Preset band counts
	twoBands   = 2
	fourBands  = 4
	eightBands = 8

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// WAV audio format tag for PCM
	wavPCMFormat = 1

	// Headroom applied to subband samples before integer quantization.
	// Band overlap regions can push subband peaks past full scale.
	subbandHeadroom = 0.5

	// The modulation phase offset adds one sample of carrier delay to a
	// full round trip, accounted for when aligning the reconstruction.
	carrierDelay = 1

	// CLI defaults
	defaultBandCount = 4
	minRequiredArgs  = 1

	// Reporting constants
	percentScale = 100
	dbScale      = 20.0
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	mode := flag.String("mode", "verify", "Operation: split, join, or verify")
	bands := flag.Int("bands", defaultBandCount, "Number of subbands (2, 4, and 8 have presets)")
	taps := flag.Int("taps", 0, "Prototype filter order (0 selects the preset for -bands)")
	cutoff := flag.Float64("cutoff", 0, "Prototype cutoff in (0, 1) (0 selects the preset)")
	beta := flag.Float64("beta", 0, "Kaiser window beta (0 selects the preset)")
	fast := flag.Bool("fast", false, "Use float32 precision in verify mode")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input [output]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -mode split input.wav out/mix   # Split into out/mix_band*.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -mode join out/mix rebuilt.wav  # Reassemble band files\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -mode verify input.wav          # Round-trip error report\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	config, err := configForBands(*bands, *taps, *cutoff, *beta)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Filterbank: %d bands, %d taps, cutoff %.3f, beta %.1f",
			config.Bands, config.Taps, config.Cutoff, config.Beta)
	}

	switch *mode {
	case "split":
		if len(args) < 2 {
			return fmt.Errorf("split needs an input file and an output prefix")
		}
		return runSplit(config, args[0], args[1], *verbose)
	case "join":
		if len(args) < 2 {
			return fmt.Errorf("join needs an input prefix and an output file")
		}
		return runJoin(config, args[0], args[1], *verbose)
	case "verify":
		return runVerify(config, args[0], *fast, *verbose)
	default:
		return fmt.Errorf("unknown mode %q (want split, join, or verify)", *mode)
	}
}

// runSplit analyzes a WAV file and writes one WAV file per subband.
func runSplit(config *pqmf.Config, inputPath, outputPrefix string, verbose bool) error {
	start := time.Now()

	input, err := openWAVInput(inputPath, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = input.Close() }()

	channels, err := readChannels(input)
	if err != nil {
		return err
	}

	p, err := pqmf.New(config)
	if err != nil {
		return err
	}

	subbandSets, err := p.AnalyzeMulti(channels)
	if err != nil {
		return err
	}

	bandRate := input.rate / config.Bands
	maxVal := maxValueForDepth(input.bitDepth)
	for k := range config.Bands {
		bandChannels := make([][]float64, input.channels)
		for ch := range input.channels {
			scaled := make([]float64, len(subbandSets[ch][k]))
			f64.Scale(scaled, subbandSets[ch][k], subbandHeadroom)
			bandChannels[ch] = scaled
		}

		data := interleaveSamples(bandChannels, maxVal)
		path := bandFilePath(outputPrefix, k)
		if err := writeWAVFile(path, bandRate, input.bitDepth, input.channels, data); err != nil {
			return fmt.Errorf("band %d: %w", k, err)
		}
		if verbose {
			log.Printf("Wrote %s (%d samples)", path, len(bandChannels[0]))
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("Split %s into %d band files at %s_band*.wav\n",
		filepath.Base(inputPath), config.Bands, outputPrefix)
	fmt.Printf("  %d Hz -> %d Hz per band (%d channels, %d-bit)\n",
		input.rate, bandRate, input.channels, input.bitDepth)
	fmt.Printf("  %d samples -> %d per band, %.2fs\n",
		len(channels[0]), p.SubbandLen(len(channels[0])), elapsed.Seconds())

	return nil
}

// runJoin reads per-band WAV files and reconstructs the original signal.
func runJoin(config *pqmf.Config, inputPrefix, outputPath string, verbose bool) error {
	start := time.Now()

	var (
		bandChannels [][][]float64 // [band][channel][sample]
		bandRate     int
		numChannels  int
		bitDepth     int
	)

	for k := range config.Bands {
		path := bandFilePath(inputPrefix, k)
		input, err := openWAVInput(path, verbose)
		if err != nil {
			return fmt.Errorf("band %d: %w", k, err)
		}

		channels, err := readChannels(input)
		closeErr := input.Close()
		if err != nil {
			return fmt.Errorf("band %d: %w", k, err)
		}
		if closeErr != nil {
			return fmt.Errorf("band %d: %w", k, closeErr)
		}

		if k == 0 {
			bandRate = input.rate
			numChannels = input.channels
			bitDepth = input.bitDepth
			bandChannels = make([][][]float64, config.Bands)
		} else {
			if input.channels != numChannels || input.rate != bandRate {
				return fmt.Errorf("band %d format mismatch: %d Hz %d channels, want %d Hz %d channels",
					k, input.rate, input.channels, bandRate, numChannels)
			}
			if len(channels[0]) != len(bandChannels[0][0]) {
				return fmt.Errorf("band %d has %d samples, want %d",
					k, len(channels[0]), len(bandChannels[0][0]))
			}
		}
		bandChannels[k] = channels
	}

	// Regroup into per-channel subband sets and undo the split headroom
	subbandSets := make([][][]float64, numChannels)
	for ch := range numChannels {
		subbandSets[ch] = make([][]float64, config.Bands)
		for k := range config.Bands {
			restored := make([]float64, len(bandChannels[k][ch]))
			f64.Scale(restored, bandChannels[k][ch], 1.0/subbandHeadroom)
			subbandSets[ch][k] = restored
		}
	}

	p, err := pqmf.New(config)
	if err != nil {
		return err
	}

	outputs, err := p.SynthesizeMulti(subbandSets)
	if err != nil {
		return err
	}

	outputRate := bandRate * config.Bands
	data := interleaveSamples(outputs, maxValueForDepth(bitDepth))
	if err := writeWAVFile(outputPath, outputRate, bitDepth, numChannels, data); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("Joined %d band files into %s\n", config.Bands, filepath.Base(outputPath))
	fmt.Printf("  %d Hz per band -> %d Hz (%d channels, %d-bit)\n",
		bandRate, outputRate, numChannels, bitDepth)
	fmt.Printf("  %d samples per band -> %d samples, %.2fs\n",
		len(subbandSets[0][0]), len(outputs[0]), elapsed.Seconds())

	return nil
}

// runVerify round-trips the file in memory and reports reconstruction error
// and the subband energy distribution.
func runVerify(config *pqmf.Config, inputPath string, fast, verbose bool) error {
	start := time.Now()

	input, err := openWAVInput(inputPath, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = input.Close() }()

	channels, err := readChannels(input)
	if err != nil {
		return err
	}

	p, err := pqmf.New(config)
	if err != nil {
		return err
	}

	bandEnergy := make([]float64, config.Bands)
	channelErrors := make([]float64, input.channels)
	for ch := range channels {
		reconstructed, subbands, err := roundTrip(p, channels[ch], fast)
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
		for k := range subbands {
			bandEnergy[k] += f64.DotProduct(subbands[k], subbands[k])
		}
		channelErrors[ch] = reconstructionError(channels[ch], reconstructed, p.GetDelay())
	}
	elapsed := time.Since(start)

	info := p.GetInfo()
	fmt.Printf("Verified round trip: %s\n", filepath.Base(inputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d samples\n",
		input.rate, input.channels, input.bitDepth, len(channels[0]))
	fmt.Printf("  %d bands, %d-tap filters, %.0f dB stopband, delay %d samples\n",
		info.Bands, info.FilterLength, info.StopbandAttenuationDB, info.Delay)
	if fast {
		fmt.Printf("  Precision: float32\n")
	}
	for ch, nrmse := range channelErrors {
		if nrmse >= 0 {
			fmt.Printf("  Channel %d: NRMSE %.2e (%.1f dB)\n", ch, nrmse, dbScale*math.Log10(nrmse))
		} else {
			fmt.Printf("  Channel %d: too short to measure\n", ch)
		}
	}
	fmt.Printf("  Band energy:%s\n", formatEnergySplit(bandEnergy))
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(len(channels[0]))/float64(input.rate)/elapsed.Seconds())

	return nil
}

// roundTrip runs analysis then synthesis in the requested precision and
// returns both the reconstruction and the float64 subbands for reporting.
func roundTrip(p *pqmf.PQMF, signal []float64, fast bool) ([]float64, [][]float64, error) {
	if !fast {
		subbands, err := p.Analyze(signal)
		if err != nil {
			return nil, nil, err
		}
		output, err := p.Synthesize(subbands)
		if err != nil {
			return nil, nil, err
		}
		return output, subbands, nil
	}

	signal32 := make([]float32, len(signal))
	for i, v := range signal {
		signal32[i] = float32(v)
	}

	subbands32, err := p.AnalyzeFloat32(signal32)
	if err != nil {
		return nil, nil, err
	}
	output32, err := p.SynthesizeFloat32(subbands32)
	if err != nil {
		return nil, nil, err
	}

	output := make([]float64, len(output32))
	for i, v := range output32 {
		output[i] = float64(v)
	}
	subbands := make([][]float64, len(subbands32))
	for k := range subbands32 {
		subbands[k] = make([]float64, len(subbands32[k]))
		for i, v := range subbands32[k] {
			subbands[k][i] = float64(v)
		}
	}

	return output, subbands, nil
}

// reconstructionError computes the normalized RMS error between the input
// and its reconstruction, trimming the edge transients and aligning for
// the carrier delay. Returns -1 when the signal is too short to measure.
func reconstructionError(input, output []float64, delay int) float64 {
	trim := delay + carrierDelay
	if len(output) > len(input) {
		output = output[:len(input)]
	}
	usable := len(output) - 2*trim
	if usable < 1 {
		return -1
	}

	reference := input[trim-carrierDelay : trim-carrierDelay+usable]
	actual := output[trim : trim+usable]

	diff := make([]float64, usable)
	for i := range diff {
		diff[i] = actual[i] - reference[i]
	}

	refEnergy := f64.DotProduct(reference, reference)
	if refEnergy == 0 {
		return -1
	}
	return math.Sqrt(f64.DotProduct(diff, diff) / refEnergy)
}

// formatEnergySplit renders per-band energy as percentages of the total.
func formatEnergySplit(bandEnergy []float64) string {
	var total float64
	for _, e := range bandEnergy {
		total += e
	}
	if total == 0 {
		return " silent input"
	}

	out := ""
	for _, e := range bandEnergy {
		out += fmt.Sprintf(" %.1f%%", e/total*percentScale)
	}
	return out
}
