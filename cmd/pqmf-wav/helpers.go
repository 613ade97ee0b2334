package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-pqmf"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit",
			format.SampleRate, format.NumChannels, decoder.BitDepth)
	}

	return &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// readChannels decodes the whole file into planar per-channel samples
// normalized to [-1, 1]. The filterbank transforms complete signals, so
// unlike a streaming converter the full waveform is held in memory.
func readChannels(input *wavInputInfo) ([][]float64, error) {
	channels := make([][]float64, input.channels)
	invMaxVal := 1.0 / maxValueForDepth(input.bitDepth)

	intBuffer := &audio.IntBuffer{
		Data:   make([]int, bufferSize*input.channels),
		Format: input.format,
	}

	for {
		n, err := input.decoder.PCMBuffer(intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / input.channels
		for i := range frames {
			base := i * input.channels
			for ch := range input.channels {
				channels[ch] = append(channels[ch], float64(intBuffer.Data[base+ch])*invMaxVal)
			}
		}
	}

	if len(channels[0]) == 0 {
		return nil, fmt.Errorf("no audio data in input")
	}

	return channels, nil
}

// interleaveSamples converts planar float channels to interleaved ints,
// clamping to [-1, 1] before quantization.
func interleaveSamples(channels [][]float64, maxVal float64) []int {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil
	}

	numChannels := len(channels)
	samplesPerChannel := len(channels[0])
	result := make([]int, samplesPerChannel*numChannels)

	for i := range samplesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			sample := channels[ch][i]
			if sample > 1.0 {
				sample = 1.0
			} else if sample < -1.0 {
				sample = -1.0
			}
			result[base+ch] = int(sample * maxVal)
		}
	}

	return result
}

// maxValueForDepth returns the maximum sample value for the given bit depth.
func maxValueForDepth(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// writeWAVFile writes interleaved PCM samples as a complete WAV file.
func writeWAVFile(path string, sampleRate, bitDepth, numChannels int, data []int) (err error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	encoder := wav.NewEncoder(outputFile, sampleRate, bitDepth, numChannels, wavPCMFormat)
	defer func() {
		if closeErr := encoder.Close(); err == nil {
			err = closeErr
		}
		if closeErr := outputFile.Close(); err == nil {
			err = closeErr
		}
	}()

	buffer := &audio.IntBuffer{
		Data: data,
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(buffer); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	return nil
}

// bandFilePath names the per-band output file for a given prefix.
func bandFilePath(prefix string, band int) string {
	return fmt.Sprintf("%s_band%d.wav", prefix, band)
}

// configForBands maps a band count to its preset configuration. Counts
// without a preset need explicit -taps, -cutoff and -beta flags.
func configForBands(bands, taps int, cutoff, beta float64) (*pqmf.Config, error) {
	if taps != 0 || cutoff != 0 || beta != 0 {
		if taps == 0 || cutoff == 0 || beta == 0 {
			return nil, fmt.Errorf("custom designs need all of -taps, -cutoff and -beta")
		}
		return &pqmf.Config{Bands: bands, Taps: taps, Cutoff: cutoff, Beta: beta}, nil
	}

	switch bands {
	case twoBands:
		return pqmf.TwoBandConfig(), nil
	case fourBands:
		return pqmf.DefaultConfig(), nil
	case eightBands:
		return pqmf.EightBandConfig(), nil
	default:
		return nil, fmt.Errorf("no preset for %d bands: set -taps, -cutoff and -beta", bands)
	}
}
