package pqmf

import (
	"fmt"
	"sync"
)

// AnalyzeMulti analyzes a batch of independent single-channel signals.
// Each signal may have its own length. Batches with more than one signal
// are processed concurrently; the filterbank itself is immutable, so the
// goroutines share nothing but the filter coefficients.
func (p *PQMF) AnalyzeMulti(inputs [][]float64) ([][][]float64, error) {
	output := make([][][]float64, len(inputs))

	// Sequential processing for trivial batches
	if len(inputs) <= 1 {
		for ch := range inputs {
			result, err := p.Analyze(inputs[ch])
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
		}
		return output, nil
	}

	// Parallel processing: analyze channels concurrently
	var wg sync.WaitGroup
	errChan := make(chan error, len(inputs))

	for ch := range inputs {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()

			result, err := p.Analyze(inputs[channel])
			if err != nil {
				errChan <- fmt.Errorf("channel %d: %w", channel, err)
				return
			}
			output[channel] = result
		}(ch)
	}

	wg.Wait()
	close(errChan)

	// Check for errors
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}

// SynthesizeMulti reconstructs a batch of independent signals, one per
// subband set. Batches with more than one set are processed concurrently.
func (p *PQMF) SynthesizeMulti(subbandSets [][][]float64) ([][]float64, error) {
	output := make([][]float64, len(subbandSets))

	// Sequential processing for trivial batches
	if len(subbandSets) <= 1 {
		for ch := range subbandSets {
			result, err := p.Synthesize(subbandSets[ch])
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
		}
		return output, nil
	}

	// Parallel processing: synthesize channels concurrently
	var wg sync.WaitGroup
	errChan := make(chan error, len(subbandSets))

	for ch := range subbandSets {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()

			result, err := p.Synthesize(subbandSets[channel])
			if err != nil {
				errChan <- fmt.Errorf("channel %d: %w", channel, err)
				return
			}
			output[channel] = result
		}(ch)
	}

	wg.Wait()
	close(errChan)

	// Check for errors
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}
