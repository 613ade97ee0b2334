package main

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pqmf"
	"github.com/tphakala/go-pqmf/internal/filter"
	"github.com/tphakala/go-pqmf/internal/mathutil"
)

const (
	// Frequency response resolution (points from DC to Nyquist)
	responsePoints = 2048

	// Display limits
	maxBandsToShow = 4

	// Stopband measurement floor
	silenceFloorDB = -200.0
)

func main() {
	fmt.Println("=== Analyzing Filterbank Prototypes ===")

	presets := []struct {
		name   string
		config *pqmf.Config
	}{
		{"two-band", pqmf.TwoBandConfig()},
		{"four-band", pqmf.DefaultConfig()},
		{"eight-band", pqmf.EightBandConfig()},
	}

	for _, preset := range presets {
		fmt.Printf("\n=== %s (taps=%d, cutoff=%.3f, beta=%.1f) ===\n",
			preset.name, preset.config.Taps, preset.config.Cutoff, preset.config.Beta)

		p, err := pqmf.New(preset.config)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		analyzePrototype(p)
		analyzeBands(p)
		analyzeComposite(p)
	}

	printDesignHelper()
}

// analyzePrototype reports the lowpass prototype's key properties.
func analyzePrototype(p *pqmf.PQMF) {
	prototype := p.GetPrototype()
	info := p.GetInfo()
	bands := p.GetBands()

	var dcGain float64
	for _, h := range prototype {
		dcGain += h
	}

	var symmetryError float64
	for q := range len(prototype) / 2 {
		diff := math.Abs(prototype[q] - prototype[len(prototype)-1-q])
		if diff > symmetryError {
			symmetryError = diff
		}
	}

	resp := filter.ComputeFrequencyResponse(prototype, responsePoints)

	// The prototype's passband should span half a band width. Beyond one
	// full band width the response is pure leakage.
	bandEdge := 1.0 / float64(2*bands)
	stopbandStart := 1.0 / float64(bands)

	fmt.Printf("Prototype:\n")
	fmt.Printf("  Length: %d taps, delay %d samples\n", info.FilterLength, info.Delay)
	fmt.Printf("  DC gain: %.10f\n", dcGain)
	fmt.Printf("  Symmetry error: %.2e\n", symmetryError)
	fmt.Printf("  Gain at band edge (f=%.4f): %.2f dB\n",
		bandEdge, filter.MagnitudeDB(magnitudeAt(resp, bandEdge)))
	fmt.Printf("  Measured stopband peak (f>=%.4f): %.2f dB\n",
		stopbandStart, peakLevelAbove(resp, stopbandStart))
	fmt.Printf("  Predicted attenuation from beta: %.1f dB\n", info.StopbandAttenuationDB)
	fmt.Printf("  Coefficient memory: %d bytes\n", info.MemoryUsage)
}

// analyzeBands reports per-band passband gain and adjacent-band crosstalk.
func analyzeBands(p *pqmf.PQMF) {
	bank := p.GetAnalysisBank()
	bands := p.GetBands()

	fmt.Printf("Analysis bands:\n")
	for k := range bands {
		if k >= maxBandsToShow {
			fmt.Printf("  ... (%d more bands)\n", bands-maxBandsToShow)
			break
		}

		resp := filter.ComputeFrequencyResponse(bank[k], responsePoints)
		center := float64(2*k+1) / float64(2*bands)

		// Crosstalk probes the neighboring band's center frequency
		neighbor := k + 1
		if neighbor >= bands {
			neighbor = k - 1
		}
		crosstalkFreq := float64(2*neighbor+1) / float64(2*bands)

		fmt.Printf("  Band %d: center f=%.4f, gain %+.3f dB, crosstalk at f=%.4f: %.2f dB\n",
			k, center, filter.MagnitudeDB(magnitudeAt(resp, center)),
			crosstalkFreq, filter.MagnitudeDB(magnitudeAt(resp, crosstalkFreq)))
	}
}

// analyzeComposite reports the flatness of the summed power response.
// A filterbank that reconstructs well keeps this near 0 dB between the
// outermost band centers; the edges fold onto themselves at DC and Nyquist.
func analyzeComposite(p *pqmf.PQMF) {
	bank := p.GetAnalysisBank()
	bands := p.GetBands()

	responses := make([]filter.FilterResponse, bands)
	for k := range bands {
		responses[k] = filter.ComputeFrequencyResponse(bank[k], responsePoints)
	}

	interiorLow := 1.0 / float64(2*bands)
	interiorHigh := 1.0 - interiorLow

	minPower, maxPower := math.Inf(1), math.Inf(-1)
	minFreq, maxFreq := 0.0, 0.0
	for i := range responsePoints {
		freq := responses[0].Frequencies[i]
		if freq < interiorLow || freq > interiorHigh {
			continue
		}

		var power float64
		for k := range bands {
			mag := responses[k].Magnitude[i]
			power += mag * mag
		}

		if power < minPower {
			minPower, minFreq = power, freq
		}
		if power > maxPower {
			maxPower, maxFreq = power, freq
		}
	}

	fmt.Printf("Composite power response (between outermost band centers):\n")
	fmt.Printf("  Min: %+.3f dB at f=%.4f\n", powerDB(minPower), minFreq)
	fmt.Printf("  Max: %+.3f dB at f=%.4f\n", powerDB(maxPower), maxFreq)
	fmt.Printf("  Ripple: %.3f dB\n", powerDB(maxPower)-powerDB(minPower))
}

// printDesignHelper shows Kaiser design targets realized through the
// automatic prototype design, with the delivered stopband measured from
// the actual response.
func printDesignHelper() {
	fmt.Println("\n=== Kaiser Design Helper ===")

	// Transition widths are Nyquist-relative and centered on the cutoff
	const demoCutoff = 0.125

	targets := []struct {
		attenuation  float64
		transitionBW float64
	}{
		{60.0, 0.10},
		{80.0, 0.10},
		{90.0, 0.025},
		{100.0, 0.025},
		{120.0, 0.02},
	}

	for _, target := range targets {
		prototype, err := filter.DesignPrototypeAuto(demoCutoff, target.transitionBW, target.attenuation)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		resp := filter.ComputeFrequencyResponse(prototype, responsePoints)
		measured := peakLevelAbove(resp, demoCutoff+target.transitionBW/2)

		fmt.Printf("  %.0f dB stopband, transition %.3f: beta = %.3f, %d taps, measured peak %.1f dB\n",
			target.attenuation, target.transitionBW,
			mathutil.KaiserBeta(target.attenuation), len(prototype), measured)
	}

	fmt.Println("\nPreset beta values deliver:")
	for _, beta := range []float64{9.0, 10.0} {
		fmt.Printf("  beta %.1f: ~%.1f dB stopband\n", beta, mathutil.KaiserAttenuation(beta))
	}
}

// magnitudeAt returns the response magnitude at the grid point nearest
// the given Nyquist-relative frequency.
func magnitudeAt(resp filter.FilterResponse, freq float64) float64 {
	index := int(freq*float64(len(resp.Magnitude)) + 0.5)
	if index >= len(resp.Magnitude) {
		index = len(resp.Magnitude) - 1
	}
	return resp.Magnitude[index]
}

// peakLevelAbove returns the worst-case response level in dB at or above
// the given Nyquist-relative frequency.
func peakLevelAbove(resp filter.FilterResponse, freq float64) float64 {
	peak := silenceFloorDB
	for i, f := range resp.Frequencies {
		if f < freq {
			continue
		}
		level := filter.MagnitudeDB(resp.Magnitude[i])
		if level > peak {
			peak = level
		}
	}
	return peak
}

// powerDB converts a linear power ratio to decibels.
func powerDB(power float64) float64 {
	const minPower = 1e-20

	if power < minPower {
		power = minPower
	}
	return 10.0 * math.Log10(power)
}
