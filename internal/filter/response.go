package filter

import (
	"math"
)

const defaultResponsePoints = 512

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated
	// (normalized, 0 to 1 where 1 is Nyquist)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse calculates the frequency response of a FIR filter.
//
// Uses the discrete-time Fourier transform (DTFT) to evaluate the filter's
// frequency response at the specified number of points. Works on the
// prototype and on individual modulated band filters alike.
//
// Parameters:
//
//	coeffs: Filter coefficients
//	numPoints: Number of frequency points to evaluate (default: 512)
//
// Returns:
//
//	Frequency response data
func ComputeFrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	// Evaluate frequency response at numPoints frequencies from 0 to Nyquist
	for k := range numPoints {
		// Normalized frequency (0 to 1, Nyquist-relative)
		freq := float64(k) / float64(numPoints)
		response.Frequencies[k] = freq

		// Compute H(e^jω) = Σ h[n]·e^(-jωn) with ω = π·freq
		// Split into real and imaginary parts
		var realPart, imagPart float64
		omega := math.Pi * freq

		for n, h := range coeffs {
			angle := omega * float64(n)
			realPart += h * math.Cos(angle)
			imagPart -= h * math.Sin(angle)
		}

		// Calculate magnitude and phase
		response.Magnitude[k] = math.Sqrt(realPart*realPart + imagPart*imagPart)
		response.Phase[k] = math.Atan2(imagPart, realPart)
	}

	return response
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const (
		minMagnitude = 1e-10 // Avoid log(0)
		dbMultiplier = 20.0  // 20*log10 for magnitude
	)

	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}
