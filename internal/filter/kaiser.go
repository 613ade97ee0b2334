// Package filter provides prototype filter design and cosine modulation
// for pseudo-QMF filterbanks.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pqmf/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

const (
	// Filter design constants
	maxPrototypeOrder = 8191

	// Window normalization
	windowNormalizationFactor = 2.0

	// Sinc function constants
	sincCenterTap     = 1.0
	sincZeroThreshold = 1e-10

	// Prototype normalization: unity gain at DC
	filterGainTarget = 1.0
)

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
// The Kaiser window provides excellent control over the trade-off between
// main lobe width and sidelobe level in frequency domain.
//
// Parameters:
//
//	length: Number of samples in the window
//	beta: Kaiser β parameter (controls sidelobe attenuation)
//	      Typically 0-15, where higher values = more attenuation but wider main lobe
//
// Returns:
//
//	Window coefficients in [0, 1] with w = 1 at the center
//
// The window is symmetric: w[i] = w[length-1-i]
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)

	// Special case for length 1
	if length == 1 {
		window[0] = sincCenterTap
		return window
	}

	// Calculate window using Kaiser formula:
	// w[n] = I₀(β * sqrt(1 - ((n - α)/α)²)) / I₀(β)
	// where α = (N-1)/2 and N is the window length

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		// Calculate position relative to center: [-1, 1]
		x := (float64(n) - alpha) / alpha

		// Kaiser window formula
		arg := beta * math.Sqrt(1.0-x*x)
		window[n] = mathutil.BesselI0(arg) / i0Beta
	}

	return window
}

// PrototypeParams holds parameters for prototype filter design.
type PrototypeParams struct {
	// Order is the filter order. The designed prototype has Order+1
	// coefficients. Should be even so the bank's group delay lands on
	// a whole sample.
	Order int

	// Cutoff is the normalized cutoff frequency in (0, 1),
	// where 1.0 represents the Nyquist frequency.
	Cutoff float64

	// Beta is the Kaiser window shape parameter (≥ 0).
	// Higher values trade transition width for stopband attenuation.
	Beta float64
}

// Validate checks if prototype parameters are valid.
func (pp *PrototypeParams) Validate() error {
	if pp.Order < 0 {
		return fmt.Errorf("negative filter order: %d", pp.Order)
	}

	if pp.Order > maxPrototypeOrder {
		return fmt.Errorf("filter order too large: %d (maximum %d)", pp.Order, maxPrototypeOrder)
	}

	if pp.Cutoff <= 0 || pp.Cutoff >= 1 {
		return fmt.Errorf("invalid cutoff frequency: %f (must be in (0, 1))", pp.Cutoff)
	}

	if pp.Beta < 0 {
		return fmt.Errorf("invalid beta: %f (must be non-negative)", pp.Beta)
	}

	return nil
}

// DesignPrototype designs the windowed-sinc lowpass prototype for a
// cosine-modulated filterbank.
//
// This uses the Kaiser window method:
// 1. Generate ideal sinc function (infinite impulse response)
// 2. Truncate to Order+1 coefficients
// 3. Apply Kaiser window to reduce Gibbs phenomenon
// 4. Normalize for unity gain at DC
//
// The resulting filter has linear phase (symmetric impulse response)
// and serves as the template that cosine modulation shifts to each
// band's center frequency.
//
// Parameters:
//
//	params: Prototype design parameters
//
// Returns:
//
//	Filter coefficients (length = params.Order+1)
//	Error if parameters are invalid
func DesignPrototype(params PrototypeParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Generate Kaiser window over the full filter length
	length := params.Order + 1
	window := KaiserWindow(length, params.Beta)

	// Generate windowed sinc function
	prototype := make([]float64, length)
	center := float64(length-1) / windowNormalizationFactor

	for n := range length {
		// Calculate position relative to center
		x := float64(n) - center

		// Generate sinc function: sin(π·fc·x) / (πx)
		// At x=0: limit is fc (by L'Hôpital's rule)
		var sincValue float64
		if math.Abs(x) < sincZeroThreshold {
			sincValue = params.Cutoff
		} else {
			sincValue = math.Sin(math.Pi*params.Cutoff*x) / (math.Pi * x)
		}

		// Apply Kaiser window
		prototype[n] = sincValue * window[n]
	}

	// Normalize for unity gain at DC
	// Uses SIMD-accelerated sum and scale operations
	sum := f64.Sum(prototype)

	if math.Abs(sum) > sincZeroThreshold {
		scale := filterGainTarget / sum
		f64.Scale(prototype, prototype, scale)
	}

	return prototype, nil
}

// DesignPrototypeAuto designs a prototype with automatic order and beta
// selection.
//
// This is a convenience function that derives the filter order from
// Kaiser's length estimate for the requested transition bandwidth, and
// the window beta from his attenuation formula. The estimated length is
// always odd, so the resulting order is even and the bank's group delay
// lands on a whole sample.
//
// Parameters:
//
//	cutoff: Normalized cutoff frequency (0 to 1, Nyquist-relative)
//	transitionBW: Normalized transition bandwidth (Nyquist-relative)
//	attenuationDB: Desired stopband attenuation in dB
//
// Returns:
//
//	Filter coefficients
//	Error if parameters are invalid
func DesignPrototypeAuto(cutoff, transitionBW, attenuationDB float64) ([]float64, error) {
	// EstimateFilterLength takes the transition band as a fraction of
	// the sample rate, not of Nyquist
	order := mathutil.EstimateFilterLength(attenuationDB, transitionBW/2.0) - 1

	return DesignPrototype(PrototypeParams{
		Order:  order,
		Cutoff: cutoff,
		Beta:   mathutil.KaiserBeta(attenuationDB),
	})
}
