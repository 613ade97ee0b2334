package pqmf

// Standard band configurations.
// Cutoff values sit near the band-edge overlap point that minimizes
// reconstruction error for each band count; taps and beta follow the
// parameter sets in common use for multi-band neural vocoders.
const (
	// Four-band configuration (default)
	defaultBands  = 4
	defaultTaps   = 62
	defaultCutoff = 0.15
	defaultBeta   = 9.0

	// Two-band configuration
	twoBandBands  = 2
	twoBandTaps   = 256
	twoBandCutoff = 0.25
	twoBandBeta   = 10.0

	// Eight-band configuration
	eightBandBands  = 8
	eightBandTaps   = 192
	eightBandCutoff = 0.13
	eightBandBeta   = 10.0
)

// Validation limits
const (
	minBands = 1    // Single band degenerates to a plain filter pair
	maxTaps  = 8191 // Maximum prototype filter order
)

// Memory estimate constants
const (
	bytesPerFloat64 = 8
	bytesPerFloat32 = 4
)
