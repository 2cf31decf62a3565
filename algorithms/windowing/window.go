package windowing

import (
	"fmt"
)

// Window is the common surface of all window generators.
type Window interface {
	// Apply multiplies a signal by the window, returning a new slice.
	Apply(signal []float64) []float64

	// ApplyInPlace multiplies a signal by the window in place.
	ApplyInPlace(signal []float64) error

	// GetCoefficients returns a copy of the window coefficients.
	GetCoefficients() []float64

	// GetSize returns the window length.
	GetSize() int

	// GetType returns the window type name.
	GetType() string

	// IsValid reports whether the window configuration is usable.
	IsValid() bool
}

func applyWindow(coefficients, signal []float64) []float64 {
	if len(signal) != len(coefficients) {
		return nil
	}
	windowed := make([]float64, len(signal))
	for i := range signal {
		windowed[i] = signal[i] * coefficients[i]
	}
	return windowed
}

func applyWindowInPlace(coefficients, signal []float64) error {
	if len(signal) != len(coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(coefficients))
	}
	for i := range signal {
		signal[i] *= coefficients[i]
	}
	return nil
}

func copyCoefficients(coefficients []float64) []float64 {
	out := make([]float64, len(coefficients))
	copy(out, coefficients)
	return out
}
