package windowing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NormalizationType selects how the window is scaled before use.
type NormalizationType int

const (
	// NoNormalization leaves the window as generated.
	NoNormalization NormalizationType = iota
	// PowerNormalization scales so the squared coefficients sum to one.
	PowerNormalization
	// MagnitudeNormalization scales so the coefficients sum to one.
	MagnitudeNormalization
)

// DataWindowing multiplies frames by a window and zero-pads them to a
// fixed output length.
type DataWindowing struct {
	inputLength  int
	outputLength int
	window       []float64
	valid        bool
}

// NewDataWindowing creates an applicator from a generated window. The
// output length must be at least the window length; the gap is
// zero-padded.
func NewDataWindowing(window Window, outputLength int, normalization NormalizationType) *DataWindowing {
	d := &DataWindowing{
		outputLength: outputLength,
	}
	if window == nil || !window.IsValid() {
		return d
	}
	d.inputLength = window.GetSize()
	if d.inputLength <= 0 || outputLength < d.inputLength {
		return d
	}

	d.window = window.GetCoefficients()
	switch normalization {
	case NoNormalization:
	case PowerNormalization:
		power := floats.Dot(d.window, d.window)
		if power <= 0.0 {
			return d
		}
		floats.Scale(1.0/math.Sqrt(power), d.window)
	case MagnitudeNormalization:
		magnitude := floats.Sum(d.window)
		if magnitude == 0.0 {
			return d
		}
		floats.Scale(1.0/magnitude, d.window)
	default:
		return d
	}
	d.valid = true
	return d
}

// GetInputLength returns the frame length the applicator accepts.
func (d *DataWindowing) GetInputLength() int {
	return d.inputLength
}

// GetOutputLength returns the zero-padded output length.
func (d *DataWindowing) GetOutputLength() int {
	return d.outputLength
}

// IsValid reports whether the applicator configuration is usable.
func (d *DataWindowing) IsValid() bool {
	return d.valid
}

// Run windows the input frame into output, zero-padding the tail.
func (d *DataWindowing) Run(input, output []float64) error {
	if !d.valid {
		return fmt.Errorf("data windowing: invalid configuration")
	}
	if len(input) != d.inputLength {
		return fmt.Errorf("data windowing: input length %d, expected %d", len(input), d.inputLength)
	}
	if len(output) != d.outputLength {
		return fmt.Errorf("data windowing: output length %d, expected %d", len(output), d.outputLength)
	}

	for i := 0; i < d.inputLength; i++ {
		output[i] = input[i] * d.window[i]
	}
	for i := d.inputLength; i < d.outputLength; i++ {
		output[i] = 0.0
	}
	return nil
}
