package spectral

import (
	"fmt"
)

// DataLayout identifies how a half-spectrum of FFT length L is laid
// out as a full sequence.
type DataLayout int

const (
	// LayoutStandard is the plain half spectrum, length L/2+1.
	LayoutStandard DataLayout = iota
	// LayoutFourierTransform mirrors the interior for a length-L FFT
	// input.
	LayoutFourierTransform
	// LayoutImpulseResponse is the length-L+1 symmetric form with the
	// end points halved so the response sums correctly.
	LayoutImpulseResponse
	// LayoutPlottingImpulseResponse is the length-L+1 symmetric form
	// without end-point scaling.
	LayoutPlottingImpulseResponse
)

func layoutLength(fftLength int, layout DataLayout) int {
	switch layout {
	case LayoutStandard:
		return fftLength/2 + 1
	case LayoutFourierTransform:
		return fftLength
	case LayoutImpulseResponse, LayoutPlottingImpulseResponse:
		return fftLength + 1
	default:
		return 0
	}
}

// DataSymmetrizing converts a sequence between any two of the four
// half-spectrum layouts.
type DataSymmetrizing struct {
	fftLength    int
	inputLayout  DataLayout
	outputLayout DataLayout
	inputLength  int
	outputLength int
	valid        bool
}

// NewDataSymmetrizing creates a converter for the given FFT length,
// which must be even and at least 2.
func NewDataSymmetrizing(fftLength int, inputLayout, outputLayout DataLayout) *DataSymmetrizing {
	d := &DataSymmetrizing{
		fftLength:    fftLength,
		inputLayout:  inputLayout,
		outputLayout: outputLayout,
		inputLength:  layoutLength(fftLength, inputLayout),
		outputLength: layoutLength(fftLength, outputLayout),
	}
	d.valid = fftLength >= 2 && fftLength%2 == 0 &&
		d.inputLength > 0 && d.outputLength > 0
	return d
}

// GetInputLength returns the expected input sequence length.
func (d *DataSymmetrizing) GetInputLength() int {
	return d.inputLength
}

// GetOutputLength returns the produced output sequence length.
func (d *DataSymmetrizing) GetOutputLength() int {
	return d.outputLength
}

// IsValid reports whether the converter configuration is usable.
func (d *DataSymmetrizing) IsValid() bool {
	return d.valid
}

// Run converts input from the input layout into output in the output
// layout.
func (d *DataSymmetrizing) Run(input, output []float64) error {
	if !d.valid {
		return fmt.Errorf("data symmetrizing: invalid configuration")
	}
	if len(input) != d.inputLength {
		return fmt.Errorf("data symmetrizing: input length %d, expected %d", len(input), d.inputLength)
	}
	if len(output) != d.outputLength {
		return fmt.Errorf("data symmetrizing: output length %d, expected %d", len(output), d.outputLength)
	}

	half := d.fftLength / 2

	switch d.inputLayout {
	case LayoutStandard:
		switch d.outputLayout {
		case LayoutStandard:
			copy(output, input)
		case LayoutFourierTransform:
			copy(output, input)
			for i := 1; i < half; i++ {
				output[d.fftLength-i] = input[i]
			}
		case LayoutImpulseResponse, LayoutPlottingImpulseResponse:
			for i := 0; i <= half; i++ {
				output[i] = input[half-i]
			}
			copy(output[half+1:], input[1:])
			if d.outputLayout == LayoutImpulseResponse {
				output[0] *= 0.5
				output[d.fftLength] *= 0.5
			}
		}

	case LayoutFourierTransform:
		switch d.outputLayout {
		case LayoutStandard:
			copy(output, input[:half+1])
		case LayoutFourierTransform:
			copy(output, input)
		case LayoutImpulseResponse, LayoutPlottingImpulseResponse:
			copy(output, input[half:])
			copy(output[half:], input[:half+1])
			if d.outputLayout == LayoutImpulseResponse {
				output[0] *= 0.5
				output[d.fftLength] *= 0.5
			}
		}

	case LayoutImpulseResponse:
		switch d.outputLayout {
		case LayoutStandard:
			copy(output, input[half:])
			output[half] *= 2.0
		case LayoutFourierTransform:
			copy(output, input[half:])
			copy(output[half+1:], input[1:half])
			output[half] *= 2.0
		case LayoutImpulseResponse:
			copy(output, input)
		case LayoutPlottingImpulseResponse:
			copy(output, input)
			output[0] *= 2.0
			output[d.fftLength] *= 2.0
		}

	case LayoutPlottingImpulseResponse:
		switch d.outputLayout {
		case LayoutStandard:
			copy(output, input[half:])
		case LayoutFourierTransform:
			copy(output, input[half:])
			copy(output[half+1:], input[1:half])
		case LayoutImpulseResponse:
			copy(output, input)
			output[0] *= 0.5
			output[d.fftLength] *= 0.5
		case LayoutPlottingImpulseResponse:
			copy(output, input)
		}
	}

	return nil
}
