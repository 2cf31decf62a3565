package filters

import (
	"fmt"
)

// IIRFilter implements a generic infinite impulse response filter in
// direct form with a shared circular delay line.
//
// The filter implements the transfer function:
// H(z) = (b(0) + b(1)z^-1 + ... + b(N)z^-N) / (a(0) + a(1)z^-1 + ... + a(M)z^-M)
//
// References:
//   - A.V. Oppenheim, R.W. Schafer, "Discrete-Time Signal Processing",
//     Prentice-Hall, 1999, Chapter 6
type IIRFilter struct {
	denominator []float64
	numerator   []float64
	denomOrder  int
	numerOrder  int
	filterOrder int
	valid       bool
}

// IIRFilterBuffer holds the filter state between samples. The zero
// value is ready to use; state is allocated and zeroed on first Run.
type IIRFilterBuffer struct {
	signals  []float64
	position int
}

// NewIIRFilter creates a filter from denominator coefficients a and
// numerator coefficients b. Both must be non-empty.
func NewIIRFilter(denominator, numerator []float64) *IIRFilter {
	f := &IIRFilter{
		denominator: append([]float64(nil), denominator...),
		numerator:   append([]float64(nil), numerator...),
		denomOrder:  len(denominator) - 1,
		numerOrder:  len(numerator) - 1,
	}
	if f.denomOrder > f.numerOrder {
		f.filterOrder = f.denomOrder
	} else {
		f.filterOrder = f.numerOrder
	}
	f.valid = f.denomOrder >= 0 && f.numerOrder >= 0
	return f
}

// GetNumDenominatorOrder returns the denominator order.
func (f *IIRFilter) GetNumDenominatorOrder() int {
	return f.denomOrder
}

// GetNumNumeratorOrder returns the numerator order.
func (f *IIRFilter) GetNumNumeratorOrder() int {
	return f.numerOrder
}

// IsValid reports whether the filter configuration is usable.
func (f *IIRFilter) IsValid() bool {
	return f.valid
}

// Run filters a single sample.
func (f *IIRFilter) Run(input float64, buffer *IIRFilterBuffer) (float64, error) {
	if !f.valid {
		return 0, fmt.Errorf("iir filter: invalid configuration")
	}
	if buffer == nil {
		return 0, fmt.Errorf("iir filter: nil buffer")
	}

	if len(buffer.signals) != f.filterOrder+1 {
		buffer.signals = make([]float64, f.filterOrder+1)
		buffer.position = 0
	}
	d := buffer.signals

	x := -input * f.denominator[0]
	for i, p := 1, buffer.position-1; i <= f.denomOrder; i, p = i+1, p-1 {
		if p < 0 {
			p = f.filterOrder
		}
		x += d[p] * f.denominator[i]
	}
	d[buffer.position] = -x

	y := 0.0
	for i, p := 0, buffer.position; i <= f.numerOrder; i, p = i+1, p-1 {
		if p < 0 {
			p = f.filterOrder
		}
		y += d[p] * f.numerator[i]
	}

	buffer.position++
	if buffer.position > f.filterOrder {
		buffer.position = 0
	}
	return y, nil
}
