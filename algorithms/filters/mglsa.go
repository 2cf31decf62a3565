package filters

import (
	"fmt"
	"math"
)

// MGLSAFilter synthesizes speech from mel-generalized cepstral filter
// coefficients. With zero stages it degenerates to the MLSA filter;
// with C stages it cascades C warped all-pole sections realizing
// gamma = -1/C.
type MGLSAFilter struct {
	numFilterOrder int
	numStage       int
	alpha          float64
	transposition  bool
	mlsa           *MLSAFilter
	valid          bool
}

// MGLSAFilterBuffer holds the cascade state. The zero value is ready
// to use.
type MGLSAFilterBuffer struct {
	signals []float64
	mlsa    MLSAFilterBuffer
}

// NewMGLSAFilter creates a filter of order numFilterOrder with
// numStage stages. The Pade order is only consulted when numStage is
// zero. The all-pass constant alpha must satisfy |alpha| < 1.
func NewMGLSAFilter(numFilterOrder, numPadeOrder, numStage int, alpha float64, transposition bool) *MGLSAFilter {
	f := &MGLSAFilter{
		numFilterOrder: numFilterOrder,
		numStage:       numStage,
		alpha:          alpha,
		transposition:  transposition,
		mlsa:           NewMLSAFilter(numFilterOrder, numPadeOrder, alpha, transposition),
	}
	if numFilterOrder < 0 || numStage < 0 || math.Abs(alpha) >= 1.0 {
		return f
	}
	if numStage == 0 && !f.mlsa.IsValid() {
		return f
	}
	f.valid = true
	return f
}

// GetNumFilterOrder returns the filter order.
func (f *MGLSAFilter) GetNumFilterOrder() int {
	return f.numFilterOrder
}

// GetNumStage returns the number of stages.
func (f *MGLSAFilter) GetNumStage() int {
	return f.numStage
}

// GetAlpha returns the all-pass constant.
func (f *MGLSAFilter) GetAlpha() float64 {
	return f.alpha
}

// GetTranspositionFlag reports whether the transposed form is used.
func (f *MGLSAFilter) GetTranspositionFlag() bool {
	return f.transposition
}

// IsValid reports whether the filter configuration is usable.
func (f *MGLSAFilter) IsValid() bool {
	return f.valid
}

// Run filters a single sample using the given filter coefficients
// b(0)..b(M).
func (f *MGLSAFilter) Run(filterCoefficients []float64, input float64, buffer *MGLSAFilterBuffer) (float64, error) {
	if !f.valid {
		return 0, fmt.Errorf("mglsa filter: invalid configuration")
	}
	if len(filterCoefficients) != f.numFilterOrder+1 {
		return 0, fmt.Errorf("mglsa filter: %d coefficients, expected %d", len(filterCoefficients), f.numFilterOrder+1)
	}
	if buffer == nil {
		return 0, fmt.Errorf("mglsa filter: nil buffer")
	}

	if f.numStage == 0 {
		return f.mlsa.Run(filterCoefficients, input, &buffer.mlsa)
	}

	if len(buffer.signals) != (f.numFilterOrder+1)*f.numStage {
		buffer.signals = make([]float64, (f.numFilterOrder+1)*f.numStage)
	}

	gainedInput := input * math.Exp(filterCoefficients[0])
	if f.numFilterOrder == 0 {
		return gainedInput, nil
	}

	b := filterCoefficients[1:]
	m := f.numFilterOrder
	beta := 1.0 - f.alpha*f.alpha
	x := gainedInput

	for i := 0; i < f.numStage; i++ {
		d := buffer.signals[(m+1)*i:]
		if f.transposition {
			x -= beta * d[0]
			d[m] = b[m-1]*x + f.alpha*d[m-1]
			for j := m - 1; j > 0; j-- {
				d[j] += b[j-1]*x + f.alpha*(d[j-1]-d[j+1])
			}
			for j := 0; j < m; j++ {
				d[j] = d[j+1]
			}
		} else {
			y := d[0] * b[0]
			for j := 1; j < m; j++ {
				d[j] += f.alpha * (d[j+1] - d[j-1])
				y += d[j] * b[j]
			}
			x -= y

			for j := m; j > 0; j-- {
				d[j] = d[j-1]
			}
			d[0] = f.alpha*d[0] + beta*x
		}
	}

	return x, nil
}
