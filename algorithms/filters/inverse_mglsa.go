package filters

import (
	"fmt"
	"math"
)

// InverseMGLSAFilter applies the inverse (all-zero warped) filter of
// MGLSAFilter, recovering the excitation from a synthesized signal.
// With zero stages it routes a sign-flipped coefficient copy through
// an MLSA filter.
type InverseMGLSAFilter struct {
	numFilterOrder int
	numStage       int
	alpha          float64
	transposition  bool
	mlsa           *MLSAFilter
	valid          bool
}

// InverseMGLSAFilterBuffer holds the cascade state and the negated
// coefficient scratch. The zero value is ready to use.
type InverseMGLSAFilterBuffer struct {
	signals             []float64
	inverseCoefficients []float64
	mlsa                MLSAFilterBuffer
}

// NewInverseMGLSAFilter creates the inverse filter with the same
// parameters as the forward MGLSA filter.
func NewInverseMGLSAFilter(numFilterOrder, numPadeOrder, numStage int, alpha float64, transposition bool) *InverseMGLSAFilter {
	f := &InverseMGLSAFilter{
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
func (f *InverseMGLSAFilter) GetNumFilterOrder() int {
	return f.numFilterOrder
}

// GetNumStage returns the number of stages.
func (f *InverseMGLSAFilter) GetNumStage() int {
	return f.numStage
}

// GetAlpha returns the all-pass constant.
func (f *InverseMGLSAFilter) GetAlpha() float64 {
	return f.alpha
}

// GetTranspositionFlag reports whether the transposed form is used.
func (f *InverseMGLSAFilter) GetTranspositionFlag() bool {
	return f.transposition
}

// IsValid reports whether the filter configuration is usable.
func (f *InverseMGLSAFilter) IsValid() bool {
	return f.valid
}

// Run inverse-filters a single sample using the forward filter
// coefficients b(0)..b(M).
func (f *InverseMGLSAFilter) Run(filterCoefficients []float64, input float64, buffer *InverseMGLSAFilterBuffer) (float64, error) {
	if !f.valid {
		return 0, fmt.Errorf("inverse mglsa filter: invalid configuration")
	}
	if len(filterCoefficients) != f.numFilterOrder+1 {
		return 0, fmt.Errorf("inverse mglsa filter: %d coefficients, expected %d", len(filterCoefficients), f.numFilterOrder+1)
	}
	if buffer == nil {
		return 0, fmt.Errorf("inverse mglsa filter: nil buffer")
	}

	if f.numStage == 0 {
		if len(buffer.inverseCoefficients) != f.numFilterOrder+1 {
			buffer.inverseCoefficients = make([]float64, f.numFilterOrder+1)
		}
		for i, c := range filterCoefficients {
			buffer.inverseCoefficients[i] = -c
		}
		return f.mlsa.Run(buffer.inverseCoefficients, input, &buffer.mlsa)
	}

	if len(buffer.signals) != (f.numFilterOrder+1)*f.numStage {
		buffer.signals = make([]float64, (f.numFilterOrder+1)*f.numStage)
	}

	gainedInput := input * math.Exp(-filterCoefficients[0])
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
			// The stage input equals the forward stage output, so the
			// state recursion runs on x before the feedback is undone.
			e := beta * d[0]
			d[m] = b[m-1]*x + f.alpha*d[m-1]
			for j := m - 1; j > 0; j-- {
				d[j] += b[j-1]*x + f.alpha*(d[j-1]-d[j+1])
			}
			for j := 0; j < m; j++ {
				d[j] = d[j+1]
			}
			x += e
		} else {
			y := d[0] * b[0]
			for j := 1; j < m; j++ {
				d[j] += f.alpha * (d[j+1] - d[j-1])
				y += d[j] * b[j]
			}
			for j := m; j > 0; j-- {
				d[j] = d[j-1]
			}
			d[0] = f.alpha*d[0] + beta*x
			x += y
		}
	}

	return x, nil
}
