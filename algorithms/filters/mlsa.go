package filters

import (
	"fmt"
	"math"
)

// Pade approximation tables for exp(x), indexed 1..L. Tabulated for
// orders 4 through 7; the values must not be altered since synthesis
// parity depends on them bit for bit.
var padeCoefficients = map[int][]float64{
	4: {0.0, 0.4999273, 0.1067005, 0.01170221, 0.0005656279},
	5: {0.0, 0.4999391, 0.1107098, 0.01369984, 0.0009564853, 0.00003041721},
	6: {0.0, 0.500000157834843, 0.113600112846183, 0.015133367945131,
		0.001258740956606, 0.000062701416552, 0.000001481891776},
	7: {0.0, 0.499802889651314, 0.115274789205577, 0.015997611632083,
		0.001452640362652, 0.000087007832645, 0.000003213962732,
		0.000000057148619},
}

// MLSAFilter synthesizes speech from mel-cepstral filter coefficients.
//
// The filter realizes the transfer function:
// H(z) = exp Σ b(m) Φ_m(z)
// where Φ_m is the warped basis with all-pass constant α. The
// exponential part is approximated by an L-th order Pade rational,
// split into a first stage driven by b(1) and a second stage driven by
// b(2)..b(M).
type MLSAFilter struct {
	numFilterOrder int
	numPadeOrder   int
	alpha          float64
	transposition  bool
	pade           []float64
	valid          bool
}

// MLSAFilterBuffer holds the two-stage filter state. The zero value is
// ready to use; state is allocated and zeroed on first Run.
type MLSAFilterBuffer struct {
	basic1 []float64
	basic2 []float64
	exp1   []float64
	exp2   []float64
}

// NewMLSAFilter creates a filter of order numFilterOrder with Pade
// order numPadeOrder in {4, 5, 6, 7} and all-pass constant alpha.
func NewMLSAFilter(numFilterOrder, numPadeOrder int, alpha float64, transposition bool) *MLSAFilter {
	f := &MLSAFilter{
		numFilterOrder: numFilterOrder,
		numPadeOrder:   numPadeOrder,
		alpha:          alpha,
		transposition:  transposition,
	}
	if numFilterOrder < 0 || numPadeOrder < 0 || math.Abs(alpha) >= 1.0 {
		return f
	}
	pade, ok := padeCoefficients[numPadeOrder]
	if !ok {
		return f
	}
	f.pade = pade
	f.valid = true
	return f
}

// GetNumFilterOrder returns the filter order.
func (f *MLSAFilter) GetNumFilterOrder() int {
	return f.numFilterOrder
}

// GetNumPadeOrder returns the Pade approximation order.
func (f *MLSAFilter) GetNumPadeOrder() int {
	return f.numPadeOrder
}

// GetAlpha returns the all-pass constant.
func (f *MLSAFilter) GetAlpha() float64 {
	return f.alpha
}

// GetTranspositionFlag reports whether the transposed form is used.
func (f *MLSAFilter) GetTranspositionFlag() bool {
	return f.transposition
}

// IsValid reports whether the filter configuration is usable.
func (f *MLSAFilter) IsValid() bool {
	return f.valid
}

func (f *MLSAFilter) prepare(buffer *MLSAFilterBuffer) {
	if len(buffer.basic1) != f.numPadeOrder+1 {
		buffer.basic1 = make([]float64, f.numPadeOrder+1)
	}
	if len(buffer.basic2) != f.numPadeOrder*(f.numFilterOrder+2) {
		buffer.basic2 = make([]float64, f.numPadeOrder*(f.numFilterOrder+2))
	}
	if len(buffer.exp1) != f.numPadeOrder+1 {
		buffer.exp1 = make([]float64, f.numPadeOrder+1)
	}
	if len(buffer.exp2) != f.numPadeOrder+1 {
		buffer.exp2 = make([]float64, f.numPadeOrder+1)
	}
}

// Run filters a single sample using the given filter coefficients
// b(0)..b(M), where exp b(0) is the gain.
func (f *MLSAFilter) Run(filterCoefficients []float64, input float64, buffer *MLSAFilterBuffer) (float64, error) {
	if !f.valid {
		return 0, fmt.Errorf("mlsa filter: invalid configuration")
	}
	if len(filterCoefficients) != f.numFilterOrder+1 {
		return 0, fmt.Errorf("mlsa filter: %d coefficients, expected %d", len(filterCoefficients), f.numFilterOrder+1)
	}
	if buffer == nil {
		return 0, fmt.Errorf("mlsa filter: nil buffer")
	}
	f.prepare(buffer)

	gainedInput := input * math.Exp(filterCoefficients[0])
	if f.numFilterOrder == 0 {
		return gainedInput, nil
	}

	b := filterCoefficients
	m := f.numFilterOrder
	beta := 1.0 - f.alpha*f.alpha

	// First stage.
	firstOutput := 0.0
	{
		d1 := buffer.basic1
		p1 := buffer.exp1
		x := gainedInput
		for i := f.numPadeOrder; i > 0; i-- {
			d1[i] = beta*p1[i-1] + f.alpha*d1[i]
			p1[i] = d1[i] * b[1]

			v := p1[i] * f.pade[i]
			if i%2 == 1 {
				x += v
			} else {
				x -= v
			}
			firstOutput += v
		}
		p1[0] = x
		firstOutput += x
	}

	// Second stage.
	secondOutput := 0.0
	{
		p2 := buffer.exp2
		x := firstOutput
		for i := f.numPadeOrder; i > 0; i-- {
			d2 := buffer.basic2[(i-1)*(m+2):]

			if f.transposition {
				d2[m] = b[m]*p2[i-1] + f.alpha*d2[m-1]
				for j := m - 1; j > 1; j-- {
					d2[j] += b[j]*p2[i-1] + f.alpha*(d2[j-1]-d2[j+1])
				}
				d2[1] += f.alpha * (d2[0] - d2[2])
				p2[i] = beta * d2[0]
				for j := 0; j < m; j++ {
					d2[j] = d2[j+1]
				}
			} else {
				d2[0] = p2[i-1]
				d2[1] = beta*p2[i-1] + f.alpha*d2[1]
				y := 0.0
				for j := 2; j <= m; j++ {
					d2[j] += f.alpha * (d2[j+1] - d2[j-1])
					y += d2[j] * b[j]
				}
				p2[i] = y
				for j := m + 1; j > 1; j-- {
					d2[j] = d2[j-1]
				}
			}

			v := p2[i] * f.pade[i]
			if i%2 == 1 {
				x += v
			} else {
				x -= v
			}
			secondOutput += v
		}
		p2[0] = x
		secondOutput += x
	}

	return secondOutput, nil
}
