package numeric

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DurandKerner finds all complex roots of a monic polynomial
//
//	x^M + a(0)*x^(M-1) + ... + a(M-2)*x + a(M-1)
//
// by simultaneous iteration. Initial root placement follows Aberth's
// approach; the cosine/sine tables are precomputed at construction so
// the inner iteration stays free of transcendentals.
type DurandKerner struct {
	order        int
	numIteration int
	threshold    float64
	cosTable     []float64
	sinTable     []float64
	valid        bool
}

// NewDurandKerner creates a root finder for polynomials of degree
// order. numIteration bounds the number of sweeps and threshold is the
// per-sweep convergence criterion on |delta|.
func NewDurandKerner(order, numIteration int, threshold float64) *DurandKerner {
	dk := &DurandKerner{
		order:        order,
		numIteration: numIteration,
		threshold:    threshold,
		valid:        true,
	}
	if order <= 0 || numIteration <= 0 || threshold < 0.0 {
		dk.valid = false
		return dk
	}

	dk.cosTable = make([]float64, order)
	dk.sinTable = make([]float64, order)
	phi := math.Pi / float64(2*order)
	unit := 2.0 * math.Pi / float64(order)
	for i := 0; i < order; i++ {
		angle := unit*float64(i) + phi
		dk.cosTable[i] = math.Cos(angle)
		dk.sinTable[i] = math.Sin(angle)
	}
	return dk
}

// Order returns the polynomial degree.
func (dk *DurandKerner) Order() int {
	return dk.order
}

// IsValid reports whether the finder configuration is usable.
func (dk *DurandKerner) IsValid() bool {
	return dk.valid
}

// Find computes the roots of the monic polynomial whose non-leading
// coefficients are given in coefficients (length order, highest degree
// first). Roots are written to roots (length order). The returned flag
// reports whether every root movement fell below the threshold within
// the iteration budget.
func (dk *DurandKerner) Find(coefficients []float64, roots []complex128) (bool, error) {
	if !dk.valid {
		return false, fmt.Errorf("durand-kerner: invalid configuration")
	}
	if len(coefficients) != dk.order || len(roots) != dk.order {
		return false, fmt.Errorf("durand-kerner: argument size mismatch")
	}

	a := coefficients
	x := roots

	// Aberth's initial placement.
	radius := 0.0
	for i := 1; i < dk.order; i++ {
		r := 2.0 * math.Pow(math.Abs(a[i]), 1.0/float64(i+1))
		if radius < r {
			radius = r
		}
	}
	center := -a[0] / float64(dk.order)
	for i := 0; i < dk.order; i++ {
		x[i] = complex(center+radius*dk.cosTable[i], center+radius*dk.sinTable[i])
	}

	converged := false
	for it := 0; it < dk.numIteration; it++ {
		halt := true
		for j := 0; j < dk.order; j++ {
			numerator := complex(1.0, 0.0)
			denominator := complex(1.0, 0.0)
			for k := 0; k < dk.order; k++ {
				numerator = numerator*x[j] + complex(a[k], 0.0)
				if j != k {
					denominator *= x[j] - x[k]
				}
			}
			if real(denominator) == 0.0 && imag(denominator) == 0.0 {
				x[j] = 0.0
			} else {
				delta := numerator / denominator
				x[j] -= delta
				if halt && dk.threshold < cmplx.Abs(delta) {
					halt = false
				}
			}
		}
		if halt {
			converged = true
			break
		}
	}

	return converged, nil
}
