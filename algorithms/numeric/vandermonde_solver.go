package numeric

import (
	"fmt"
)

// VandermondeSystemSolver solves the transposed Vandermonde system
//
//	[ 1      1      ...  1      ] [x(0)]   [b(0)]
//	[ a(0)   a(1)   ...  a(M)   ] [x(1)] = [b(1)]
//	[ ...                       ] [ ...]   [ ...]
//	[ a(0)^M a(1)^M ...  a(M)^M ] [x(M)]   [b(M)]
//
// using the Press-Flannery recurrence over the master polynomial
// prod(z - a(i)).
type VandermondeSystemSolver struct {
	order int
	valid bool
}

// VandermondeSystemSolverBuffer holds per-call workspace for
// VandermondeSystemSolver.
type VandermondeSystemSolverBuffer struct {
	d []float64
}

// NewVandermondeSystemSolver creates a solver for systems of dimension
// order+1.
func NewVandermondeSystemSolver(order int) *VandermondeSystemSolver {
	return &VandermondeSystemSolver{
		order: order,
		valid: order >= 0,
	}
}

// Order returns the system order.
func (s *VandermondeSystemSolver) Order() int {
	return s.order
}

// IsValid reports whether the solver configuration is usable.
func (s *VandermondeSystemSolver) IsValid() bool {
	return s.valid
}

// Solve computes x from the coefficient vector a and the constant
// vector b. All slices must have length order+1. Fails when a
// denominator vanishes.
func (s *VandermondeSystemSolver) Solve(a, b, x []float64, buffer *VandermondeSystemSolverBuffer) error {
	length := s.order + 1
	if !s.valid {
		return fmt.Errorf("vandermonde solver: invalid configuration")
	}
	if len(a) != length || len(b) != length || len(x) != length || buffer == nil {
		return fmt.Errorf("vandermonde solver: argument size mismatch")
	}

	if len(buffer.d) != length {
		buffer.d = make([]float64, length)
	}
	d := buffer.d
	for i := range d {
		d[i] = 0.0
	}

	// Coefficients of the master polynomial prod(z - a(i)).
	for i := 0; i < length; i++ {
		for j := i; j > 0; j-- {
			d[j] -= a[i] * d[j-1]
		}
		d[0] -= a[i]
	}

	for i := 0; i <= s.order; i++ {
		tmp := 1.0
		numerator := b[s.order]
		denominator := 1.0
		for j := 0; j < s.order; j++ {
			tmp = d[j] + a[i]*tmp
			numerator += b[s.order-j-1] * tmp
			denominator = denominator*a[i] + tmp
		}
		if denominator == 0.0 {
			return fmt.Errorf("vandermonde solver: zero denominator at node %d", i)
		}
		x[i] = numerator / denominator
	}

	return nil
}
