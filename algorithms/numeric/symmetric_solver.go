package numeric

import (
	"fmt"
)

// SymmetricSolver solves A*x = b for a symmetric coefficient matrix A
// via the Cholesky factorization A = L*diag(d)*L^T.
type SymmetricSolver struct {
	order int
	valid bool
}

// SymmetricSolverBuffer holds per-call workspace for SymmetricSolver.
// A buffer must not be shared between concurrent Solve calls.
type SymmetricSolverBuffer struct {
	lower *SymmetricMatrix
	diag  []float64
	y     []float64
}

// NewSymmetricSolver creates a solver for systems of dimension order+1.
func NewSymmetricSolver(order int) *SymmetricSolver {
	return &SymmetricSolver{
		order: order,
		valid: order >= 0,
	}
}

// Order returns the system order.
func (s *SymmetricSolver) Order() int {
	return s.order
}

// IsValid reports whether the solver configuration is usable.
func (s *SymmetricSolver) IsValid() bool {
	return s.valid
}

// Solve computes x such that a*x = b. The solution is written to x,
// which must have length order+1. Fails when the factorization hits a
// zero pivot.
func (s *SymmetricSolver) Solve(a *SymmetricMatrix, b, x []float64, buffer *SymmetricSolverBuffer) error {
	length := s.order + 1
	if !s.valid {
		return fmt.Errorf("symmetric solver: invalid configuration")
	}
	if a == nil || a.Dim() != length || len(b) != length || len(x) != length || buffer == nil {
		return fmt.Errorf("symmetric solver: argument size mismatch")
	}

	if buffer.lower == nil || buffer.lower.Dim() != length {
		buffer.lower = NewSymmetricMatrix(length)
	}
	if len(buffer.diag) != length {
		buffer.diag = make([]float64, length)
	}
	if len(buffer.y) != length {
		buffer.y = make([]float64, length)
	}

	if err := a.CholeskyLDL(buffer.lower, buffer.diag); err != nil {
		return fmt.Errorf("symmetric solver: %w", err)
	}

	lower, diag, y := buffer.lower, buffer.diag, buffer.y

	// Forward substitution L*y = b.
	for i := 0; i < length; i++ {
		y[i] = b[i]
		for j := 0; j < i; j++ {
			y[i] -= lower.At(i, j) * y[j]
		}
	}

	// Back substitution diag(d)*L^T*x = y.
	for i := length - 1; i >= 0; i-- {
		x[i] = y[i] / diag[i]
		for j := i + 1; j < length; j++ {
			x[i] -= lower.At(j, i) * x[j]
		}
	}

	return nil
}
