package numeric

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetricMatrixIndexing(t *testing.T) {
	m := NewSymmetricMatrix(4)
	m.Set(1, 3, 2.5)

	assert.Equal(t, 2.5, m.At(1, 3))
	assert.Equal(t, 2.5, m.At(3, 1))

	m.Fill(1.0)
	assert.Equal(t, 1.0, m.At(2, 0))

	m.Resize(2)
	assert.Equal(t, 2, m.Dim())
	assert.Equal(t, 0.0, m.At(1, 1))
}

func TestSymmetricSolverPositiveDefinite(t *testing.T) {
	// A = [4 1 0; 1 3 1; 0 1 2], b = [1 2 3].
	a := NewSymmetricMatrix(3)
	a.Set(0, 0, 4)
	a.Set(1, 0, 1)
	a.Set(1, 1, 3)
	a.Set(2, 1, 1)
	a.Set(2, 2, 2)
	b := []float64{1, 2, 3}

	solver := NewSymmetricSolver(2)
	require.True(t, solver.IsValid())

	x := make([]float64, 3)
	var buf SymmetricSolverBuffer
	require.NoError(t, solver.Solve(a, b, x, &buf))

	// Check ||A*x - b|| <= 1e-9 * ||b||.
	var residual, norm float64
	for i := 0; i < 3; i++ {
		r := -b[i]
		for j := 0; j < 3; j++ {
			r += a.At(i, j) * x[j]
		}
		residual += r * r
		norm += b[i] * b[i]
	}
	assert.LessOrEqual(t, math.Sqrt(residual), 1e-9*math.Sqrt(norm))
}

func TestSymmetricSolverIndefinite(t *testing.T) {
	// A = [-2 1; 1 3] has one negative and one positive eigenvalue.
	a := NewSymmetricMatrix(2)
	a.Set(0, 0, -2)
	a.Set(1, 0, 1)
	a.Set(1, 1, 3)
	b := []float64{1, 4}

	solver := NewSymmetricSolver(1)
	x := make([]float64, 2)
	var buf SymmetricSolverBuffer
	require.NoError(t, solver.Solve(a, b, x, &buf))

	// det(A) = -7, x = A^{-1}*b = [1/7, 9/7].
	assert.InDelta(t, 1.0/7.0, x[0], 1e-12)
	assert.InDelta(t, 9.0/7.0, x[1], 1e-12)
}

func TestSymmetricSolverZeroPivot(t *testing.T) {
	a := NewSymmetricMatrix(2)
	a.Set(0, 0, 0.0)
	a.Set(1, 1, 1.0)

	solver := NewSymmetricSolver(1)
	x := make([]float64, 2)
	var buf SymmetricSolverBuffer
	assert.Error(t, solver.Solve(a, []float64{1, 1}, x, &buf))
}

func TestVandermondeSystemSolver(t *testing.T) {
	// Nodes a and weights w; b[k] = sum_i w[i]*a[i]^k.
	nodes := []float64{0.9, 0.3, -0.5}
	weights := []float64{2.0, 1.0, 0.5}
	b := make([]float64, 3)
	for k := 0; k < 3; k++ {
		for i := range nodes {
			b[k] += weights[i] * math.Pow(nodes[i], float64(k))
		}
	}

	solver := NewVandermondeSystemSolver(2)
	require.True(t, solver.IsValid())

	x := make([]float64, 3)
	var buf VandermondeSystemSolverBuffer
	require.NoError(t, solver.Solve(nodes, b, x, &buf))

	for i := range weights {
		assert.InDelta(t, weights[i], x[i], 1e-10)
	}
}

func TestDurandKernerQuadratic(t *testing.T) {
	// 3x^2 + 4x + 5 normalized to monic form. Roots are
	// -2/3 +/- i*sqrt(11)/3.
	coefficients := []float64{4.0 / 3.0, 5.0 / 3.0}
	roots := make([]complex128, 2)

	dk := NewDurandKerner(2, 1000, 1e-14)
	require.True(t, dk.IsValid())

	converged, err := dk.Find(coefficients, roots)
	require.NoError(t, err)
	assert.True(t, converged)

	expected := []complex128{
		complex(-2.0/3.0, math.Sqrt(11)/3.0),
		complex(-2.0/3.0, -math.Sqrt(11)/3.0),
	}
	for _, want := range expected {
		best := math.Inf(1)
		for _, got := range roots {
			if d := cmplx.Abs(got - want); d < best {
				best = d
			}
		}
		assert.Less(t, best, 1e-6)
	}
}

func TestDurandKernerRootsInUnitDisc(t *testing.T) {
	// (x - 0.5)(x + 0.25)(x - 0.1) expanded.
	r1, r2, r3 := 0.5, -0.25, 0.1
	coefficients := []float64{
		-(r1 + r2 + r3),
		r1*r2 + r1*r3 + r2*r3,
		-(r1 * r2 * r3),
	}
	roots := make([]complex128, 3)

	dk := NewDurandKerner(3, 1000, 1e-14)
	converged, err := dk.Find(coefficients, roots)
	require.NoError(t, err)
	require.True(t, converged)

	for _, want := range []float64{r1, r2, r3} {
		best := math.Inf(1)
		for _, got := range roots {
			if d := cmplx.Abs(got - complex(want, 0)); d < best {
				best = d
			}
		}
		assert.Less(t, best, 1e-10)
	}
}

func TestScalarOperationPipeline(t *testing.T) {
	// Multiply by 2 then add 1: (0,1,2,3) -> (1,3,5,7).
	ops := NewScalarOperation()
	require.NoError(t, ops.AddMultiplication(2.0))
	require.NoError(t, ops.AddAddition(1.0))

	inputs := []float64{0, 1, 2, 3}
	expected := []float64{1, 3, 5, 7}
	for i, in := range inputs {
		got, isMagic := ops.Run(in)
		assert.False(t, isMagic)
		assert.Equal(t, expected[i], got)
	}
}

func TestScalarOperationMagicNumber(t *testing.T) {
	ops := NewScalarOperation()
	require.NoError(t, ops.AddMagicNumberRemover(0.0))
	require.NoError(t, ops.AddMultiplication(10.0))
	require.NoError(t, ops.AddMagicNumberReplacer(-1.0))

	got, isMagic := ops.Run(0.0)
	assert.False(t, isMagic)
	assert.Equal(t, -1.0, got)

	got, isMagic = ops.Run(2.0)
	assert.False(t, isMagic)
	assert.Equal(t, 20.0, got)
}

func TestScalarOperationMagicNumberWithoutReplacer(t *testing.T) {
	ops := NewScalarOperation()
	require.NoError(t, ops.AddMagicNumberRemover(-1e10))
	require.NoError(t, ops.AddAddition(5.0))

	_, isMagic := ops.Run(-1e10)
	assert.True(t, isMagic)
}

func TestScalarOperationBuilderFailures(t *testing.T) {
	ops := NewScalarOperation()
	assert.Error(t, ops.AddDivision(0.0))
	assert.Error(t, ops.AddModulo(0))
	assert.Error(t, ops.AddLogarithm(0.0))
	assert.Error(t, ops.AddMagicNumberReplacer(0.0))

	require.NoError(t, ops.AddMagicNumberRemover(0.0))
	assert.Error(t, ops.AddMagicNumberRemover(0.0))
}
