package lpc

import (
	"fmt"
	"math"
	"sort"

	"github.com/sonidolab/cepstra/algorithms/numeric"
)

// binomialCoefficient computes n choose k by building a Pascal row.
func binomialCoefficient(n, k int) uint64 {
	if k == 0 || n == k {
		return 1
	}
	buffer := make([]uint64, n)
	for i := 0; i < n; i++ {
		buffer[i] = 1
		for j := i - 1; j > 0; j-- {
			buffer[j] += buffer[j-1]
		}
	}
	return buffer[k] + buffer[k-1]
}

// AutocorrelationToCompositeSinusoidalModeling decomposes an
// autocorrelation sequence into a sum of sinusoids, producing the
// frequencies (in radians) followed by the intensities of each
// component. The order must be odd so the model has (order+1)/2
// sine waves.
type AutocorrelationToCompositeSinusoidalModeling struct {
	numOrder    int
	numSineWave int
	symmetric   *numeric.SymmetricSolver
	rootFinder  *numeric.DurandKerner
	vandermonde *numeric.VandermondeSystemSolver
	valid       bool
}

// AutocorrelationToCompositeSinusoidalModelingBuffer holds the
// intermediate Hankel and Vandermonde workspaces.
type AutocorrelationToCompositeSinusoidalModelingBuffer struct {
	u                 []float64
	uFirstHalf        []float64
	uSecondHalf       []float64
	uMatrix           *numeric.SymmetricMatrix
	p                 []float64
	roots             []complex128
	rootRealParts     []float64
	intensities       []float64
	symmetricBuffer   numeric.SymmetricSolverBuffer
	vandermondeBuffer numeric.VandermondeSystemSolverBuffer
}

// NewAutocorrelationToCompositeSinusoidalModeling creates a converter
// of odd order numOrder. The iteration count and threshold control the
// polynomial root search.
func NewAutocorrelationToCompositeSinusoidalModeling(numOrder, numIteration int, convergenceThreshold float64) *AutocorrelationToCompositeSinusoidalModeling {
	numSineWave := (numOrder + 1) / 2
	c := &AutocorrelationToCompositeSinusoidalModeling{
		numOrder:    numOrder,
		numSineWave: numSineWave,
		symmetric:   numeric.NewSymmetricSolver(numSineWave - 1),
		rootFinder:  numeric.NewDurandKerner(numSineWave, numIteration, convergenceThreshold),
		vandermonde: numeric.NewVandermondeSystemSolver(numSineWave - 1),
	}
	c.valid = numOrder >= 0 && numOrder%2 != 0 &&
		c.symmetric.IsValid() && c.rootFinder.IsValid() && c.vandermonde.IsValid()
	return c
}

// GetNumOrder returns the coefficient order.
func (c *AutocorrelationToCompositeSinusoidalModeling) GetNumOrder() int {
	return c.numOrder
}

// GetNumSineWave returns the number of sinusoidal components.
func (c *AutocorrelationToCompositeSinusoidalModeling) GetNumSineWave() int {
	return c.numSineWave
}

// IsValid reports whether the converter configuration is usable.
func (c *AutocorrelationToCompositeSinusoidalModeling) IsValid() bool {
	return c.valid
}

// Run converts autocorrelation (length order+1) into the composite
// sinusoidal model: frequencies in descending cosine order at indices
// 0..N-1 and the matching intensities at indices N..order.
func (c *AutocorrelationToCompositeSinusoidalModeling) Run(autocorrelation, output []float64, buffer *AutocorrelationToCompositeSinusoidalModelingBuffer) error {
	length := c.numOrder + 1
	if !c.valid {
		return fmt.Errorf("csm: invalid configuration")
	}
	if len(autocorrelation) != length || len(output) != length {
		return fmt.Errorf("csm: length mismatch")
	}
	if buffer == nil {
		return fmt.Errorf("csm: nil buffer")
	}

	n := c.numSineWave
	if len(buffer.u) != length {
		buffer.u = make([]float64, length)
	}
	if len(buffer.uFirstHalf) != n {
		buffer.uFirstHalf = make([]float64, n)
	}
	if len(buffer.uSecondHalf) != n {
		buffer.uSecondHalf = make([]float64, n)
	}
	if buffer.uMatrix == nil || buffer.uMatrix.Dim() != n {
		buffer.uMatrix = numeric.NewSymmetricMatrix(n)
	}
	if len(buffer.p) != n {
		buffer.p = make([]float64, n)
	}
	if len(buffer.roots) != n {
		buffer.roots = make([]complex128, n)
	}
	if len(buffer.rootRealParts) != n {
		buffer.rootRealParts = make([]float64, n)
	}
	if len(buffer.intensities) != n {
		buffer.intensities = make([]float64, n)
	}

	// Hankel elements from the binomially smoothed autocorrelation.
	u := buffer.u
	for l := 0; l < length; l++ {
		sum := 0.0
		for k := 0; k <= l; k++ {
			index := l - 2*k
			if index < 0 {
				index = -index
			}
			sum += float64(binomialCoefficient(l, k)) * autocorrelation[index]
		}
		u[l] = sum / math.Pow(2.0, float64(l))
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			buffer.uMatrix.Set(i, j, -u[i+j])
		}
	}

	// Solve the Hankel system for the characteristic polynomial.
	copy(buffer.uSecondHalf, u[n:])
	if err := c.symmetric.Solve(buffer.uMatrix, buffer.uSecondHalf, buffer.p, &buffer.symmetricBuffer); err != nil {
		return fmt.Errorf("csm: %w", err)
	}

	// The polynomial roots are the cosines of the frequencies.
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		buffer.p[i], buffer.p[j] = buffer.p[j], buffer.p[i]
	}
	converged, err := c.rootFinder.Find(buffer.p, buffer.roots)
	if err != nil {
		return fmt.Errorf("csm: %w", err)
	}
	if !converged {
		return fmt.Errorf("csm: root search did not converge")
	}
	for i := 0; i < n; i++ {
		re := real(buffer.roots[i])
		if math.Abs(re) > 1.0 {
			return fmt.Errorf("csm: root %g outside the unit interval", re)
		}
		buffer.rootRealParts[i] = re
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(buffer.rootRealParts)))
	for i := 0; i < n; i++ {
		output[i] = math.Acos(buffer.rootRealParts[i])
	}

	// The intensities follow from a Vandermonde system on the cosines.
	copy(buffer.uFirstHalf, u[:n])
	if err := c.vandermonde.Solve(buffer.rootRealParts, buffer.uFirstHalf, buffer.intensities, &buffer.vandermondeBuffer); err != nil {
		return fmt.Errorf("csm: %w", err)
	}
	copy(output[n:], buffer.intensities)
	return nil
}
