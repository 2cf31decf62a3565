package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sonidolab/cepstra/algorithms/numeric"
)

// Accumulator collects zeroth-, first-, and optionally second-order
// moments of length-(M+1) vectors. Variances and covariances use the
// biased estimator (divide by N) unless the unbiased query is used.
type Accumulator struct {
	order      int // vector order M
	statsOrder int // highest accumulated moment, 0..2
	diagonal   bool
	valid      bool
}

// AccumulatorState holds the running statistics. A state must not be
// shared between concurrent Push calls. The zero value is ready to use.
type AccumulatorState struct {
	count  int
	first  []float64
	second *numeric.SymmetricMatrix
}

// NewAccumulator creates an accumulator for vectors of order
// order (length order+1). statsOrder selects how many moments to
// accumulate (0, 1, or 2); diagonal restricts second-order statistics
// to the diagonal.
func NewAccumulator(order, statsOrder int, diagonal bool) *Accumulator {
	return &Accumulator{
		order:      order,
		statsOrder: statsOrder,
		diagonal:   diagonal,
		valid:      order >= 0 && statsOrder >= 0 && statsOrder <= 2,
	}
}

// Order returns the vector order M.
func (a *Accumulator) Order() int {
	return a.order
}

// IsValid reports whether the accumulator configuration is usable.
func (a *Accumulator) IsValid() bool {
	return a.valid
}

// Clear resets the state to empty.
func (a *Accumulator) Clear(state *AccumulatorState) {
	if state == nil {
		return
	}
	state.count = 0
	for i := range state.first {
		state.first[i] = 0.0
	}
	if state.second != nil {
		state.second.Fill(0.0)
	}
}

// Push accumulates one vector of length order+1 into the state.
func (a *Accumulator) Push(data []float64, state *AccumulatorState) error {
	length := a.order + 1
	if !a.valid {
		return fmt.Errorf("accumulator: invalid configuration")
	}
	if len(data) != length || state == nil {
		return fmt.Errorf("accumulator: argument size mismatch")
	}

	if a.statsOrder >= 1 && len(state.first) != length {
		state.first = make([]float64, length)
	}
	if a.statsOrder >= 2 && (state.second == nil || state.second.Dim() != length) {
		state.second = numeric.NewSymmetricMatrix(length)
	}

	state.count++

	if a.statsOrder >= 1 {
		floats.Add(state.first, data)
	}
	if a.statsOrder >= 2 {
		for i := 0; i < length; i++ {
			lo := 0
			if a.diagonal {
				lo = i
			}
			for j := lo; j <= i; j++ {
				state.second.Set(i, j, state.second.At(i, j)+data[i]*data[j])
			}
		}
	}
	return nil
}

// Merge combines the statistics of another corpus (count, first- and
// second-order sums) into the state.
func (a *Accumulator) Merge(count int, first []float64, second *numeric.SymmetricMatrix, state *AccumulatorState) error {
	if !a.valid || state == nil {
		return fmt.Errorf("accumulator: invalid merge")
	}
	if count <= 0 {
		return fmt.Errorf("accumulator: merge count must be positive")
	}

	length := a.order + 1
	if state.count == 0 {
		state.count = count
		if a.statsOrder >= 1 {
			state.first = append([]float64(nil), first...)
		}
		if a.statsOrder >= 2 && second != nil {
			state.second = numeric.NewSymmetricMatrix(length)
			for i := 0; i < length; i++ {
				for j := 0; j <= i; j++ {
					state.second.Set(i, j, second.At(i, j))
				}
			}
		}
		return nil
	}

	if a.statsOrder >= 1 && len(first) != len(state.first) {
		return fmt.Errorf("accumulator: merge size mismatch")
	}
	if a.statsOrder >= 2 && (second == nil || second.Dim() != state.second.Dim()) {
		return fmt.Errorf("accumulator: merge size mismatch")
	}

	state.count += count
	if a.statsOrder >= 1 {
		floats.Add(state.first, first)
	}
	if a.statsOrder >= 2 {
		for i := 0; i < length; i++ {
			for j := 0; j <= i; j++ {
				state.second.Set(i, j, state.second.At(i, j)+second.At(i, j))
			}
		}
	}
	return nil
}

// Count returns the number of accumulated vectors.
func (a *Accumulator) Count(state *AccumulatorState) int {
	if state == nil {
		return 0
	}
	return state.count
}

// Sum writes the first-order sums to out (length order+1).
func (a *Accumulator) Sum(state *AccumulatorState, out []float64) error {
	if !a.valid || a.statsOrder < 1 || state == nil || len(out) != a.order+1 {
		return fmt.Errorf("accumulator: sum unavailable")
	}
	if len(state.first) == 0 {
		for i := range out {
			out[i] = 0.0
		}
		return nil
	}
	copy(out, state.first)
	return nil
}

// Mean writes the sample means to out (length order+1).
func (a *Accumulator) Mean(state *AccumulatorState, out []float64) error {
	if err := a.Sum(state, out); err != nil {
		return err
	}
	if state.count <= 0 {
		return fmt.Errorf("accumulator: no data")
	}
	z := 1.0 / float64(state.count)
	for i := range out {
		out[i] *= z
	}
	return nil
}

// DiagonalCovariance writes the biased variances to out (length
// order+1).
func (a *Accumulator) DiagonalCovariance(state *AccumulatorState, out []float64) error {
	length := a.order + 1
	if !a.valid || a.statsOrder < 2 || state == nil || state.count <= 0 || len(out) != length {
		return fmt.Errorf("accumulator: covariance unavailable")
	}

	mean := make([]float64, length)
	if err := a.Mean(state, mean); err != nil {
		return err
	}
	z := 1.0 / float64(state.count)
	for i := 0; i < length; i++ {
		out[i] = z*state.second.At(i, i) - mean[i]*mean[i]
	}
	return nil
}

// StandardDeviation writes the biased standard deviations to out.
func (a *Accumulator) StandardDeviation(state *AccumulatorState, out []float64) error {
	if err := a.DiagonalCovariance(state, out); err != nil {
		return err
	}
	for i := range out {
		out[i] = math.Sqrt(out[i])
	}
	return nil
}

// FullCovariance writes the biased covariance matrix to out.
func (a *Accumulator) FullCovariance(state *AccumulatorState, out *numeric.SymmetricMatrix) error {
	length := a.order + 1
	if !a.valid || a.statsOrder < 2 || a.diagonal || state == nil || state.count <= 0 || out == nil {
		return fmt.Errorf("accumulator: full covariance unavailable")
	}
	if out.Dim() != length {
		out.Resize(length)
	}

	mean := make([]float64, length)
	if err := a.Mean(state, mean); err != nil {
		return err
	}
	z := 1.0 / float64(state.count)
	for i := 0; i < length; i++ {
		for j := 0; j <= i; j++ {
			out.Set(i, j, z*state.second.At(i, j)-mean[i]*mean[j])
		}
	}
	return nil
}

// UnbiasedCovariance writes the unbiased covariance matrix to out.
// Requires at least two accumulated vectors.
func (a *Accumulator) UnbiasedCovariance(state *AccumulatorState, out *numeric.SymmetricMatrix) error {
	if state == nil || state.count <= 1 {
		return fmt.Errorf("accumulator: unbiased covariance needs at least two vectors")
	}
	if err := a.FullCovariance(state, out); err != nil {
		return err
	}
	z := float64(state.count) / float64(state.count-1)
	length := a.order + 1
	for i := 0; i < length; i++ {
		for j := 0; j <= i; j++ {
			out.Set(i, j, out.At(i, j)*z)
		}
	}
	return nil
}

// Correlation writes the correlation matrix to out.
func (a *Accumulator) Correlation(state *AccumulatorState, out *numeric.SymmetricMatrix) error {
	length := a.order + 1
	sigma := make([]float64, length)
	if err := a.StandardDeviation(state, sigma); err != nil {
		return err
	}
	if err := a.FullCovariance(state, out); err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		for j := 0; j <= i; j++ {
			out.Set(i, j, out.At(i, j)/(sigma[i]*sigma[j]))
		}
	}
	return nil
}
