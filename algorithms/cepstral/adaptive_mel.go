package cepstral

import (
	"fmt"
	"math"

	"github.com/sonidolab/cepstra/algorithms/filters"
)

// AdaptiveMelCepstralAnalysis estimates mel-cepstral coefficients
// sample by sample with a gradient update on the inverse MLSA
// prediction error.
type AdaptiveMelCepstralAnalysis struct {
	minEpsilon       float64
	momentum         float64
	forgettingFactor float64
	stepSizeFactor   float64
	mlsa             *filters.MLSAFilter
	toMelCepstrum    *MLSAFilterCoefficientsToMelCepstrum
	valid            bool
}

// AdaptiveMelCepstralAnalysisBuffer carries the analysis state between
// samples. The zero value is ready to use.
type AdaptiveMelCepstralAnalysisBuffer struct {
	prevPredictionError float64
	prevEpsilon         float64

	filterCoefficients        []float64
	inverseFilterCoefficients []float64
	phi                       []float64
	gradient                  []float64
	mlsa                      filters.MLSAFilterBuffer

	initialized bool
}

// NewAdaptiveMelCepstralAnalysis creates an analyzer of order numOrder
// with Pade order numPadeOrder and all-pass constant alpha. The
// update parameters must satisfy minEpsilon > 0, 0 <= momentum < 1,
// 0 <= forgettingFactor < 1 and 0 < stepSizeFactor < 1.
func NewAdaptiveMelCepstralAnalysis(numOrder, numPadeOrder int, alpha, minEpsilon, momentum, forgettingFactor, stepSizeFactor float64) *AdaptiveMelCepstralAnalysis {
	a := &AdaptiveMelCepstralAnalysis{
		minEpsilon:       minEpsilon,
		momentum:         momentum,
		forgettingFactor: forgettingFactor,
		stepSizeFactor:   stepSizeFactor,
		mlsa:             filters.NewMLSAFilter(numOrder, numPadeOrder, alpha, false),
		toMelCepstrum:    NewMLSAFilterCoefficientsToMelCepstrum(numOrder, alpha),
	}
	if minEpsilon <= 0.0 || momentum < 0.0 || momentum >= 1.0 ||
		forgettingFactor < 0.0 || forgettingFactor >= 1.0 ||
		stepSizeFactor <= 0.0 || stepSizeFactor >= 1.0 ||
		!a.mlsa.IsValid() || !a.toMelCepstrum.IsValid() {
		return a
	}
	a.valid = true
	return a
}

// GetNumOrder returns the cepstral order.
func (a *AdaptiveMelCepstralAnalysis) GetNumOrder() int {
	return a.mlsa.GetNumFilterOrder()
}

// GetAlpha returns the all-pass constant.
func (a *AdaptiveMelCepstralAnalysis) GetAlpha() float64 {
	return a.mlsa.GetAlpha()
}

// IsValid reports whether the analyzer configuration is usable.
func (a *AdaptiveMelCepstralAnalysis) IsValid() bool {
	return a.valid
}

func (a *AdaptiveMelCepstralAnalysis) prepare(buffer *AdaptiveMelCepstralAnalysisBuffer) {
	numOrder := a.GetNumOrder()
	if len(buffer.filterCoefficients) != numOrder+1 {
		buffer.filterCoefficients = make([]float64, numOrder+1)
	}
	if len(buffer.inverseFilterCoefficients) != numOrder+1 {
		buffer.inverseFilterCoefficients = make([]float64, numOrder+1)
	}
	if len(buffer.phi) != numOrder+1 {
		buffer.phi = make([]float64, numOrder+1)
	}
	if len(buffer.gradient) != numOrder {
		buffer.gradient = make([]float64, numOrder)
	}
	if !buffer.initialized {
		buffer.prevPredictionError = 0.0
		buffer.prevEpsilon = 1.0
		buffer.initialized = true
	}
}

// Run consumes one input sample, returning the prediction error and
// filling melCepstrum with the current coefficient estimate.
func (a *AdaptiveMelCepstralAnalysis) Run(inputSignal float64, melCepstrum []float64, buffer *AdaptiveMelCepstralAnalysisBuffer) (float64, error) {
	if !a.valid {
		return 0, fmt.Errorf("adaptive mel-cepstral analysis: invalid configuration")
	}
	if buffer == nil {
		return 0, fmt.Errorf("adaptive mel-cepstral analysis: nil buffer")
	}
	numOrder := a.GetNumOrder()
	if len(melCepstrum) != numOrder+1 {
		return 0, fmt.Errorf("adaptive mel-cepstral analysis: output length %d, expected %d", len(melCepstrum), numOrder+1)
	}
	a.prepare(buffer)

	// Inverse MLSA filtering with the negated current estimate.
	for m := 1; m <= numOrder; m++ {
		buffer.inverseFilterCoefficients[m] = -buffer.filterCoefficients[m]
	}
	predictionError, err := a.mlsa.Run(buffer.inverseFilterCoefficients, inputSignal, &buffer.mlsa)
	if err != nil {
		return 0, err
	}

	// Phi digital filter.
	alpha := a.GetAlpha()
	beta := 1.0 - alpha*alpha
	e := buffer.phi
	e[0] = alpha*e[0] + beta*buffer.prevPredictionError
	for i := 1; i < numOrder; i++ {
		e[i] += alpha * (e[i+1] - e[i-1])
	}
	for i := numOrder; i > 0; i-- {
		e[i] = e[i-1]
	}

	epsilon := a.forgettingFactor*buffer.prevEpsilon +
		(1.0-a.forgettingFactor)*predictionError*predictionError
	if epsilon < a.minEpsilon {
		epsilon = a.minEpsilon
	}

	if numOrder > 0 {
		sigma := 2.0 * (1.0 - a.momentum) * predictionError
		mu := a.stepSizeFactor / (float64(numOrder) * epsilon)
		for i := 0; i < numOrder; i++ {
			buffer.gradient[i] = a.momentum*buffer.gradient[i] - sigma*buffer.phi[i+1]
			buffer.filterCoefficients[i+1] -= mu * buffer.gradient[i]
		}
	}
	buffer.filterCoefficients[0] = 0.5 * math.Log(epsilon)

	buffer.prevPredictionError = predictionError
	buffer.prevEpsilon = epsilon

	if err := a.toMelCepstrum.Run(buffer.filterCoefficients, melCepstrum); err != nil {
		return 0, err
	}
	return predictionError, nil
}
