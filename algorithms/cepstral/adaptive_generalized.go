package cepstral

import (
	"fmt"
	"math"
)

// AdaptiveGeneralizedCepstralAnalysis estimates generalized cepstral
// coefficients sample by sample. The power parameter is fixed at
// gamma = -1/C for C stages, realized as a cascade of C all-zero
// filters on the normalized cepstrum.
type AdaptiveGeneralizedCepstralAnalysis struct {
	numOrder         int
	numStage         int
	minEpsilon       float64
	momentum         float64
	forgettingFactor float64
	stepSizeFactor   float64
	inverseGain      *GeneralizedCepstrumInverseGainNormalization
	valid            bool
}

// AdaptiveGeneralizedCepstralAnalysisBuffer carries the analysis state
// between samples. The zero value is ready to use.
type AdaptiveGeneralizedCepstralAnalysisBuffer struct {
	prevAdjustedError float64
	prevEpsilon       float64

	normalizedCepstrum []float64
	d                  []float64
	gradient           []float64

	initialized bool
}

// NewAdaptiveGeneralizedCepstralAnalysis creates an analyzer of order
// numOrder with numStage > 0 stages.
func NewAdaptiveGeneralizedCepstralAnalysis(numOrder, numStage int, minEpsilon, momentum, forgettingFactor, stepSizeFactor float64) *AdaptiveGeneralizedCepstralAnalysis {
	a := &AdaptiveGeneralizedCepstralAnalysis{
		numOrder:         numOrder,
		numStage:         numStage,
		minEpsilon:       minEpsilon,
		momentum:         momentum,
		forgettingFactor: forgettingFactor,
		stepSizeFactor:   stepSizeFactor,
	}
	if numStage <= 0 {
		return a
	}
	a.inverseGain = NewGeneralizedCepstrumInverseGainNormalization(numOrder, -1.0/float64(numStage))
	if numOrder < 0 || minEpsilon <= 0.0 || momentum < 0.0 || momentum >= 1.0 ||
		forgettingFactor < 0.0 || forgettingFactor >= 1.0 ||
		stepSizeFactor <= 0.0 || stepSizeFactor >= 1.0 ||
		!a.inverseGain.IsValid() {
		return a
	}
	a.valid = true
	return a
}

// GetNumOrder returns the cepstral order.
func (a *AdaptiveGeneralizedCepstralAnalysis) GetNumOrder() int {
	return a.numOrder
}

// GetNumStage returns the number of stages.
func (a *AdaptiveGeneralizedCepstralAnalysis) GetNumStage() int {
	return a.numStage
}

// GetGamma returns the power parameter -1/C.
func (a *AdaptiveGeneralizedCepstralAnalysis) GetGamma() float64 {
	return -1.0 / float64(a.numStage)
}

// IsValid reports whether the analyzer configuration is usable.
func (a *AdaptiveGeneralizedCepstralAnalysis) IsValid() bool {
	return a.valid
}

func (a *AdaptiveGeneralizedCepstralAnalysis) prepare(buffer *AdaptiveGeneralizedCepstralAnalysisBuffer) {
	if len(buffer.normalizedCepstrum) != a.numOrder+1 {
		buffer.normalizedCepstrum = make([]float64, a.numOrder+1)
	}
	if len(buffer.d) != a.numOrder*a.numStage {
		buffer.d = make([]float64, a.numOrder*a.numStage)
	}
	if len(buffer.gradient) != a.numOrder {
		buffer.gradient = make([]float64, a.numOrder)
	}
	if !buffer.initialized {
		buffer.prevAdjustedError = 1.0
		buffer.prevEpsilon = 1.0
		buffer.initialized = true
	}
}

// Run consumes one input sample, returning the prediction error and
// filling generalizedCepstrum with the current coefficient estimate.
func (a *AdaptiveGeneralizedCepstralAnalysis) Run(inputSignal float64, generalizedCepstrum []float64, buffer *AdaptiveGeneralizedCepstralAnalysisBuffer) (float64, error) {
	if !a.valid {
		return 0, fmt.Errorf("adaptive generalized cepstral analysis: invalid configuration")
	}
	if buffer == nil {
		return 0, fmt.Errorf("adaptive generalized cepstral analysis: nil buffer")
	}
	if len(generalizedCepstrum) != a.numOrder+1 {
		return 0, fmt.Errorf("adaptive generalized cepstral analysis: output length %d, expected %d", len(generalizedCepstrum), a.numOrder+1)
	}
	a.prepare(buffer)

	var lastE float64
	if len(buffer.d) > 0 {
		lastE = buffer.d[len(buffer.d)-1]
	}

	// Cascade of all-zero digital filters.
	gamma := a.GetGamma()
	x := inputSignal
	for i := 0; i < a.numStage; i++ {
		c := buffer.normalizedCepstrum[1:]
		d := buffer.d[a.numOrder*i:]
		y := 0.0
		for j := a.numOrder - 1; j > 0; j-- {
			y += c[j] * d[j]
			d[j] = d[j-1]
		}
		if a.numOrder > 0 {
			y += c[0] * d[0]
			d[0] = x
		}
		x += y * gamma
	}
	predictionError := x

	var eGamma float64
	if a.numOrder > 0 {
		eGamma = buffer.d[a.numOrder*(a.numStage-1)]
	}
	epsilon := a.forgettingFactor*buffer.prevEpsilon +
		(1.0-a.forgettingFactor)*eGamma*eGamma
	if epsilon < a.minEpsilon {
		epsilon = a.minEpsilon
	}

	if a.numOrder > 0 {
		sigma := 2.0 * (1.0 - a.momentum) * predictionError
		mu := a.stepSizeFactor / (float64(a.numOrder) * epsilon)
		e := buffer.d[a.numOrder*(a.numStage-1)+1:]
		c := buffer.normalizedCepstrum[1:]
		for i := 0; i < a.numOrder; i++ {
			f := lastE
			if i != a.numOrder-1 {
				f = e[i]
			}
			buffer.gradient[i] = a.momentum*buffer.gradient[i] - sigma*f
			c[i] -= mu * buffer.gradient[i]
		}
	}

	adjustedError := a.forgettingFactor*buffer.prevAdjustedError +
		(1.0-a.forgettingFactor)*predictionError*predictionError
	buffer.normalizedCepstrum[0] = math.Sqrt(adjustedError)

	buffer.prevAdjustedError = adjustedError
	buffer.prevEpsilon = epsilon

	if err := a.inverseGain.Run(buffer.normalizedCepstrum, generalizedCepstrum); err != nil {
		return 0, err
	}
	return predictionError, nil
}
