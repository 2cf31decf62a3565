package cepstral

import (
	"fmt"
)

// AdaptiveMelGeneralizedCepstralAnalysis dispatches between the mel
// analyzer (numStage == 0) and the generalized analyzer (numStage > 0
// with alpha == 0). Combining warping and stages is not supported.
type AdaptiveMelGeneralizedCepstralAnalysis struct {
	numStage    int
	mel         *AdaptiveMelCepstralAnalysis
	generalized *AdaptiveGeneralizedCepstralAnalysis
	valid       bool
}

// AdaptiveMelGeneralizedCepstralAnalysisBuffer carries state for
// whichever analyzer is active.
type AdaptiveMelGeneralizedCepstralAnalysisBuffer struct {
	mel         AdaptiveMelCepstralAnalysisBuffer
	generalized AdaptiveGeneralizedCepstralAnalysisBuffer
}

// NewAdaptiveMelGeneralizedCepstralAnalysis creates a dispatching
// analyzer. numPadeOrder and alpha apply to the mel path only.
func NewAdaptiveMelGeneralizedCepstralAnalysis(numOrder, numPadeOrder, numStage int, alpha, minEpsilon, momentum, forgettingFactor, stepSizeFactor float64) *AdaptiveMelGeneralizedCepstralAnalysis {
	a := &AdaptiveMelGeneralizedCepstralAnalysis{
		numStage: numStage,
	}
	if numStage != 0 && alpha != 0.0 {
		return a
	}
	if numStage == 0 {
		a.mel = NewAdaptiveMelCepstralAnalysis(numOrder, numPadeOrder, alpha,
			minEpsilon, momentum, forgettingFactor, stepSizeFactor)
		a.valid = a.mel.IsValid()
	} else {
		a.generalized = NewAdaptiveGeneralizedCepstralAnalysis(numOrder, numStage,
			minEpsilon, momentum, forgettingFactor, stepSizeFactor)
		a.valid = a.generalized.IsValid()
	}
	return a
}

// GetNumStage returns the number of stages.
func (a *AdaptiveMelGeneralizedCepstralAnalysis) GetNumStage() int {
	return a.numStage
}

// IsValid reports whether the analyzer configuration is usable.
func (a *AdaptiveMelGeneralizedCepstralAnalysis) IsValid() bool {
	return a.valid
}

// Run consumes one input sample, returning the prediction error and
// filling cepstrum with the current coefficient estimate.
func (a *AdaptiveMelGeneralizedCepstralAnalysis) Run(inputSignal float64, cepstrum []float64, buffer *AdaptiveMelGeneralizedCepstralAnalysisBuffer) (float64, error) {
	if !a.valid {
		return 0, fmt.Errorf("adaptive mel-generalized cepstral analysis: invalid configuration")
	}
	if buffer == nil {
		return 0, fmt.Errorf("adaptive mel-generalized cepstral analysis: nil buffer")
	}
	if a.numStage == 0 {
		return a.mel.Run(inputSignal, cepstrum, &buffer.mel)
	}
	return a.generalized.Run(inputSignal, cepstrum, &buffer.generalized)
}
