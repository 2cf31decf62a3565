package cepstral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonidolab/cepstra/algorithms/filters"
)

func TestMelCepstrumConversionRoundTrip(t *testing.T) {
	const order = 9
	toFilter := NewMelCepstrumToMLSAFilterCoefficients(order, 0.42)
	toCepstrum := NewMLSAFilterCoefficientsToMelCepstrum(order, 0.42)
	require.True(t, toFilter.IsValid())
	require.True(t, toCepstrum.IsValid())

	rng := rand.New(rand.NewSource(3))
	cepstrum := make([]float64, order+1)
	for i := range cepstrum {
		cepstrum[i] = rng.NormFloat64()
	}

	filterCoefficients := make([]float64, order+1)
	recovered := make([]float64, order+1)
	require.NoError(t, toFilter.Run(cepstrum, filterCoefficients))
	require.NoError(t, toCepstrum.Run(filterCoefficients, recovered))
	assert.InDeltaSlice(t, cepstrum, recovered, 1e-12)
}

func TestMelCepstrumConversionInPlace(t *testing.T) {
	toCepstrum := NewMLSAFilterCoefficientsToMelCepstrum(2, 0.42)
	require.True(t, toCepstrum.IsValid())

	coefficients := []float64{1.0, 2.0, 3.0}
	separate := make([]float64, 3)
	require.NoError(t, toCepstrum.Run(coefficients, separate))
	assert.InDeltaSlice(t, []float64{1.84, 3.26, 3.0}, separate, 1e-15)

	// Aliased output must match the separate-slice result.
	require.NoError(t, toCepstrum.Run(coefficients, coefficients))
	assert.InDeltaSlice(t, separate, coefficients, 1e-15)

	toFilter := NewMelCepstrumToMLSAFilterCoefficients(2, 0.42)
	cepstrum := append([]float64(nil), separate...)
	require.NoError(t, toFilter.Run(cepstrum, cepstrum))
	assert.InDeltaSlice(t, []float64{1.0, 2.0, 3.0}, cepstrum, 1e-12)
}

func TestMelCepstrumConversionZeroAlpha(t *testing.T) {
	toFilter := NewMelCepstrumToMLSAFilterCoefficients(3, 0.0)
	input := []float64{1.0, -0.5, 0.25, 2.0}
	output := make([]float64, 4)
	require.NoError(t, toFilter.Run(input, output))
	assert.Equal(t, input, output)
}

func TestMelCepstrumConversionInvalidConfig(t *testing.T) {
	assert.False(t, NewMelCepstrumToMLSAFilterCoefficients(-1, 0.42).IsValid())
	assert.False(t, NewMelCepstrumToMLSAFilterCoefficients(4, 1.0).IsValid())
	assert.False(t, NewMLSAFilterCoefficientsToMelCepstrum(4, -1.5).IsValid())
}

func TestGainNormalizationRoundTrip(t *testing.T) {
	const order = 6
	rng := rand.New(rand.NewSource(11))

	for _, gamma := range []float64{0.0, -0.5, -1.0, 1.0} {
		forward := NewGeneralizedCepstrumGainNormalization(order, gamma)
		inverse := NewGeneralizedCepstrumInverseGainNormalization(order, gamma)
		require.True(t, forward.IsValid(), "gamma %v", gamma)
		require.True(t, inverse.IsValid(), "gamma %v", gamma)

		cepstrum := make([]float64, order+1)
		cepstrum[0] = 0.3
		for i := 1; i <= order; i++ {
			cepstrum[i] = 0.2 * rng.NormFloat64()
		}

		normalized := make([]float64, order+1)
		recovered := make([]float64, order+1)
		require.NoError(t, forward.Run(cepstrum, normalized))
		require.NoError(t, inverse.Run(normalized, recovered))
		assert.InDeltaSlice(t, cepstrum, recovered, 1e-12, "gamma %v", gamma)
	}
}

func TestGainNormalizationZeroGamma(t *testing.T) {
	forward := NewGeneralizedCepstrumGainNormalization(2, 0.0)
	output := make([]float64, 3)
	require.NoError(t, forward.Run([]float64{1.0, 0.5, -0.5}, output))
	assert.InDelta(t, math.E, output[0], 1e-12)
	assert.Equal(t, 0.5, output[1])
	assert.Equal(t, -0.5, output[2])

	assert.False(t, NewGeneralizedCepstrumGainNormalization(2, 1.5).IsValid())
}

func TestAdaptiveMelCepstralAnalysisZeroInput(t *testing.T) {
	const order = 4
	a := NewAdaptiveMelCepstralAnalysis(order, 5, 0.42, 1e-16, 0.9, 0.98, 0.1)
	require.True(t, a.IsValid())

	var buffer AdaptiveMelCepstralAnalysisBuffer
	melCepstrum := make([]float64, order+1)
	epsilon := 1.0
	for i := 0; i < 10; i++ {
		predictionError, err := a.Run(0.0, melCepstrum, &buffer)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, predictionError, 1e-30)

		epsilon *= 0.98
		assert.InDelta(t, 0.5*math.Log(epsilon), melCepstrum[0], 1e-12, "sample %d", i)
		for m := 1; m <= order; m++ {
			assert.InDelta(t, 0.0, melCepstrum[m], 1e-30, "sample %d coefficient %d", i, m)
		}
	}
}

func TestAdaptiveMelCepstralAnalysisWhitens(t *testing.T) {
	const order = 8
	synthesis := filters.NewMLSAFilter(order, 5, 0.42, false)
	require.True(t, synthesis.IsValid())

	b := make([]float64, order+1)
	b[0] = 0.5
	for m := 1; m <= order; m++ {
		b[m] = 0.8 / float64(m*m+1)
	}

	analysis := NewAdaptiveMelCepstralAnalysis(order, 5, 0.42, 1e-16, 0.9, 0.98, 0.1)
	require.True(t, analysis.IsValid())

	rng := rand.New(rand.NewSource(17))
	var synthesisBuffer filters.MLSAFilterBuffer
	var analysisBuffer AdaptiveMelCepstralAnalysisBuffer
	melCepstrum := make([]float64, order+1)

	const n = 4000
	signalPower := 0.0
	errorPower := 0.0
	for i := 0; i < n; i++ {
		excitation := rng.NormFloat64()
		signal, err := synthesis.Run(b, excitation, &synthesisBuffer)
		require.NoError(t, err)
		predictionError, err := analysis.Run(signal, melCepstrum, &analysisBuffer)
		require.NoError(t, err)

		if i >= n/2 {
			signalPower += signal * signal
			errorPower += predictionError * predictionError
		}
	}

	// The adaptive inverse filter should remove most of the spectral
	// shaping and gain.
	assert.Less(t, errorPower, signalPower)
	for m := 0; m <= order; m++ {
		assert.False(t, math.IsNaN(melCepstrum[m]), "coefficient %d", m)
	}
}

func TestAdaptiveMelCepstralAnalysisInvalidConfig(t *testing.T) {
	assert.False(t, NewAdaptiveMelCepstralAnalysis(4, 5, 0.42, 0.0, 0.9, 0.98, 0.1).IsValid())
	assert.False(t, NewAdaptiveMelCepstralAnalysis(4, 5, 0.42, 1e-16, 1.0, 0.98, 0.1).IsValid())
	assert.False(t, NewAdaptiveMelCepstralAnalysis(4, 5, 0.42, 1e-16, 0.9, 1.0, 0.1).IsValid())
	assert.False(t, NewAdaptiveMelCepstralAnalysis(4, 5, 0.42, 1e-16, 0.9, 0.98, 1.0).IsValid())
	assert.False(t, NewAdaptiveMelCepstralAnalysis(4, 3, 0.42, 1e-16, 0.9, 0.98, 0.1).IsValid())
	assert.False(t, NewAdaptiveMelCepstralAnalysis(-1, 5, 0.42, 1e-16, 0.9, 0.98, 0.1).IsValid())
}

func TestAdaptiveGeneralizedCepstralAnalysisZeroInput(t *testing.T) {
	const order = 4
	a := NewAdaptiveGeneralizedCepstralAnalysis(order, 2, 1e-16, 0.9, 0.98, 0.1)
	require.True(t, a.IsValid())
	assert.InDelta(t, -0.5, a.GetGamma(), 1e-15)

	var buffer AdaptiveGeneralizedCepstralAnalysisBuffer
	cepstrum := make([]float64, order+1)
	for i := 0; i < 10; i++ {
		predictionError, err := a.Run(0.0, cepstrum, &buffer)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, predictionError, 1e-30)
		for m := 1; m <= order; m++ {
			assert.InDelta(t, 0.0, cepstrum[m], 1e-30, "sample %d coefficient %d", i, m)
		}
	}
}

func TestAdaptiveGeneralizedCepstralAnalysisReducesError(t *testing.T) {
	const order = 6
	analysis := NewAdaptiveGeneralizedCepstralAnalysis(order, 2, 1e-16, 0.9, 0.98, 0.1)
	require.True(t, analysis.IsValid())

	// Feed an AR-shaped signal; the cascade should track it.
	rng := rand.New(rand.NewSource(29))
	var buffer AdaptiveGeneralizedCepstralAnalysisBuffer
	cepstrum := make([]float64, order+1)

	const n = 4000
	signalPower := 0.0
	errorPower := 0.0
	var s1, s2 float64
	for i := 0; i < n; i++ {
		signal := rng.NormFloat64() + 1.2*s1 - 0.6*s2
		s2, s1 = s1, signal

		predictionError, err := analysis.Run(signal, cepstrum, &buffer)
		require.NoError(t, err)
		if i >= n/2 {
			signalPower += signal * signal
			errorPower += predictionError * predictionError
		}
	}
	assert.Less(t, errorPower, signalPower)
}

func TestAdaptiveGeneralizedCepstralAnalysisInvalidConfig(t *testing.T) {
	assert.False(t, NewAdaptiveGeneralizedCepstralAnalysis(4, 0, 1e-16, 0.9, 0.98, 0.1).IsValid())
	assert.False(t, NewAdaptiveGeneralizedCepstralAnalysis(-1, 2, 1e-16, 0.9, 0.98, 0.1).IsValid())
	assert.False(t, NewAdaptiveGeneralizedCepstralAnalysis(4, 2, -1.0, 0.9, 0.98, 0.1).IsValid())
}

func TestAdaptiveMelGeneralizedCepstralAnalysisDispatch(t *testing.T) {
	// Warping combined with stages is unsupported.
	assert.False(t, NewAdaptiveMelGeneralizedCepstralAnalysis(4, 5, 2, 0.42, 1e-16, 0.9, 0.98, 0.1).IsValid())

	mel := NewAdaptiveMelGeneralizedCepstralAnalysis(4, 5, 0, 0.42, 1e-16, 0.9, 0.98, 0.1)
	require.True(t, mel.IsValid())

	generalized := NewAdaptiveMelGeneralizedCepstralAnalysis(4, 5, 2, 0.0, 1e-16, 0.9, 0.98, 0.1)
	require.True(t, generalized.IsValid())

	var melBuffer, generalizedBuffer AdaptiveMelGeneralizedCepstralAnalysisBuffer
	cepstrum := make([]float64, 5)
	_, err := mel.Run(0.25, cepstrum, &melBuffer)
	require.NoError(t, err)
	_, err = generalized.Run(0.25, cepstrum, &generalizedBuffer)
	require.NoError(t, err)
}
